package domain

import (
	"errors"
	"math/rand"
	"testing"
)

func TestCheckRoomAdjust(t *testing.T) {
	cases := []struct {
		name                  string
		available, cap, delta int
		want                  int
		wantErr               bool
	}{
		{"book within stock", 5, 10, -3, 2, false},
		{"book all", 5, 10, -5, 0, false},
		{"book too many", 2, 10, -3, 2, true},
		{"restore to capacity", 7, 10, 3, 10, false},
		{"restore past capacity", 9, 10, 2, 9, true},
		{"noop", 4, 4, 0, 4, false},
		{"bad state", 11, 10, 0, 11, true},
		{"negative state", -1, 10, 1, -1, true},
	}
	for _, tc := range cases {
		got, err := CheckRoomAdjust(tc.available, tc.cap, tc.delta)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: err=%v wantErr=%v", tc.name, err, tc.wantErr)
		}
		if err != nil && !errors.Is(err, ErrRoomInvariant) {
			t.Fatalf("%s: expected ErrRoomInvariant, got %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, got, tc.want)
		}
		if CanAdjustRooms(tc.available, tc.cap, tc.delta) == tc.wantErr {
			t.Fatalf("%s: CanAdjustRooms disagrees with CheckRoomAdjust", tc.name)
		}
	}
}

func TestCheckRoomAdjustRandomSequenceStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const capacity = 8
	available := capacity
	for i := 0; i < 5000; i++ {
		delta := rng.Intn(2*capacity+1) - capacity
		next, err := CheckRoomAdjust(available, capacity, delta)
		if err == nil {
			available = next
		} else if next != available {
			t.Fatalf("rejected adjust must not change count: %d -> %d", available, next)
		}
		if available < 0 || available > capacity {
			t.Fatalf("step %d: available %d escaped [0,%d]", i, available, capacity)
		}
	}
}

func TestResizeCapacity(t *testing.T) {
	// 3 rooms held (7 of 10 available).
	got, err := ResizeCapacity(7, 10, 15)
	if err != nil || got != 12 {
		t.Fatalf("grow: got %d err %v", got, err)
	}
	got, err = ResizeCapacity(7, 10, 3)
	if err != nil || got != 0 {
		t.Fatalf("shrink to held: got %d err %v", got, err)
	}
	if _, err := ResizeCapacity(7, 10, 2); !errors.Is(err, ErrRoomInvariant) {
		t.Fatalf("shrink below held should fail, got %v", err)
	}
	if _, err := ResizeCapacity(0, 1, 0); !errors.Is(err, ErrRoomInvariant) {
		t.Fatalf("zero capacity should fail, got %v", err)
	}
}
