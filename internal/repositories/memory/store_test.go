package memory

import (
	"context"
	"errors"
	"testing"

	"travelbook/internal/domain/models"
	"travelbook/internal/repositories"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	err := s.Inventory().CreateHotel(context.Background(), models.Hotel{
		HotelID: "h1",
		Name:    "Lagoon Resort",
		Email:   "lagoon@example.com",
		Phone:   "111",
		Packages: []models.Package{
			{Name: "Deluxe", Capacity: 5, RoomsAvailable: 5},
		},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestAtomicRollsBackOnError(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Atomic(ctx, func(tx repositories.Store) error {
		if err := tx.Inventory().AdjustRoomCount(ctx, "Lagoon Resort", "Deluxe", -3); err != nil {
			return err
		}
		if err := tx.Bookings().Create(ctx, models.Booking{BookingID: "b1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	p, err := s.Inventory().GetPackage(ctx, "Lagoon Resort", "Deluxe")
	if err != nil {
		t.Fatalf("get package: %v", err)
	}
	if p.RoomsAvailable != 5 {
		t.Fatalf("rooms not rolled back: %d", p.RoomsAvailable)
	}
	if _, err := s.Bookings().Get(ctx, "b1"); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("booking should not exist, got %v", err)
	}
}

func TestAtomicCommits(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	err := s.Atomic(ctx, func(tx repositories.Store) error {
		return tx.Inventory().AdjustRoomCount(ctx, "lagoon resort", "DELUXE", -2)
	})
	if err != nil {
		t.Fatalf("atomic: %v", err)
	}
	p, _ := s.Inventory().GetPackage(ctx, "Lagoon Resort", "Deluxe")
	if p.RoomsAvailable != 3 {
		t.Fatalf("expected 3 rooms, got %d", p.RoomsAvailable)
	}
}

func TestAdjustRoomCountBounds(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	if err := s.Inventory().AdjustRoomCount(ctx, "Lagoon Resort", "Deluxe", -6); !errors.Is(err, repositories.ErrInvariant) {
		t.Fatalf("overbook should fail with ErrInvariant, got %v", err)
	}
	if err := s.Inventory().AdjustRoomCount(ctx, "Lagoon Resort", "Deluxe", 1); !errors.Is(err, repositories.ErrInvariant) {
		t.Fatalf("restore past capacity should fail with ErrInvariant, got %v", err)
	}
	if err := s.Inventory().AdjustRoomCount(ctx, "Lagoon Resort", "Suite", -1); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("missing package should be ErrNotFound, got %v", err)
	}
	if err := s.Inventory().AdjustRoomCount(ctx, "Nowhere", "Deluxe", -1); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("missing hotel should be ErrNotFound, got %v", err)
	}
}

func TestHotelUniqueness(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	dup := models.Hotel{HotelID: "h2", Name: "Other", Email: "LAGOON@example.com", Phone: "222"}
	if err := s.Inventory().CreateHotel(ctx, dup); !errors.Is(err, repositories.ErrDuplicate) {
		t.Fatalf("duplicate email should fail, got %v", err)
	}
	if err := s.Inventory().AddPackage(ctx, "h1", models.Package{Name: "deluxe", Capacity: 1}); !errors.Is(err, repositories.ErrDuplicate) {
		t.Fatalf("duplicate package should fail, got %v", err)
	}
}

func TestReadsReturnCopies(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	h, _ := s.Inventory().GetHotel(ctx, "h1")
	h.Packages[0].RoomsAvailable = 0

	again, _ := s.Inventory().GetHotel(ctx, "h1")
	if again.Packages[0].RoomsAvailable != 5 {
		t.Fatalf("caller mutation leaked into the store")
	}
}

func TestListBookingsNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Bookings().Create(ctx, models.Booking{BookingID: id, UserName: "ana", Status: models.BookingConfirmed}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	out, err := s.Bookings().List(ctx, models.BookingFilter{UserName: "ANA"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 3 || out[0].BookingID != "c" || out[2].BookingID != "a" {
		t.Fatalf("unexpected order: %+v", out)
	}
}

func TestDestinationsRollBackAndCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Atomic(ctx, func(tx repositories.Store) error {
		if err := tx.Destinations().Create(ctx, models.Destination{DestinationID: "d1", Name: "Ubud", Country: "Indonesia"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := s.Destinations().Get(ctx, "d1"); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("rolled back destination still visible: %v", err)
	}

	if err := s.Destinations().Create(ctx, models.Destination{DestinationID: "d1", Name: "Ubud", Country: "Indonesia", Highlights: []string{"Temples"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Destinations().Create(ctx, models.Destination{DestinationID: "d2", Name: "UBUD", Country: "indonesia"}); !errors.Is(err, repositories.ErrDuplicate) {
		t.Fatalf("expected duplicate (name, country), got %v", err)
	}
	d, _ := s.Destinations().Get(ctx, "d1")
	d.Highlights[0] = "changed"
	again, _ := s.Destinations().Get(ctx, "d1")
	if again.Highlights[0] != "Temples" {
		t.Fatalf("Get must return a copy")
	}
}

func TestRenameHotelMovesBookings(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, b := range []models.Booking{
		{BookingID: "b1", HotelName: "Lagoon Resort"},
		{BookingID: "b2", HotelName: "lagoon resort"},
		{BookingID: "b3", HotelName: "Other"},
	} {
		if err := s.Bookings().Create(ctx, b); err != nil {
			t.Fatalf("create %s: %v", b.BookingID, err)
		}
	}
	n, err := s.Bookings().RenameHotel(ctx, "Lagoon Resort", "Lagoon Resort & Spa")
	if err != nil || n != 2 {
		t.Fatalf("expected 2 moved, got n=%d err=%v", n, err)
	}
	list, _ := s.Bookings().List(ctx, models.BookingFilter{HotelName: "Lagoon Resort & Spa"})
	if len(list) != 2 {
		t.Fatalf("expected 2 bookings under new name, got %d", len(list))
	}
}
