package domain

import (
	"errors"
	"fmt"
)

// ErrRoomInvariant is returned when a room adjustment would leave a package
// outside [0, capacity].
var ErrRoomInvariant = errors.New("room count out of range")

// CheckRoomAdjust applies delta to available and returns the new count.
// Booking creation passes a negative delta, cancellation a positive one and
// capacity edits the capacity difference.
func CheckRoomAdjust(available, capacity, delta int) (int, error) {
	if capacity < 0 || available < 0 || available > capacity {
		return available, fmt.Errorf("%w: available=%d capacity=%d", ErrRoomInvariant, available, capacity)
	}
	next := available + delta
	if next < 0 || next > capacity {
		return available, fmt.Errorf("%w: available=%d capacity=%d delta=%d", ErrRoomInvariant, available, capacity, delta)
	}
	return next, nil
}

// CanAdjustRooms is the boolean form of CheckRoomAdjust.
func CanAdjustRooms(available, capacity, delta int) bool {
	_, err := CheckRoomAdjust(available, capacity, delta)
	return err == nil
}

// ResizeCapacity returns the availability after changing capacity from
// oldCap to newCap. Rooms already held by bookings stay held.
func ResizeCapacity(available, oldCap, newCap int) (int, error) {
	if newCap < 1 {
		return available, fmt.Errorf("%w: capacity must be at least 1", ErrRoomInvariant)
	}
	if _, err := CheckRoomAdjust(available, oldCap, 0); err != nil {
		return available, err
	}
	next := available + (newCap - oldCap)
	if next < 0 {
		return available, fmt.Errorf("%w: %d rooms held, capacity %d", ErrRoomInvariant, oldCap-available, newCap)
	}
	return next, nil
}
