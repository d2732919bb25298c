package models

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// CanTransition reports whether s -> to is allowed. Only confirmed bookings
// move, and never back.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	if s != BookingConfirmed {
		return false
	}
	return to == BookingCancelled || to == BookingCompleted
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Booking reserves rooms of a hotel package for a date range.
type Booking struct {
	BookingID   string          `json:"booking_id"`
	UserName    string          `json:"user_name"`
	HotelName   string          `json:"hotel_name"`
	PackageName string          `json:"package_name"`
	Rooms       int             `json:"rooms"`
	BookingFrom time.Time       `json:"booking_from"`
	BookingTo   time.Time       `json:"booking_to"`
	Payment     PaymentSnapshot `json:"payment"`
	Status      BookingStatus   `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BookingUpdate supports PATCH-style updates via key presence.
type BookingUpdate struct {
	UserName    *string       `json:"user_name,omitempty"`
	BookingFrom *time.Time    `json:"booking_from,omitempty"`
	BookingTo   *time.Time    `json:"booking_to,omitempty"`
	Payment     *PaymentInput `json:"payment,omitempty"`
}

func (u BookingUpdate) Empty() bool {
	return u.UserName == nil && u.BookingFrom == nil && u.BookingTo == nil && u.Payment == nil
}

// BookingFilter narrows booking listings. Empty fields match everything.
type BookingFilter struct {
	UserName  string
	HotelName string
	Status    BookingStatus
}

// StatusChange is one row of a booking's status history.
type StatusChange struct {
	BookingID string        `json:"booking_id"`
	From      BookingStatus `json:"from"`
	To        BookingStatus `json:"to"`
	Note      string        `json:"note,omitempty"`
	At        time.Time     `json:"at"`
}

// CancelResult is returned by cancellation; Warning is set when rooms could
// not be returned to the package.
type CancelResult struct {
	Booking Booking `json:"booking"`
	Warning string  `json:"warning,omitempty"`
}
