// Package events publishes booking lifecycle events. Publishing happens after
// commit and is best effort: failures are logged, never returned to clients.
package events

import (
	"context"
	"time"

	"travelbook/internal/domain/models"
)

const (
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"
)

type Event struct {
	Type        string               `json:"type"`
	BookingID   string               `json:"booking_id"`
	UserName    string               `json:"user_name"`
	HotelName   string               `json:"hotel_name"`
	PackageName string               `json:"package_name"`
	Rooms       int                  `json:"rooms"`
	Status      models.BookingStatus `json:"status"`
	Warning     string               `json:"warning,omitempty"`
	OccurredAt  time.Time            `json:"occurred_at"`
}

// FromBooking builds an event of the given type from b.
func FromBooking(typ string, b models.Booking, at time.Time) Event {
	return Event{
		Type:        typ,
		BookingID:   b.BookingID,
		UserName:    b.UserName,
		HotelName:   b.HotelName,
		PackageName: b.PackageName,
		Rooms:       b.Rooms,
		Status:      b.Status,
		OccurredAt:  at.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
