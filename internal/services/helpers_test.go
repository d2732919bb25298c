package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"travelbook/internal/domain/models"
	"travelbook/internal/events"
	"travelbook/internal/repositories"
	"travelbook/internal/repositories/memory"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// newFixture returns a memory store holding "Lagoon Resort" with a
// "Deluxe" package of 5 available rooms.
func newFixture(t *testing.T) (BookingService, *memory.Store, *recordingPublisher) {
	t.Helper()
	store := memory.New()
	inv := InventoryService{Store: store, Clock: fixedClock}
	_, err := inv.CreateHotel(context.Background(), models.Hotel{
		HotelID:    "h1",
		Name:       "Lagoon Resort",
		Address:    "1 Beach Road",
		City:       "Bali",
		Email:      "stay@lagoon.example",
		Phone:      "+62 361 000",
		StarRating: 5,
		Packages: []models.Package{
			{Name: "Deluxe", Price: 120, Capacity: 5, RoomsAvailable: 5},
		},
	})
	if err != nil {
		t.Fatalf("seed hotel: %v", err)
	}
	pub := &recordingPublisher{}
	return BookingService{Store: store, Events: pub, Clock: fixedClock}, store, pub
}

func bookingInput(id string, rooms int) CreateBookingInput {
	return CreateBookingInput{
		BookingID:   id,
		UserName:    "ana",
		HotelName:   "Lagoon Resort",
		PackageName: "Deluxe",
		Rooms:       rooms,
		BookingFrom: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		BookingTo:   time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
		Payment: models.PaymentInput{
			CardType:   "visa",
			CardNumber: "4111111111111111",
			CVV:        "123",
			CardExpiry: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			Amount:     360,
		},
	}
}

func roomsAvailable(t *testing.T, store repositories.Store) int {
	t.Helper()
	p, err := store.Inventory().GetPackage(context.Background(), "Lagoon Resort", "Deluxe")
	if err != nil {
		t.Fatalf("get package: %v", err)
	}
	return p.RoomsAvailable
}
