package services

import (
	"context"
	"errors"
	"testing"

	"travelbook/internal/domain"
	"travelbook/internal/domain/models"
)

func intPtr(n int) *int { return &n }

func TestCreateHotelUniqueness(t *testing.T) {
	_, store, _ := newFixture(t)
	svc := InventoryService{Store: store}

	_, err := svc.CreateHotel(context.Background(), models.Hotel{
		Name:       "Other Resort",
		Address:    "2 Beach Road",
		Email:      "STAY@lagoon.example",
		Phone:      "+62 361 999",
		StarRating: 4,
	})
	var cerr domain.ConflictError
	if !errors.As(err, &cerr) || cerr.Kind != domain.ConflictUnique {
		t.Fatalf("expected uniqueness conflict, got %v", err)
	}
}

func TestCreateHotelValidatesPackages(t *testing.T) {
	_, store, _ := newFixture(t)
	svc := InventoryService{Store: store}

	_, err := svc.CreateHotel(context.Background(), models.Hotel{
		Name:       "Zero Rooms Inn",
		Address:    "3 Beach Road",
		Email:      "zero@example.com",
		Phone:      "123",
		StarRating: 3,
		Packages:   []models.Package{{Name: "Standard", Capacity: 0}},
	})
	if !domain.IsValidation(err) {
		t.Fatalf("zero-capacity package must be rejected, got %v", err)
	}
}

func TestUpdatePackageCapacity(t *testing.T) {
	bookings, store, _ := newFixture(t)
	svc := InventoryService{Store: store}
	ctx := context.Background()

	if _, err := bookings.CreateBooking(ctx, bookingInput("b1", 3)); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	p, err := svc.UpdatePackage(ctx, "h1", "deluxe", models.PackageUpdate{Capacity: intPtr(8)})
	if err != nil {
		t.Fatalf("grow: %v", err)
	}
	if p.Capacity != 8 || p.RoomsAvailable != 5 {
		t.Fatalf("grow: unexpected %+v", p)
	}

	_, err = svc.UpdatePackage(ctx, "h1", "Deluxe", models.PackageUpdate{Capacity: intPtr(2)})
	if !domain.IsInsufficientInventory(err) {
		t.Fatalf("shrinking below held rooms should fail, got %v", err)
	}

	p, err = svc.UpdatePackage(ctx, "h1", "Deluxe", models.PackageUpdate{Capacity: intPtr(3)})
	if err != nil || p.RoomsAvailable != 0 {
		t.Fatalf("shrink to held: %+v %v", p, err)
	}
	if _, err := bookings.CancelBooking(ctx, "b1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := roomsAvailable(t, store); got != 3 {
		t.Fatalf("expected all 3 rooms back, got %d", got)
	}
}

func TestAddAndRemovePackage(t *testing.T) {
	_, store, _ := newFixture(t)
	svc := InventoryService{Store: store}
	ctx := context.Background()

	if _, err := svc.AddPackage(ctx, "h1", models.Package{Name: "Suite", Capacity: 2, RoomsAvailable: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddPackage(ctx, "h1", models.Package{Name: "SUITE", Capacity: 1, RoomsAvailable: 1}); !domain.IsConflict(err) {
		t.Fatalf("duplicate package should conflict, got %v", err)
	}
	if _, err := svc.AddPackage(ctx, "missing", models.Package{Name: "X", Capacity: 1}); !domain.IsNotFound(err) {
		t.Fatalf("unknown hotel should be not found, got %v", err)
	}
	if err := svc.RemovePackage(ctx, "h1", "suite"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	h, err := svc.GetHotel(ctx, "h1")
	if err != nil || len(h.Packages) != 1 {
		t.Fatalf("expected one package left: %+v %v", h.Packages, err)
	}
}

func TestListHotelsByCity(t *testing.T) {
	_, store, _ := newFixture(t)
	svc := InventoryService{Store: store}
	ctx := context.Background()

	out, err := svc.ListHotels(ctx, "bali")
	if err != nil || len(out) != 1 {
		t.Fatalf("bali: %d %v", len(out), err)
	}
	out, err = svc.ListHotels(ctx, "Paris")
	if err != nil || len(out) != 0 {
		t.Fatalf("paris: %d %v", len(out), err)
	}
}

func TestUpdateAndDeleteHotel(t *testing.T) {
	_, store, _ := newFixture(t)
	svc := InventoryService{Store: store}
	ctx := context.Background()

	stars := 4
	city := "Ubud"
	h, err := svc.UpdateHotel(ctx, "h1", models.HotelUpdate{StarRating: &stars, City: &city})
	if err != nil || h.StarRating != 4 || h.City != "Ubud" || len(h.Packages) != 1 {
		t.Fatalf("update: %+v %v", h, err)
	}
	bad := 9
	if _, err := svc.UpdateHotel(ctx, "h1", models.HotelUpdate{StarRating: &bad}); !domain.IsValidation(err) {
		t.Fatalf("star rating 9 should be rejected, got %v", err)
	}
	if err := svc.DeleteHotel(ctx, "h1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetHotel(ctx, "h1"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestRenameHotelRepointsBookings(t *testing.T) {
	svc, store, _ := newFixture(t)
	ctx := context.Background()
	if _, err := svc.CreateBooking(ctx, bookingInput("b1", 3)); err != nil {
		t.Fatalf("create: %v", err)
	}

	inv := InventoryService{Store: store}
	renamed := "Lagoon Resort & Spa"
	if _, err := inv.UpdateHotel(ctx, "h1", models.HotelUpdate{Name: &renamed}); err != nil {
		t.Fatalf("rename: %v", err)
	}

	listed, err := svc.ListByHotel(ctx, renamed)
	if err != nil || len(listed) != 1 || listed[0].HotelName != renamed {
		t.Fatalf("bookings under renamed hotel: %+v %v", listed, err)
	}

	res, err := svc.CancelBooking(ctx, "b1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if res.Warning != "" {
		t.Fatalf("rooms should be restored after rename, got warning %q", res.Warning)
	}
	p, err := store.Inventory().GetPackage(ctx, renamed, "Deluxe")
	if err != nil {
		t.Fatalf("get package: %v", err)
	}
	if p.RoomsAvailable != p.Capacity {
		t.Fatalf("expected %d rooms back, got %d", p.Capacity, p.RoomsAvailable)
	}
}
