package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"travelbook/internal/domain"
	"travelbook/internal/domain/models"
)

func TestDocsServiceGenerateVoucher(t *testing.T) {
	loader := func(_ context.Context, id string) (voucherData, error) {
		return voucherData{
			Booking: models.Booking{
				BookingID:   id,
				UserName:    "Ana Maria",
				HotelName:   "Lagoon Resort",
				PackageName: "Deluxe",
				Rooms:       2,
				BookingFrom: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
				BookingTo:   time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
				Payment:     models.PaymentSnapshot{CardType: "visa", CardNumber: "************1111", Amount: 360},
				Status:      models.BookingConfirmed,
			},
			HotelAddress: "1 Beach Road, Bali",
			Inclusions:   []string{"Breakfast", "Airport transfer"},
		}, nil
	}

	svc := DocsService{Loader: loader, Clock: fixedClock}
	pdf, filename, err := svc.GenerateVoucher(context.Background(), "b1")
	if err != nil {
		t.Fatalf("GenerateVoucher returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if filename != "VOUCHER_b1_Ana_Maria.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}
}

func TestDocsServiceLoadsFromStore(t *testing.T) {
	bookings, store, _ := newFixture(t)
	ctx := context.Background()
	if _, err := bookings.CreateBooking(ctx, bookingInput("b1", 1)); err != nil {
		t.Fatalf("create: %v", err)
	}

	svc := DocsService{Store: store, Clock: fixedClock}
	pdf, filename, err := svc.GenerateVoucher(ctx, "b1")
	if err != nil || len(pdf) == 0 {
		t.Fatalf("GenerateVoucher: %v", err)
	}
	if !strings.HasPrefix(filename, "VOUCHER_b1_") {
		t.Fatalf("unexpected filename %q", filename)
	}
	if _, _, err := svc.GenerateVoucher(ctx, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSafeFilenamePart(t *testing.T) {
	if got := safeFilenamePart(`a/b:c*d`); got != "a_b_c_d" {
		t.Fatalf("got %q", got)
	}
	if got := safeFilenamePart("  "); got != "NA" {
		t.Fatalf("got %q", got)
	}
}
