package models

import (
	"testing"
	"time"
)

func TestBookingStatusTransitions(t *testing.T) {
	allowed := map[[2]BookingStatus]bool{
		{BookingConfirmed, BookingCancelled}: true,
		{BookingConfirmed, BookingCompleted}: true,
	}
	all := []BookingStatus{BookingConfirmed, BookingCancelled, BookingCompleted}
	for _, from := range all {
		for _, to := range all {
			if got := from.CanTransition(to); got != allowed[[2]BookingStatus{from, to}] {
				t.Fatalf("%s -> %s: got %v", from, to, got)
			}
		}
	}
	if BookingStatus("pending").Valid() {
		t.Fatalf("unknown status must be invalid")
	}
}

func TestPaymentSnapshotMasksCardAndDropsCVV(t *testing.T) {
	in := PaymentInput{
		CardType:   " VISA ",
		CardNumber: "4111 1111-1111 1111",
		CVV:        "123",
		CardExpiry: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:     250.5,
	}
	snap := in.Snapshot()
	if snap.CardType != "visa" {
		t.Fatalf("card type not normalized: %q", snap.CardType)
	}
	if snap.CardNumber != "************1111" {
		t.Fatalf("card number not masked: %q", snap.CardNumber)
	}
	if snap.Amount != 250.5 || !snap.CardExpiry.Equal(in.CardExpiry) {
		t.Fatalf("snapshot lost data: %+v", snap)
	}
}

func TestMaskCardNumberShort(t *testing.T) {
	if got := MaskCardNumber("12"); got != "12" {
		t.Fatalf("got %q", got)
	}
}

func TestHotelPackageLookupIgnoresCase(t *testing.T) {
	h := Hotel{Packages: []Package{{Name: "Deluxe"}, {Name: "Suite"}}}
	if p, ok := h.Package(" deluxe "); !ok || p.Name != "Deluxe" {
		t.Fatalf("lookup failed: %+v %v", p, ok)
	}
	if _, ok := h.Package("Penthouse"); ok {
		t.Fatalf("unexpected match")
	}
}
