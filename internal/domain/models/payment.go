package models

import (
	"strings"
	"time"
)

// Accepted card networks.
var CardTypes = []string{"visa", "mastercard", "amex", "discover"}

// PaymentInput is the card data submitted with a booking. CVV is checked
// and then dropped.
type PaymentInput struct {
	CardType   string    `json:"card_type" validate:"required,cardtype"`
	CardNumber string    `json:"card_number" validate:"required,cardnumber"`
	CVV        string    `json:"cvv" validate:"required,cvv"`
	CardExpiry time.Time `json:"card_expiry" validate:"required"`
	Amount     float64   `json:"amount" validate:"gte=0"`
}

// PaymentSnapshot is what gets persisted with a booking.
type PaymentSnapshot struct {
	CardType   string    `json:"card_type"`
	CardNumber string    `json:"card_number"`
	CardExpiry time.Time `json:"card_expiry"`
	Amount     float64   `json:"amount"`
}

// Snapshot masks the card number and drops the CVV.
func (p PaymentInput) Snapshot() PaymentSnapshot {
	return PaymentSnapshot{
		CardType:   strings.ToLower(strings.TrimSpace(p.CardType)),
		CardNumber: MaskCardNumber(p.CardNumber),
		CardExpiry: p.CardExpiry,
		Amount:     p.Amount,
	}
}

// MaskCardNumber keeps the last four digits.
func MaskCardNumber(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}
