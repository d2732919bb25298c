package models

import (
	"strings"
	"time"
)

// Package is a purchasable offer owned by a hotel with its own room counter.
type Package struct {
	Name           string    `json:"name" validate:"required,max=120"`
	Description    string    `json:"description"`
	Price          float64   `json:"price" validate:"gte=0"`
	Inclusions     []string  `json:"inclusions"`
	ValidUntil     time.Time `json:"valid_until"`
	Capacity       int       `json:"capacity" validate:"gte=1"`
	RoomsAvailable int       `json:"rooms_available" validate:"gte=0,ltefield=Capacity"`
}

type Hotel struct {
	HotelID     string    `json:"hotel_id"`
	Name        string    `json:"name" validate:"required,max=160"`
	Address     string    `json:"address" validate:"required"`
	City        string    `json:"city"`
	Email       string    `json:"email" validate:"required,email"`
	Phone       string    `json:"phone" validate:"required,max=40"`
	StarRating  int       `json:"star_rating" validate:"gte=1,lte=5"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Packages    []Package `json:"packages" validate:"dive"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Package looks up a package by name (case-insensitive).
func (h Hotel) Package(name string) (Package, bool) {
	for _, p := range h.Packages {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Package{}, false
}

// HotelUpdate carries admin edits; nil fields are left untouched.
type HotelUpdate struct {
	Name        *string `json:"name,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	StarRating  *int    `json:"star_rating,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// PackageUpdate carries admin edits to a package. Capacity changes shift
// availability by the same amount.
type PackageUpdate struct {
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Inclusions  []string   `json:"inclusions,omitempty"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`
	Capacity    *int       `json:"capacity,omitempty"`
}
