package models

import "time"

// Destination is a browsable place. Hotels belong to a destination through
// their city.
type Destination struct {
	DestinationID string    `json:"destination_id"`
	Name          string    `json:"name" validate:"required,max=160"`
	Country       string    `json:"country" validate:"required,max=120"`
	City          string    `json:"city" validate:"max=120"`
	Description   string    `json:"description"`
	Image         string    `json:"image" validate:"max=255"`
	Highlights    []string  `json:"highlights"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HotelCity is the city hotels must be in to be listed under d.
func (d Destination) HotelCity() string {
	if d.City != "" {
		return d.City
	}
	return d.Name
}

type DestinationUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Country     *string  `json:"country,omitempty"`
	City        *string  `json:"city,omitempty"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}
