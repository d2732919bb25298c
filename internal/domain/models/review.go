package models

import "time"

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

type Review struct {
	ReviewID  string       `json:"review_id"`
	HotelID   string       `json:"hotel_id"`
	UserName  string       `json:"user_name"`
	Rating    int          `json:"rating" validate:"gte=1,lte=5"`
	Comment   string       `json:"comment" validate:"max=2000"`
	Status    ReviewStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// RatingSummary is the approved-review aggregate for a hotel.
type RatingSummary struct {
	HotelID string  `json:"hotel_id"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
