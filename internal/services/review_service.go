package services

import (
	"context"
	"strings"
	"time"

	"travelbook/internal/domain"
	"travelbook/internal/domain/models"
	"travelbook/internal/repositories"
	"travelbook/internal/utils"
	"travelbook/internal/validation"

	"github.com/google/uuid"
)

// RatingCache is an optional read-through cache for AverageRating.
type RatingCache interface {
	Get(ctx context.Context, hotelID string) (models.RatingSummary, bool)
	// Generation is read before computing a summary and handed to Set, which
	// drops the write if Invalidate ran in between.
	Generation(ctx context.Context, hotelID string) (int64, bool)
	Set(ctx context.Context, s models.RatingSummary, gen int64)
	Invalidate(ctx context.Context, hotelID string)
}

type ReviewService struct {
	Store     repositories.Store
	Cache     RatingCache
	Timeout   time.Duration
	Clock     func() time.Time
	RequestID string
}

type CreateReviewInput struct {
	HotelID  string `json:"hotel_id" validate:"required"`
	UserName string `json:"user_name" validate:"required,max=120"`
	Rating   int    `json:"rating" validate:"gte=1,lte=5"`
	Comment  string `json:"comment" validate:"max=2000"`
}

// CreateReview stores a pending review for an existing hotel.
func (s ReviewService) CreateReview(ctx context.Context, in CreateReviewInput) (models.Review, error) {
	in.HotelID = strings.TrimSpace(in.HotelID)
	in.UserName = utils.NormalizeSpace(in.UserName)
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validation.Struct(in); err != nil {
		return models.Review{}, err
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	if _, err := s.Store.Inventory().GetHotel(ctx, in.HotelID); err != nil {
		return models.Review{}, storeError("create review", "hotel", err)
	}

	rv := models.Review{
		ReviewID:  uuid.NewString(),
		HotelID:   in.HotelID,
		UserName:  in.UserName,
		Rating:    in.Rating,
		Comment:   in.Comment,
		Status:    models.ReviewPending,
		CreatedAt: clock(s.Clock),
	}
	if err := s.Store.Reviews().Create(ctx, rv); err != nil {
		return models.Review{}, storeError("create review", "review", err)
	}
	utils.LogEvent(s.RequestID, "review", "create", "review_id="+rv.ReviewID+" hotel_id="+rv.HotelID)
	return rv, nil
}

func (s ReviewService) ApproveReview(ctx context.Context, reviewID string) (models.Review, error) {
	return s.moderate(ctx, reviewID, models.ReviewApproved)
}

func (s ReviewService) RejectReview(ctx context.Context, reviewID string) (models.Review, error) {
	return s.moderate(ctx, reviewID, models.ReviewRejected)
}

// moderate moves a pending review to approved or rejected. Repeating the
// same decision is a no-op.
func (s ReviewService) moderate(ctx context.Context, reviewID string, to models.ReviewStatus) (models.Review, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var out models.Review
	err := s.Store.Atomic(ctx, func(tx repositories.Store) error {
		rv, err := tx.Reviews().Get(ctx, strings.TrimSpace(reviewID))
		if err != nil {
			return storeError("moderate review", "review", err)
		}
		if rv.Status == to {
			out = rv
			return nil
		}
		if rv.Status != models.ReviewPending {
			return domain.ConflictError{Resource: "review", Kind: domain.ConflictTransition, Msg: "review already " + string(rv.Status)}
		}
		ok, err := tx.Reviews().SetStatus(ctx, rv.ReviewID, models.ReviewPending, to)
		if err != nil {
			return storeError("moderate review", "review", err)
		}
		if !ok {
			return domain.ConflictError{Resource: "review", Kind: domain.ConflictTransition, Msg: "review changed concurrently"}
		}
		rv.Status = to
		out = rv
		return nil
	})
	if err != nil {
		return models.Review{}, storeError("moderate review", "review", err)
	}
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, out.HotelID)
	}
	utils.LogEvent(s.RequestID, "review", "moderate", "review_id="+out.ReviewID+" status="+string(out.Status))
	return out, nil
}

func (s ReviewService) ListReviews(ctx context.Context, hotelID string, status models.ReviewStatus) ([]models.Review, error) {
	switch status {
	case "", models.ReviewPending, models.ReviewApproved, models.ReviewRejected:
	default:
		return nil, domain.ValidationError{Field: "status", Msg: "must be pending, approved or rejected"}
	}
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	out, err := s.Store.Reviews().List(ctx, strings.TrimSpace(hotelID), status)
	if err != nil {
		return nil, storeError("list reviews", "review", err)
	}
	return out, nil
}

// AverageRating returns the mean of approved ratings rounded to one decimal
// and their count, or zero values when there are none.
func (s ReviewService) AverageRating(ctx context.Context, hotelID string) (models.RatingSummary, error) {
	hotelID = strings.TrimSpace(hotelID)
	if hotelID == "" {
		return models.RatingSummary{}, domain.ValidationError{Field: "hotel_id", Msg: "is required"}
	}
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		gen       int64
		cacheable bool
	)
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, hotelID); ok {
			return cached, nil
		}
		gen, cacheable = s.Cache.Generation(ctx, hotelID)
	}
	sum, count, err := s.Store.Reviews().ApprovedStats(ctx, hotelID)
	if err != nil {
		return models.RatingSummary{}, storeError("average rating", "review", err)
	}
	out := models.RatingSummary{HotelID: hotelID}
	if count > 0 {
		out.Average = utils.Round(float64(sum)/float64(count), 1)
		out.Count = count
	}
	if cacheable {
		s.Cache.Set(ctx, out, gen)
	}
	return out, nil
}
