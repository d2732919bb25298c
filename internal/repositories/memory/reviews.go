package memory

import (
	"context"

	"travelbook/internal/domain/models"
	"travelbook/internal/repositories"
)

type reviewRepo struct{ s *Store }

func (r reviewRepo) Create(ctx context.Context, rv models.Review) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.reviews[rv.ReviewID]; ok {
			return repositories.ErrDuplicate
		}
		st.reviews[rv.ReviewID] = rv
		st.next("review:" + rv.ReviewID)
		return nil
	})
}

func (r reviewRepo) Get(ctx context.Context, reviewID string) (models.Review, error) {
	var out models.Review
	err := r.s.read(ctx, func(st *state) error {
		rv, ok := st.reviews[reviewID]
		if !ok {
			return repositories.ErrNotFound
		}
		out = rv
		return nil
	})
	return out, err
}

func (r reviewRepo) List(ctx context.Context, hotelID string, status models.ReviewStatus) ([]models.Review, error) {
	out := []models.Review{}
	err := r.s.read(ctx, func(st *state) error {
		ids := []string{}
		for id, rv := range st.reviews {
			if (hotelID != "" && rv.HotelID != hotelID) || (status != "" && rv.Status != status) {
				continue
			}
			ids = append(ids, id)
		}
		st.sortIDs("review:", ids, true)
		for _, id := range ids {
			out = append(out, st.reviews[id])
		}
		return nil
	})
	return out, err
}

func (r reviewRepo) SetStatus(ctx context.Context, reviewID string, from, to models.ReviewStatus) (bool, error) {
	changed := false
	err := r.s.write(ctx, func(st *state) error {
		rv, ok := st.reviews[reviewID]
		if !ok || rv.Status != from {
			return nil
		}
		rv.Status = to
		st.reviews[reviewID] = rv
		changed = true
		return nil
	})
	return changed, err
}

func (r reviewRepo) ApprovedStats(ctx context.Context, hotelID string) (int, int, error) {
	var sum, count int
	err := r.s.read(ctx, func(st *state) error {
		for _, rv := range st.reviews {
			if rv.HotelID == hotelID && rv.Status == models.ReviewApproved {
				sum += rv.Rating
				count++
			}
		}
		return nil
	})
	return sum, count, err
}
