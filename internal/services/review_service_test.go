package services

import (
	"context"
	"sync"
	"testing"

	"travelbook/internal/domain"
	"travelbook/internal/domain/models"
	"travelbook/internal/repositories"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string]models.RatingSummary
	gens map[string]int64
	hits int
}

func (c *mapCache) Get(_ context.Context, id string) (models.RatingSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.data[id]
	if ok {
		c.hits++
	}
	return s, ok
}

func (c *mapCache) Generation(_ context.Context, id string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[id], true
}

func (c *mapCache) Set(_ context.Context, s models.RatingSummary, gen int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[s.HotelID] != gen {
		return
	}
	c.data[s.HotelID] = s
}

func (c *mapCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens == nil {
		c.gens = map[string]int64{}
	}
	c.gens[id]++
	delete(c.data, id)
}

func TestAverageRatingRoundsApprovedOnly(t *testing.T) {
	_, store, _ := newFixture(t)
	svc := ReviewService{Store: store, Clock: fixedClock}
	ctx := context.Background()

	summary, err := svc.AverageRating(ctx, "h1")
	if err != nil || summary.Average != 0 || summary.Count != 0 {
		t.Fatalf("no reviews: %+v %v", summary, err)
	}

	var ids []string
	for _, r := range []int{5, 4, 4, 1} {
		rv, err := svc.CreateReview(ctx, CreateReviewInput{HotelID: "h1", UserName: "ana", Rating: r})
		if err != nil {
			t.Fatalf("create review: %v", err)
		}
		if rv.Status != models.ReviewPending {
			t.Fatalf("new review should be pending")
		}
		ids = append(ids, rv.ReviewID)
	}
	for _, id := range ids[:3] {
		if _, err := svc.ApproveReview(ctx, id); err != nil {
			t.Fatalf("approve: %v", err)
		}
	}
	if _, err := svc.RejectReview(ctx, ids[3]); err != nil {
		t.Fatalf("reject: %v", err)
	}

	summary, err = svc.AverageRating(ctx, "h1")
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	// (5+4+4)/3 = 4.333..
	if summary.Average != 4.3 || summary.Count != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestModerationTransitions(t *testing.T) {
	_, store, _ := newFixture(t)
	svc := ReviewService{Store: store}
	ctx := context.Background()

	rv, err := svc.CreateReview(ctx, CreateReviewInput{HotelID: "h1", UserName: "ana", Rating: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.ApproveReview(ctx, rv.ReviewID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.ApproveReview(ctx, rv.ReviewID); err != nil {
		t.Fatalf("repeat approve should be a no-op: %v", err)
	}
	if _, err := svc.RejectReview(ctx, rv.ReviewID); !domain.IsConflict(err) {
		t.Fatalf("reject after approve should conflict, got %v", err)
	}
	if _, err := svc.ApproveReview(ctx, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateReviewValidation(t *testing.T) {
	_, store, _ := newFixture(t)
	svc := ReviewService{Store: store}
	ctx := context.Background()

	if _, err := svc.CreateReview(ctx, CreateReviewInput{HotelID: "h1", UserName: "ana", Rating: 6}); !domain.IsValidation(err) {
		t.Fatalf("rating 6 should be rejected, got %v", err)
	}
	if _, err := svc.CreateReview(ctx, CreateReviewInput{HotelID: "nope", UserName: "ana", Rating: 4}); !domain.IsNotFound(err) {
		t.Fatalf("unknown hotel should be not found, got %v", err)
	}
}

func TestAverageRatingUsesAndInvalidatesCache(t *testing.T) {
	_, store, _ := newFixture(t)
	cache := &mapCache{data: map[string]models.RatingSummary{}}
	svc := ReviewService{Store: store, Cache: cache}
	ctx := context.Background()

	rv, err := svc.CreateReview(ctx, CreateReviewInput{HotelID: "h1", UserName: "ana", Rating: 4})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s, _ := svc.AverageRating(ctx, "h1"); s.Count != 0 {
		t.Fatalf("pending review counted: %+v", s)
	}
	if s, _ := svc.AverageRating(ctx, "h1"); s.Count != 0 || cache.hits != 1 {
		t.Fatalf("second read should hit cache: %+v hits=%d", s, cache.hits)
	}
	if _, err := svc.ApproveReview(ctx, rv.ReviewID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if s, _ := svc.AverageRating(ctx, "h1"); s.Count != 1 || s.Average != 4 {
		t.Fatalf("approval should invalidate cache: %+v", s)
	}
}

type hookedStore struct {
	repositories.Store
	reviews *hookedReviews
}

func (s hookedStore) Reviews() repositories.ReviewRepository { return s.reviews }

// hookedReviews runs after once, right after the stats were read.
type hookedReviews struct {
	repositories.ReviewRepository
	after func()
}

func (r *hookedReviews) ApprovedStats(ctx context.Context, hotelID string) (int, int, error) {
	sum, n, err := r.ReviewRepository.ApprovedStats(ctx, hotelID)
	if f := r.after; f != nil {
		r.after = nil
		f()
	}
	return sum, n, err
}

func TestAverageRatingDropsStaleWriteAfterModeration(t *testing.T) {
	_, store, _ := newFixture(t)
	cache := &mapCache{data: map[string]models.RatingSummary{}}
	moderator := ReviewService{Store: store, Cache: cache}
	ctx := context.Background()

	rv, err := moderator.CreateReview(ctx, CreateReviewInput{HotelID: "h1", UserName: "ana", Rating: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	hooked := &hookedReviews{ReviewRepository: store.Reviews()}
	hooked.after = func() {
		if _, err := moderator.ApproveReview(ctx, rv.ReviewID); err != nil {
			t.Errorf("approve: %v", err)
		}
	}
	reader := ReviewService{Store: hookedStore{Store: store, reviews: hooked}, Cache: cache}

	if s, _ := reader.AverageRating(ctx, "h1"); s.Count != 0 {
		t.Fatalf("first read computed before approval: %+v", s)
	}
	if _, ok := cache.data["h1"]; ok {
		t.Fatalf("summary computed before the approval must not be cached")
	}
	if s, _ := reader.AverageRating(ctx, "h1"); s.Count != 1 || s.Average != 5 {
		t.Fatalf("expected fresh summary after approval, got %+v", s)
	}
}
