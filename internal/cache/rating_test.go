package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"travelbook/internal/domain/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingCacheHitAndMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRatingCache(db, time.Minute)
	ctx := context.Background()

	want := models.RatingSummary{HotelID: "h1", Average: 4.3, Count: 3}
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectGet("travelbook:rating:h1").SetVal(string(raw))
	got, ok := c.Get(ctx, "h1")
	require.True(t, ok)
	assert.Equal(t, want, got)

	mock.ExpectGet("travelbook:rating:h2").RedisNil()
	_, ok = c.Get(ctx, "h2")
	assert.False(t, ok)

	mock.ExpectGet("travelbook:rating:h3").SetErr(errors.New("connection refused"))
	_, ok = c.Get(ctx, "h3")
	assert.False(t, ok, "redis errors read as a miss")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingCacheSetAndInvalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRatingCache(db, time.Minute)
	ctx := context.Background()

	mock.ExpectGet("travelbook:rating:gen:h1").RedisNil()
	gen, ok := c.Generation(ctx, "h1")
	require.True(t, ok)
	assert.Equal(t, int64(0), gen)

	s := models.RatingSummary{HotelID: "h1", Average: 5, Count: 1}
	raw, _ := json.Marshal(s)
	mock.ExpectEvalSha(setIfGeneration.Hash(),
		[]string{"travelbook:rating:h1", "travelbook:rating:gen:h1"},
		int64(0), string(raw), int64(60000),
	).SetVal(int64(1))
	c.Set(ctx, s, gen)

	mock.ExpectIncr("travelbook:rating:gen:h1").SetVal(1)
	mock.ExpectDel("travelbook:rating:h1").SetVal(1)
	c.Invalidate(ctx, "h1")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingCacheGenerationUnreadable(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRatingCache(db, time.Minute)

	mock.ExpectGet("travelbook:rating:gen:h1").SetErr(errors.New("connection refused"))
	_, ok := c.Generation(context.Background(), "h1")
	assert.False(t, ok, "no caching when the generation cannot be read")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNilRatingCacheIsDisabled(t *testing.T) {
	var c *RatingCache
	_, ok := c.Get(context.Background(), "h1")
	assert.False(t, ok)
	_, ok = c.Generation(context.Background(), "h1")
	assert.False(t, ok)
	c.Set(context.Background(), models.RatingSummary{HotelID: "h1"}, 0)
	c.Invalidate(context.Background(), "h1")
}
