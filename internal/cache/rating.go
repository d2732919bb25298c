// Package cache keeps derived read models in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"travelbook/internal/domain/models"
	"travelbook/internal/utils"

	"github.com/redis/go-redis/v9"
)

// RatingCache stores hotel rating aggregates. Redis errors are logged and
// treated as cache misses.
type RatingCache struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

func NewRatingCache(client *redis.Client, ttl time.Duration) *RatingCache {
	return &RatingCache{Client: client, TTL: ttl, Prefix: "travelbook"}
}

func (c *RatingCache) key(hotelID string) string {
	return c.Prefix + ":rating:" + hotelID
}

func (c *RatingCache) genKey(hotelID string) string {
	return c.Prefix + ":rating:gen:" + hotelID
}

// setIfGeneration writes the summary only while the generation counter still
// holds the value the caller read before computing it.
var setIfGeneration = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[2]) or '0')
if cur ~= tonumber(ARGV[1]) then
	return 0
end
local ttl_ms = tonumber(ARGV[3])
if ttl_ms > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ttl_ms)
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

func (c *RatingCache) Get(ctx context.Context, hotelID string) (models.RatingSummary, bool) {
	var out models.RatingSummary
	if c == nil || c.Client == nil {
		return out, false
	}
	raw, err := c.Client.Get(ctx, c.key(hotelID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.LogWarn("", "cache", "rating_get", err)
		}
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		utils.LogWarn("", "cache", "rating_decode", err)
		return out, false
	}
	return out, true
}

// Generation returns the hotel's invalidation counter. ok is false when
// Redis cannot be read, in which case the caller should not cache.
func (c *RatingCache) Generation(ctx context.Context, hotelID string) (int64, bool) {
	if c == nil || c.Client == nil {
		return 0, false
	}
	gen, err := c.Client.Get(ctx, c.genKey(hotelID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		utils.LogWarn("", "cache", "rating_generation", err)
		return 0, false
	}
	return gen, true
}

// Set stores s unless Invalidate ran for the hotel after gen was read.
func (c *RatingCache) Set(ctx context.Context, s models.RatingSummary, gen int64) {
	if c == nil || c.Client == nil {
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	keys := []string{c.key(s.HotelID), c.genKey(s.HotelID)}
	if err := setIfGeneration.Run(ctx, c.Client, keys, gen, string(raw), c.TTL.Milliseconds()).Err(); err != nil {
		utils.LogWarn("", "cache", "rating_set", err)
	}
}

// Invalidate bumps the generation before deleting so a reader that computed
// its summary earlier cannot write it back.
func (c *RatingCache) Invalidate(ctx context.Context, hotelID string) {
	if c == nil || c.Client == nil {
		return
	}
	if err := c.Client.Incr(ctx, c.genKey(hotelID)).Err(); err != nil {
		utils.LogWarn("", "cache", "rating_invalidate", err)
	}
	if err := c.Client.Del(ctx, c.key(hotelID)).Err(); err != nil {
		utils.LogWarn("", "cache", "rating_invalidate", err)
	}
}
