package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"travelbook/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func limitedEngine(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), mw)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestRateLimitPassThroughWithoutRedis(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1}
	r := limitedEngine(RateLimit(cfg, nil))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitTokenBucket(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	clock = func() time.Time { return fixed }
	defer func() { clock = time.Now }()

	db, mock := redismock.NewClientMock()
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: 2 * time.Second,
		TTL:            time.Minute,
		Prefix:         "rl",
	}
	r := limitedEngine(RateLimit(cfg, db))
	key := []string{"rl:ip:192.0.2.1"}
	args := []interface{}{fixed.UnixMilli(), 2, 1, int64(2000), int64(60)}

	mock.ExpectEvalSha(tokenBucket.Hash(), key, args...).SetVal([]interface{}{int64(1), int64(1), int64(0)})
	mock.ExpectEvalSha(tokenBucket.Hash(), key, args...).SetVal([]interface{}{int64(0), int64(0), int64(1500)})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
