package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/response"
)

// RateLimiter is a fixed-window per-IP limiter. Counters live in Redis so
// every server instance draws from the same budget.
type RateLimiter struct {
	rdb    *redis.Client
	scope  string
	rate   int           // Requests per window
	window time.Duration // Window length
	log    zerolog.Logger
	now    func() time.Time
}

// NewRateLimiter creates a RateLimiter (e.g., 30 requests per minute).
func NewRateLimiter(rdb *redis.Client, scope string, rate int, window time.Duration, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		scope:  scope,
		rate:   rate,
		window: window,
		log:    log.With().Str("component", "rate_limiter").Str("scope", scope).Logger(),
		now:    time.Now,
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
// When Redis is unreachable requests are let through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		bucket := rl.now().UnixNano() / int64(rl.window)
		key := config.CacheKey.RateLimitKey(rl.scope, c.ClientIP(), bucket)

		var hits *redis.IntCmd
		_, err := rl.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			hits = pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, rl.window)
			return nil
		})
		if err != nil {
			rl.log.Warn().Err(err).Msg("Rate limit check failed")
			c.Next()
			return
		}

		if hits.Val() > int64(rl.rate) {
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			response.Abort(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}
