package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/videocc/videocc/internal/infrastructure/ratelimit"
	"github.com/videocc/videocc/internal/shared/logger"
	"github.com/videocc/videocc/internal/shared/utils"
)

// RateLimiter throttles requests per client IP over a sliding window.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	scope   string
	limit   int
	window  time.Duration
	logger  logger.Interface
}

// NewRateLimiter creates a per-IP limiter. scope namespaces the counters so
// separate route groups do not share a budget.
func NewRateLimiter(limiter ratelimit.RateLimiter, scope string, limit int, window time.Duration, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		scope:   scope,
		limit:   limit,
		window:  window,
		logger:  logger,
	}
}

// Limit returns a Gin middleware that enforces the rate limit per client IP.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.scope + ":ip:" + c.ClientIP()

		result, err := rl.limiter.Allow(c.Request.Context(), key, rl.limit, rl.window)
		if err != nil {
			// Fail open: the fraud checks still run behind this layer.
			rl.logger.Warnw("rate limiter unavailable", "error", err, "scope", rl.scope)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			retry := int(result.RetryAfter.Round(time.Second) / time.Second)
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
