// Package ratelimit throttles requests per key with a sliding window.
package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed   bool
	Remaining int
	// RetryAfter is how long until the oldest counted request leaves the
	// window. Zero when allowed.
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
	Reset(ctx context.Context, key string) error
}
