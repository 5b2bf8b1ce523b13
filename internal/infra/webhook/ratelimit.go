package webhook

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter wraps a token bucket guarding the chat endpoint. Incoming
// webhook endpoints throttle aggressively, so sends are paced rather than
// rejected.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter with the given sustained rate and burst.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until a token is available or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
