// Package ratelimit limits requests per client using the token bucket
// algorithm. Buckets live either in process memory or in Redis, where every
// task behind the same load balancer shares them.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"statusapi/internal/models"
)

// Limiter defines the rate limiting contract. Implementations must be safe for
// concurrent use.
type Limiter interface {
	// Allow takes one token from the bucket identified by key. It reports
	// whether the request may proceed and the bucket state for response
	// headers. A non-nil error means the decision could not be made.
	Allow(ctx context.Context, key string) (allowed bool, info Info, err error)

	// Close stops background goroutines and releases resources.
	Close() error
}

// Info contains rate limit state for populating response headers.
type Info struct {
	Limit      int           // Maximum requests per minute
	Remaining  int           // Approximate tokens remaining
	ResetAt    time.Time     // When the bucket will be full again
	RetryAfter time.Duration // How long to wait (meaningful only when denied)
}

// New creates the limiter selected by cfg.Backend.
func New(ctx context.Context, cfg models.RateLimitConfig) (Limiter, error) {
	switch cfg.Backend {
	case models.RateLimitBackendMemory, "":
		return NewMemoryLimiter(cfg.RequestsPerMinute, cfg.BurstSize, cfg.CleanupInterval), nil
	case models.RateLimitBackendRedis:
		limiter, err := NewRedisLimiter(ctx, cfg.Redis, cfg.RequestsPerMinute, cfg.BurstSize)
		if err != nil {
			return nil, err
		}
		return limiter, nil
	default:
		return nil, fmt.Errorf("unsupported rate limit backend: %s", cfg.Backend)
	}
}
