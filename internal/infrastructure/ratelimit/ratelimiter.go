// Package ratelimit throttles API callers. The REST API shares a Redis
// sliding window across instances; websocket handshakes use an in-process
// token bucket per client IP.
package ratelimit

import (
	"context"
	"time"
)

// Config is a request budget per window.
type Config struct {
	Limit  int
	Window time.Duration
}

// Result describes one Allow decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (Result, error)
	Reset(ctx context.Context, key string) error
}
