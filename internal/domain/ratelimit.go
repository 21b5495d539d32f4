package domain

import (
	"context"
	"strings"
	"time"
)

type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter counts attempts per key in fixed windows. It throttles login
// attempts; the core itself never consults it.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitDecision, error)
}

// LoginAttemptKey buckets login attempts by lowercased email so that case
// variants share one budget.
func LoginAttemptKey(email string) string {
	return "login:" + strings.ToLower(strings.TrimSpace(email))
}
