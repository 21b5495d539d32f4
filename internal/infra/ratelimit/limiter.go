package ratelimit

import (
	"time"

	"tenantd/internal/domain"
)

// decide turns the attempt count for the current window into a decision.
// attempt is 1-based and includes the call being decided.
func decide(limit, attempt int, resetAt time.Time) domain.RateLimitDecision {
	remaining := limit - attempt
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitDecision{
		Allowed:   attempt <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

func unlimited(limit int) domain.RateLimitDecision {
	return domain.RateLimitDecision{Allowed: true, Limit: limit, Remaining: limit}
}
