package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tenantd/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Redis shares login budgets across processes. Each window is one counter
// key created with SET NX PX, so the first attempt fixes the expiry.
type Redis struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedis(client redis.UniversalClient, prefix string, now func() time.Time) (*Redis, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if now == nil {
		now = time.Now
	}
	return &Redis{client: client, prefix: prefix, now: now}, nil
}

func (r *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) (domain.RateLimitDecision, error) {
	if limit <= 0 {
		return unlimited(limit), nil
	}
	if window < time.Millisecond {
		window = time.Second
	}
	if r.prefix != "" {
		key = r.prefix + ":" + key
	}

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SetNX(ctx, key, 0, window)
		incr = p.Incr(ctx, key)
		ttl = p.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return domain.RateLimitDecision{}, fmt.Errorf("rate limit %s: %w", key, err)
	}
	resetAt := r.now()
	if d := ttl.Val(); d > 0 {
		resetAt = resetAt.Add(d)
	}
	return decide(limit, int(incr.Val()), resetAt), nil
}

var _ domain.RateLimiter = (*Redis)(nil)
