package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"tenantd/internal/domain"
)

var ErrCapacityExceeded = errors.New("rate limiter capacity exceeded")

type MemoryConfig struct {
	Now     func() time.Time
	MaxKeys int
}

type attempts struct {
	used    int
	resetAt time.Time
}

// Memory keeps fixed windows in process. Denied attempts do not extend or
// consume the window.
type Memory struct {
	mu      sync.Mutex
	now     func() time.Time
	maxKeys int
	keys    map[string]*attempts
}

func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = 10000
	}
	return &Memory{now: cfg.Now, maxKeys: cfg.MaxKeys, keys: make(map[string]*attempts)}
}

func (m *Memory) Allow(_ context.Context, key string, limit int, window time.Duration) (domain.RateLimitDecision, error) {
	if limit <= 0 {
		return unlimited(limit), nil
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.current(key, now, window)
	if err != nil {
		return domain.RateLimitDecision{}, err
	}
	d := decide(limit, a.used+1, a.resetAt)
	if d.Allowed {
		a.used++
	}
	return d, nil
}

// current returns the live window for key, opening a new one when the old
// one has expired. New keys are refused once maxKeys live windows exist.
func (m *Memory) current(key string, now time.Time, window time.Duration) (*attempts, error) {
	if a, ok := m.keys[key]; ok && !now.After(a.resetAt) {
		return a, nil
	}
	if _, ok := m.keys[key]; !ok && len(m.keys) >= m.maxKeys {
		for k, a := range m.keys {
			if now.After(a.resetAt) {
				delete(m.keys, k)
			}
		}
		if len(m.keys) >= m.maxKeys {
			return nil, ErrCapacityExceeded
		}
	}
	a := &attempts{resetAt: now.Add(window)}
	m.keys[key] = a
	return a, nil
}

var _ domain.RateLimiter = (*Memory)(nil)
