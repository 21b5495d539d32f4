package kvredis

import (
	"context"
	"errors"

	"tenantd/internal/domain"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	client    redis.UniversalClient
	namespace string
}

func New(addr, password string, db int, namespace string) (*Store, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewWithClient(client, namespace), nil
}

func NewWithClient(client redis.UniversalClient, namespace string) *Store {
	return &Store{client: client, namespace: namespace}
}

func (s *Store) key(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set stores without expiry; the store has no TTL semantics.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// Client exposes the connection so the login limiter can share it.
func (s *Store) Client() redis.UniversalClient {
	return s.client
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

var _ domain.Store = (*Store)(nil)
