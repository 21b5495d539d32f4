// Package kvfile keeps the store in a single JSON object file, one member per
// key. It is the on-disk analogue of browser localStorage used by tenantctl.
package kvfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tenantd/internal/domain"

	"github.com/gofrs/flock"
)

const lockRetry = 10 * time.Millisecond

type Store struct {
	path string
	lock *flock.Flock
}

func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is required")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Store{path: path, lock: flock.New(path + ".lock")}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if _, err := s.lock.TryRLockContext(ctx, lockRetry); err != nil {
		return "", false, fmt.Errorf("lock store: %w", err)
	}
	defer s.lock.Unlock()
	entries, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.mutate(ctx, func(entries map[string]string) {
		entries[key] = value
	})
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.mutate(ctx, func(entries map[string]string) {
		delete(entries, key)
	})
}

func (s *Store) mutate(ctx context.Context, fn func(map[string]string)) error {
	if _, err := s.lock.TryLockContext(ctx, lockRetry); err != nil {
		return fmt.Errorf("lock store: %w", err)
	}
	defer s.lock.Unlock()
	entries, err := s.load()
	if err != nil {
		return err
	}
	fn(entries)
	return s.save(entries)
}

func (s *Store) load() (map[string]string, error) {
	payload, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	entries := make(map[string]string)
	if len(payload) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("decode store %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *Store) save(entries map[string]string) error {
	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

var _ domain.Store = (*Store)(nil)
