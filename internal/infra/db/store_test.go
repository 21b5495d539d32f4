package db

import (
	"context"
	"testing"

	"tenantd/internal/config"
)

func TestNewStoreRequiresDSN(t *testing.T) {
	_, err := NewStore(config.Config{})
	if err == nil {
		t.Fatalf("expected error for missing POSTGRES_DSN")
	}
}

func TestKVStoreWithoutDB(t *testing.T) {
	s := NewKVStore(nil, "ns")
	if _, _, err := s.Get(context.Background(), "tenants"); err == nil {
		t.Fatalf("expected db unavailable error")
	}
	if err := s.Set(context.Background(), "tenants", "[]"); err == nil {
		t.Fatalf("expected db unavailable error")
	}
}
