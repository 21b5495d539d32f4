//go:build integration
// +build integration

package db

import (
	"context"
	"testing"

	"tenantd/internal/config"
	"tenantd/internal/infra/db/testdb"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := testdb.NewDatabase(t)
	store, err := NewStore(config.Config{PostgresDSN: dsn})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestKVStore_UpsertAndRemove(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	kv := NewKVStore(store.DB, "console-a")

	if _, ok, err := kv.Get(ctx, "tenants"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := kv.Set(ctx, "tenants", `[{"id":"id-1","name":"Acme","accountId":"1"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "tenants", `[]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := kv.Get(ctx, "tenants")
	if err != nil || !ok || v != `[]` {
		t.Fatalf("unexpected get %q ok=%v err=%v", v, ok, err)
	}
	if err := kv.Remove(ctx, "tenants"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "tenants"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestKVStore_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	a := NewKVStore(store.DB, "a")
	b := NewKVStore(store.DB, "b")

	if err := a.Set(ctx, "super", "true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := b.Get(ctx, "super"); err != nil || ok {
		t.Fatalf("expected namespace b to be empty, ok=%v err=%v", ok, err)
	}
}
