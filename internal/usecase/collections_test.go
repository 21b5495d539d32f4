package usecase

import (
	"context"
	"errors"
	"testing"

	"tenantd/internal/domain"
	"tenantd/internal/infra/kvmem"
)

func TestCollections_EmptyStoreReadsEmpty(t *testing.T) {
	c := &collections{store: kvmem.New()}
	ctx := context.Background()
	tenants, err := c.tenants(ctx)
	if err != nil || tenants == nil || len(tenants) != 0 {
		t.Fatalf("expected empty tenants, got %v %v", tenants, err)
	}
	users, err := c.users(ctx)
	if err != nil || users == nil || len(users) != 0 {
		t.Fatalf("expected empty users, got %v %v", users, err)
	}
	s, err := c.session(ctx)
	if err != nil || s != nil {
		t.Fatalf("expected no session, got %v %v", s, err)
	}
	id, err := c.activeTenantID(ctx)
	if err != nil || id != "" {
		t.Fatalf("expected no active tenant, got %q %v", id, err)
	}
}

func TestCollections_WireFormat(t *testing.T) {
	store := kvmem.New()
	c := &collections{store: store}
	ctx := context.Background()
	if err := c.putTenants(ctx, []domain.Tenant{{ID: "t1", Name: "Acme", AccountID: "1"}}); err != nil {
		t.Fatalf("put tenants: %v", err)
	}
	if err := c.putSession(ctx, domain.Session{UserID: "super"}); err != nil {
		t.Fatalf("put session: %v", err)
	}
	if err := c.putActiveTenantID(ctx, "t1"); err != nil {
		t.Fatalf("put active: %v", err)
	}
	if err := c.setSuperFlag(ctx, true); err != nil {
		t.Fatalf("set super: %v", err)
	}
	snap := store.Snapshot()
	want := map[string]string{
		domain.KeyTenants:      `[{"id":"t1","name":"Acme","accountId":"1","logoUrl":""}]`,
		domain.KeySession:      `{"userId":"super","tenantId":null}`,
		domain.KeyActiveTenant: `"t1"`,
		domain.KeySuperFlag:    `true`,
	}
	for k, v := range want {
		if snap[k] != v {
			t.Fatalf("key %s = %q, want %q", k, snap[k], v)
		}
	}

	if err := c.putActiveTenantID(ctx, ""); err != nil {
		t.Fatalf("clear active: %v", err)
	}
	if err := c.setSuperFlag(ctx, false); err != nil {
		t.Fatalf("clear super: %v", err)
	}
	snap = store.Snapshot()
	if _, ok := snap[domain.KeyActiveTenant]; ok {
		t.Fatalf("expected active tenant key removed")
	}
	if _, ok := snap[domain.KeySuperFlag]; ok {
		t.Fatalf("expected super flag removed")
	}
}

func TestCollections_NullValuesReadAsAbsent(t *testing.T) {
	store := kvmem.New()
	c := &collections{store: store}
	ctx := context.Background()
	_ = store.Set(ctx, domain.KeySession, "null")
	_ = store.Set(ctx, domain.KeyActiveTenant, "null")
	if s, err := c.session(ctx); err != nil || s != nil {
		t.Fatalf("expected nil session, got %v %v", s, err)
	}
	if id, err := c.activeTenantID(ctx); err != nil || id != "" {
		t.Fatalf("expected empty id, got %q %v", id, err)
	}
}

func TestCollections_InvalidRecords(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		key  string
		raw  string
		read func(c *collections) error
	}{
		{"corrupt tenants", domain.KeyTenants, "{nope", func(c *collections) error { _, err := c.tenants(ctx); return err }},
		{"tenant without id", domain.KeyTenants, `[{"name":"x"}]`, func(c *collections) error { _, err := c.tenants(ctx); return err }},
		{"user with bad role", domain.KeyUsers, `[{"id":"u","tenantId":"t","email":"e","role":"root","status":"active"}]`, func(c *collections) error { _, err := c.users(ctx); return err }},
		{"session without user", domain.KeySession, `{"tenantId":"t"}`, func(c *collections) error { _, err := c.session(ctx); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := kvmem.New()
			_ = store.Set(ctx, tc.key, tc.raw)
			err := tc.read(&collections{store: store})
			if !errors.Is(err, domain.ErrCorruptRecord) {
				t.Fatalf("expected ErrCorruptRecord, got %v", err)
			}
			if errors.Is(err, domain.ErrInvalidRecord) {
				t.Fatalf("stored data must not read as invalid input: %v", err)
			}
		})
	}
}

func TestCollections_UserWithoutEmailReads(t *testing.T) {
	store := kvmem.New()
	ctx := context.Background()
	_ = store.Set(ctx, domain.KeyUsers, `[{"id":"u1","tenantId":"t1","name":"","email":"","role":"viewer","status":"active"}]`)
	users, err := (&collections{store: store}).users(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("expected one user, got %v %v", users, err)
	}
}

func TestCollections_RejectsInvalidWrite(t *testing.T) {
	store := kvmem.New()
	c := &collections{store: store}
	err := c.putUsers(context.Background(), []domain.User{{ID: "u", TenantID: "t", Email: "e", Role: domain.RoleSuperAdmin, Status: domain.StatusActive}})
	if !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if _, ok := store.Snapshot()[domain.KeyUsers]; ok {
		t.Fatalf("invalid users must not be written")
	}
}
