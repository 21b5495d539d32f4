package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"tenantd/internal/domain"
	"tenantd/internal/infra/auth/rbac"
	"tenantd/internal/infra/kvmem"
)

type fixture struct {
	store   *kvmem.Store
	console *Console
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	if opts.NewID == nil {
		n := 0
		opts.NewID = func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}
	}
	store := kvmem.New()
	return &fixture{store: store, console: NewConsole(store, rbac.NewAuthorizer(), nil, opts)}
}

func (f *fixture) seed(t *testing.T, tenants []domain.Tenant, users []domain.User) {
	t.Helper()
	f.put(t, domain.KeyTenants, tenants)
	f.put(t, domain.KeyUsers, users)
}

func (f *fixture) put(t *testing.T, key string, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", key, err)
	}
	if err := f.store.Set(context.Background(), key, string(raw)); err != nil {
		t.Fatalf("set %s: %v", key, err)
	}
}

func (f *fixture) login(t *testing.T, email, tenantID string) domain.Principal {
	t.Helper()
	p, err := f.console.Login(context.Background(), domain.LoginInput{Email: email, Password: DefaultDemoPassword, TenantID: tenantID})
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return p
}

func twoTenantFixture() ([]domain.Tenant, []domain.User) {
	tenants := []domain.Tenant{
		{ID: "t1", Name: "Acme", AccountID: "A-1"},
		{ID: "t2", Name: "Globex", AccountID: "G-2", LogoURL: "globex.png"},
	}
	users := []domain.User{
		{ID: "u1", TenantID: "t1", Name: "Ann", Email: "ann@x", Role: domain.RoleOwner, Status: domain.StatusActive},
		{ID: "u2", TenantID: "t2", Name: "Ann", Email: "ann@x", Role: domain.RoleViewer, Status: domain.StatusActive},
		{ID: "u3", TenantID: "t1", Name: "Bob", Email: "bob@x", Role: domain.RoleAgent, Status: domain.StatusActive},
		{ID: "u4", TenantID: "t2", Name: "Dee", Email: "dee@x", Role: domain.RoleAdmin, Status: domain.StatusDisabled},
	}
	return tenants, users
}

func TestNewConsole_Defaults(t *testing.T) {
	c := NewConsole(kvmem.New(), rbac.NewAuthorizer(), nil, Options{})
	opts := c.Options()
	if opts.DemoPassword != DefaultDemoPassword || opts.SuperEmail != DefaultSuperEmail {
		t.Fatalf("unexpected defaults %+v", opts)
	}
	if opts.Brand.Name != "Company" || opts.Brand.LogoURL != "images/logo.png" {
		t.Fatalf("unexpected brand defaults %+v", opts.Brand)
	}
	id := opts.NewID()
	if len(id) != len("id-")+32 || id[:3] != "id-" {
		t.Fatalf("unexpected id %q", id)
	}
}

func TestUniqueID_SkipsTaken(t *testing.T) {
	ids := []string{"a", "", "b", "c"}
	c := NewConsole(kvmem.New(), nil, nil, Options{NewID: func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}})
	got := c.uniqueID(func(id string) bool { return id == "a" || id == "b" })
	if got != "c" {
		t.Fatalf("expected c, got %q", got)
	}
}
