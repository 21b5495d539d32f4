package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"tenantd/internal/domain"
)

type cli struct {
	t     *testing.T
	store []string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv("SEED_FIXTURE", "")
	t.Setenv("DEMO_PASSWORD", "")
	t.Setenv("SUPER_EMAIL", "")
	return &cli{t: t, store: []string{"--store", "file", "--store-path", filepath.Join(t.TempDir(), "store.json")}}
}

func (c *cli) run(args ...string) (int, string, string) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(append(append([]string{}, args...), c.store...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	code, out, errOut := c.run(args...)
	if code != 0 {
		c.t.Fatalf("%v exited %d: %s", args, code, errOut)
	}
	return out
}

func TestCLI_SessionLifecycle(t *testing.T) {
	c := newCLI(t)

	code, _, errOut := c.run("whoami")
	if code != 1 || !strings.Contains(errOut, "not logged in") {
		t.Fatalf("expected login hint, got %d %q", code, errOut)
	}

	out := c.mustRun("login", "--email", "super@local", "--password", "1234")
	var who principalOutput
	if err := json.Unmarshal([]byte(out), &who); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if !who.Super || who.Role != string(domain.RoleSuperAdmin) {
		t.Fatalf("unexpected principal %+v", who)
	}

	var tenant domain.Tenant
	if err := json.Unmarshal([]byte(c.mustRun("tenants", "create", "--name", "Acme", "--account-id", "A-1")), &tenant); err != nil {
		t.Fatalf("decode tenant: %v", err)
	}
	if tenant.ID == "" || tenant.Name != "Acme" {
		t.Fatalf("unexpected tenant %+v", tenant)
	}

	code, _, errOut = c.run("users", "invite", "--tenant", tenant.ID, "--email", "ann@x", "--role", "owner")
	if code != 1 || !strings.Contains(errOut, "user:invite") {
		t.Fatalf("super admin must not invite, got %d %q", code, errOut)
	}

	c.mustRun("use", tenant.ID)
	c.mustRun("logout")
	c.mustRun("logout")
	if code, _, _ := c.run("tenants", "list"); code != 1 {
		t.Fatalf("tenants list must require a session")
	}

	code, _, errOut = c.run("login", "--email", "super@local", "--password", "wrong")
	if code != 1 || !strings.Contains(errOut, "invalid credentials") {
		t.Fatalf("expected invalid credentials, got %d %q", code, errOut)
	}
}

func TestCLI_OwnerFlow(t *testing.T) {
	c := newCLI(t)
	t.Setenv("SEED_FIXTURE", "true")
	seeded := c.mustRun("seed")
	if !strings.Contains(seeded, `"session_created": true`) {
		t.Fatalf("unexpected seed output %s", seeded)
	}
	tenantID := firstTenantID(t, c)
	c.mustRun("logout")

	c.mustRun("login", "--email", "owner@demo.test", "--password", "1234", "--tenant", tenantID)
	out := c.mustRun("can", "--list")
	if !strings.Contains(out, domain.PermUserInvite) || strings.Contains(out, domain.PermTenantCreate) {
		t.Fatalf("unexpected owner permissions %s", out)
	}

	var u domain.User
	if err := json.Unmarshal([]byte(c.mustRun("users", "invite", "--tenant", tenantID, "--email", "bob@x", "--role", "agent")), &u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if u.Status != domain.StatusActive || u.Role != domain.RoleAgent {
		t.Fatalf("unexpected user %+v", u)
	}
	if out := c.mustRun("users", "update", u.ID, "--status", "disabled"); !strings.Contains(out, `"updated": true`) {
		t.Fatalf("unexpected update output %s", out)
	}
	if out := c.mustRun("users", "delete", u.ID); !strings.Contains(out, `"deleted": true`) {
		t.Fatalf("unexpected delete output %s", out)
	}
	if out := c.mustRun("can", "reports:view", "--role", "viewer"); !strings.Contains(out, `"allowed": false`) {
		t.Fatalf("viewer must not view reports: %s", out)
	}
}

func TestCLI_EmailMatchFlagIgnoresCase(t *testing.T) {
	c := newCLI(t)
	t.Setenv("EMAIL_MATCH", "")
	t.Setenv("SEED_FIXTURE", "true")
	c.mustRun("seed")
	tenantID := firstTenantID(t, c)
	c.mustRun("logout")

	code, _, errOut := c.run("login", "--email", "OWNER@demo.test", "--password", "1234", "--tenant", tenantID)
	if code != 1 || !strings.Contains(errOut, "user not found") {
		t.Fatalf("exact matching must reject a case mismatch, got %d %q", code, errOut)
	}
	out := c.mustRun("login", "--email", "OWNER@demo.test", "--password", "1234", "--tenant", tenantID, "--email-match", "FOLD")
	var who principalOutput
	if err := json.Unmarshal([]byte(out), &who); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if who.Role != string(domain.RoleOwner) {
		t.Fatalf("unexpected principal %+v", who)
	}
}

func firstTenantID(t *testing.T, c *cli) string {
	t.Helper()
	var tenants []domain.Tenant
	if err := json.Unmarshal([]byte(c.mustRun("tenants", "accessible")), &tenants); err != nil {
		t.Fatalf("decode tenants: %v", err)
	}
	if len(tenants) == 0 {
		t.Fatalf("expected tenants")
	}
	return tenants[0].ID
}

func TestCLI_BrandAndSwitcher(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("brand", "--page", "Orders")
	if !strings.Contains(out, `"title": "Orders"`) || !strings.Contains(out, `"active": false`) {
		t.Fatalf("unexpected brand output %s", out)
	}
	c.mustRun("login", "--email", "super@local", "--password", "1234")
	var tenant domain.Tenant
	_ = json.Unmarshal([]byte(c.mustRun("tenants", "create", "--name", "Acme")), &tenant)
	c.mustRun("use", tenant.ID)
	out = c.mustRun("brand", "--page", "Orders")
	if !strings.Contains(out, `"title": "Orders · Acme"`) {
		t.Fatalf("unexpected brand output %s", out)
	}
	out = c.mustRun("switcher")
	if !strings.Contains(out, `"hidden": true`) {
		t.Fatalf("single tenant switcher must hide: %s", out)
	}
}
