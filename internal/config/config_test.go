package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "STORE_BACKEND", "DEMO_PASSWORD", "SUPER_EMAIL", "EMAIL_MATCH", "SEED_FIXTURE", "LOGIN_RATE_LIMIT_WINDOW_SECONDS"} {
		t.Setenv(key, "")
	}
	cfg := FromEnv()
	if cfg.HTTPAddr != "127.0.0.1:8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.StoreBackend != BackendMemory {
		t.Fatalf("unexpected backend %q", cfg.StoreBackend)
	}
	if cfg.DemoPassword != "1234" || cfg.SuperEmail != "super@local" {
		t.Fatalf("unexpected login defaults %q %q", cfg.DemoPassword, cfg.SuperEmail)
	}
	if cfg.SeedFixture {
		t.Fatalf("seed fixture must be off by default")
	}
	if cfg.FoldEmailCase() {
		t.Fatalf("email matching must be exact by default")
	}
	if cfg.LoginRateLimitWindow() != time.Minute {
		t.Fatalf("unexpected window %s", cfg.LoginRateLimitWindow())
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("EMAIL_MATCH", "fold")
	t.Setenv("SEED_FIXTURE", "yes")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOGIN_RATE_LIMIT_WINDOW_SECONDS", "5")
	t.Setenv("POLICY_MODE", "OPA")
	t.Setenv("POLICY_FILE", "/etc/tenantd/rbac.rego")
	cfg := FromEnv()
	if cfg.PolicyMode != PolicyOPA || cfg.PolicyFile != "/etc/tenantd/rbac.rego" {
		t.Fatalf("unexpected policy settings %q %q", cfg.PolicyMode, cfg.PolicyFile)
	}
	if cfg.StoreBackend != BackendRedis {
		t.Fatalf("expected redis backend, got %q", cfg.StoreBackend)
	}
	if !cfg.FoldEmailCase() {
		t.Fatalf("expected fold email matching")
	}
	if !cfg.SeedFixture {
		t.Fatalf("expected seed fixture on")
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("expected redis db 3, got %d", cfg.RedisDB)
	}
	if cfg.LoginRateLimitWindow() != 5*time.Second {
		t.Fatalf("unexpected window %s", cfg.LoginRateLimitWindow())
	}
}

func TestNormalized(t *testing.T) {
	cfg := Config{StoreBackend: "File", PolicyMode: "Static", EmailMatch: "FOLD"}.Normalized()
	if cfg.StoreBackend != BackendFile || cfg.PolicyMode != PolicyStatic || cfg.EmailMatch != EmailMatchFold {
		t.Fatalf("unexpected normalized config %+v", cfg)
	}
	if !cfg.FoldEmailCase() {
		t.Fatalf("expected fold email matching")
	}
}

func TestEnvIntDefaultRejectsGarbage(t *testing.T) {
	t.Setenv("REDIS_DB", "nope")
	if got := FromEnv().RedisDB; got != 0 {
		t.Fatalf("expected fallback 0, got %d", got)
	}
}
