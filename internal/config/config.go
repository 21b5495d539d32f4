package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"

	PolicyStatic = "static"
	PolicyOPA    = "opa"

	EmailMatchExact = "exact"
	EmailMatchFold  = "fold"
)

type Config struct {
	HTTPAddr string
	LogLevel string
	LogJSON  bool

	StoreBackend   string
	StorePath      string
	StoreNamespace string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PostgresDSN string

	PolicyMode string
	// PolicyFile replaces the built-in Rego module when PolicyMode is opa.
	PolicyFile string

	// DemoPassword is the single shared login secret. It is demo-grade and
	// not a per-user credential.
	DemoPassword string
	SuperEmail   string
	EmailMatch   string
	SeedFixture  bool

	BrandDefaultName string
	BrandDefaultLogo string

	LoginRateLimitRequests      int
	LoginRateLimitWindowSeconds int
	RateLimitMaxKeys            int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}
	return Config{
		HTTPAddr:                    addr,
		LogLevel:                    envDefault("LOG_LEVEL", "info"),
		LogJSON:                     envBoolDefault("LOG_JSON", false),
		StoreBackend:                envDefault("STORE_BACKEND", BackendMemory),
		StorePath:                   envDefault("STORE_PATH", "tenantd-store.json"),
		StoreNamespace:              envDefault("STORE_NAMESPACE", "tenantd"),
		RedisAddr:                   os.Getenv("REDIS_ADDR"),
		RedisPassword:               os.Getenv("REDIS_PASSWORD"),
		RedisDB:                     envIntDefault("REDIS_DB", 0),
		PostgresDSN:                 os.Getenv("POSTGRES_DSN"),
		PolicyMode:                  envDefault("POLICY_MODE", PolicyStatic),
		PolicyFile:                  os.Getenv("POLICY_FILE"),
		DemoPassword:                envDefault("DEMO_PASSWORD", "1234"),
		SuperEmail:                  envDefault("SUPER_EMAIL", "super@local"),
		EmailMatch:                  envDefault("EMAIL_MATCH", EmailMatchExact),
		SeedFixture:                 envBoolDefault("SEED_FIXTURE", false),
		BrandDefaultName:            envDefault("BRAND_DEFAULT_NAME", "Company"),
		BrandDefaultLogo:            envDefault("BRAND_DEFAULT_LOGO", "images/logo.png"),
		LoginRateLimitRequests:      envIntDefault("LOGIN_RATE_LIMIT_REQUESTS", 10),
		LoginRateLimitWindowSeconds: envIntDefault("LOGIN_RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitMaxKeys:            envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
	}.Normalized()
}

// Normalized lowercases the enumerated settings. Call it again after flags
// override the env values.
func (c Config) Normalized() Config {
	c.StoreBackend = strings.ToLower(c.StoreBackend)
	c.PolicyMode = strings.ToLower(c.PolicyMode)
	c.EmailMatch = strings.ToLower(c.EmailMatch)
	return c
}

func (c Config) LoginRateLimitWindow() time.Duration {
	if c.LoginRateLimitWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.LoginRateLimitWindowSeconds) * time.Second
}

func (c Config) FoldEmailCase() bool {
	return c.EmailMatch == EmailMatchFold
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func envBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "No":
		return false
	default:
		return def
	}
}
