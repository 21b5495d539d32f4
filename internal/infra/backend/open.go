package backend

import (
	"context"
	"errors"
	"fmt"

	"tenantd/internal/config"
	"tenantd/internal/domain"
	"tenantd/internal/infra/auth/rbac"
	"tenantd/internal/infra/db"
	"tenantd/internal/infra/kvfile"
	"tenantd/internal/infra/kvmem"
	"tenantd/internal/infra/kvredis"
	"tenantd/internal/infra/policyopa"
	"tenantd/internal/infra/ratelimit"
	"tenantd/internal/logger"
	"tenantd/internal/usecase"

	"github.com/redis/go-redis/v9"
)

// Backend bundles the infrastructure a Console runs on.
type Backend struct {
	Store   domain.Store
	Checker domain.PermissionChecker
	Limiter domain.RateLimiter

	closers []func() error
}

// Open selects the store, permission checker and login limiter from cfg.
func Open(ctx context.Context, cfg config.Config, log logger.Logger) (*Backend, error) {
	if log == nil {
		log = logger.Discard()
	}
	b := &Backend{}
	store, err := b.openStore(ctx, cfg)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Store = store

	checker, err := OpenChecker(ctx, cfg)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Checker = checker

	b.Limiter, err = b.openLimiter(ctx, cfg, store)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	keyvals := []any{"store", cfg.StoreBackend, "policy", cfg.PolicyMode}
	if fs, ok := store.(*kvfile.Store); ok {
		keyvals = append(keyvals, "path", fs.Path())
	}
	if cfg.PolicyFile != "" {
		keyvals = append(keyvals, "policy_file", cfg.PolicyFile)
	}
	log.Info("backend ready", keyvals...)
	return b, nil
}

func (b *Backend) openStore(ctx context.Context, cfg config.Config) (domain.Store, error) {
	switch cfg.StoreBackend {
	case "", config.BackendMemory:
		return kvmem.New(), nil
	case config.BackendFile:
		s, err := kvfile.New(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendRedis:
		s, err := kvredis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StoreNamespace)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, s.Close)
		if err := s.Ping(ctx); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return s, nil
	case config.BackendPostgres:
		s, err := db.NewStore(cfg)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, s.Close)
		if err := s.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return db.NewKVStore(s.DB, cfg.StoreNamespace), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

// OpenChecker builds the permission checker named by POLICY_MODE. In opa mode
// POLICY_FILE, when set, is compiled in place of the built-in module.
func OpenChecker(ctx context.Context, cfg config.Config) (domain.PermissionChecker, error) {
	switch cfg.PolicyMode {
	case "", config.PolicyStatic:
		if cfg.PolicyFile != "" {
			return nil, fmt.Errorf("policy file %s requires policy mode %s", cfg.PolicyFile, config.PolicyOPA)
		}
		return rbac.NewAuthorizer(), nil
	case config.PolicyOPA:
		var (
			engine *policyopa.Engine
			err    error
		)
		if cfg.PolicyFile != "" {
			engine, err = policyopa.NewEngineFromFile(ctx, rbac.DefaultPermissions, cfg.PolicyFile)
		} else {
			engine, err = policyopa.NewEngine(ctx, rbac.DefaultPermissions)
		}
		if err != nil {
			return nil, fmt.Errorf("load policy: %w", err)
		}
		return engine, nil
	default:
		return nil, fmt.Errorf("unsupported policy mode %q", cfg.PolicyMode)
	}
}

// openLimiter shares budgets through redis when one is configured and falls
// back to an in-process limiter otherwise.
func (b *Backend) openLimiter(ctx context.Context, cfg config.Config, store domain.Store) (domain.RateLimiter, error) {
	if cfg.LoginRateLimitRequests <= 0 {
		return nil, nil
	}
	var client redis.UniversalClient
	if rs, ok := store.(*kvredis.Store); ok {
		client = rs.Client()
	} else if cfg.RedisAddr != "" {
		c := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err := c.Ping(ctx).Err(); err == nil {
			b.closers = append(b.closers, c.Close)
			client = c
		} else {
			_ = c.Close()
		}
	}
	if client != nil {
		limiter, err := ratelimit.NewRedis(client, cfg.StoreNamespace+":ratelimit", nil)
		if err != nil {
			return nil, err
		}
		return limiter, nil
	}
	return ratelimit.NewMemory(ratelimit.MemoryConfig{MaxKeys: cfg.RateLimitMaxKeys}), nil
}

func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

// ConsoleOptions maps cfg onto the console options.
func ConsoleOptions(cfg config.Config) usecase.Options {
	return usecase.Options{
		DemoPassword:  cfg.DemoPassword,
		SuperEmail:    cfg.SuperEmail,
		FoldEmailCase: cfg.FoldEmailCase(),
		SeedFixture:   cfg.SeedFixture,
		Brand: usecase.BrandDefaults{
			Name:    cfg.BrandDefaultName,
			LogoURL: cfg.BrandDefaultLogo,
		},
	}
}

// NewConsole opens the backend and builds a Console on it.
func NewConsole(ctx context.Context, cfg config.Config, log logger.Logger) (*usecase.Console, *Backend, error) {
	b, err := Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return usecase.NewConsole(b.Store, b.Checker, log, ConsoleOptions(cfg)), b, nil
}
