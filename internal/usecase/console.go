package usecase

import (
	"context"
	"strings"
	"sync"

	"tenantd/internal/domain"
	"tenantd/internal/logger"

	"github.com/google/uuid"
)

const (
	DefaultDemoPassword = "1234"
	DefaultSuperEmail   = "super@local"
)

type Options struct {
	// DemoPassword is the one shared secret every login is checked against.
	// It is demo-grade on purpose; there is no per-user credential.
	DemoPassword  string
	SuperEmail    string
	FoldEmailCase bool
	SeedFixture   bool
	Brand         BrandDefaults
	NewID         func() string
}

// Console is the RBAC and multi-tenant session core. Every public method
// holds mu for its whole duration, so one Console gives read-after-write
// consistency over its Store. Separate processes sharing a Store still race.
type Console struct {
	mu    sync.Mutex
	data  *collections
	authz domain.PermissionChecker
	log   logger.Logger
	opts  Options
}

func NewConsole(store domain.Store, authz domain.PermissionChecker, log logger.Logger, opts Options) *Console {
	if opts.DemoPassword == "" {
		opts.DemoPassword = DefaultDemoPassword
	}
	if opts.SuperEmail == "" {
		opts.SuperEmail = DefaultSuperEmail
	}
	if opts.NewID == nil {
		opts.NewID = newID
	}
	opts.Brand = opts.Brand.withFallbacks()
	if log == nil {
		log = logger.Discard()
	}
	return &Console{
		data:  &collections{store: store},
		authz: authz,
		log:   log,
		opts:  opts,
	}
}

func (c *Console) Options() Options {
	return c.opts
}

// logFor prefers the request-scoped logger carried by ctx.
func (c *Console) logFor(ctx context.Context) logger.Logger {
	return logger.FromContext(ctx, c.log)
}

func newID() string {
	return "id-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// uniqueID draws ids until one is not in taken.
func (c *Console) uniqueID(taken func(string) bool) string {
	for {
		id := c.opts.NewID()
		if id != "" && !taken(id) {
			return id
		}
	}
}
