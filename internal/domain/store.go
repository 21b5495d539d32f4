package domain

import "context"

// Store keys. The layout is shared with existing browser-side data and must not change.
const (
	KeyTenants      = "tenants"
	KeyUsers        = "users"
	KeySession      = "session"
	KeyActiveTenant = "activeTenantId"
	KeySuperFlag    = "super"
)

// Store is a string-keyed value store. Values are opaque strings, usually JSON.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
