package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"tenantd/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// collections maps the typed entities onto the raw store keys and validates
// every record crossing the boundary in either direction. Bad reads wrap
// ErrCorruptRecord; bad writes wrap ErrInvalidRecord.
type collections struct {
	store domain.Store
}

func (c *collections) readJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", domain.ErrCorruptRecord, key, err)
	}
	return true, nil
}

func (c *collections) writeJSON(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (c *collections) remove(ctx context.Context, key string) error {
	if err := c.store.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func validateEach[T any](kind error, key string, records []T) error {
	for i := range records {
		if err := validate.Struct(records[i]); err != nil {
			return fmt.Errorf("%w: %s[%d]: %v", kind, key, i, err)
		}
	}
	return nil
}

func (c *collections) tenants(ctx context.Context) ([]domain.Tenant, error) {
	var out []domain.Tenant
	if _, err := c.readJSON(ctx, domain.KeyTenants, &out); err != nil {
		return nil, err
	}
	if err := validateEach(domain.ErrCorruptRecord, domain.KeyTenants, out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Tenant{}
	}
	return out, nil
}

func (c *collections) putTenants(ctx context.Context, tenants []domain.Tenant) error {
	if err := validateEach(domain.ErrInvalidRecord, domain.KeyTenants, tenants); err != nil {
		return err
	}
	if tenants == nil {
		tenants = []domain.Tenant{}
	}
	return c.writeJSON(ctx, domain.KeyTenants, tenants)
}

func (c *collections) users(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if _, err := c.readJSON(ctx, domain.KeyUsers, &out); err != nil {
		return nil, err
	}
	if err := validateEach(domain.ErrCorruptRecord, domain.KeyUsers, out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}

func (c *collections) putUsers(ctx context.Context, users []domain.User) error {
	if err := validateEach(domain.ErrInvalidRecord, domain.KeyUsers, users); err != nil {
		return err
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.writeJSON(ctx, domain.KeyUsers, users)
}

// session returns nil when the key is absent or holds JSON null.
func (c *collections) session(ctx context.Context) (*domain.Session, error) {
	var s *domain.Session
	if _, err := c.readJSON(ctx, domain.KeySession, &s); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptRecord, domain.KeySession, err)
	}
	return s, nil
}

func (c *collections) putSession(ctx context.Context, s domain.Session) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidRecord, domain.KeySession, err)
	}
	return c.writeJSON(ctx, domain.KeySession, s)
}

func (c *collections) clearSession(ctx context.Context) error {
	return c.remove(ctx, domain.KeySession)
}

func (c *collections) activeTenantID(ctx context.Context) (string, error) {
	var id *string
	if _, err := c.readJSON(ctx, domain.KeyActiveTenant, &id); err != nil {
		return "", err
	}
	if id == nil {
		return "", nil
	}
	return *id, nil
}

// putActiveTenantID removes the key for the empty id.
func (c *collections) putActiveTenantID(ctx context.Context, id string) error {
	if id == "" {
		return c.remove(ctx, domain.KeyActiveTenant)
	}
	return c.writeJSON(ctx, domain.KeyActiveTenant, id)
}

// setSuperFlag writes the raw string "true", not a JSON boolean.
func (c *collections) setSuperFlag(ctx context.Context, on bool) error {
	if !on {
		return c.remove(ctx, domain.KeySuperFlag)
	}
	if err := c.store.Set(ctx, domain.KeySuperFlag, "true"); err != nil {
		return fmt.Errorf("write %s: %w", domain.KeySuperFlag, err)
	}
	return nil
}
