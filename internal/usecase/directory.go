package usecase

import (
	"context"

	"tenantd/internal/domain"
)

func (c *Console) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.tenants(ctx)
}

// GetTenant returns nil for an unknown id.
func (c *Console) GetTenant(ctx context.Context, id string) (*domain.Tenant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getTenant(ctx, id)
}

// ActiveTenant resolves the active-tenant pointer to a tenant, or nil.
func (c *Console) ActiveTenant(ctx context.Context) (*domain.Tenant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeTenant(ctx)
}

func (c *Console) activeTenant(ctx context.Context) (*domain.Tenant, error) {
	id, err := c.data.activeTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	return c.getTenant(ctx, id)
}

func (c *Console) getTenant(ctx context.Context, id string) (*domain.Tenant, error) {
	tenants, err := c.data.tenants(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tenants {
		if tenants[i].ID == id {
			t := tenants[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (c *Console) CreateTenant(ctx context.Context, in domain.TenantInput) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requirePermission(ctx, domain.PermTenantCreate); err != nil {
		return "", err
	}
	tenants, err := c.data.tenants(ctx)
	if err != nil {
		return "", err
	}
	id := c.uniqueID(func(id string) bool {
		for _, t := range tenants {
			if t.ID == id {
				return true
			}
		}
		return false
	})
	tenants = append(tenants, domain.Tenant{
		ID:        id,
		Name:      in.Name,
		AccountID: in.AccountID,
		LogoURL:   in.LogoURL,
	})
	if err := c.data.putTenants(ctx, tenants); err != nil {
		return "", err
	}
	c.logFor(ctx).Info("tenant created", "tenant_id", id, "name", in.Name)
	return id, nil
}

// UpdateTenant merges patch into the tenant. It reports false, without error,
// when id is unknown.
func (c *Console) UpdateTenant(ctx context.Context, id string, patch domain.TenantPatch) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requirePermission(ctx, domain.PermTenantUpdate); err != nil {
		return false, err
	}
	tenants, err := c.data.tenants(ctx)
	if err != nil {
		return false, err
	}
	for i := range tenants {
		if tenants[i].ID != id {
			continue
		}
		tenants[i] = patch.Apply(tenants[i])
		if err := c.data.putTenants(ctx, tenants); err != nil {
			return false, err
		}
		c.logFor(ctx).Info("tenant updated", "tenant_id", id)
		return true, nil
	}
	c.logFor(ctx).Debug("tenant update skipped", "tenant_id", id)
	return false, nil
}

func (c *Console) ListUsers(ctx context.Context, tenantID string) ([]domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listUsers(ctx, tenantID)
}

func (c *Console) listUsers(ctx context.Context, tenantID string) ([]domain.User, error) {
	users, err := c.data.users(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

// InviteUser always appends a new active record. There is no dedup on
// (tenant, email).
func (c *Console) InviteUser(ctx context.Context, in domain.InviteInput) (domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requirePermission(ctx, domain.PermUserInvite); err != nil {
		return domain.User{}, err
	}
	users, err := c.data.users(ctx)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		ID: c.uniqueID(func(id string) bool {
			for _, existing := range users {
				if existing.ID == id {
					return true
				}
			}
			return false
		}),
		TenantID: in.TenantID,
		Name:     in.Name,
		Email:    in.Email,
		Role:     in.Role,
		Status:   domain.StatusActive,
	}
	if err := c.data.putUsers(ctx, append(users, u)); err != nil {
		return domain.User{}, err
	}
	c.logFor(ctx).Info("user invited", "user_id", u.ID, "tenant_id", u.TenantID, "role", u.Role)
	return u, nil
}

func (c *Console) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requirePermission(ctx, domain.PermUserUpdate); err != nil {
		return false, err
	}
	users, err := c.data.users(ctx)
	if err != nil {
		return false, err
	}
	for i := range users {
		if users[i].ID != id {
			continue
		}
		users[i] = patch.Apply(users[i])
		if err := c.data.putUsers(ctx, users); err != nil {
			return false, err
		}
		c.logFor(ctx).Info("user updated", "user_id", id)
		return true, nil
	}
	c.logFor(ctx).Debug("user update skipped", "user_id", id)
	return false, nil
}

// DeleteUser hard-deletes the record. It reports whether one was removed.
func (c *Console) DeleteUser(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requirePermission(ctx, domain.PermUserDelete); err != nil {
		return false, err
	}
	users, err := c.data.users(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if err := c.data.putUsers(ctx, kept); err != nil {
		return false, err
	}
	removed := len(kept) != len(users)
	if removed {
		c.logFor(ctx).Info("user deleted", "user_id", id)
	}
	return removed, nil
}
