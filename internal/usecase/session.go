package usecase

import (
	"context"

	"tenantd/internal/domain"
)

// Login opens a session. The password is compared before anything else, so a
// wrong password is reported the same way whether or not the user exists.
func (c *Console) Login(ctx context.Context, in domain.LoginInput) (domain.Principal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if in.Password != c.opts.DemoPassword {
		c.logFor(ctx).Warn("login rejected", "email", in.Email, "reason", "invalid_credentials")
		return nil, domain.ErrInvalidCredentials
	}

	if c.emailsMatch(in.Email, c.opts.SuperEmail) {
		tenantID := in.TenantID
		if tenantID == "" {
			tenants, err := c.data.tenants(ctx)
			if err != nil {
				return nil, err
			}
			if len(tenants) > 0 {
				tenantID = tenants[0].ID
			}
		}
		if err := c.data.setSuperFlag(ctx, true); err != nil {
			return nil, err
		}
		if err := c.data.putSession(ctx, domain.Session{UserID: domain.SuperUserID, TenantID: optional(tenantID)}); err != nil {
			return nil, err
		}
		c.logFor(ctx).Info("login", "principal", "super_admin", "tenant_id", tenantID)
		return domain.SuperAdmin{Login: c.opts.SuperEmail}, nil
	}

	users, err := c.listUsers(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	var found *domain.User
	for i := range users {
		if c.emailsMatch(users[i].Email, in.Email) && users[i].Status != domain.StatusDisabled {
			found = &users[i]
			break
		}
	}
	if found == nil {
		c.logFor(ctx).Warn("login rejected", "email", in.Email, "tenant_id", in.TenantID, "reason", "user_not_found")
		return nil, domain.ErrUserNotFound
	}
	// A super flag left by an earlier session must not survive a regular login.
	if err := c.data.setSuperFlag(ctx, false); err != nil {
		return nil, err
	}
	if err := c.data.putSession(ctx, domain.Session{UserID: found.ID, TenantID: optional(in.TenantID)}); err != nil {
		return nil, err
	}
	c.logFor(ctx).Info("login", "user_id", found.ID, "tenant_id", in.TenantID, "role", found.Role)
	return domain.RegisteredUser{User: *found}, nil
}

// Logout is idempotent.
func (c *Console) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.data.clearSession(ctx); err != nil {
		return err
	}
	if err := c.data.setSuperFlag(ctx, false); err != nil {
		return err
	}
	c.logFor(ctx).Debug("logout")
	return nil
}

func (c *Console) Session(ctx context.Context) (*domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.session(ctx)
}

// CurrentPrincipal re-reads the store on every call. It returns nil when
// there is no session or when the session names a user that no longer exists.
func (c *Console) CurrentPrincipal(ctx context.Context) (domain.Principal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPrincipal(ctx)
}

func (c *Console) currentPrincipal(ctx context.Context) (domain.Principal, error) {
	s, err := c.data.session(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	if s.IsSuper() {
		return domain.SuperAdmin{Login: c.opts.SuperEmail}, nil
	}
	users, err := c.data.users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == s.UserID {
			return domain.RegisteredUser{User: u}, nil
		}
	}
	return nil, nil
}

// SetActiveTenant moves the active-tenant pointer and, when logged in, the
// session tenant with it. Membership in the new tenant is not checked.
func (c *Console) SetActiveTenant(ctx context.Context, tenantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.data.putActiveTenantID(ctx, tenantID); err != nil {
		return err
	}
	s, err := c.data.session(ctx)
	if err != nil {
		return err
	}
	if s != nil {
		s.TenantID = optional(tenantID)
		if err := c.data.putSession(ctx, *s); err != nil {
			return err
		}
	}
	c.logFor(ctx).Debug("active tenant set", "tenant_id", tenantID)
	return nil
}

func (c *Console) ActiveTenantID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.activeTenantID(ctx)
}

// RequireAuth fails with ErrUnauthorized when no session exists. It checks
// only the session pointer, not whether the user still exists.
func (c *Console) RequireAuth(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.data.session(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrUnauthorized
	}
	return nil
}

func (c *Console) IsSuper(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.currentPrincipal(ctx)
	if err != nil {
		return false, err
	}
	_, ok := p.(domain.SuperAdmin)
	return ok, nil
}

func optional(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
