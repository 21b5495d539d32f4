package usecase

import (
	"context"

	"tenantd/internal/domain"
)

// Seed fixture contents. Only Bootstrap writes them.
var (
	SeedTenant = domain.TenantInput{Name: "Demo Company", AccountID: "000001", LogoURL: "images/logo.png"}
	SeedOwner  = domain.InviteInput{Name: "Owner", Email: "owner@demo.test", Role: domain.RoleOwner}
)

// Bootstrap is a dev fixture and refuses to run unless Options.SeedFixture is
// set. With no session it seeds one tenant and its owner when the store has
// no tenants, then opens a super-admin session pinned to the active tenant or
// the first one. It reports whether a session was opened.
func (c *Console) Bootstrap(ctx context.Context) (bool, error) {
	if !c.opts.SeedFixture {
		return false, domain.ErrSeedDisabled
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.data.session(ctx)
	if err != nil {
		return false, err
	}
	if s != nil {
		return false, nil
	}

	tenants, err := c.data.tenants(ctx)
	if err != nil {
		return false, err
	}
	if len(tenants) == 0 {
		users, err := c.data.users(ctx)
		if err != nil {
			return false, err
		}
		tenantID := c.opts.NewID()
		tenants = append(tenants, domain.Tenant{
			ID:        tenantID,
			Name:      SeedTenant.Name,
			AccountID: SeedTenant.AccountID,
			LogoURL:   SeedTenant.LogoURL,
		})
		users = append(users, domain.User{
			ID:       c.uniqueID(func(id string) bool { return id == tenantID }),
			TenantID: tenantID,
			Name:     SeedOwner.Name,
			Email:    SeedOwner.Email,
			Role:     SeedOwner.Role,
			Status:   domain.StatusActive,
		})
		if err := c.data.putTenants(ctx, tenants); err != nil {
			return false, err
		}
		if err := c.data.putUsers(ctx, users); err != nil {
			return false, err
		}
		c.logFor(ctx).Info("seed fixture written", "tenant_id", tenantID)
	}

	active, err := c.data.activeTenantID(ctx)
	if err != nil {
		return false, err
	}
	if active == "" {
		active = tenants[0].ID
	}
	if err := c.data.putSession(ctx, domain.Session{UserID: domain.SuperUserID, TenantID: optional(active)}); err != nil {
		return false, err
	}
	if err := c.data.setSuperFlag(ctx, true); err != nil {
		return false, err
	}
	c.logFor(ctx).Info("bootstrap super admin session", "tenant_id", active)
	return true, nil
}
