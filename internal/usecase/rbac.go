package usecase

import (
	"context"
	"sort"

	"tenantd/internal/domain"
)

// Can reports whether the current principal holds permission. Nobody logged
// in means the empty role, which holds nothing.
func (c *Console) Can(ctx context.Context, permission string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.currentPrincipal(ctx)
	if err != nil {
		return false, err
	}
	return c.CanRole(permission, domain.RoleOf(p)), nil
}

func (c *Console) CanRole(permission string, role domain.Role) bool {
	if c.authz == nil {
		return false
	}
	return c.authz.Can(permission, role)
}

// PermissionsFor lists the permissions role holds, sorted. A checker that
// enumerates its own table is asked directly.
func (c *Console) PermissionsFor(role domain.Role) []string {
	if catalog, ok := c.authz.(domain.PermissionCatalog); ok {
		if perms := catalog.Permissions(role); perms != nil {
			return perms
		}
		return []string{}
	}
	out := []string{}
	for _, perm := range domain.Permissions {
		if c.CanRole(perm, role) {
			out = append(out, perm)
		}
	}
	sort.Strings(out)
	return out
}

func (c *Console) RequirePermission(ctx context.Context, permission string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requirePermission(ctx, permission)
}

func (c *Console) requirePermission(ctx context.Context, permission string) error {
	p, err := c.currentPrincipal(ctx)
	if err != nil {
		return err
	}
	role := domain.RoleOf(p)
	if catalog, ok := c.authz.(domain.PermissionCatalog); ok {
		err = catalog.Require(permission, role)
	} else if !c.CanRole(permission, role) {
		err = &domain.ForbiddenError{Permission: permission}
	}
	if err != nil {
		c.logFor(ctx).Warn("permission denied", "permission", permission, "role", role)
	}
	return err
}
