package usecase

import (
	"context"
	"strings"

	"tenantd/internal/domain"
)

// AccessibleTenants lists the tenants the current principal may switch to.
func (c *Console) AccessibleTenants(ctx context.Context) ([]domain.Tenant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessibleTenants(ctx)
}

func (c *Console) accessibleTenants(ctx context.Context) ([]domain.Tenant, error) {
	p, err := c.currentPrincipal(ctx)
	if err != nil || p == nil {
		return []domain.Tenant{}, err
	}
	tenants, err := c.data.tenants(ctx)
	if err != nil {
		return nil, err
	}
	users, err := c.data.users(ctx)
	if err != nil {
		return nil, err
	}
	return ResolveAccessibleTenants(p, tenants, users, c.opts.FoldEmailCase), nil
}

// ResolveAccessibleTenants joins memberships on email. A person has no
// identity of their own: every User row sharing the principal's email is a
// membership, whatever its status. The result keeps the order of tenants.
func ResolveAccessibleTenants(p domain.Principal, tenants []domain.Tenant, users []domain.User, foldCase bool) []domain.Tenant {
	out := []domain.Tenant{}
	if p == nil {
		return out
	}
	if _, ok := p.(domain.SuperAdmin); ok {
		return append(out, tenants...)
	}
	member := make(map[string]struct{})
	for _, u := range users {
		if matchEmail(u.Email, p.Email(), foldCase) {
			member[u.TenantID] = struct{}{}
		}
	}
	for _, t := range tenants {
		if _, ok := member[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out
}

func (c *Console) emailsMatch(a, b string) bool {
	return matchEmail(a, b, c.opts.FoldEmailCase)
}

func matchEmail(a, b string, foldCase bool) bool {
	if foldCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}
