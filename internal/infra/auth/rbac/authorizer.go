package rbac

import (
	"sort"

	"tenantd/internal/domain"
)

// DefaultPermissions is the static permission table. super_admin appears only
// where it is listed; it is not an implicit wildcard.
var DefaultPermissions = map[string][]domain.Role{
	domain.PermTenantCreate:  {domain.RoleSuperAdmin},
	domain.PermTenantUpdate:  {domain.RoleSuperAdmin, domain.RoleOwner, domain.RoleAdmin},
	domain.PermUserInvite:    {domain.RoleOwner, domain.RoleAdmin},
	domain.PermUserUpdate:    {domain.RoleOwner, domain.RoleAdmin},
	domain.PermUserDelete:    {domain.RoleOwner, domain.RoleAdmin},
	domain.PermOrdersView:    {domain.RoleOwner, domain.RoleAdmin, domain.RoleManager, domain.RoleAgent, domain.RoleViewer},
	domain.PermCustomersView: {domain.RoleOwner, domain.RoleAdmin, domain.RoleManager, domain.RoleAgent, domain.RoleViewer},
	domain.PermReportsView:   {domain.RoleOwner, domain.RoleAdmin, domain.RoleManager},
	domain.PermSettingsView:  {domain.RoleOwner, domain.RoleAdmin},
}

type Authorizer struct {
	allowed map[string]map[domain.Role]struct{}
}

func NewAuthorizer() *Authorizer {
	return NewAuthorizerWithTable(DefaultPermissions)
}

func NewAuthorizerWithTable(table map[string][]domain.Role) *Authorizer {
	allowed := make(map[string]map[domain.Role]struct{}, len(table))
	for perm, roles := range table {
		set := make(map[domain.Role]struct{}, len(roles))
		for _, r := range roles {
			set[r] = struct{}{}
		}
		allowed[perm] = set
	}
	return &Authorizer{allowed: allowed}
}

func (a *Authorizer) Can(permission string, role domain.Role) bool {
	if role == "" {
		return false
	}
	_, ok := a.allowed[permission][role]
	return ok
}

func (a *Authorizer) Require(permission string, role domain.Role) error {
	if !a.Can(permission, role) {
		return &domain.ForbiddenError{Permission: permission}
	}
	return nil
}

// Permissions returns the sorted permissions held by role.
func (a *Authorizer) Permissions(role domain.Role) []string {
	out := make([]string, 0, len(a.allowed))
	for perm := range a.allowed {
		if a.Can(perm, role) {
			out = append(out, perm)
		}
	}
	sort.Strings(out)
	return out
}

var _ domain.PermissionCatalog = (*Authorizer)(nil)
