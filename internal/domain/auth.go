package domain

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleAgent      Role = "agent"
	RoleViewer     Role = "viewer"
)

// Roles lists every role in privilege order.
var Roles = []Role{RoleSuperAdmin, RoleOwner, RoleAdmin, RoleManager, RoleAgent, RoleViewer}

const (
	PermTenantCreate  = "tenant:create"
	PermTenantUpdate  = "tenant:update"
	PermUserInvite    = "user:invite"
	PermUserUpdate    = "user:update"
	PermUserDelete    = "user:delete"
	PermOrdersView    = "orders:view"
	PermCustomersView = "customers:view"
	PermReportsView   = "reports:view"
	PermSettingsView  = "settings:view"
)

// Permissions lists every permission the console knows about.
var Permissions = []string{
	PermTenantCreate,
	PermTenantUpdate,
	PermUserInvite,
	PermUserUpdate,
	PermUserDelete,
	PermOrdersView,
	PermCustomersView,
	PermReportsView,
	PermSettingsView,
}

// PermissionChecker answers whether a role holds a permission. Implementations
// must deny unknown permissions and the empty role.
type PermissionChecker interface {
	Can(permission string, role Role) bool
}

// PermissionCatalog is a checker that can also enforce and enumerate its own
// table. The console prefers it over iterating Permissions.
type PermissionCatalog interface {
	PermissionChecker
	Require(permission string, role Role) error
	Permissions(role Role) []string
}
