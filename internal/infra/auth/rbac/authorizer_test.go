package rbac

import (
	"errors"
	"testing"

	"tenantd/internal/domain"
)

func TestAuthorizer_CanMatchesTable(t *testing.T) {
	authz := NewAuthorizer()
	for perm, roles := range DefaultPermissions {
		listed := make(map[domain.Role]bool, len(roles))
		for _, r := range roles {
			listed[r] = true
		}
		for _, role := range domain.Roles {
			if got := authz.Can(perm, role); got != listed[role] {
				t.Fatalf("Can(%s, %s) = %v, want %v", perm, role, got, listed[role])
			}
		}
	}
}

func TestAuthorizer_UnknownPermissionDenies(t *testing.T) {
	authz := NewAuthorizer()
	for _, role := range domain.Roles {
		if authz.Can("billing:refund", role) {
			t.Fatalf("expected unknown permission to deny %s", role)
		}
	}
	for _, perm := range authz.Permissions(domain.RoleOwner) {
		if perm == "billing:refund" {
			t.Fatalf("expected billing:refund to be unlisted")
		}
	}
}

func TestAuthorizer_EmptyRoleDenies(t *testing.T) {
	authz := NewAuthorizer()
	if authz.Can(domain.PermOrdersView, "") {
		t.Fatalf("expected empty role to be denied")
	}
}

func TestAuthorizer_SuperAdminIsNotWildcard(t *testing.T) {
	authz := NewAuthorizer()
	if !authz.Can(domain.PermTenantCreate, domain.RoleSuperAdmin) {
		t.Fatalf("super admin must create tenants")
	}
	if authz.Can(domain.PermUserInvite, domain.RoleSuperAdmin) {
		t.Fatalf("super admin is not listed for user:invite")
	}
}

func TestAuthorizer_RequireAgreesWithCan(t *testing.T) {
	authz := NewAuthorizer()
	perms := append([]string{"unknown:perm"}, authz.Permissions(domain.RoleOwner)...)
	perms = append(perms, domain.PermTenantCreate)
	for _, perm := range perms {
		for _, role := range append([]domain.Role{""}, domain.Roles...) {
			err := authz.Require(perm, role)
			if authz.Can(perm, role) {
				if err != nil {
					t.Fatalf("Require(%s, %s) unexpected error %v", perm, role, err)
				}
				continue
			}
			forbidden, ok := domain.IsForbidden(err)
			if !ok {
				t.Fatalf("Require(%s, %s) expected forbidden error, got %v", perm, role, err)
			}
			if forbidden.Permission != perm {
				t.Fatalf("expected permission %s, got %s", perm, forbidden.Permission)
			}
			if !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden to be unwrapped")
			}
		}
	}
}

func TestAuthorizer_Permissions(t *testing.T) {
	authz := NewAuthorizer()
	got := authz.Permissions(domain.RoleManager)
	want := []string{domain.PermCustomersView, domain.PermOrdersView, domain.PermReportsView}
	if len(got) != len(want) {
		t.Fatalf("unexpected permissions %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected permissions %v", got)
		}
	}
	if len(authz.Permissions("")) != 0 {
		t.Fatalf("empty role must hold nothing")
	}
}

func TestForbiddenErrorMessage(t *testing.T) {
	err := &domain.ForbiddenError{Permission: domain.PermUserDelete}
	if err.Error() != "forbidden: missing permission user:delete" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
