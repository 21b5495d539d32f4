package main

import (
	"fmt"

	"tenantd/internal/domain"

	"github.com/spf13/cobra"
)

func (a *app) requireAuth(cmd *cobra.Command, _ []string) error {
	return a.console.RequireAuth(cmd.Context())
}

func (a *app) tenantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "Manage tenants",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			Short:   "List every tenant",
			Args:    cobra.NoArgs,
			PreRunE: a.requireAuth,
			RunE: func(cmd *cobra.Command, _ []string) error {
				tenants, err := a.console.ListTenants(cmd.Context())
				if err != nil {
					return err
				}
				return a.print(tenants)
			},
		},
		&cobra.Command{
			Use:     "accessible",
			Short:   "List the tenants the current principal can switch to",
			Args:    cobra.NoArgs,
			PreRunE: a.requireAuth,
			RunE: func(cmd *cobra.Command, _ []string) error {
				tenants, err := a.console.AccessibleTenants(cmd.Context())
				if err != nil {
					return err
				}
				return a.print(tenants)
			},
		},
		&cobra.Command{
			Use:     "get <tenant-id>",
			Short:   "Show one tenant",
			Args:    cobra.ExactArgs(1),
			PreRunE: a.requireAuth,
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := a.console.GetTenant(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if t == nil {
					return fmt.Errorf("tenant %s: %w", args[0], domain.ErrNotFound)
				}
				return a.print(t)
			},
		},
		a.tenantCreateCmd(),
		a.tenantUpdateCmd(),
	)
	return cmd
}

func (a *app) tenantCreateCmd() *cobra.Command {
	var in domain.TenantInput
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a tenant (super admin)",
		Args:    cobra.NoArgs,
		PreRunE: a.requireAuth,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.console.CreateTenant(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.print(domain.Tenant{ID: id, Name: in.Name, AccountID: in.AccountID, LogoURL: in.LogoURL})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "tenant name")
	cmd.Flags().StringVar(&in.AccountID, "account-id", "", "external account id")
	cmd.Flags().StringVar(&in.LogoURL, "logo", "", "logo url")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) tenantUpdateCmd() *cobra.Command {
	var name, accountID, logo string
	cmd := &cobra.Command{
		Use:     "update <tenant-id>",
		Short:   "Patch a tenant",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.TenantPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("account-id") {
				patch.AccountID = &accountID
			}
			if cmd.Flags().Changed("logo") {
				patch.LogoURL = &logo
			}
			ok, err := a.console.UpdateTenant(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return a.print(map[string]bool{"updated": ok})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "tenant name")
	cmd.Flags().StringVar(&accountID, "account-id", "", "external account id")
	cmd.Flags().StringVar(&logo, "logo", "", "logo url")
	return cmd
}

func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage tenant users",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "list <tenant-id>",
			Short:   "List the users of a tenant",
			Args:    cobra.ExactArgs(1),
			PreRunE: a.requireAuth,
			RunE: func(cmd *cobra.Command, args []string) error {
				users, err := a.console.ListUsers(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.print(users)
			},
		},
		a.userInviteCmd(),
		a.userUpdateCmd(),
		&cobra.Command{
			Use:     "delete <user-id>",
			Short:   "Delete a user record",
			Args:    cobra.ExactArgs(1),
			PreRunE: a.requireAuth,
			RunE: func(cmd *cobra.Command, args []string) error {
				removed, err := a.console.DeleteUser(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.print(map[string]bool{"deleted": removed})
			},
		},
	)
	return cmd
}

func (a *app) userInviteCmd() *cobra.Command {
	var in domain.InviteInput
	var role string
	cmd := &cobra.Command{
		Use:     "invite",
		Short:   "Add an active user to a tenant",
		Args:    cobra.NoArgs,
		PreRunE: a.requireAuth,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Role = domain.Role(role)
			u, err := a.console.InviteUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.print(u)
		},
	}
	cmd.Flags().StringVar(&in.TenantID, "tenant", "", "tenant id")
	cmd.Flags().StringVar(&in.Email, "email", "", "user email")
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleViewer), "owner, admin, manager, agent or viewer")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) userUpdateCmd() *cobra.Command {
	var tenantID, name, email, role, status string
	cmd := &cobra.Command{
		Use:     "update <user-id>",
		Short:   "Patch a user record",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.requireAuth,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.UserPatch
			flags := cmd.Flags()
			if flags.Changed("tenant") {
				patch.TenantID = &tenantID
			}
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("email") {
				patch.Email = &email
			}
			if flags.Changed("role") {
				r := domain.Role(role)
				patch.Role = &r
			}
			if flags.Changed("status") {
				s := domain.UserStatus(status)
				patch.Status = &s
			}
			ok, err := a.console.UpdateUser(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return a.print(map[string]bool{"updated": ok})
		},
	}
	cmd.Flags().StringVar(&tenantID, "tenant", "", "move to tenant id")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&role, "role", "", "role")
	cmd.Flags().StringVar(&status, "status", "", "active or disabled")
	return cmd
}
