package main

import (
	"tenantd/internal/domain"

	"github.com/spf13/cobra"
)

type principalOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Super    bool   `json:"super"`
	TenantID string `json:"tenant_id,omitempty"`
}

func newPrincipalOutput(p domain.Principal, s *domain.Session) principalOutput {
	_, super := p.(domain.SuperAdmin)
	out := principalOutput{ID: p.ID(), Name: p.Name(), Email: p.Email(), Role: string(p.Role()), Super: super}
	if s != nil {
		out.TenantID = s.Tenant()
	}
	return out
}

func (a *app) loginCmd() *cobra.Command {
	var in domain.LoginInput
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := a.console.Login(ctx, in)
			if err != nil {
				return err
			}
			s, err := a.console.Session(ctx)
			if err != nil {
				return err
			}
			return a.print(newPrincipalOutput(p, s))
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Password, "password", "", "shared demo password")
	cmd.Flags().StringVar(&in.TenantID, "tenant", "", "tenant id to log into")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.console.Logout(cmd.Context()); err != nil {
				return err
			}
			return a.print(map[string]bool{"logged_out": true})
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current principal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := a.console.CurrentPrincipal(ctx)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrUnauthorized
			}
			s, err := a.console.Session(ctx)
			if err != nil {
				return err
			}
			return a.print(newPrincipalOutput(p, s))
		},
	}
}

func (a *app) useCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <tenant-id>",
		Short: "Switch the active tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.console.SetActiveTenant(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.print(map[string]string{"active_tenant_id": args[0]})
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the demo fixture and open a super admin session (SEED_FIXTURE=true)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, err := a.console.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(map[string]bool{"session_created": ok})
		},
	}
}
