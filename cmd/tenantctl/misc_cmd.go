package main

import (
	"tenantd/internal/domain"
	"tenantd/internal/usecase"

	"github.com/spf13/cobra"
)

func (a *app) canCmd() *cobra.Command {
	var role string
	var list bool
	cmd := &cobra.Command{
		Use:   "can [permission]",
		Short: "Check a permission for the current principal or --role",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := domain.Role(role)
			if !cmd.Flags().Changed("role") {
				p, err := a.console.CurrentPrincipal(cmd.Context())
				if err != nil {
					return err
				}
				r = domain.RoleOf(p)
			}
			if list || len(args) == 0 {
				return a.print(map[string]any{"role": r, "permissions": a.console.PermissionsFor(r)})
			}
			return a.print(map[string]any{"role": r, "permission": args[0], "allowed": a.console.CanRole(args[0], r)})
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "evaluate for this role instead of the session")
	cmd.Flags().BoolVar(&list, "list", false, "list every permission the role holds")
	return cmd
}

func (a *app) brandCmd() *cobra.Command {
	var page string
	cmd := &cobra.Command{
		Use:   "brand",
		Short: "Show the branding of the active tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, active, err := a.console.ActiveBranding(cmd.Context())
			if err != nil {
				return err
			}
			name := b.Name
			if !active {
				b = usecase.BrandingFor(nil, a.console.Options().Brand)
				name = ""
			}
			out := map[string]any{"active": active, "branding": b}
			if page != "" {
				out["title"] = usecase.PageTitle(page, name)
			}
			return a.print(out)
		},
	}
	cmd.Flags().StringVar(&page, "page", "", "page title to decorate")
	return cmd
}

func (a *app) switcherCmd() *cobra.Command {
	var noAutoHide bool
	cmd := &cobra.Command{
		Use:     "switcher",
		Short:   "Show the company switcher options",
		Args:    cobra.NoArgs,
		PreRunE: a.requireAuth,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sw, err := a.console.CompanySwitcher(cmd.Context(), !noAutoHide)
			if err != nil {
				return err
			}
			return a.print(sw)
		},
	}
	cmd.Flags().BoolVar(&noAutoHide, "no-auto-hide", false, "show the switcher even with a single tenant")
	return cmd
}
