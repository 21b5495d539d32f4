package usecase

import (
	"context"
	"strings"

	"tenantd/internal/domain"
)

type BrandDefaults struct {
	Name    string
	LogoURL string
}

func (d BrandDefaults) withFallbacks() BrandDefaults {
	if d.Name == "" {
		d.Name = "Company"
	}
	if d.LogoURL == "" {
		d.LogoURL = "images/logo.png"
	}
	return d
}

// BrandingFor fills display fields for t, falling back to defaults.
func BrandingFor(t *domain.Tenant, defaults BrandDefaults) domain.Branding {
	defaults = defaults.withFallbacks()
	b := domain.Branding{Name: defaults.Name, LogoURL: defaults.LogoURL, LogoAlt: "Logo"}
	if t == nil {
		return b
	}
	b.TenantID = t.ID
	if t.Name != "" {
		b.Name = t.Name
		b.LogoAlt = t.Name
	}
	if t.LogoURL != "" {
		b.LogoURL = t.LogoURL
	}
	return b
}

// PageTitle renders "Page · Company". Anything after an existing "·" in base
// is dropped first, so the call is idempotent.
func PageTitle(base, tenantName string) string {
	page := strings.TrimSpace(strings.SplitN(base, "·", 2)[0])
	if tenantName == "" {
		return page
	}
	return page + " · " + tenantName
}

// ActiveBranding reports false when no active tenant resolves.
func (c *Console) ActiveBranding(ctx context.Context) (domain.Branding, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, err := c.activeTenant(ctx)
	if err != nil {
		return domain.Branding{}, false, err
	}
	if t == nil {
		return domain.Branding{}, false, nil
	}
	return BrandingFor(t, c.opts.Brand), true, nil
}

type SwitcherOption struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type Switcher struct {
	Options []SwitcherOption `json:"options"`
	Hidden  bool             `json:"hidden"`
}

// CompanySwitcher lists the accessible tenants as "name — accountId" and marks
// the active one. With autoHide, a list of one or zero entries is hidden.
func (c *Console) CompanySwitcher(ctx context.Context, autoHide bool) (Switcher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tenants, err := c.accessibleTenants(ctx)
	if err != nil {
		return Switcher{}, err
	}
	active, err := c.data.activeTenantID(ctx)
	if err != nil {
		return Switcher{}, err
	}
	out := Switcher{Options: make([]SwitcherOption, 0, len(tenants))}
	for _, t := range tenants {
		out.Options = append(out.Options, SwitcherOption{
			ID:       t.ID,
			Label:    t.Name + " — " + t.AccountID,
			Selected: t.ID == active,
		})
	}
	out.Hidden = autoHide && len(out.Options) <= 1
	return out, nil
}
