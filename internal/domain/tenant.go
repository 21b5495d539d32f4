package domain

type Tenant struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name"`
	AccountID string `json:"accountId"`
	LogoURL   string `json:"logoUrl"`
}

type TenantInput struct {
	Name      string
	AccountID string
	LogoURL   string
}

// TenantPatch overwrites only the non-nil fields.
type TenantPatch struct {
	Name      *string
	AccountID *string
	LogoURL   *string
}

func (p TenantPatch) Apply(t Tenant) Tenant {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.AccountID != nil {
		t.AccountID = *p.AccountID
	}
	if p.LogoURL != nil {
		t.LogoURL = *p.LogoURL
	}
	return t
}
