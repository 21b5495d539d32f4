package domain

// Session is the persisted login pointer. TenantID is null for a super-admin
// session opened while no tenant exists.
type Session struct {
	UserID   string  `json:"userId" validate:"required"`
	TenantID *string `json:"tenantId"`
}

func (s Session) Tenant() string {
	if s.TenantID == nil {
		return ""
	}
	return *s.TenantID
}

func (s Session) IsSuper() bool {
	return s.UserID == SuperUserID
}

type LoginInput struct {
	Email    string
	Password string
	TenantID string
}

// Branding holds the display fields for a tenant after defaults are applied.
type Branding struct {
	TenantID string `json:"tenantId,omitempty"`
	Name     string `json:"name"`
	LogoURL  string `json:"logoUrl"`
	LogoAlt  string `json:"logoAlt"`
}
