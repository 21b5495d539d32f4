package domain

type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusDisabled UserStatus = "disabled"
)

// User is a membership record: one email in one tenant with one role.
type User struct {
	ID       string     `json:"id" validate:"required"`
	TenantID string     `json:"tenantId" validate:"required"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     Role       `json:"role" validate:"oneof=owner admin manager agent viewer"`
	Status   UserStatus `json:"status" validate:"oneof=active disabled"`
}

type InviteInput struct {
	TenantID string
	Name     string
	Email    string
	Role     Role
}

type UserPatch struct {
	TenantID *string
	Name     *string
	Email    *string
	Role     *Role
	Status   *UserStatus
}

func (p UserPatch) Apply(u User) User {
	if p.TenantID != nil {
		u.TenantID = *p.TenantID
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	return u
}
