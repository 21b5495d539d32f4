package domain

// SuperUserID is the session userId that marks the super-admin principal.
const SuperUserID = "super"

// Principal is the resolved acting identity. It is either SuperAdmin or
// RegisteredUser; use a type switch to tell them apart.
type Principal interface {
	ID() string
	Name() string
	Email() string
	Role() Role
	isPrincipal()
}

// SuperAdmin has no backing User record and no tenant affinity.
type SuperAdmin struct {
	Login string
}

func (SuperAdmin) ID() string      { return SuperUserID }
func (SuperAdmin) Name() string    { return "Super Admin" }
func (s SuperAdmin) Email() string { return s.Login }
func (SuperAdmin) Role() Role      { return RoleSuperAdmin }
func (SuperAdmin) isPrincipal()    {}

type RegisteredUser struct {
	User User
}

func (u RegisteredUser) ID() string    { return u.User.ID }
func (u RegisteredUser) Name() string  { return u.User.Name }
func (u RegisteredUser) Email() string { return u.User.Email }
func (u RegisteredUser) Role() Role    { return u.User.Role }
func (RegisteredUser) isPrincipal()    {}

// RoleOf returns the role of p, or the empty role when p is nil.
func RoleOf(p Principal) Role {
	if p == nil {
		return ""
	}
	return p.Role()
}
