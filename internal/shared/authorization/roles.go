package authorization

// UserRole is the role claim carried by API tokens.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleAgent    UserRole = "agent"
	RoleCustomer UserRole = "customer"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// IsStaff reports whether the role may see internal notes and work tickets.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleAgent
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleCustomer:
		return true
	}
	return false
}

// ParseUserRole falls back to customer, the least privileged role.
func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleCustomer
}
