package authorization

// Actor is the authenticated caller handed to application use cases.
type Actor struct {
	UserID string
	Role   UserRole
}

func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}

func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}
