package domain

// Principal is the read-only identity attached to an authenticated request.
// Admin is computed once by the users subsystem via HasAdminRole.
type Principal struct {
	UserID    UserID
	Email     string
	FirstName string
	LastName  string
	Status    UserStatus
	Roles     []string
	Admin     bool
}

func (p *Principal) IsAdmin() bool { return p != nil && p.Admin }

// HasAdminRole reports whether roles contains the ADMIN role.
func HasAdminRole(roles []string) bool {
	for _, r := range roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// NewPrincipal builds the request identity for u. Roles must be preloaded.
func NewPrincipal(u *User) *Principal {
	roles := u.RoleNames()
	return &Principal{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Status:    u.Status,
		Roles:     roles,
		Admin:     HasAdminRole(roles),
	}
}
