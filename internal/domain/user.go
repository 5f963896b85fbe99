package domain

const (
	RoleAdmin   = "Administrador"
	RoleManager = "Jefe"
	RoleUser    = "Usuario"
)

// User is the authenticated operator.
type User struct {
	Document string   `json:"number_document"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles"`
	IsAdmin  bool     `json:"isAdmin,omitempty"`
	Stores   []string `json:"stores,omitempty"`
}

// PrimaryRole is the first role, which drives navigation gating.
func (u User) PrimaryRole() string {
	if len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0]
}

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanAccess reports whether the primary role is in allowed. Administrators
// pass every gate.
func (u User) CanAccess(allowed ...string) bool {
	role := u.PrimaryRole()
	if role == RoleAdmin {
		return true
	}
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}

// NormalizeRoles fills in a role when the backend sent none.
func (u *User) NormalizeRoles() {
	if len(u.Roles) > 0 {
		return
	}
	if u.IsAdmin {
		u.Roles = []string{RoleAdmin}
	} else {
		u.Roles = []string{RoleUser}
	}
}
