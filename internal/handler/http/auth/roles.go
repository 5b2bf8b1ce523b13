package auth

// Role constants used in JWT claims and endpoint gates.
const (
	// RoleAdmin may trigger sends on every channel and read delivery logs.
	RoleAdmin = "admin"
	// RoleManager may trigger sends but cannot read delivery logs.
	RoleManager = "manager"
	// RoleUser may only manage their own push registrations.
	RoleUser = "user"
)

// SenderRoles are the roles allowed to trigger notification sends.
var SenderRoles = []string{RoleAdmin, RoleManager}

// validRole reports whether the claim value is one of the known roles.
func validRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}
