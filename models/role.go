package models

// Role names the kind of principal behind a request token.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
	RoleUser   Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleUser:
		return true
	}
	return false
}

// Caller is the authenticated principal an operation runs on behalf of.
// Admins carry ID 0.
type Caller struct {
	ID   uint
	Role Role
}
