package auth

import (
	"crypto/subtle"
	"strings"
)

// AdminPolicy decides whether submitted credentials belong to the clinic administrator.
type AdminPolicy interface {
	Authenticate(email, password string) bool
}

// StaticAdminPolicy accepts a single credential pair taken from configuration.
// An empty pair disables admin login entirely.
type StaticAdminPolicy struct {
	Email    string
	Password string
}

func (p StaticAdminPolicy) Authenticate(email, password string) bool {
	if p.Email == "" || p.Password == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(email)), []byte(strings.ToLower(p.Email))) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(p.Password)) == 1
	return emailOK && passOK
}
