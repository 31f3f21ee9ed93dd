package services

import (
	"errors"

	"github.com/pecaforte/inventory/pkg/auth"
)

// ErrInvalidCredentials is returned when the login password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authorizer exchanges the operator password for a capability token. The
// bcrypt hash is injected at construction; with an empty hash every login
// fails and the mutation API stays locked.
//
// The token is a capability grant, not an identity: whoever holds a valid
// token may mutate the inventory.
type Authorizer struct {
	passwordHash string
}

// NewAuthorizer builds an Authorizer checking candidates against hash.
func NewAuthorizer(hash string) *Authorizer {
	return &Authorizer{passwordHash: hash}
}

// Login verifies the password and issues a signed token on success.
func (a *Authorizer) Login(password string) (string, error) {
	if a.passwordHash == "" || !auth.CheckPassword(a.passwordHash, password) {
		return "", ErrInvalidCredentials
	}
	return auth.GenerateToken()
}
