package domain

import (
	"errors"
	"time"
)

// Role is the privilege level of an account. It is a closed enumeration:
// anything outside {user, admin} is rejected at the boundary rather than
// persisted verbatim.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var ErrDuplicateUsername = errors.New("username already taken")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountNotFound = errors.New("account not found")
var ErrInvalidRole = errors.New("invalid role")
var ErrAuthorizationDenied = errors.New("authorization denied")
var ErrMissingField = errors.New("missing required field")

// ParseRole validates a raw role string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

// Account is a persisted identity record with credentials and a role.
type Account struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName is the human-readable name shown after login.
func (a *Account) DisplayName() string {
	return a.FirstName + " " + a.LastName
}
