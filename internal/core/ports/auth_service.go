package ports

import (
	"context"

	"github.com/memberdesk/identity-system/internal/core/domain"
)

// RegisterInput carries the registration form fields. All fields must be
// non-empty; no further format validation is applied.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
}

// AuthService is the authentication state machine: registration, login,
// logout, and the single authorization predicate.
type AuthService interface {
	// Register creates a new account with role "user" regardless of input.
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	// Login verifies credentials and issues a session token plus its
	// decoded snapshot.
	Login(ctx context.Context, username, password string) (string, *domain.Session, error)
	// Logout destroys the session behind token. Idempotent: revoking an
	// absent or already-revoked token is a no-op, not an error.
	Logout(ctx context.Context, token string) error
	// Authorize reports whether session exists and carries exactly the
	// required role. Every privileged mutation must pass through it before
	// touching the store.
	Authorize(session *domain.Session, required domain.Role) bool
}
