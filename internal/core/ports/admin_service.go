package ports

import (
	"context"

	"github.com/memberdesk/identity-system/internal/core/domain"
)

// AdminService groups the role-gated mutations. Denied calls never mutate the
// store; denial surfaces as domain.ErrAuthorizationDenied so callers can tell
// it apart from a successful no-op.
type AdminService interface {
	// ListAccounts returns all accounts for an admin session and an empty
	// slice (no error) for anyone else.
	ListAccounts(ctx context.Context, session *domain.Session) ([]domain.Account, error)
	// SetRole changes the target account's role. The new role must be one of
	// the closed enumeration; anything else is rejected with
	// domain.ErrInvalidRole. No self-protection: an admin may demote
	// themselves, including the last admin in the system.
	SetRole(ctx context.Context, session *domain.Session, accountID int64, newRole string) error
	// DeleteAccount removes the target account unconditionally once
	// authorization passes, including the caller's own account.
	DeleteAccount(ctx context.Context, session *domain.Session, accountID int64) error
}
