package ports

import (
	"context"

	"github.com/memberdesk/identity-system/internal/core/domain"
)

// SessionManager converts a verified account into a client-held session
// snapshot and back. The transport encoding is tamper-evident but otherwise an
// implementation detail; tokens carry no expiry.
type SessionManager interface {
	// Issue mints a token for a snapshot of account.
	Issue(account *domain.Account) (string, *domain.Session, error)
	// Resolve decodes and verifies a token, rejecting revoked ones.
	Resolve(ctx context.Context, token string) (*domain.Session, error)
	// Revoke destroys the session behind token. Idempotent.
	Revoke(ctx context.Context, token string) error
}
