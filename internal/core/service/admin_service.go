package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/memberdesk/identity-system/internal/core/domain"
	"github.com/memberdesk/identity-system/internal/core/ports"
)

// Authorizer is the slice of AuthService the admin operations depend on.
type Authorizer interface {
	Authorize(session *domain.Session, required domain.Role) bool
}

// AdminService implements the role-gated mutations. Every operation checks
// Authorize before touching the store; a denied call mutates nothing and
// returns domain.ErrAuthorizationDenied.
type AdminService struct {
	repo  ports.AccountRepository
	auth  Authorizer
	audit ports.AuditSink
	log   zerolog.Logger
}

func NewAdminService(repo ports.AccountRepository, auth Authorizer, audit ports.AuditSink, log zerolog.Logger) *AdminService {
	return &AdminService{repo: repo, auth: auth, audit: audit, log: log}
}

// ListAccounts returns all accounts in store-native order for an admin
// session. Any other session is handed an empty slice, not an error.
func (s *AdminService) ListAccounts(ctx context.Context, session *domain.Session) ([]domain.Account, error) {
	if !s.auth.Authorize(session, domain.RoleAdmin) {
		return []domain.Account{}, nil
	}
	return s.repo.ListAll(ctx)
}

// SetRole changes the target account's role. The raw role is validated
// against the closed enumeration before anything reaches the store. No
// self-protection: an admin may demote any account, their own included.
func (s *AdminService) SetRole(ctx context.Context, session *domain.Session, accountID int64, newRole string) error {
	if !s.auth.Authorize(session, domain.RoleAdmin) {
		return domain.ErrAuthorizationDenied
	}

	role, err := domain.ParseRole(newRole)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateRole(ctx, accountID, role); err != nil {
		return err
	}

	s.record(domain.AuditEntry{Actor: session.Username, Action: domain.AuditSetRole, TargetID: accountID, Detail: string(role), Succeeded: true})
	s.log.Info().Str("actor", session.Username).Int64("account_id", accountID).Str("role", string(role)).Msg("role updated")

	return nil
}

// DeleteAccount removes the target account unconditionally once authorization
// passes. Deleting the caller's own account leaves their issued session
// referencing an account that no longer exists, until explicit logout.
func (s *AdminService) DeleteAccount(ctx context.Context, session *domain.Session, accountID int64) error {
	if !s.auth.Authorize(session, domain.RoleAdmin) {
		return domain.ErrAuthorizationDenied
	}

	if err := s.repo.DeleteByID(ctx, accountID); err != nil {
		return err
	}

	s.record(domain.AuditEntry{Actor: session.Username, Action: domain.AuditDeleteAccount, TargetID: accountID, Succeeded: true})
	s.log.Info().Str("actor", session.Username).Int64("account_id", accountID).Msg("account deleted")

	return nil
}

func (s *AdminService) record(entry domain.AuditEntry) {
	if s.audit == nil {
		return
	}
	entry.Timestamp = time.Now().UTC()
	s.audit.Enqueue(entry)
}
