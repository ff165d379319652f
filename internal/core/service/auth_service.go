package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/memberdesk/identity-system/internal/core/domain"
	"github.com/memberdesk/identity-system/internal/core/ports"
)

// AuthService implements registration, login, logout, and the authorization
// predicate gating every privileged mutation.
type AuthService struct {
	repo     ports.AccountRepository
	sessions ports.SessionManager
	audit    ports.AuditSink
	log      zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, sessions ports.SessionManager, audit ports.AuditSink, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, sessions: sessions, audit: audit, log: log}
}

// Register creates a new account. The role is always "user" regardless of
// input; privilege is only ever granted through SetRole. Username uniqueness
// is enforced by the store's unique index, surfacing here as
// domain.ErrDuplicateUsername.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	if in.FirstName == "" || in.LastName == "" || in.Username == "" || in.Password == "" {
		return nil, domain.ErrMissingField
	}

	now := time.Now().UTC()
	account := &domain.Account{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
		Password:  in.Password,
		Role:      domain.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Insert(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			s.record(domain.AuditEntry{Actor: in.Username, Action: domain.AuditRegister, Detail: "duplicate username"})
			return nil, err
		}
		s.log.Error().Err(err).Str("username", in.Username).Msg("failed to insert account")
		return nil, err
	}

	s.record(domain.AuditEntry{Actor: created.Username, Action: domain.AuditRegister, TargetID: created.ID, Succeeded: true})
	s.log.Info().Str("username", created.Username).Int64("account_id", created.ID).Msg("account registered")

	return created, nil
}

// Login verifies username and password as a single combined predicate against
// the store; a wrong username and a wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Session, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.record(domain.AuditEntry{Actor: username, Action: domain.AuditLogin, Detail: "invalid credentials"})
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	token, session, err := s.sessions.Issue(account)
	if err != nil {
		return "", nil, err
	}

	s.record(domain.AuditEntry{Actor: account.Username, Action: domain.AuditLogin, TargetID: account.ID, Succeeded: true})
	s.log.Info().Str("username", account.Username).Str("role", string(account.Role)).Msg("login succeeded")

	return token, session, nil
}

// Logout destroys the session behind token. Idempotent: logging out with no
// active session succeeds with no state change.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return err
	}
	if token != "" {
		s.record(domain.AuditEntry{Actor: "-", Action: domain.AuditLogout, Succeeded: true})
	}
	return nil
}

// Authorize is the single authorization choke point: true iff a session
// exists and carries exactly the required role.
func (s *AuthService) Authorize(session *domain.Session, required domain.Role) bool {
	return session != nil && session.Role == required
}

func (s *AuthService) record(entry domain.AuditEntry) {
	if s.audit == nil {
		return
	}
	entry.Timestamp = time.Now().UTC()
	s.audit.Enqueue(entry)
}
