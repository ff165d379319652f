package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/memberdesk/identity-system/internal/core/domain"
)

// TokenRevoker abstracts the revocation store (Redis). Tokens carry no expiry,
// so revocation entries are kept without TTL.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenHash string) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// SessionManager issues and resolves session tokens. The snapshot travels as
// an HS256 JWT holding exactly the session attributes: username, role, and
// display name. There is no exp claim.
type SessionManager struct {
	secret  string
	revoker TokenRevoker
}

func NewSessionManager(secret string, revoker TokenRevoker) *SessionManager {
	return &SessionManager{secret: secret, revoker: revoker}
}

// Issue mints a token snapshotting the account at login time. Later changes
// to the account do not flow into tokens already issued.
func (m *SessionManager) Issue(account *domain.Account) (string, *domain.Session, error) {
	session := domain.NewSession(account)

	claims := jwt.MapClaims{
		"username":     session.Username,
		"role":         string(session.Role),
		"display_name": session.DisplayName,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.secret))
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, session, nil
}

// Resolve verifies a token and rebuilds its session snapshot. Revoked tokens
// resolve to domain.ErrInvalidCredentials.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(m.secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	revoked, err := m.revoker.IsRevoked(ctx, hashToken(token))
	if err != nil {
		return nil, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return nil, domain.ErrInvalidCredentials
	}

	username, _ := claims["username"].(string)
	roleStr, _ := claims["role"].(string)
	displayName, _ := claims["display_name"].(string)

	role, err := domain.ParseRole(roleStr)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Session{
		Username:    username,
		Role:        role,
		DisplayName: displayName,
	}, nil
}

// Revoke destroys the session behind token. Revoking an empty or already
// revoked token is a no-op.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.revoker.Revoke(ctx, hashToken(token)); err != nil {
		return fmt.Errorf("revoke session token: %w", err)
	}
	return nil
}

// hashToken keeps raw tokens out of the revocation store.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
