package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/memberdesk/identity-system/internal/core/ports"
)

const (
	// SessionKey is the echo context key holding the resolved *domain.Session.
	SessionKey = "session"
	// TokenKey is the echo context key holding the raw bearer token.
	TokenKey = "session_token"
)

// Session resolves the bearer token into a session snapshot and injects it
// into the request context. Revoked and malformed tokens are rejected.
func Session(sessions ports.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			session, err := sessions.Resolve(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			c.Set(SessionKey, session)
			c.Set(TokenKey, token)

			return next(c)
		}
	}
}

// OptionalSession resolves the bearer token when present but lets anonymous
// requests through. Used by endpoints whose behaviour merely varies with the
// session (view selection, idempotent logout).
func OptionalSession(sessions ports.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c); ok {
				if session, err := sessions.Resolve(c.Request().Context(), token); err == nil {
					c.Set(SessionKey, session)
					c.Set(TokenKey, token)
				}
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
