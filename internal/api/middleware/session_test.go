package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/memberdesk/identity-system/internal/core/domain"
	"github.com/memberdesk/identity-system/internal/core/service"
)

type memRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemRevoker() *memRevoker {
	return &memRevoker{revoked: make(map[string]bool)}
}

func (r *memRevoker) Revoke(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[tokenHash] = true
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, tokenHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[tokenHash], nil
}

func issueToken(t *testing.T, m *service.SessionManager) string {
	t.Helper()
	token, _, err := m.Issue(&domain.Account{
		FirstName: "Ann", LastName: "Lee", Username: "annlee", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func TestSessionMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	sessions := service.NewSessionManager("secret", newMemRevoker())
	token := issueToken(t, sessions)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Session(sessions)(func(c echo.Context) error {
		called = true
		session, _ := c.Get(SessionKey).(*domain.Session)
		if session == nil || session.Username != "annlee" || session.DisplayName != "Ann Lee" {
			t.Fatalf("session not injected: %+v", session)
		}
		if got, _ := c.Get(TokenKey).(string); got != token {
			t.Fatalf("raw token not injected")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestSessionMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	sessions := service.NewSessionManager("secret", newMemRevoker())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(sessions)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionMiddleware_RevokedToken(t *testing.T) {
	e := echo.New()
	sessions := service.NewSessionManager("secret", newMemRevoker())
	token := issueToken(t, sessions)

	if err := sessions.Revoke(context.Background(), token); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(sessions)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionMiddleware_InvalidToken(t *testing.T) {
	e := echo.New()
	sessions := service.NewSessionManager("secret", newMemRevoker())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(sessions)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestOptionalSession_AnonymousPassesThrough(t *testing.T) {
	e := echo.New()
	sessions := service.NewSessionManager("secret", newMemRevoker())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := OptionalSession(sessions)(func(c echo.Context) error {
		called = true
		if c.Get(SessionKey) != nil {
			t.Fatalf("no session expected")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestOptionalSession_ResolvesWhenPresent(t *testing.T) {
	e := echo.New()
	sessions := service.NewSessionManager("secret", newMemRevoker())
	token := issueToken(t, sessions)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := OptionalSession(sessions)(func(c echo.Context) error {
		session, _ := c.Get(SessionKey).(*domain.Session)
		if session == nil || session.Username != "annlee" {
			t.Fatalf("session not injected: %+v", session)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
