package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memberdesk/identity-system/internal/core/domain"
)

// RBAC rejects requests whose resolved session does not carry one of the
// allowed roles. It is a transport-level hardening layer: the services check
// authorization again at the single choke point, so a denied request never
// reaches the store either way.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, _ := c.Get(SessionKey).(*domain.Session)
			if session == nil {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			if _, ok := allowed[session.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
