package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-backoffice/internal/auth"
)

// Context keys set by RequireSession.
const (
	CtxUsername = "username"
	CtxRole     = "role"
)

// SessionView exposes the open session.  *auth.Authorizer satisfies it.
type SessionView interface {
	ActiveSession() (auth.Session, bool)
}

// RequireSession validates the Bearer session ticket and admits the request
// only while the session the ticket was issued for is still open.  Signing
// out therefore invalidates every ticket issued before, even when the same
// account signs in again.
func RequireSession(tickets *auth.Tickets, sessions SessionView) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := tickets.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			current, ok := sessions.ActiveSession()
			if !ok || current.ID != claims.SessionID || current.User.Username != claims.Username {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session ended"})
			}

			c.Set(CtxUsername, current.User.Username)
			c.Set(CtxRole, current.User.Role)
			return next(c)
		}
	}
}
