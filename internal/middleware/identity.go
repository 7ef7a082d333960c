package middleware

import "github.com/labstack/echo/v4"

// currentUser returns the username stored by RequireSession, or "anon" on
// public routes.
func currentUser(c echo.Context) string {
	if s, ok := c.Get(CtxUsername).(string); ok && s != "" {
		return s
	}
	return "anon"
}
