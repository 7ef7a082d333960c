package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-backoffice/internal/auth"
	"github.com/iliyamo/cinema-backoffice/internal/config"
	"github.com/iliyamo/cinema-backoffice/internal/model"
)

type fixedSession struct {
	sess   auth.Session
	active bool
}

func (f fixedSession) ActiveSession() (auth.Session, bool) { return f.sess, f.active }

func TestRequireSession(t *testing.T) {
	admin := auth.Session{User: model.User{Username: "admin", Role: model.RoleAdmin}, ID: "s1"}
	tickets := auth.NewTickets("s3cret", time.Hour)
	ticket, err := tickets.Issue(admin)
	require.NoError(t, err)

	// same account, signed out and back in
	later := auth.Session{User: admin.User, ID: "s2"}
	bob := auth.Session{User: model.User{Username: "bob"}, ID: "s1"}

	cases := []struct {
		name    string
		header  string
		session fixedSession
		want    int
	}{
		{name: "no header", session: fixedSession{admin, true}, want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", session: fixedSession{admin, true}, want: http.StatusUnauthorized},
		{name: "signed out", header: "Bearer " + ticket.Token, session: fixedSession{}, want: http.StatusUnauthorized},
		{name: "someone else signed in", header: "Bearer " + ticket.Token, session: fixedSession{bob, true}, want: http.StatusUnauthorized},
		{name: "ticket from an earlier session", header: "Bearer " + ticket.Token, session: fixedSession{later, true}, want: http.StatusUnauthorized},
		{name: "admin", header: "Bearer " + ticket.Token, session: fixedSession{admin, true}, want: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/", func(c echo.Context) error {
				return c.String(http.StatusOK, currentUser(c))
			}, RequireSession(tickets, tc.session), RequireRole(model.RoleAdmin))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusOK {
				require.Equal(t, "admin", rec.Body.String())
			}
		})
	}
}

func TestRequireRoleRejectsUser(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				c.Set(CtxRole, model.RoleUser)
				return next(c)
			}
		},
		RequireRole(model.RoleAdmin))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.JSONEq(t, `{"error":"Insufficient privilege"}`, rec.Body.String())
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/movies", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/movies")

	require.Equal(t, "rl:ip:10.0.0.1:user:anon:route:POST /v1/movies",
		buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c))

	c.Set(CtxUsername, "admin")
	require.Equal(t, "rl:user:admin", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "USER"}, c))
}

func TestTokenBucketWithoutRedisPassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
