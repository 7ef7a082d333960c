package handler_test

import (
	"bytes"
	"context"
	"errors"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/cinema-backoffice/internal/auth"
	"github.com/iliyamo/cinema-backoffice/internal/handler"
	"github.com/iliyamo/cinema-backoffice/internal/model"
	"github.com/iliyamo/cinema-backoffice/internal/repository"
	"github.com/iliyamo/cinema-backoffice/internal/router"
	"github.com/iliyamo/cinema-backoffice/internal/service"
)

type api struct {
	t *testing.T
	e *echo.Echo
}

func newAPI(t *testing.T) api {
	t.Helper()
	return newAPIWith(t, repository.NewMemoryStores(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newAPIWith(t *testing.T, stores repository.Stores, log *slog.Logger) api {
	t.Helper()
	authz := auth.NewAuthorizer(stores.Users, auth.NewSessionStore(), auth.Hasher{Cost: bcrypt.MinCost}, log)
	require.NoError(t, authz.EnsureAdmin(context.Background(), "admin", "admin"))
	tickets := auth.NewTickets("s3cret", time.Hour)
	svc := service.New(authz, stores, service.NopPublisher{}, service.DefaultBreak, log)

	e := echo.New()
	router.Register(e, router.Deps{
		Auth:       handler.NewAuthHandler(authz, tickets, log),
		Catalog:    handler.NewCatalogHandler(svc.Movies, svc.Rooms, log),
		Screenings: handler.NewScreeningHandler(svc.Screenings, log),
		Health:     handler.Health(nil),
		Tickets:    tickets,
		Sessions:   authz,
	})
	return api{t: t, e: e}
}

func (a api) do(method, target, token, body string) (int, map[string]any, []any) {
	a.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	raw := rec.Body.Bytes()
	var obj map[string]any
	var arr []any
	if strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
		require.NoError(a.t, json.Unmarshal(raw, &arr))
	} else {
		require.NoError(a.t, json.Unmarshal(raw, &obj))
	}
	return rec.Code, obj, arr
}

func (a api) signIn(username, password string, privileged bool) string {
	a.t.Helper()
	body, _ := json.Marshal(map[string]any{"username": username, "password": password, "privileged": privileged})
	code, resp, _ := a.do(http.MethodPost, "/v1/auth/sign-in", "", string(body))
	require.Equal(a.t, http.StatusOK, code, resp)
	return resp["ticket"].(map[string]any)["token"].(string)
}

func TestHealth(t *testing.T) {
	code, body, _ := newAPI(t).do(http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body["status"])
}

func TestScheduleOverHTTP(t *testing.T) {
	req := require.New(t)
	a := newAPI(t)

	code, _, _ := a.do(http.MethodPost, "/v1/movies", "", `{"title":"M1","genre":"short","runtime_minutes":10}`)
	req.Equal(http.StatusUnauthorized, code)

	token := a.signIn("admin", "admin", true)

	code, body, _ := a.do(http.MethodPost, "/v1/movies", token, `{"title":"M1","genre":"short","runtime_minutes":10}`)
	req.Equal(http.StatusCreated, code)
	req.Equal("M1", body["title"])

	code, body, _ = a.do(http.MethodPost, "/v1/movies", token, `{"title":"M1","genre":"short","runtime_minutes":10}`)
	req.Equal(http.StatusConflict, code)
	req.Equal("Movie already exists", body["error"])

	code, body, _ = a.do(http.MethodPost, "/v1/movies", token, `{"title":"M2","genre":"short","runtime_minutes":0}`)
	req.Equal(http.StatusBadRequest, code)
	req.Equal("runtime_minutes must be greater than 0", body["error"])

	code, _, _ = a.do(http.MethodPut, "/v1/movies/M1", token, `{"genre":"drama","runtime_minutes":10}`)
	req.Equal(http.StatusOK, code)

	code, _, _ = a.do(http.MethodPost, "/v1/rooms", token, `{"name":"R1","rows":10,"cols":12}`)
	req.Equal(http.StatusCreated, code)

	code, _, _ = a.do(http.MethodPost, "/v1/screenings", token, `{"movie":"M1","room":"R1","start":"2021-03-15 00:00"}`)
	req.Equal(http.StatusCreated, code)

	code, body, _ = a.do(http.MethodPost, "/v1/screenings", token, `{"movie":"M1","room":"R1","start":"2021-03-15 00:11"}`)
	req.Equal(http.StatusConflict, code)
	req.Equal("This would start in the break period after another screening in this room", body["error"])

	code, body, _ = a.do(http.MethodPost, "/v1/screenings", token, `{"movie":"M1","room":"R1","start":"15/03/2021"}`)
	req.Equal(http.StatusBadRequest, code)
	req.Contains(body["error"], "start must look like")

	code, _, list := a.do(http.MethodGet, "/v1/screenings", "", "")
	req.Equal(http.StatusOK, code)
	req.Len(list, 1)
	req.Equal("drama", list[0].(map[string]any)["movie"].(map[string]any)["genre"])

	code, body, _ = a.do(http.MethodDelete, "/v1/movies/M1", token, "")
	req.Equal(http.StatusConflict, code)
	req.Equal("Movie has scheduled screenings", body["error"])

	q := url.Values{"movie": {"M1"}, "room": {"R1"}, "start": {"2021-03-15 00:00"}}
	code, _, _ = a.do(http.MethodDelete, "/v1/screenings?"+q.Encode(), token, "")
	req.Equal(http.StatusOK, code)

	code, _, _ = a.do(http.MethodDelete, "/v1/movies/M1", token, "")
	req.Equal(http.StatusOK, code)

	code, body, _ = a.do(http.MethodGet, "/v1/movies/M1", "", "")
	req.Equal(http.StatusNotFound, code)
	req.Equal("Movie not found", body["error"])

	code, _, list = a.do(http.MethodGet, "/v1/movies", "", "")
	req.Equal(http.StatusOK, code)
	req.Empty(list)
}

func TestSessionOverHTTP(t *testing.T) {
	req := require.New(t)
	a := newAPI(t)

	code, _, _ := a.do(http.MethodPost, "/v1/auth/sign-up", "", `{"username":"alice","password":"pw"}`)
	req.Equal(http.StatusCreated, code)
	code, body, _ := a.do(http.MethodPost, "/v1/auth/sign-up", "", `{"username":"alice","password":"pw"}`)
	req.Equal(http.StatusConflict, code)
	req.Equal("User already exists", body["error"])

	code, body, _ = a.do(http.MethodPost, "/v1/auth/sign-in", "", `{"username":"alice","password":"pw","privileged":true}`)
	req.Equal(http.StatusUnauthorized, code)
	req.Equal("Login failed due to incorrect credentials", body["error"])

	token := a.signIn("alice", "pw", false)

	code, body, _ = a.do(http.MethodGet, "/v1/auth/me", "", "")
	req.Equal(http.StatusOK, code)
	req.Equal(true, body["signed_in"])
	req.Equal("USER", body["user"].(map[string]any)["role"])
	req.NotContains(body["user"], "password_hash")

	code, body, _ = a.do(http.MethodPost, "/v1/rooms", token, `{"name":"R1","rows":1,"cols":1}`)
	req.Equal(http.StatusForbidden, code)
	req.Equal("Insufficient privilege", body["error"])

	code, body, _ = a.do(http.MethodPost, "/v1/auth/sign-in", "", `{"username":"admin","password":"admin","privileged":true}`)
	req.Equal(http.StatusConflict, code)
	req.Equal("User already logged in", body["error"])

	code, _, _ = a.do(http.MethodPost, "/v1/auth/sign-out", token, "")
	req.Equal(http.StatusOK, code)

	code, _, _ = a.do(http.MethodPost, "/v1/auth/sign-out", token, "")
	req.Equal(http.StatusUnauthorized, code)

	code, body, _ = a.do(http.MethodGet, "/v1/auth/me", "", "")
	req.Equal(http.StatusOK, code)
	req.Equal(false, body["signed_in"])
}

func TestSignOutRevokesEarlierTickets(t *testing.T) {
	req := require.New(t)
	a := newAPI(t)

	first := a.signIn("admin", "admin", true)
	code, _, _ := a.do(http.MethodPost, "/v1/auth/sign-out", first, "")
	req.Equal(http.StatusOK, code)

	second := a.signIn("admin", "admin", true)
	req.NotEqual(first, second)

	code, body, _ := a.do(http.MethodPost, "/v1/rooms", first, `{"name":"R1","rows":1,"cols":1}`)
	req.Equal(http.StatusUnauthorized, code)
	req.Equal("session ended", body["error"])

	code, _, _ = a.do(http.MethodPost, "/v1/rooms", second, `{"name":"R1","rows":1,"cols":1}`)
	req.Equal(http.StatusCreated, code)
}

type brokenRooms struct{ repository.RoomStore }

func (brokenRooms) List(context.Context) ([]model.Room, error) {
	return nil, errors.New("rooms table is locked")
}

func TestInternalErrorsAreLogged(t *testing.T) {
	req := require.New(t)
	var logs bytes.Buffer
	stores := repository.NewMemoryStores()
	stores.Rooms = brokenRooms{stores.Rooms}
	a := newAPIWith(t, stores, slog.New(slog.NewTextHandler(&logs, nil)))

	code, body, _ := a.do(http.MethodGet, "/v1/rooms", "", "")
	req.Equal(http.StatusInternalServerError, code)
	req.Equal("internal error", body["error"])

	req.Contains(logs.String(), "request failed")
	req.Contains(logs.String(), "rooms table is locked")
	req.Contains(logs.String(), "path=/v1/rooms")
}
