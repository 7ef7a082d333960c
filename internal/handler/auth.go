package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-backoffice/internal/auth"
	"github.com/iliyamo/cinema-backoffice/internal/model"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth    *auth.Authorizer
	Tickets *auth.Tickets
	Log     *slog.Logger
}

func NewAuthHandler(a *auth.Authorizer, t *auth.Tickets, log *slog.Logger) *AuthHandler {
	return &AuthHandler{Auth: a, Tickets: t, Log: log}
}

// ----- DTOs -----

type signUpReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signInReq struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Privileged bool   `json:"privileged"`
}

type signInResp struct {
	User   model.User  `json:"user"`
	Ticket auth.Ticket `json:"ticket"`
}

type meResp struct {
	SignedIn bool        `json:"signed_in"`
	User     *model.User `json:"user,omitempty"`
}

// SignUp creates a USER account.  It does not sign in.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return reply(c, h.Log, http.StatusCreated, h.Auth.SignUp(c.Request().Context(), strings.TrimSpace(req.Username), req.Password))
}

// SignIn opens the session and returns a ticket for the protected routes.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	role := model.RoleUser
	if req.Privileged {
		role = model.RoleAdmin
	}

	sess, err := h.Auth.OpenSession(c.Request().Context(), strings.TrimSpace(req.Username), req.Password, role).Get()
	if err != nil {
		return fail(c, h.Log, err)
	}
	ticket, err := h.Tickets.Issue(sess)
	if err != nil {
		// undo the sign-in: the client has no ticket to sign out with
		h.Auth.SignOut()
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, signInResp{User: sess.User, Ticket: ticket})
}

// Me describes the signed-in account, if any.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := h.Auth.CurrentSession()
	if !ok {
		return c.JSON(http.StatusOK, meResp{SignedIn: false})
	}
	return c.JSON(http.StatusOK, meResp{SignedIn: true, User: &u})
}

// SignOut closes the session.  Every ticket stops working.
func (h *AuthHandler) SignOut(c echo.Context) error {
	return reply(c, h.Log, http.StatusOK, h.Auth.SignOut())
}
