// Package auth owns operator accounts and the single signed-in session of
// the back office.  Every mutating service operation starts from
// Authorizer.RequirePrivileged.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/iliyamo/cinema-backoffice/internal/apperr"
	"github.com/iliyamo/cinema-backoffice/internal/model"
	"github.com/iliyamo/cinema-backoffice/internal/repository"
	"github.com/iliyamo/cinema-backoffice/internal/result"
)

const (
	msgUserExists      = "User already exists"
	msgBadCredentials  = "Login failed due to incorrect credentials"
	msgAlreadySignedIn = "User already logged in"
	msgNoSession       = "No user to sign out"
	msgNoPrivilege     = "Insufficient privilege"
	msgEmptyAccount    = "Username and password must not be empty"
	msgPasswordTooLong = "Password is too long"
)

// Authorizer signs operators up, in and out.
type Authorizer struct {
	users    repository.UserStore
	sessions *SessionStore
	hasher   Hasher
	log      *slog.Logger

	// signUpMu closes the gap between the existence check and the write.
	signUpMu sync.Mutex
}

func NewAuthorizer(users repository.UserStore, sessions *SessionStore, hasher Hasher, log *slog.Logger) *Authorizer {
	return &Authorizer{users: users, sessions: sessions, hasher: hasher, log: log}
}

// SignUp stores a new USER account.  It does not sign the account in.
func (a *Authorizer) SignUp(ctx context.Context, username, password string) result.Result[model.User] {
	return a.register(ctx, username, password, model.RoleUser)
}

func (a *Authorizer) register(ctx context.Context, username, password string, role model.Role) result.Result[model.User] {
	if strings.TrimSpace(username) == "" || password == "" {
		return result.Err[model.User](apperr.InvalidInput(msgEmptyAccount))
	}

	a.signUpMu.Lock()
	defer a.signUpMu.Unlock()

	_, found, err := a.users.Get(ctx, username)
	if err != nil {
		return result.Err[model.User](fmt.Errorf("lookup user: %w", err))
	}
	if found {
		return result.Err[model.User](apperr.AlreadyExists(msgUserExists))
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		if tooLong(err) {
			return result.Err[model.User](apperr.InvalidInput(msgPasswordTooLong))
		}
		return result.Err[model.User](fmt.Errorf("hash password: %w", err))
	}
	stored := result.From(a.users.Put(ctx, model.User{Username: username, PasswordHash: hash, Role: role}))
	return result.MapErr(stored, func(err error) error {
		// another process created the account between the check and the write
		if errors.Is(err, repository.ErrConflict) {
			return apperr.AlreadyExists(msgUserExists)
		}
		return err
	}).Use(func(u model.User) { a.log.Info("account created", "user", u.Username, "role", u.Role) })
}

// SignIn authenticates username/password and opens the session when the
// account holds role.  A role mismatch is reported as bad credentials.
func (a *Authorizer) SignIn(ctx context.Context, username, password string, role model.Role) result.Result[model.User] {
	return result.Map(a.OpenSession(ctx, username, password, role), func(s Session) model.User { return s.User })
}

// OpenSession is SignIn returning the new session, whose ID tickets carry.
func (a *Authorizer) OpenSession(ctx context.Context, username, password string, role model.Role) result.Result[Session] {
	return result.FlatMap(a.authenticate(ctx, username, password), func(u model.User) result.Result[Session] {
		if _, active := a.sessions.Current(); active {
			return result.Err[Session](apperr.AlreadySignedIn(msgAlreadySignedIn))
		}
		if u.Role != role {
			return result.Err[Session](apperr.InvalidCredentials(msgBadCredentials))
		}
		sess, ok := a.sessions.Begin(u)
		if !ok {
			return result.Err[Session](apperr.AlreadySignedIn(msgAlreadySignedIn))
		}
		a.log.Info("signed in", "user", u.Username, "role", u.Role)
		return result.Ok(sess)
	})
}

// SignInPrivileged signs in an ADMIN account.
func (a *Authorizer) SignInPrivileged(ctx context.Context, username, password string) result.Result[model.User] {
	return a.SignIn(ctx, username, password, model.RoleAdmin)
}

// SignInUnprivileged signs in a USER account.
func (a *Authorizer) SignInUnprivileged(ctx context.Context, username, password string) result.Result[model.User] {
	return a.SignIn(ctx, username, password, model.RoleUser)
}

func (a *Authorizer) authenticate(ctx context.Context, username, password string) result.Result[model.User] {
	u, found, err := a.users.Get(ctx, username)
	if err != nil {
		return result.Err[model.User](fmt.Errorf("lookup user: %w", err))
	}
	if !found || !a.hasher.Matches(u.PasswordHash, password) {
		return result.Err[model.User](apperr.InvalidCredentials(msgBadCredentials))
	}
	return result.Ok(u)
}

// SignOut closes the active session.
func (a *Authorizer) SignOut() result.Result[model.User] {
	u, ok := a.sessions.End()
	if !ok {
		return result.Err[model.User](apperr.NoActiveSession(msgNoSession))
	}
	a.log.Info("signed out", "user", u.Username)
	return result.Ok(u)
}

// CurrentSession returns the signed-in identity, if any.
func (a *Authorizer) CurrentSession() (model.User, bool) {
	return a.sessions.Current()
}

// ActiveSession returns the open session with its ID, if any.
func (a *Authorizer) ActiveSession() (Session, bool) {
	return a.sessions.Active()
}

// RequirePrivileged succeeds only while an ADMIN account is signed in.
func (a *Authorizer) RequirePrivileged() result.Result[model.User] {
	u, ok := a.sessions.Current()
	if !ok || !u.Privileged() {
		return result.Err[model.User](apperr.Unauthorized(msgNoPrivilege))
	}
	return result.Ok(u)
}

// EnsureAdmin creates the ADMIN account username if it does not exist.  An
// existing account is left untouched, whatever its password.
func (a *Authorizer) EnsureAdmin(ctx context.Context, username, password string) error {
	err := a.register(ctx, username, password, model.RoleAdmin).Err()
	if err == nil || apperr.KindOf(err) == apperr.ErrAlreadyExists {
		return nil
	}
	return fmt.Errorf("seed admin %q: %w", username, err)
}
