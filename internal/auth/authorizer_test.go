package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/cinema-backoffice/internal/apperr"
	"github.com/iliyamo/cinema-backoffice/internal/model"
	"github.com/iliyamo/cinema-backoffice/internal/repository"
)

// countingUsers records how many writes reach the store.
type countingUsers struct {
	repository.UserStore
	puts int
}

func (c *countingUsers) Put(ctx context.Context, u model.User) (model.User, error) {
	c.puts++
	return c.UserStore.Put(ctx, u)
}

type failingUsers struct{ repository.UserStore }

func (failingUsers) Get(context.Context, string) (model.User, bool, error) {
	return model.User{}, false, errors.New("disk on fire")
}

// racingUsers loses every insert to a concurrent writer.
type racingUsers struct{ repository.UserStore }

func (racingUsers) Put(context.Context, model.User) (model.User, error) {
	return model.User{}, repository.ErrConflict
}

func newTestAuthorizer(users repository.UserStore) *Authorizer {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthorizer(users, NewSessionStore(), Hasher{Cost: bcrypt.MinCost}, log)
}

func TestSignUp(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	users := &countingUsers{UserStore: repository.NewMemoryUserStore()}
	a := newTestAuthorizer(users)

	u := a.SignUp(ctx, "alice", "pw")
	req.True(u.IsOk())
	req.Equal(model.RoleUser, u.Unwrap().Role)
	req.NotEqual("pw", u.Unwrap().PasswordHash)

	again := a.SignUp(ctx, "alice", "pw")
	req.ErrorIs(again.Err(), apperr.ErrAlreadyExists)
	req.EqualError(again.Err(), "User already exists")
	req.Equal(1, users.puts)

	_, signedIn := a.CurrentSession()
	req.False(signedIn)
}

func TestSignUpLosingWriteRace(t *testing.T) {
	req := require.New(t)
	a := newTestAuthorizer(racingUsers{repository.NewMemoryUserStore()})

	r := a.SignUp(context.Background(), "alice", "pw")
	req.ErrorIs(r.Err(), apperr.ErrAlreadyExists)
	req.EqualError(r.Err(), "User already exists")
}

func TestSignUpRejectsBadInput(t *testing.T) {
	req := require.New(t)
	a := newTestAuthorizer(repository.NewMemoryUserStore())

	req.ErrorIs(a.SignUp(context.Background(), " ", "pw").Err(), apperr.ErrInvalidInput)
	req.ErrorIs(a.SignUp(context.Background(), "bob", "").Err(), apperr.ErrInvalidInput)
	req.ErrorIs(a.SignUp(context.Background(), "bob", strings.Repeat("x", 80)).Err(), apperr.ErrInvalidInput)
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user", func(t *testing.T) {
		a := newTestAuthorizer(repository.NewMemoryUserStore())
		r := a.SignInUnprivileged(ctx, "ghost", "pw")
		require.ErrorIs(t, r.Err(), apperr.ErrInvalidCredentials)
		require.EqualError(t, r.Err(), "Login failed due to incorrect credentials")
	})

	t.Run("wrong password", func(t *testing.T) {
		a := newTestAuthorizer(repository.NewMemoryUserStore())
		require.True(t, a.SignUp(ctx, "alice", "pw").IsOk())
		require.ErrorIs(t, a.SignInUnprivileged(ctx, "alice", "nope").Err(), apperr.ErrInvalidCredentials)
	})

	t.Run("user account asking for privilege", func(t *testing.T) {
		a := newTestAuthorizer(repository.NewMemoryUserStore())
		require.True(t, a.SignUp(ctx, "alice", "pw").IsOk())
		for _, pw := range []string{"pw", "wrong"} {
			require.ErrorIs(t, a.SignInPrivileged(ctx, "alice", pw).Err(), apperr.ErrInvalidCredentials)
		}
		_, active := a.CurrentSession()
		require.False(t, active)
	})

	t.Run("already signed in", func(t *testing.T) {
		req := require.New(t)
		a := newTestAuthorizer(repository.NewMemoryUserStore())
		req.True(a.SignUp(ctx, "alice", "pw").IsOk())
		req.True(a.SignUp(ctx, "bob", "pw").IsOk())
		req.True(a.SignInUnprivileged(ctx, "alice", "pw").IsOk())

		r := a.SignInUnprivileged(ctx, "bob", "pw")
		req.ErrorIs(r.Err(), apperr.ErrAlreadySignedIn)
		req.EqualError(r.Err(), "User already logged in")

		// bad credentials are reported before the active session
		req.ErrorIs(a.SignInUnprivileged(ctx, "bob", "bad").Err(), apperr.ErrInvalidCredentials)

		cur, _ := a.CurrentSession()
		req.Equal("alice", cur.Username)
	})

	t.Run("storage failure", func(t *testing.T) {
		a := newTestAuthorizer(failingUsers{})
		err := a.SignInUnprivileged(ctx, "alice", "pw").Err()
		require.Error(t, err)
		require.Nil(t, apperr.KindOf(err))
	})
}

func TestSignOut(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	a := newTestAuthorizer(repository.NewMemoryUserStore())

	r := a.SignOut()
	req.ErrorIs(r.Err(), apperr.ErrNoActiveSession)
	req.EqualError(r.Err(), "No user to sign out")

	req.True(a.SignUp(ctx, "alice", "pw").IsOk())
	req.True(a.SignInUnprivileged(ctx, "alice", "pw").IsOk())
	out := a.SignOut()
	req.True(out.IsOk())
	req.Equal("alice", out.Unwrap().Username)

	_, active := a.CurrentSession()
	req.False(active)
}

func TestOpenSessionIDsAreFresh(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	a := newTestAuthorizer(repository.NewMemoryUserStore())
	req.NoError(a.EnsureAdmin(ctx, "admin", "admin"))

	first := a.OpenSession(ctx, "admin", "admin", model.RoleAdmin)
	req.True(first.IsOk())
	req.NotEmpty(first.Unwrap().ID)
	active, ok := a.ActiveSession()
	req.True(ok)
	req.Equal(first.Unwrap(), active)
	req.True(a.SignOut().IsOk())

	second := a.OpenSession(ctx, "admin", "admin", model.RoleAdmin)
	req.True(second.IsOk())
	req.Equal("admin", second.Unwrap().User.Username)
	req.NotEqual(first.Unwrap().ID, second.Unwrap().ID)
}

func TestRequirePrivileged(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	a := newTestAuthorizer(repository.NewMemoryUserStore())
	req.NoError(a.EnsureAdmin(ctx, "admin", "admin"))
	req.True(a.SignUp(ctx, "alice", "pw").IsOk())

	r := a.RequirePrivileged()
	req.ErrorIs(r.Err(), apperr.ErrUnauthorized)
	req.EqualError(r.Err(), "Insufficient privilege")

	req.True(a.SignInUnprivileged(ctx, "alice", "pw").IsOk())
	req.ErrorIs(a.RequirePrivileged().Err(), apperr.ErrUnauthorized)
	req.True(a.SignOut().IsOk())

	req.True(a.SignInPrivileged(ctx, "admin", "admin").IsOk())
	got := a.RequirePrivileged()
	req.True(got.IsOk())
	req.Equal("admin", got.Unwrap().Username)
}

func TestEnsureAdminKeepsExistingAccount(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	a := newTestAuthorizer(repository.NewMemoryUserStore())

	req.NoError(a.EnsureAdmin(ctx, "admin", "first"))
	req.NoError(a.EnsureAdmin(ctx, "admin", "second"))

	req.ErrorIs(a.SignInPrivileged(ctx, "admin", "second").Err(), apperr.ErrInvalidCredentials)
	req.True(a.SignInPrivileged(ctx, "admin", "first").IsOk())
}

func TestSessionStoreBeginIsExclusive(t *testing.T) {
	req := require.New(t)
	s := NewSessionStore()
	first, ok := s.Begin(model.User{Username: "a"})
	req.True(ok)
	req.NotEmpty(first.ID)
	_, ok = s.Begin(model.User{Username: "b"})
	req.False(ok)
	active, ok := s.Active()
	req.True(ok)
	req.Equal(first, active)
	u, ok := s.End()
	req.True(ok)
	req.Equal("a", u.Username)
	_, ok = s.End()
	req.False(ok)
}

func TestTickets(t *testing.T) {
	req := require.New(t)
	tickets := NewTickets("s3cret", time.Hour)

	sess := Session{User: model.User{Username: "admin", Role: model.RoleAdmin}, ID: "s1"}

	tk, err := tickets.Issue(sess)
	req.NoError(err)
	req.True(tk.Exp.After(time.Now()))

	claims, err := tickets.Parse(tk.Token)
	req.NoError(err)
	req.Equal(TicketClaims{Username: "admin", Role: model.RoleAdmin, SessionID: "s1"}, claims)

	// a ticket must name the session it was issued for
	unbound, err := tickets.Issue(Session{User: sess.User})
	req.NoError(err)
	_, err = tickets.Parse(unbound.Token)
	req.ErrorIs(err, ErrInvalidTicket)

	_, err = NewTickets("other", time.Hour).Parse(tk.Token)
	req.ErrorIs(err, ErrInvalidTicket)

	expired, err := NewTickets("s3cret", -time.Minute).Issue(sess)
	req.NoError(err)
	_, err = tickets.Parse(expired.Token)
	req.ErrorIs(err, ErrInvalidTicket)
}
