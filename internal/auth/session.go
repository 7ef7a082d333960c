package auth

import (
	"sync"

	"github.com/google/uuid"

	"github.com/iliyamo/cinema-backoffice/internal/model"
)

// Session is one sign-in of an identity.  ID is fresh for every sign-in, so
// tickets from an earlier session of the same account never match it.
type Session struct {
	User model.User
	ID   string
}

// SessionStore holds the single signed-in identity of the process.  All
// access goes through the mutex; Begin and End are check-and-set so two
// concurrent sign-ins cannot both succeed.
type SessionStore struct {
	mu     sync.RWMutex
	active *Session
}

func NewSessionStore() *SessionStore { return &SessionStore{} }

// Current returns the active identity, if any.
func (s *SessionStore) Current() (model.User, bool) {
	sess, ok := s.Active()
	return sess.User, ok
}

// Active returns the active session, if any.
func (s *SessionStore) Active() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return Session{}, false
	}
	return *s.active, true
}

// Begin makes u the active identity under a new session id.  It reports
// false and changes nothing when a session is already active.
func (s *SessionStore) Begin(u model.User) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return Session{}, false
	}
	s.active = &Session{User: u, ID: uuid.NewString()}
	return *s.active, true
}

// End clears the session and returns the identity that was signed in.
func (s *SessionStore) End() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return model.User{}, false
	}
	u := s.active.User
	s.active = nil
	return u, true
}
