// Package apperr defines the error kinds shared by the back-office services.
// Every domain failure is returned as an *Error whose Kind is one of the
// sentinel values below, so callers can branch with errors.Is while the
// presentation layer prints Error() verbatim to the operator.
package apperr

import "errors"

// Error kinds. They are never returned bare; use the constructors.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadySignedIn    = errors.New("already signed in")
	ErrNoActiveSession    = errors.New("no active session")
	ErrSchedulingConflict = errors.New("scheduling conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInUse              = errors.New("in use")
)

// Error is a domain failure. Message is what the operator sees.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func NotFound(msg string) error           { return newError(ErrNotFound, msg) }
func AlreadyExists(msg string) error      { return newError(ErrAlreadyExists, msg) }
func Unauthorized(msg string) error       { return newError(ErrUnauthorized, msg) }
func InvalidCredentials(msg string) error { return newError(ErrInvalidCredentials, msg) }
func AlreadySignedIn(msg string) error    { return newError(ErrAlreadySignedIn, msg) }
func NoActiveSession(msg string) error    { return newError(ErrNoActiveSession, msg) }
func SchedulingConflict(msg string) error { return newError(ErrSchedulingConflict, msg) }
func InvalidInput(msg string) error       { return newError(ErrInvalidInput, msg) }
func InUse(msg string) error              { return newError(ErrInUse, msg) }

// KindOf returns the sentinel kind carried by err, or nil when err is not a
// domain error (for example a storage failure).
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
