// Package result provides Result, a success-or-failure container used by the
// back-office services instead of bare (value, error) pairs. Every mutating
// operation is written as a chain: the privilege gate first, then FlatMap
// into the mutation, so the first failing step is the only error reported.
//
// Exactly one side of a Result is populated. Map, FlatMap, Use and Do never
// invoke their callback on an Err; they hand the existing error through
// untouched.
package result

import "fmt"

// Result holds either an ok value or an error.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a success value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err wraps a failure. A nil error is a programming mistake and panics.
func Err[T any](err error) Result[T] {
	if err == nil {
		panic("result: Err called with nil error")
	}
	return Result[T]{err: err}
}

// From adapts a conventional (value, error) return.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}

// FromOptional turns a lookup into a Result, using missing when ok is false.
func FromOptional[T any](v T, ok bool, missing error) Result[T] {
	if !ok {
		return Err[T](missing)
	}
	return Ok(v)
}

// FromLookup is FromOptional for store lookups that can also fail outright.
// A storage error wins over the missing error.
func FromLookup[T any](v T, ok bool, err error, missing error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return FromOptional(v, ok, missing)
}

func (r Result[T]) IsOk() bool { return r.err == nil }

// Unwrap returns the ok value and panics on an Err.
func (r Result[T]) Unwrap() T {
	if r.err != nil {
		panic(fmt.Sprintf("result: Unwrap on an error: %v", r.err))
	}
	return r.value
}

// UnwrapErr returns the error and panics on an Ok.
func (r Result[T]) UnwrapErr() error {
	if r.err == nil {
		panic(fmt.Sprintf("result: UnwrapErr on an ok value: %v", r.value))
	}
	return r.err
}

// Err returns the error, or nil on an Ok.
func (r Result[T]) Err() error { return r.err }

// Get returns the pair form for callers that prefer plain Go error handling.
func (r Result[T]) Get() (T, error) { return r.value, r.err }

// Use runs fn on the ok value for its side effect and passes the Result
// through unchanged.
func (r Result[T]) Use(fn func(T)) Result[T] {
	if r.err != nil {
		return r
	}
	fn(r.value)
	return r
}

// Do is Use for side effects that can fail. A failing fn turns the Ok into
// an Err carrying fn's error.
func (r Result[T]) Do(fn func(T) error) Result[T] {
	if r.err != nil {
		return r
	}
	if err := fn(r.value); err != nil {
		return Err[T](err)
	}
	return r
}

// Map applies fn to the ok value.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return Ok(fn(r.value))
}

// FlatMap applies fn, which itself returns a Result, to the ok value.
func FlatMap[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return fn(r.value)
}

// MapErr rewrites the error side and leaves an Ok alone.
func MapErr[T any](r Result[T], fn func(error) error) Result[T] {
	if r.err == nil {
		return r
	}
	return Err[T](fn(r.err))
}
