// Package repository defines error types that are reused across multiple
// stores. Lookups report absence through a found flag rather than an error,
// so the only sentinel here signals a write that lost a race.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an upsert collides with a row inserted
// concurrently under the same key. Callers may retry the operation.
var ErrConflict = errors.New("conflict")

// isDuplicateKey recognises unique-key violations from both SQL drivers:
// MySQL error 1062 and SQLite's "UNIQUE constraint failed".
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint failed")
}
