// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow handlers to
// distinguish failure scenarios: ErrForbidden means the caller does
// not own the resource, ErrConflict means dependent records block the
// operation (e.g. deleting an attraction that still has bookings).
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot proceed due
// to conflicting state.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// isDuplicateEntry reports whether a MySQL error is a unique-key
// violation (error 1062).  Repositories use it to turn raw driver
// errors into domain outcomes: duplicate emails, replayed idempotency
// keys and gift-code collisions.
func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
