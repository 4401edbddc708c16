// Package workflow implements the guided reservation wizard and the
// free-form counter-sale flow.  Both hold their selection state in
// memory only; nothing is persisted until Complete succeeds, and an
// abandoned workflow is simply garbage collected.
package workflow

import (
	"errors"
	"fmt"
)

// FieldError reports a failed entry guard or setter validation.  The
// workflow stays where it is; handlers surface the failing field so the
// form can highlight it inline.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// ErrCommitInFlight is returned when Complete is invoked while a prior
// commit for the same workflow instance has not yet resolved.  The
// guard is released once the persistence call returns, so a failed
// commit can be retried without re-entering data.
var ErrCommitInFlight = errors.New("commit already in flight")

// ErrNoItemSelected is returned by the counter-sale Complete when no
// item has been picked.  The action is a no-op; no record is persisted.
var ErrNoItemSelected = errors.New("no item selected")

// ErrAdvanceBlocked is returned when Advance is called on the payment
// step: the confirmation step is only entered through Complete.
var ErrAdvanceBlocked = errors.New("confirmation is entered by completing the booking")
