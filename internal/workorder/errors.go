package workorder

import (
	"errors"
)

var (
	// ErrNotFound is returned when the work-order id is unknown.
	ErrNotFound = errors.New("work order not found")
	// ErrInvalidTransition is returned when no edge exists for the
	// current status and requested action. Re-applying an already
	// applied transition fails the same way: transitions are not
	// idempotent, re-assignment must be explicit.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnauthorized is returned when the actor role lacks the
	// capability for the action, regardless of record state.
	ErrUnauthorized = errors.New("role not permitted")
	// ErrValidation is returned when required input is missing or
	// malformed, or an action-specific guard fails.
	ErrValidation = errors.New("validation failed")
	// ErrVersionConflict is returned when the caller's expected
	// version does not match the stored version. The caller should
	// re-fetch and retry; the engine performs no automatic retry.
	ErrVersionConflict = errors.New("concurrent modification")
)
