package scheduler

import (
	"errors"
)

var (
	// ErrNotFound is returned when the plan id is unknown.
	ErrNotFound = errors.New("maintenance plan not found")
	// ErrInvalidState is returned when an operation requires an active
	// plan and the plan is deactivated, or vice versa.
	ErrInvalidState = errors.New("invalid plan state")
	// ErrValidation is returned when required input is missing or
	// malformed.
	ErrValidation = errors.New("validation failed")
	// ErrVersionConflict is returned when the caller's expected
	// version does not match the stored version.
	ErrVersionConflict = errors.New("concurrent modification")
)
