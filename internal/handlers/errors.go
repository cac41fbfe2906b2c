package handlers

import (
	"errors"
	"net/http"

	"github.com/mifops/gmao-core/internal/scheduler"
	"github.com/mifops/gmao-core/internal/workorder"
)

// writeEngineError maps typed engine errors to HTTP status codes. The
// error text is surfaced as-is: the engine already phrases it for the
// caller.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workorder.ErrNotFound), errors.Is(err, scheduler.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, workorder.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, workorder.ErrValidation), errors.Is(err, scheduler.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, workorder.ErrInvalidTransition), errors.Is(err, scheduler.ErrInvalidState),
		errors.Is(err, workorder.ErrVersionConflict), errors.Is(err, scheduler.ErrVersionConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
