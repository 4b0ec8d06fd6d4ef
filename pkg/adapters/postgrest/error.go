package postgrest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yesilw0rks/airnote/pkg/core"
)

// undefinedTable is the PostgreSQL error code for a missing relation.
const undefinedTable = "42P01"

// Error is a non-2xx answer from the note service.
// It unwraps to the operation class (core.ErrRemoteUnavailable or
// core.ErrRemoteWriteFailed) and, when recognised, to the cause
// (core.ErrUnauthorized, core.ErrPermissionDenied, core.ErrTableMissing).
type Error struct {
	Op      string
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`

	class error
	cause error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("postgrest %s: %d %s (%s)", e.Op, e.Status, msg, e.Code)
	}
	return fmt.Sprintf("postgrest %s: %d %s", e.Op, e.Status, msg)
}

// Unwrap exposes the classification to errors.Is.
func (e *Error) Unwrap() []error {
	errs := []error{e.class}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// classify maps a failed response onto the domain errors.
func classify(status int, code, message string) error {
	lower := strings.ToLower(message)
	switch {
	case status == http.StatusForbidden,
		strings.Contains(lower, "row-level security"),
		strings.Contains(lower, "policy"):
		return core.ErrPermissionDenied
	case status == http.StatusNotFound, code == undefinedTable:
		return core.ErrTableMissing
	case status == http.StatusUnauthorized:
		return core.ErrUnauthorized
	}
	return nil
}

// Friendly returns a short user-facing explanation of err.
func Friendly(err error) string {
	switch {
	case errors.Is(err, core.ErrPermissionDenied):
		return "Permission denied. Check the row-level security policies on the notes table."
	case errors.Is(err, core.ErrTableMissing):
		return "The notes table does not exist. Create it in the database first."
	case errors.Is(err, core.ErrUnauthorized):
		return "The note service rejected the credentials."
	case err != nil:
		return "The note service is unreachable."
	}
	return ""
}
