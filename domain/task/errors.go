package task

import (
	"errors"
	"strings"
)

// Kind classifies every failure a task operation can produce.
type Kind string

const (
	KindRequiredField     Kind = "RequiredField"
	KindLengthExceeded    Kind = "LengthExceeded"
	KindInvalidEnum       Kind = "InvalidEnum"
	KindInvalidIdentifier Kind = "InvalidIdentifier"
	KindNotFound          Kind = "NotFound"
	KindStorageFault      Kind = "StorageFault"
)

// Sentinel errors for task operations.
var (
	// ErrNotFound is returned when a well-formed id matches no task.
	ErrNotFound = errors.New("task not found")

	// ErrInvalidID is returned when an id is not a well-formed task identifier.
	// It is always reported before any lookup happens.
	ErrInvalidID = errors.New("invalid task id")

	// ErrStorage wraps unexpected persistence failures.
	ErrStorage = errors.New("task storage failure")
)

// Violation is a single field-level finding.
type Violation struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// ValidationError collects every violation found for one request, in stable
// field order (title, description, status).
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// KindOf classifies err. A validation error reports the kind of its first
// violation; anything unrecognised is a storage fault.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	switch {
	case errors.As(err, &verr) && len(verr.Violations) > 0:
		return verr.Violations[0].Kind
	case errors.Is(err, ErrInvalidID):
		return KindInvalidIdentifier
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindStorageFault
	}
}

// Violations returns the field findings carried by err, or nil.
func Violations(err error) []Violation {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Violations
	}
	return nil
}
