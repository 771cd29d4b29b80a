package client

import (
	"errors"
	"fmt"
)

const (
	networkMessage    = "Network error. Please check your connection and try again."
	unexpectedMessage = "An unexpected error occurred"
)

// FieldError is one field-level validation failure returned by the API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned by every Client call that fails. Network is set when no
// response was received; otherwise Status and the decoded failure body are
// populated.
type Error struct {
	Network bool
	Status  int
	Message string
	Errors  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Network {
		if e.Err != nil {
			return fmt.Sprintf("%s (%v)", e.Message, e.Err)
		}
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FieldMessage returns the message for field, or "" when the field is valid.
func (e *Error) FieldMessage(field string) string {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// IsNetwork reports whether err is a Client error raised before any response
// arrived.
func IsNetwork(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Network
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Status
	}
	return 0
}

func networkError(err error) *Error {
	return &Error{Network: true, Message: networkMessage, Err: err}
}
