package api

import (
	domain "github.com/example/taskflow/domain/task"
	"github.com/gofiber/fiber/v2"
)

// Response messages.
const (
	msgCreated        = "Task created successfully"
	msgUpdated        = "Task updated successfully"
	msgDeleted        = "Task deleted successfully"
	msgValidation     = "Validation failed"
	msgInvalidID      = "Invalid task ID"
	msgNotFound       = "Task not found"
	msgRouteNotFound  = "Route not found"
	msgInvalidBody    = "Invalid request body"
	msgInternal       = "Internal server error"
	msgFetchFailed    = "Server error while fetching tasks"
	msgCreateFailed   = "Server error while creating task"
	msgUpdateFailed   = "Server error while updating task"
	msgDeleteFailed   = "Server error while deleting task"
	msgActivityFailed = "Server error while fetching activity"
)

// statusFor maps an error kind to its HTTP status and failure message.
// faultMessage is used for storage faults so the reply names the operation
// without leaking detail.
func statusFor(kind domain.Kind, faultMessage string) (int, string) {
	switch kind {
	case domain.KindRequiredField, domain.KindLengthExceeded, domain.KindInvalidEnum:
		return fiber.StatusBadRequest, msgValidation
	case domain.KindInvalidIdentifier:
		return fiber.StatusBadRequest, msgInvalidID
	case domain.KindNotFound:
		return fiber.StatusNotFound, msgNotFound
	default:
		return fiber.StatusInternalServerError, faultMessage
	}
}

func fieldErrors(violations []domain.Violation) []FieldError {
	if len(violations) == 0 {
		return nil
	}
	out := make([]FieldError, 0, len(violations))
	for _, v := range violations {
		out = append(out, FieldError{Field: v.Field, Message: v.Message})
	}
	return out
}
