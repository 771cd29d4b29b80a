package api

import (
	"time"

	domain "github.com/example/taskflow/domain/task"
	"github.com/example/taskflow/modules/task"
)

// CreateTaskRequest is the HTTP request for creating a task. Status is not
// accepted on create; new tasks always start Pending.
type CreateTaskRequest struct {
	Title       domain.Optional `json:"title"`
	Description domain.Optional `json:"description"`
}

// UpdateTaskRequest is the HTTP request for updating a task. Omitted fields
// are left unchanged; a field sent as null is supplied and empty.
type UpdateTaskRequest struct {
	Title       domain.Optional `json:"title"`
	Description domain.Optional `json:"description"`
	Status      domain.Optional `json:"status"`
}

func (r CreateTaskRequest) toService() *task.CreateTaskRequest {
	return &task.CreateTaskRequest{Title: r.Title.Ptr(), Description: r.Description.Ptr()}
}

func (r UpdateTaskRequest) toService(id string) *task.UpdateTaskRequest {
	return &task.UpdateTaskRequest{
		TaskID:      id,
		Title:       r.Title.Ptr(),
		Description: r.Description.Ptr(),
		Status:      r.Status.Ptr(),
	}
}

// Envelope is the uniform response body of every API operation.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Count   *int         `json:"count,omitempty"`
}

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HealthResponse is the HTTP response for health check.
type HealthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
