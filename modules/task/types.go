package task

import (
	"context"
	"fmt"

	domain "github.com/example/taskflow/domain/task"
)

// Request-reply service names registered by the task module.
const (
	serviceListTasks  = "list-tasks"
	serviceCreateTask = "create-task"
	serviceUpdateTask = "update-task"
	serviceDeleteTask = "delete-task"
)

// ListTasksRequest is the request for listing tasks.
type ListTasksRequest struct{}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
	Count int           `json:"count"`
	Error *ServiceError `json:"error,omitempty"`
}

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateTaskRequest is the request for updating a task. Nil fields are left
// unchanged.
type UpdateTaskRequest struct {
	TaskID      string  `json:"task_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

// TaskResponse is the response for a single task. Exactly one of Task and
// Error is set.
type TaskResponse struct {
	Task  *domain.Task  `json:"task,omitempty"`
	Error *ServiceError `json:"error,omitempty"`
}

func (r TaskResponse) result() (domain.Task, error) {
	if err := r.Error.Err(); err != nil {
		return domain.Task{}, err
	}
	if r.Task == nil {
		return domain.Task{}, fmt.Errorf("%w: empty task response", domain.ErrStorage)
	}
	return *r.Task, nil
}

// ServiceError carries a classified failure across the request-reply
// boundary so the caller can rebuild the typed error.
type ServiceError struct {
	Kind       domain.Kind        `json:"kind"`
	Message    string             `json:"message"`
	Violations []domain.Violation `json:"violations,omitempty"`
}

// newServiceError classifies err for transport. Storage faults keep only a
// generic message.
func newServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	kind := domain.KindOf(err)
	se := &ServiceError{Kind: kind, Message: err.Error()}
	switch kind {
	case domain.KindStorageFault:
		se.Message = domain.ErrStorage.Error()
	case domain.KindRequiredField, domain.KindLengthExceeded, domain.KindInvalidEnum:
		se.Violations = domain.Violations(err)
	}
	return se
}

// Err rebuilds the typed error described by e.
func (e *ServiceError) Err() error {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case domain.KindInvalidIdentifier:
		return domain.ErrInvalidID
	case domain.KindNotFound:
		return domain.ErrNotFound
	case domain.KindRequiredField, domain.KindLengthExceeded, domain.KindInvalidEnum:
		if len(e.Violations) > 0 {
			return &domain.ValidationError{Violations: e.Violations}
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrStorage, e.Message)
}

// Input converts the request fields to domain input.
func (r *UpdateTaskRequest) Input() domain.Input {
	return domain.Input{Title: r.Title, Description: r.Description, Status: r.Status}
}

// Input converts the request fields to domain input.
func (r *CreateTaskRequest) Input() domain.Input {
	return domain.Input{Title: r.Title, Description: r.Description}
}

// TaskPort defines the interface for task operations (hexagonal port).
// This is the contract that driving adapters (like HTTP API) use to interact
// with the core domain. Errors are classified with domain.KindOf.
type TaskPort interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, req *CreateTaskRequest) (domain.Task, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (domain.Task, error)
	DeleteTask(ctx context.Context, taskID string) (domain.Task, error)
}
