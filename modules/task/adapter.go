package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/taskflow/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
// Classified failures travel in-band and are rebuilt with ServiceError.Err.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
// container is the ServiceContainer from the task module received via SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// ListTasks lists all tasks via the list-tasks service.
func (a *taskAdapter) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var resp ListTasksResponse
	if err := a.call(ctx, serviceListTasks, &ListTasksRequest{}, &resp); err != nil {
		return nil, err
	}
	if err := resp.Error.Err(); err != nil {
		return nil, err
	}
	if resp.Tasks == nil {
		return []domain.Task{}, nil
	}
	return resp.Tasks, nil
}

// CreateTask creates a new task via the create-task service.
func (a *taskAdapter) CreateTask(ctx context.Context, req *CreateTaskRequest) (domain.Task, error) {
	var resp TaskResponse
	if err := a.call(ctx, serviceCreateTask, req, &resp); err != nil {
		return domain.Task{}, err
	}
	return resp.result()
}

// UpdateTask updates a task via the update-task service.
func (a *taskAdapter) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (domain.Task, error) {
	var resp TaskResponse
	if err := a.call(ctx, serviceUpdateTask, req, &resp); err != nil {
		return domain.Task{}, err
	}
	return resp.result()
}

// DeleteTask deletes a task via the delete-task service.
func (a *taskAdapter) DeleteTask(ctx context.Context, taskID string) (domain.Task, error) {
	var resp TaskResponse
	if err := a.call(ctx, serviceDeleteTask, &DeleteTaskRequest{TaskID: taskID}, &resp); err != nil {
		return domain.Task{}, err
	}
	return resp.result()
}

// call performs the request-reply round trip. Transport failures are storage
// faults from the caller's point of view.
func (a *taskAdapter) call(ctx context.Context, service string, req, resp any) error {
	if err := helper.CallRequestReplyService[any, any](
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return fmt.Errorf("%w: %s service call failed: %w", domain.ErrStorage, service, err)
	}
	return nil
}
