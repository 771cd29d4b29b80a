package task

import (
	"context"
	"fmt"

	domain "github.com/example/taskflow/domain/task"
	"github.com/go-monolith/mono"
)

var errNotStarted = fmt.Errorf("%w: task module not started", domain.ErrStorage)

func (m *TaskModule) listTasks(ctx context.Context, _ ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	if m.service == nil {
		return ListTasksResponse{Error: newServiceError(errNotStarted)}, nil
	}

	tasks, err := m.service.List(ctx)
	if err != nil {
		return ListTasksResponse{Error: newServiceError(err)}, nil
	}
	return ListTasksResponse{Tasks: tasks, Count: len(tasks)}, nil
}

func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if m.service == nil {
		return TaskResponse{Error: newServiceError(errNotStarted)}, nil
	}
	return taskResponse(m.service.Create(ctx, req.Input()))
}

func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if m.service == nil {
		return TaskResponse{Error: newServiceError(errNotStarted)}, nil
	}
	return taskResponse(m.service.Update(ctx, req.TaskID, req.Input()))
}

func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if m.service == nil {
		return TaskResponse{Error: newServiceError(errNotStarted)}, nil
	}
	return taskResponse(m.service.Delete(ctx, req.TaskID))
}

// taskResponse puts err in-band so the caller can classify it.
func taskResponse(t domain.Task, err error) (TaskResponse, error) {
	if err != nil {
		return TaskResponse{Error: newServiceError(err)}, nil
	}
	return TaskResponse{Task: &t}, nil
}
