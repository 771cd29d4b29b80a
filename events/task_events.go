package events

import (
	"time"

	domain "github.com/example/taskflow/domain/task"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted when a new task is created.
type TaskCreatedEvent struct {
	TaskID    string        `json:"task_id"`
	Title     string        `json:"title"`
	Status    domain.Status `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.task.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"task", "TaskCreated", "v1",
)

// TaskUpdatedEvent is emitted after a successful update. Changed lists the
// fields the request supplied.
type TaskUpdatedEvent struct {
	TaskID    string        `json:"task_id"`
	Title     string        `json:"title"`
	Status    domain.Status `json:"status"`
	Changed   []string      `json:"changed"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// StatusOnly reports whether status was the only field the update supplied.
func (e TaskUpdatedEvent) StatusOnly() bool {
	return len(e.Changed) == 1 && e.Changed[0] == "status"
}

// TaskUpdatedV1 is the typed event definition for task updates.
// Subject: events.task.v1.task-updated
var TaskUpdatedV1 = helper.EventDefinition[TaskUpdatedEvent](
	"task", "TaskUpdated", "v1",
)

// TaskDeletedEvent is emitted when a task is deleted.
type TaskDeletedEvent struct {
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TaskDeletedV1 is the typed event definition for task deletion.
// Subject: events.task.v1.task-deleted
var TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
	"task", "TaskDeleted", "v1",
)
