package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/example/taskflow/domain/task"
	"github.com/example/taskflow/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	nanoid "github.com/jaevor/go-nanoid"
)

const serviceListActivity = "list-activity"

// ActivityModule records task lifecycle events as a driven adapter.
// It subscribes to domain events using the EventConsumerModule interface.
type ActivityModule struct {
	feed   *Feed
	newID  func() string
	now    func() time.Time
	logger types.Logger
}

var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)
var _ mono.ServiceProviderModule = (*ActivityModule)(nil)

// NewModule creates an activity module keeping at most limit entries.
func NewModule(limit int, logger types.Logger) (*ActivityModule, error) {
	newID, err := nanoid.Standard(12)
	if err != nil {
		return nil, fmt.Errorf("failed to create id generator: %w", err)
	}
	return &ActivityModule{
		feed:   NewFeed(limit),
		newID:  newID,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}, nil
}

func (m *ActivityModule) Name() string {
	return "activity"
}

func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{"TaskCreated.v1", "TaskUpdated.v1", "TaskDeleted.v1"})
	return nil
}

func (m *ActivityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, serviceListActivity, json.Unmarshal, json.Marshal, m.listActivity,
	); err != nil {
		return fmt.Errorf("failed to register list-activity service: %w", err)
	}

	m.logger.Info("Registered activity services", "services", []string{serviceListActivity})
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.record(TypeTaskCreated, event.TaskID, event.Title, fmt.Sprintf("Task '%s' created", event.Title), event.CreatedAt)
	return nil
}

func (m *ActivityModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	entryType := TypeTaskUpdated
	message := fmt.Sprintf("Task '%s' updated", event.Title)
	if event.StatusOnly() {
		entryType = TypeTaskReopened
		message = fmt.Sprintf("Task '%s' reopened", event.Title)
		if event.Status == domain.StatusCompleted {
			entryType = TypeTaskCompleted
			message = fmt.Sprintf("Task '%s' completed", event.Title)
		}
	}
	m.record(entryType, event.TaskID, event.Title, message, event.UpdatedAt)
	return nil
}

func (m *ActivityModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.record(TypeTaskDeleted, event.TaskID, event.Title, fmt.Sprintf("Task '%s' deleted", event.Title), event.DeletedAt)
	return nil
}

func (m *ActivityModule) record(entryType, taskID, title, message string, at time.Time) {
	if at.IsZero() {
		at = m.now()
	}
	m.feed.Add(Entry{
		ID:        m.newID(),
		Type:      entryType,
		TaskID:    taskID,
		Title:     title,
		Message:   message,
		Timestamp: at,
	})
	m.logger.Debug("Recorded activity", "type", entryType, "taskId", taskID)
}

func (m *ActivityModule) listActivity(_ context.Context, req ListActivityRequest, _ *mono.Msg) (ListActivityResponse, error) {
	entries := m.feed.Recent(req.Limit)
	return ListActivityResponse{Entries: entries, Count: len(entries)}, nil
}

// Feed returns the module's activity feed.
func (m *ActivityModule) Feed() *Feed {
	return m.feed
}

func (m *ActivityModule) Start(_ context.Context) error {
	m.logger.Info("Activity module started - listening for task events")
	return nil
}

func (m *ActivityModule) Stop(_ context.Context) error {
	m.logger.Info("Activity module stopped")
	return nil
}
