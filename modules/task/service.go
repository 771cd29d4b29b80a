package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/taskflow/domain/task"
	"github.com/example/taskflow/events"
	"github.com/go-monolith/mono/pkg/types"
)

// Publisher receives task lifecycle events. Publishing is best-effort.
type Publisher interface {
	TaskCreated(event events.TaskCreatedEvent) error
	TaskUpdated(event events.TaskUpdatedEvent) error
	TaskDeleted(event events.TaskDeletedEvent) error
}

// Service orchestrates validation and repository calls for one request.
// Validation failures never reach the repository; unexpected repository
// failures come back wrapped with domain.ErrStorage.
type Service struct {
	repo      domain.Repository
	publisher Publisher
	logger    types.Logger
}

// NewService creates a task service. publisher may be nil.
func NewService(repo domain.Repository, publisher Publisher, logger types.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns every task, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, s.fault("list tasks", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// Create validates the input and stores a new task.
func (s *Service) Create(ctx context.Context, in domain.Input) (domain.Task, error) {
	draft, err := domain.New(in)
	if err != nil {
		return domain.Task{}, err
	}

	created, err := s.repo.Create(ctx, draft)
	if err != nil {
		return domain.Task{}, s.fault("create task", err)
	}

	s.logger.Info("Task created", "id", created.ID)
	if s.publisher != nil {
		if err := s.publisher.TaskCreated(events.TaskCreatedEvent{
			TaskID:    created.ID,
			Title:     created.Title,
			Status:    created.Status,
			CreatedAt: created.CreatedAt,
		}); err != nil {
			s.logger.Warn("Failed to publish TaskCreated event", "id", created.ID, "error", err)
		}
	}
	return created, nil
}

// Update applies a partial update to the task identified by id.
func (s *Service) Update(ctx context.Context, id string, in domain.Input) (domain.Task, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return domain.Task{}, err
	}
	if err := domain.Validate(in, domain.ModeUpdate); err != nil {
		return domain.Task{}, err
	}

	updated, err := s.repo.UpdateByID(ctx, id, in)
	if err != nil {
		return domain.Task{}, s.fault("update task", err)
	}

	s.logger.Info("Task updated", "id", updated.ID, "status", updated.Status)
	if s.publisher != nil {
		if err := s.publisher.TaskUpdated(events.TaskUpdatedEvent{
			TaskID:    updated.ID,
			Title:     updated.Title,
			Status:    updated.Status,
			Changed:   suppliedFields(in),
			UpdatedAt: updated.UpdatedAt,
		}); err != nil {
			s.logger.Warn("Failed to publish TaskUpdated event", "id", updated.ID, "error", err)
		}
	}
	return updated, nil
}

// Delete removes the task identified by id and returns its last state.
func (s *Service) Delete(ctx context.Context, id string) (domain.Task, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return domain.Task{}, err
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return domain.Task{}, s.fault("delete task", err)
	}

	s.logger.Info("Task deleted", "id", deleted.ID)
	if s.publisher != nil {
		if err := s.publisher.TaskDeleted(events.TaskDeletedEvent{
			TaskID:    deleted.ID,
			Title:     deleted.Title,
			DeletedAt: time.Now().UTC(),
		}); err != nil {
			s.logger.Warn("Failed to publish TaskDeleted event", "id", deleted.ID, "error", err)
		}
	}
	return deleted, nil
}

// fault passes classified errors through and wraps everything else as a
// storage fault, logging the underlying cause.
func (s *Service) fault(op string, err error) error {
	if domain.KindOf(err) != domain.KindStorageFault {
		return err
	}
	s.logger.Error("Storage failure", "op", op, "error", err)
	if errors.Is(err, domain.ErrStorage) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

// suppliedFields lists the fields present in in, in rule order.
func suppliedFields(in domain.Input) []string {
	var fields []string
	if in.Title != nil {
		fields = append(fields, "title")
	}
	if in.Description != nil {
		fields = append(fields, "description")
	}
	if in.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}
