package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/taskflow/cache"
	"github.com/example/taskflow/config"
	domain "github.com/example/taskflow/domain/task"
	"github.com/example/taskflow/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// TaskModule owns task storage and exposes it through request-reply services
// (core domain).
type TaskModule struct {
	cfg      config.Config
	logger   types.Logger
	clock    *domain.Clock
	store    Store
	cache    *cache.Cache
	service  *Service
	eventBus mono.EventBus
}

var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a task module that opens its store on Start.
func NewModule(cfg config.Config, logger types.Logger) *TaskModule {
	return &TaskModule{
		cfg:    cfg,
		logger: logger,
		clock:  domain.NewClock(),
	}
}

// NewModuleWithStore creates a task module over an already opened store.
func NewModuleWithStore(store Store, logger types.Logger) *TaskModule {
	m := &TaskModule{
		logger: logger,
		store:  store,
	}
	m.service = NewService(store, m.publisher(), logger)
	return m
}

func (m *TaskModule) Name() string {
	return "task"
}

func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, serviceListTasks, json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, serviceCreateTask, json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, serviceUpdateTask, json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, serviceDeleteTask, json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	m.logger.Info("Registered task services",
		"services", []string{serviceListTasks, serviceCreateTask, serviceUpdateTask, serviceDeleteTask})
	return nil
}

// Start opens the configured store and, when Redis is configured, puts the
// list cache in front of it.
func (m *TaskModule) Start(ctx context.Context) error {
	if m.eventBus == nil {
		m.logger.Warn("eventBus not set, events will not be published")
	}

	if m.store == nil {
		store, err := OpenStore(ctx, m.cfg, m.clock)
		if err != nil {
			return fmt.Errorf("failed to open %s store: %w", m.cfg.StoreDriver, err)
		}
		m.store = store
	}

	var repo domain.Repository = m.store
	if m.cfg.CacheEnabled() && m.cache == nil {
		c := cache.New(cache.NewClient(m.cfg.RedisAddr), m.cfg.CachePrefix, m.cfg.CacheTTL)
		if err := c.Ping(ctx); err != nil {
			// The cache is optional; serve straight from the store.
			m.logger.Warn("Redis unavailable, task list cache disabled", "addr", m.cfg.RedisAddr, "error", err)
			_ = c.Close()
		} else {
			m.cache = c
			repo = cache.NewCachedRepository(m.store, c, m.logger)
		}
	}

	m.service = NewService(repo, m.publisher(), m.logger)
	m.logger.Info("Task module started", "driver", m.cfg.StoreDriver, "cache", m.cache != nil)
	return nil
}

func (m *TaskModule) Stop(_ context.Context) error {
	if m.cache != nil {
		if err := m.cache.Close(); err != nil {
			m.logger.Warn("Failed to close cache", "error", err)
		}
		m.cache = nil
	}
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			return fmt.Errorf("failed to close store: %w", err)
		}
		m.store = nil
	}
	m.logger.Info("Task module stopped")
	return nil
}

// Health reports whether the store (and cache, if enabled) respond.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{Healthy: false, Message: "store not open"}
	}

	details := map[string]any{"driver": m.cfg.StoreDriver}
	if err := m.store.Ping(ctx); err != nil {
		details["error"] = err.Error()
		return mono.HealthStatus{Healthy: false, Message: "store unreachable", Details: details}
	}

	if m.cache != nil {
		if err := m.cache.Ping(ctx); err != nil {
			details["cache"] = err.Error()
		} else {
			details["cache"] = m.cache.Snapshot()
		}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational", Details: details}
}

func (m *TaskModule) publisher() Publisher {
	return &busPublisher{module: m}
}

// busPublisher publishes task events on the module's event bus. The bus is
// read at publish time because SetEventBus may run after the service exists.
type busPublisher struct {
	module *TaskModule
}

func (p *busPublisher) TaskCreated(event events.TaskCreatedEvent) error {
	if p.module.eventBus == nil {
		return nil
	}
	return events.TaskCreatedV1.Publish(p.module.eventBus, event, nil)
}

func (p *busPublisher) TaskUpdated(event events.TaskUpdatedEvent) error {
	if p.module.eventBus == nil {
		return nil
	}
	return events.TaskUpdatedV1.Publish(p.module.eventBus, event, nil)
}

func (p *busPublisher) TaskDeleted(event events.TaskDeletedEvent) error {
	if p.module.eventBus == nil {
		return nil
	}
	return events.TaskDeletedV1.Publish(p.module.eventBus, event, nil)
}
