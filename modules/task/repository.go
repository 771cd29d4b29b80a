package task

import (
	"context"
	"fmt"
	"slices"
	"sync"

	domain "github.com/example/taskflow/domain/task"
)

// Store is a task repository with a connection lifecycle.
type Store interface {
	domain.Repository
	Ping(ctx context.Context) error
	Close() error
}

// MemoryRepository provides in-memory task storage.
type MemoryRepository struct {
	tasks map[string]domain.Task
	clock *domain.Clock
	mu    sync.RWMutex
}

var _ Store = (*MemoryRepository)(nil)

// NewMemoryRepository creates a new in-memory task repository.
func NewMemoryRepository(clock *domain.Clock) *MemoryRepository {
	return &MemoryRepository{
		tasks: make(map[string]domain.Task),
		clock: clock,
	}
}

// ListAll returns all tasks, newest first.
func (r *MemoryRepository) ListAll(_ context.Context) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		result = append(result, t)
	}
	slices.SortFunc(result, newestFirst)
	return result, nil
}

// Create stores a new task built from draft.
func (r *MemoryRepository) Create(_ context.Context, draft domain.Task) (domain.Task, error) {
	t, err := domain.Materialize(draft, r.clock)
	if err != nil {
		return domain.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[t.ID]; exists {
		return domain.Task{}, fmt.Errorf("%w: duplicate id %s", domain.ErrStorage, t.ID)
	}
	r.tasks[t.ID] = t
	return t, nil
}

// UpdateByID merges in into the task with the given id.
func (r *MemoryRepository) UpdateByID(_ context.Context, id string, in domain.Input) (domain.Task, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return domain.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, found := r.tasks[id]
	if !found {
		return domain.Task{}, domain.ErrNotFound
	}
	next, err := domain.Merge(current, in, r.clock)
	if err != nil {
		return domain.Task{}, err
	}
	r.tasks[id] = next
	return next, nil
}

// DeleteByID removes the task with the given id and returns it.
func (r *MemoryRepository) DeleteByID(_ context.Context, id string) (domain.Task, error) {
	id, err := domain.ParseID(id)
	if err != nil {
		return domain.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, found := r.tasks[id]
	if !found {
		return domain.Task{}, domain.ErrNotFound
	}
	delete(r.tasks, id)
	return t, nil
}

// Ping always succeeds.
func (r *MemoryRepository) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (r *MemoryRepository) Close() error {
	return nil
}

// newestFirst orders tasks by CreatedAt descending, then by ID for stability.
func newestFirst(a, b domain.Task) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}
