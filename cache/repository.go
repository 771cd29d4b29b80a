package cache

import (
	"context"
	"sync/atomic"

	domain "github.com/example/taskflow/domain/task"
	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/sync/singleflight"
)

// listKey is the cache key of the full, ordered task list.
const listKey = "tasks:all"

// CachedRepository adds a cache-aside layer to ListAll. Every successful
// mutation invalidates the cached list. Cache failures are logged and never
// fail a request.
type CachedRepository struct {
	next    domain.Repository
	cache   Store
	logger  types.Logger
	sfGroup singleflight.Group

	// generation is bumped by every mutation. A list loaded under an older
	// generation is not written back, so a slow read cannot re-cache data
	// that a concurrent write already invalidated.
	generation atomic.Uint64
}

var _ domain.Repository = (*CachedRepository)(nil)

// NewCachedRepository wraps next with the given cache.
func NewCachedRepository(next domain.Repository, cache Store, logger types.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		cache:  cache,
		logger: logger,
	}
}

// ListAll serves the list from cache, loading it from the wrapped repository
// on a miss. Concurrent misses share one load.
func (r *CachedRepository) ListAll(ctx context.Context) ([]domain.Task, error) {
	var cached []domain.Task
	found, err := r.cache.Get(ctx, listKey, &cached)
	if err != nil {
		r.logger.Warn("Task list cache read failed", "error", err)
	}
	if found {
		return cached, nil
	}

	val, err, _ := r.sfGroup.Do(listKey, func() (any, error) {
		gen := r.generation.Load()
		tasks, err := r.next.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		if r.generation.Load() == gen {
			if err := r.cache.Set(ctx, listKey, tasks); err != nil {
				r.logger.Warn("Task list cache write failed", "error", err)
			}
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}

	tasks, _ := val.([]domain.Task)
	return tasks, nil
}

// Create stores a task and invalidates the cached list.
func (r *CachedRepository) Create(ctx context.Context, draft domain.Task) (domain.Task, error) {
	t, err := r.next.Create(ctx, draft)
	if err != nil {
		return domain.Task{}, err
	}
	r.invalidate(ctx)
	return t, nil
}

// UpdateByID updates a task and invalidates the cached list.
func (r *CachedRepository) UpdateByID(ctx context.Context, id string, in domain.Input) (domain.Task, error) {
	t, err := r.next.UpdateByID(ctx, id, in)
	if err != nil {
		return domain.Task{}, err
	}
	r.invalidate(ctx)
	return t, nil
}

// DeleteByID deletes a task and invalidates the cached list.
func (r *CachedRepository) DeleteByID(ctx context.Context, id string) (domain.Task, error) {
	t, err := r.next.DeleteByID(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	r.invalidate(ctx)
	return t, nil
}

func (r *CachedRepository) invalidate(ctx context.Context) {
	r.generation.Add(1)
	if err := r.cache.Delete(ctx, listKey); err != nil {
		r.logger.Warn("Task list cache invalidation failed", "error", err)
	}
}
