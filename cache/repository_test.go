package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	domain "github.com/example/taskflow/domain/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

// fakeStore is an in-process Store keeping JSON values like Redis would.
type fakeStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	err     error
	deletes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (s *fakeStore) Set(_ context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.err != nil {
		return s.err
	}
	delete(s.data, key)
	return nil
}

func (s *fakeStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// countingRepository is a minimal in-memory domain.Repository that counts
// list calls.
type countingRepository struct {
	mu        sync.Mutex
	tasks     []domain.Task
	listCalls int
	clock     *domain.Clock
	listErr   error
}

func (r *countingRepository) ListAll(context.Context) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.Task, len(r.tasks))
	copy(out, r.tasks)
	return out, nil
}

func (r *countingRepository) Create(_ context.Context, draft domain.Task) (domain.Task, error) {
	t, err := domain.Materialize(draft, r.clock)
	if err != nil {
		return domain.Task{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append([]domain.Task{t}, r.tasks...)
	return t, nil
}

func (r *countingRepository) UpdateByID(_ context.Context, id string, in domain.Input) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tasks {
		if t.ID == id {
			next, err := domain.Merge(t, in, r.clock)
			if err != nil {
				return domain.Task{}, err
			}
			r.tasks[i] = next
			return next, nil
		}
	}
	return domain.Task{}, domain.ErrNotFound
}

func (r *countingRepository) DeleteByID(_ context.Context, id string) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return t, nil
		}
	}
	return domain.Task{}, domain.ErrNotFound
}

func (r *countingRepository) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls
}

func newCountingRepository() *countingRepository {
	return &countingRepository{clock: domain.NewClock()}
}

func TestCachedRepository_ListServedFromCache(t *testing.T) {
	repo := newCountingRepository()
	store := newFakeStore()
	cached := NewCachedRepository(repo, store, &mockLogger{})
	ctx := context.Background()

	_, err := cached.Create(ctx, domain.Task{Title: "cached"})
	require.NoError(t, err)

	first, err := cached.ListAll(ctx)
	require.NoError(t, err)
	second, err := cached.ListAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls())
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, first[0].CreatedAt.Equal(second[0].CreatedAt))
	assert.True(t, store.has(listKey))
}

func TestCachedRepository_MutationsInvalidate(t *testing.T) {
	repo := newCountingRepository()
	store := newFakeStore()
	cached := NewCachedRepository(repo, store, &mockLogger{})
	ctx := context.Background()

	created, err := cached.Create(ctx, domain.Task{Title: "a"})
	require.NoError(t, err)
	_, err = cached.ListAll(ctx)
	require.NoError(t, err)
	require.True(t, store.has(listKey))

	_, err = cached.UpdateByID(ctx, created.ID, domain.Input{Status: strPtr("Completed")})
	require.NoError(t, err)
	assert.False(t, store.has(listKey))

	tasks, err := cached.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.StatusCompleted, tasks[0].Status)

	_, err = cached.DeleteByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, store.has(listKey))

	tasks, err = cached.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, 3, repo.calls())
}

func TestCachedRepository_FailedMutationKeepsCache(t *testing.T) {
	repo := newCountingRepository()
	store := newFakeStore()
	cached := NewCachedRepository(repo, store, &mockLogger{})
	ctx := context.Background()

	_, err := cached.ListAll(ctx)
	require.NoError(t, err)

	_, err = cached.DeleteByID(ctx, domain.NewID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, store.deletes)
	assert.True(t, store.has(listKey))
}

func TestCachedRepository_CacheErrorsNeverFailRequests(t *testing.T) {
	repo := newCountingRepository()
	store := newFakeStore()
	store.err = errors.New("redis: connection refused")
	cached := NewCachedRepository(repo, store, &mockLogger{})
	ctx := context.Background()

	created, err := cached.Create(ctx, domain.Task{Title: "still works"})
	require.NoError(t, err)

	tasks, err := cached.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
}

func TestCachedRepository_ListErrorNotCached(t *testing.T) {
	repo := newCountingRepository()
	repo.listErr = errors.New("db down")
	store := newFakeStore()
	cached := NewCachedRepository(repo, store, &mockLogger{})

	_, err := cached.ListAll(context.Background())
	assert.Error(t, err)
	assert.False(t, store.has(listKey))
}

func TestCachedRepository_StaleLoadNotWrittenBack(t *testing.T) {
	repo := &racingRepository{countingRepository: newCountingRepository()}
	store := newFakeStore()
	cached := NewCachedRepository(repo, store, &mockLogger{})
	repo.onList = func() { cached.invalidate(context.Background()) }

	_, err := cached.ListAll(context.Background())
	require.NoError(t, err)
	assert.False(t, store.has(listKey))

	repo.onList = nil
	_, err = cached.ListAll(context.Background())
	require.NoError(t, err)
	assert.True(t, store.has(listKey))
}

// racingRepository runs onList while a list load is in flight.
type racingRepository struct {
	*countingRepository
	onList func()
}

func (r *racingRepository) ListAll(ctx context.Context) ([]domain.Task, error) {
	tasks, err := r.countingRepository.ListAll(ctx)
	if r.onList != nil {
		r.onList()
	}
	return tasks, err
}

func strPtr(s string) *string { return &s }
