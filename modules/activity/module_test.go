package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	domain "github.com/example/taskflow/domain/task"
	"github.com/example/taskflow/events"
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

func newTestModule(t *testing.T, limit int) *ActivityModule {
	t.Helper()
	m, err := NewModule(limit, &mockLogger{})
	require.NoError(t, err)
	return m
}

func TestFeed_RecentNewestFirst(t *testing.T) {
	feed := NewFeed(5)
	for i := 1; i <= 3; i++ {
		feed.Add(Entry{ID: fmt.Sprint(i)})
	}

	got := feed.Recent(0)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"3", "2", "1"}, []string{got[0].ID, got[1].ID, got[2].ID})

	got = feed.Recent(2)
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].ID)
}

func TestFeed_EvictsOldest(t *testing.T) {
	feed := NewFeed(3)
	for i := 1; i <= 7; i++ {
		feed.Add(Entry{ID: fmt.Sprint(i)})
	}

	assert.Equal(t, 3, feed.Len())
	got := feed.Recent(10)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"7", "6", "5"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestFeed_MinimumCapacity(t *testing.T) {
	feed := NewFeed(0)
	feed.Add(Entry{ID: "a"})
	feed.Add(Entry{ID: "b"})

	got := feed.Recent(0)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestFeed_Empty(t *testing.T) {
	feed := NewFeed(4)
	assert.Equal(t, 0, feed.Len())
	assert.Empty(t, feed.Recent(10))
}

func TestModule_Name(t *testing.T) {
	assert.Equal(t, "activity", newTestModule(t, 10).Name())
}

func TestModule_RecordsEvents(t *testing.T) {
	m := newTestModule(t, 10)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, m.handleTaskCreated(ctx, events.TaskCreatedEvent{TaskID: "t1", Title: "Buy milk", CreatedAt: at}, nil))
	require.NoError(t, m.handleTaskUpdated(ctx, events.TaskUpdatedEvent{
		TaskID: "t1", Title: "Buy milk", Status: domain.StatusCompleted, Changed: []string{"status"}, UpdatedAt: at.Add(time.Minute),
	}, nil))
	require.NoError(t, m.handleTaskUpdated(ctx, events.TaskUpdatedEvent{
		TaskID: "t1", Title: "Buy milk", Status: domain.StatusPending, Changed: []string{"status"}, UpdatedAt: at.Add(2 * time.Minute),
	}, nil))
	require.NoError(t, m.handleTaskUpdated(ctx, events.TaskUpdatedEvent{
		TaskID: "t1", Title: "Buy oat milk", Status: domain.StatusPending, Changed: []string{"title", "status"}, UpdatedAt: at.Add(3 * time.Minute),
	}, nil))
	require.NoError(t, m.handleTaskDeleted(ctx, events.TaskDeletedEvent{TaskID: "t1", Title: "Buy oat milk"}, nil))

	entries := m.Feed().Recent(0)
	require.Len(t, entries, 5)

	kinds := make([]string, 0, len(entries))
	for _, e := range entries {
		kinds = append(kinds, e.Type)
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, "t1", e.TaskID)
	}
	assert.Equal(t, []string{
		TypeTaskDeleted, TypeTaskUpdated, TypeTaskReopened, TypeTaskCompleted, TypeTaskCreated,
	}, kinds)

	assert.Equal(t, "Task 'Buy milk' created", entries[4].Message)
	assert.Equal(t, at, entries[4].Timestamp)
	assert.Equal(t, "Task 'Buy milk' completed", entries[3].Message)
	assert.False(t, entries[0].Timestamp.IsZero())
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestModule_ListActivity(t *testing.T) {
	m := newTestModule(t, 2)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, m.handleTaskCreated(ctx, events.TaskCreatedEvent{TaskID: title, Title: title}, nil))
	}

	resp, err := m.listActivity(ctx, ListActivityRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "c", resp.Entries[0].TaskID)
	assert.Equal(t, "b", resp.Entries[1].TaskID)

	resp, err = m.listActivity(ctx, ListActivityRequest{Limit: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
}

func TestModule_StartStop(t *testing.T) {
	m := newTestModule(t, 1)
	assert.NoError(t, m.Start(context.Background()))
	assert.NoError(t, m.Stop(context.Background()))
}
