package client

import (
	"testing"
	"time"

	domain "github.com/example/taskflow/domain/task"
	"github.com/stretchr/testify/assert"
)

func sampleTasks() []domain.Task {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return []domain.Task{
		{ID: "c", Title: "walk dog", Status: domain.StatusCompleted, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "b", Title: "Buy milk", Status: domain.StatusPending, CreatedAt: base.Add(time.Hour)},
		{ID: "a", Title: "answer mail", Status: domain.StatusPending, CreatedAt: base},
	}
}

func ids(tasks []domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		order  SortOrder
		want   []string
	}{
		{name: "all newest", filter: FilterAll, order: SortNewest, want: []string{"c", "b", "a"}},
		{name: "all oldest", filter: FilterAll, order: SortOldest, want: []string{"a", "b", "c"}},
		{name: "title ignores case", filter: FilterAll, order: SortTitle, want: []string{"a", "b", "c"}},
		{name: "status pending first", filter: FilterAll, order: SortStatus, want: []string{"b", "a", "c"}},
		{name: "pending only", filter: FilterPending, order: SortNewest, want: []string{"b", "a"}},
		{name: "completed only", filter: FilterCompleted, order: SortNewest, want: []string{"c"}},
		{name: "unknown order keeps input", filter: FilterAll, order: "random", want: []string{"c", "b", "a"}},
		{name: "unknown filter matches all", filter: "archived", order: SortOldest, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(sampleTasks(), tt.filter, tt.order)))
		})
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	tasks := sampleTasks()
	_ = Apply(tasks, FilterAll, SortOldest)
	assert.Equal(t, []string{"c", "b", "a"}, ids(tasks))
}

func TestCount(t *testing.T) {
	assert.Equal(t, Stats{Total: 3, Pending: 2, Completed: 1}, Count(sampleTasks()))
	assert.Equal(t, Stats{}, Count(nil))
}
