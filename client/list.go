package client

import (
	"slices"
	"strings"

	domain "github.com/example/taskflow/domain/task"
)

// Filter selects tasks by status.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// SortOrder orders a task list.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortTitle  SortOrder = "title"
	SortStatus SortOrder = "status"
)

// Stats counts tasks by status.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// Apply returns the tasks matching f, ordered by order. The input is not
// modified. Unknown filters match everything; unknown orders keep the input
// order.
func Apply(tasks []domain.Task, f Filter, order SortOrder) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}

	if cmp := order.compare(); cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

// Match reports whether t passes the filter.
func (f Filter) Match(t domain.Task) bool {
	switch f {
	case FilterPending:
		return t.Status == domain.StatusPending
	case FilterCompleted:
		return t.Status == domain.StatusCompleted
	default:
		return true
	}
}

func (o SortOrder) compare() func(a, b domain.Task) int {
	switch o {
	case SortNewest:
		return func(a, b domain.Task) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortOldest:
		return func(a, b domain.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortTitle:
		return func(a, b domain.Task) int {
			if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
				return c
			}
			return strings.Compare(a.Title, b.Title)
		}
	case SortStatus:
		// Pending first.
		return func(a, b domain.Task) int { return statusRank(a.Status) - statusRank(b.Status) }
	}
	return nil
}

func statusRank(s domain.Status) int {
	if s == domain.StatusPending {
		return 0
	}
	return 1
}

// Count returns the status counts of tasks.
func Count(tasks []domain.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case domain.StatusPending:
			s.Pending++
		case domain.StatusCompleted:
			s.Completed++
		}
	}
	return s
}
