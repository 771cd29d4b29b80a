package activity

import (
	"sync"
	"time"
)

// Entry types recorded in the feed.
const (
	TypeTaskCreated   = "task_created"
	TypeTaskCompleted = "task_completed"
	TypeTaskReopened  = "task_reopened"
	TypeTaskUpdated   = "task_updated"
	TypeTaskDeleted   = "task_deleted"
)

// Entry is one line of the activity feed.
type Entry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	TaskID    string    `json:"taskId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed keeps the most recent entries up to a fixed capacity. The oldest entry
// is dropped when a new one arrives at capacity.
type Feed struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewFeed creates a feed holding at most capacity entries.
func NewFeed(capacity int) *Feed {
	if capacity < 1 {
		capacity = 1
	}
	return &Feed{entries: make([]Entry, capacity)}
}

// Add appends e, evicting the oldest entry when full.
func (f *Feed) Add(e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[f.next] = e
	f.next = (f.next + 1) % len(f.entries)
	if f.next == 0 {
		f.full = true
	}
}

// Len returns the number of entries held.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.size()
}

// Recent returns up to limit entries, newest first. A limit <= 0 returns
// everything held.
func (f *Feed) Recent(limit int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := f.size()
	if limit <= 0 || limit > n {
		limit = n
	}

	result := make([]Entry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + len(f.entries)) % len(f.entries)
		result = append(result, f.entries[idx])
	}
	return result
}

func (f *Feed) size() int {
	if f.full {
		return len(f.entries)
	}
	return f.next
}
