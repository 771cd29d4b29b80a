package task

import (
	"sync"
	"time"
)

// Resolution is the precision timestamps are stored with. Postgres keeps
// microseconds, so every backend uses the same.
const Resolution = time.Microsecond

// Clock hands out strictly increasing UTC timestamps.
type Clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewClock returns a clock backed by time.Now.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewClockFunc returns a clock backed by now. Useful in tests.
func NewClockFunc(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current time, or one tick past the previous value when the
// wall clock has not advanced.
func (c *Clock) Now() time.Time {
	return c.After(time.Time{})
}

// After returns a timestamp strictly greater than both prev and every value
// this clock returned before.
func (c *Clock) After(prev time.Time) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(Resolution)
	if floor := latest(c.last, prev.UTC().Truncate(Resolution)); !floor.IsZero() && !t.After(floor) {
		t = floor.Add(Resolution)
	}
	c.last = t
	return t
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
