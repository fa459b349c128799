package repository

import (
	"sync"
	"time"
)

// MonotonicClock hands out creation timestamps that strictly increase at
// millisecond resolution, even when the wall clock stalls or steps back.
type MonotonicClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// NewMonotonicClock returns a clock whose first timestamp is after last.
func NewMonotonicClock(now func() time.Time, last time.Time) *MonotonicClock {
	if now == nil {
		now = time.Now
	}
	return &MonotonicClock{now: now, last: last.UTC()}
}

// Next returns the next creation timestamp.
func (c *MonotonicClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := c.now().UTC().Truncate(time.Millisecond)
	if !ts.After(c.last) {
		ts = c.last.Add(time.Millisecond)
	}
	c.last = ts
	return ts
}
