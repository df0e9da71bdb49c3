package engine

import "sync/atomic"

// Clock is a monotonic logical clock for iteration ordering.
//
// Every feedback iteration is stamped with a strictly increasing seq
// number from this clock, never a wall-clock timestamp. This keeps run
// reports comparable across replays: identical inputs produce identical
// sequences of stamped iterations.
//
// Thread-safety: safe for concurrent use (atomic operations), though
// the Runner's sequential design means one goroutine typically calls
// Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific sequence number.
// Used when resuming a run from persisted state.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
// Each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
