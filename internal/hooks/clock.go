package hooks

import "sync/atomic"

// Sequencer hands out strictly increasing sequence numbers.
type Sequencer interface {
	Next() int64
}

// Clock is the default Sequencer: an atomic counter whose first Next
// returns 1. Each registry owns two, one stamping bindings and one
// stamping delivered events.
type Clock struct {
	n atomic.Int64
}

// NewClock creates a clock at zero.
func NewClock() *Clock {
	return &Clock{}
}

// Next advances the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.n.Add(1)
}
