package diag

import (
	"slices"
	"sync"

	"github.com/roach88/hooks/internal/hooks"
)

// Recorder keeps every event it receives in memory.
//
// Thread-safety: all methods are safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []hooks.Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify implements hooks.Sink.
func (r *Recorder) Notify(ev hooks.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []hooks.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Count returns how many recorded events intersect mask.
func (r *Recorder) Count(mask hooks.Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, ev := range r.events {
		if mask.Allows(ev.Category) {
			n++
		}
	}
	return n
}

// Reset discards all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
