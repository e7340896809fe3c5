package testutil

import (
	"fmt"
	"sync"
)

// SequentialDispatchIDs generates "<prefix>-1", "<prefix>-2", ... and never
// runs out. It satisfies hooks.DispatchIDGenerator.
//
// If prefix is empty, "dispatch" is used.
type SequentialDispatchIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialDispatchIDs creates a generator with the given prefix.
func NewSequentialDispatchIDs(prefix string) *SequentialDispatchIDs {
	if prefix == "" {
		prefix = "dispatch"
	}
	return &SequentialDispatchIDs{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialDispatchIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Reset restarts numbering at 1.
func (g *SequentialDispatchIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
