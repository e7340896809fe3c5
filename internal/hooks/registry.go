package hooks

import (
	"fmt"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
)

// Registry maps hook names to priority-ordered bindings.
//
// Thread-safety model:
//   - Bind: takes the write lock, notifies the sink and publishes a new
//     slice for the hook
//   - Run, Filter: take the read lock only to snapshot the hook's slice
//   - SetDiagnosticLevel: atomic, safe from any goroutine
//
// INVARIANTS:
//   - bindings[h] is sorted by (Priority, Seq) ascending
//   - a published slice is never modified afterwards
//   - bindings are never removed
type Registry struct {
	mu       sync.RWMutex
	bindings map[string][]Binding

	seq      Sequencer
	eventSeq *Clock
	ids      DispatchIDGenerator
	sink     Sink
	level    atomic.Uint32
}

// Option configures a Registry.
type Option func(*Registry)

// WithSink sets the diagnostic sink. A nil sink drops every notification.
func WithSink(s Sink) Option {
	return func(r *Registry) {
		r.sink = s
	}
}

// WithLevel sets the initial diagnostic level (default LevelNone).
func WithLevel(l Level) Option {
	return func(r *Registry) {
		r.level.Store(uint32(l))
	}
}

// WithSequencer sets the source of binding sequence numbers.
// Default: a fresh Clock per registry.
func WithSequencer(s Sequencer) Option {
	return func(r *Registry) {
		r.seq = s
	}
}

// WithDispatchIDs sets the generator naming each Run/Filter call in
// diagnostic events. Default: UUIDv7Generator.
func WithDispatchIDs(g DispatchIDGenerator) Option {
	return func(r *Registry) {
		r.ids = g
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		bindings: make(map[string][]Binding),
		seq:      NewClock(),
		eventSeq: NewClock(),
		ids:      UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetDiagnosticLevel sets which event categories reach the sink.
func (r *Registry) SetDiagnosticLevel(l Level) {
	r.level.Store(uint32(l))
}

// Level returns the current diagnostic level.
func (r *Registry) Level() Level {
	return Level(r.level.Load())
}

// BindDefault binds cb to hook at DefaultPriority.
func (r *Registry) BindDefault(hook string, cb Callback) error {
	return r.Bind(hook, cb, DefaultPriority)
}

// Bind attaches cb to hook. Lower priorities run earlier; equal priorities
// run in registration order. Negative priorities are allowed.
func (r *Registry) Bind(hook string, cb Callback, priority int) error {
	if hook == "" {
		return invalidArgument(hook, "hook name must not be empty")
	}
	if cb == nil {
		return invalidArgument(hook, "callback must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Notified under the lock so bind events reach the sink in Seq order.
	r.notify(Event{
		Category: LevelInteraction | LevelBinds,
		Hook:     hook,
		Priority: priority,
		Message:  fmt.Sprintf("Binding callback to '%s' (priority %d)", hook, priority),
	})

	b := Binding{Hook: hook, Priority: priority, Seq: r.seq.Next(), Callback: cb}

	// The new binding has the highest seq, so it goes after every binding
	// with priority <= its own.
	cur := r.bindings[hook]
	i := sort.Search(len(cur), func(i int) bool { return cur[i].Priority > priority })

	next := make([]Binding, 0, len(cur)+1)
	next = append(next, cur[:i]...)
	next = append(next, b)
	next = append(next, cur[i:]...)
	r.bindings[hook] = next

	return nil
}

// Run invokes every callback bound to hook, in order, each with its own
// copy of params as arguments. A hook with no bindings is a no-op. The
// first callback error stops the pass and is returned unchanged.
func (r *Registry) Run(hook string, params ...Value) error {
	dispatch := r.dispatchID()
	r.notify(Event{
		Dispatch: dispatch,
		Category: LevelInteraction | LevelEvents,
		Hook:     hook,
		Message:  fmt.Sprintf("Running hook '%s'", hook),
	})

	for _, b := range r.snapshot(hook) {
		r.notify(Event{
			Dispatch: dispatch,
			Category: LevelCalls,
			Hook:     hook,
			Message:  fmt.Sprintf("Calling callback for '%s'", hook),
		})
		if _, err := b.Callback(slices.Clone(params)); err != nil {
			return err
		}
	}
	return nil
}

// Filter threads value through every callback bound to hook. Each callback
// receives the current value followed by params and returns the next value.
// With no bindings, value is returned unchanged. On the first callback
// error Filter returns (nil, err) with err unchanged.
func (r *Registry) Filter(hook string, value Value, params ...Value) (Value, error) {
	dispatch := r.dispatchID()
	r.notify(Event{
		Dispatch: dispatch,
		Category: LevelInteraction | LevelEvents,
		Hook:     hook,
		Message:  fmt.Sprintf("Filtering via hook '%s'", hook),
	})

	bindings := r.snapshot(hook)
	if len(bindings) == 0 {
		return value, nil
	}

	args := make([]Value, len(params)+1)
	copy(args[1:], params)

	for _, b := range bindings {
		r.notify(Event{
			Dispatch: dispatch,
			Category: LevelCalls,
			Hook:     hook,
			Message:  fmt.Sprintf("Calling filter callback for '%s'", hook),
		})
		args[0] = value
		next, err := b.Callback(slices.Clone(args))
		if err != nil {
			return nil, err
		}
		value = next
	}
	return value, nil
}

// Bindings returns a copy of the ordered bindings of hook.
func (r *Registry) Bindings(hook string) []Binding {
	return slices.Clone(r.snapshot(hook))
}

// Hooks returns the sorted names of hooks with at least one binding.
func (r *Registry) Hooks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// snapshot returns the published slice for hook. The caller must not
// modify it.
func (r *Registry) snapshot(hook string) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bindings[hook]
}

func (r *Registry) diagnosing() bool {
	return r.sink != nil && r.Level() != LevelNone
}

// dispatchID returns an id only when some event could be delivered.
func (r *Registry) dispatchID() string {
	if !r.diagnosing() {
		return ""
	}
	return r.ids.Generate()
}

func (r *Registry) notify(ev Event) {
	if r.sink == nil || !r.Level().Allows(ev.Category) {
		return
	}
	ev.Seq = r.eventSeq.Next()
	r.sink.Notify(ev)
}
