package hooks

// Event is a categorized diagnostic notification.
type Event struct {
	// Seq orders events emitted by one registry.
	Seq int64

	// Dispatch groups the events of one Run or Filter call.
	// Empty for bind events.
	Dispatch string

	Category Level
	Hook     string

	// Priority is set on bind events only.
	Priority int

	Message string
}

// Sink receives diagnostic events. Implementations must not call back into
// the registry that notifies them: bind events are delivered while the
// registry's write lock is held.
type Sink interface {
	Notify(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Notify calls f(ev).
func (f SinkFunc) Notify(ev Event) {
	f(ev)
}
