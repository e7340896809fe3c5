// Package hooks implements a priority-ordered registry of hooks and filters.
//
// A host announces an extension point by name; any number of plugins attach
// callbacks to it with Bind. Run broadcasts to every bound callback and
// discards their results. Filter threads a value through the callbacks, each
// one receiving the current value and returning the next.
//
// ORDERING:
//
// Bindings on a hook are kept sorted by priority ascending (lower runs
// earlier). Ties are broken by registration order, using a sequence number
// stamped at bind time.
//
// SNAPSHOTS:
//
// Bind never mutates a hook's binding slice in place; it publishes a new one.
// Run and Filter capture the slice under a read lock and release the lock
// before invoking anything, so a callback may Bind (even on the hook being
// run) without deadlocking, and the new binding is only seen by later calls.
//
// FAILURES:
//
// The registry does not isolate callbacks. The first error returned by a
// callback aborts the pass and is returned to the caller as-is; a panic
// unwinds through Run or Filter untouched. Bindings are never removed.
//
// DIAGNOSTICS:
//
// An optional Sink receives categorized events (see Level). The registry
// delivers an event only when its category intersects the configured level.
package hooks
