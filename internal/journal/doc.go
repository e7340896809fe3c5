// Package journal provides a SQLite-backed log of registry diagnostic events.
//
// A Journal is a hooks.Sink: every event the registry delivers is appended
// to the events table, tagged with a source name so that several registries
// (for example one per scenario) can share one file. Rows are never updated
// or deleted.
//
// Queries return rows in arrival order (ORDER BY id ASC). Per-registry seq
// values are stored for display but are not globally unique.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
package journal
