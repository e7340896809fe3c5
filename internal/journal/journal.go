package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/hooks/internal/hooks"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - events table with source column
const currentSchemaVersion = 1

// Journal stores diagnostic events in SQLite.
type Journal struct {
	db      *sql.DB
	logger  *slog.Logger
	dropped atomic.Int64
}

// Open creates or opens a journal database at path.
// This function is idempotent - safe to call multiple times on one file.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Journal{db: db, logger: slog.Default()}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// SetLogger sets the logger used to report failed writes from Notify.
func (j *Journal) SetLogger(l *slog.Logger) {
	if l != nil {
		j.logger = l
	}
}

// Dropped returns how many events Notify failed to store.
func (j *Journal) Dropped() int64 {
	return j.dropped.Load()
}

// Notify implements hooks.Sink with an empty source.
func (j *Journal) Notify(ev hooks.Event) {
	j.notify("", ev)
}

// Sink returns a hooks.Sink that tags every event with source.
func (j *Journal) Sink(source string) hooks.Sink {
	return hooks.SinkFunc(func(ev hooks.Event) {
		j.notify(source, ev)
	})
}

// notify never fails the registry: write errors are logged and counted.
func (j *Journal) notify(source string, ev hooks.Event) {
	if err := j.Append(context.Background(), source, ev); err != nil {
		j.dropped.Add(1)
		j.logger.Error("journal write failed", "hook", ev.Hook, "seq", ev.Seq, "error", err)
	}
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("journal schema version %d is newer than supported %d", version, currentSchemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
