package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/hooks/internal/hooks"
)

// Record is a stored event.
type Record struct {
	ID     int64
	Source string
	hooks.Event
}

// Query filters Events. Zero fields match everything.
type Query struct {
	Source   string
	Hook     string
	Dispatch string

	// Mask keeps events whose category intersects it.
	Mask hooks.Level
}

// Append stores one event.
func (j *Journal) Append(ctx context.Context, source string, ev hooks.Event) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO events (source, seq, dispatch, category, hook, priority, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		source,
		ev.Seq,
		ev.Dispatch,
		int(ev.Category),
		ev.Hook,
		ev.Priority,
		ev.Message,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Events returns the stored events matching q, in arrival order.
// Returns an empty slice (not nil) when nothing matches.
func (j *Journal) Events(ctx context.Context, q Query) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	if q.Source != "" {
		where = append(where, "source = ?")
		args = append(args, q.Source)
	}
	if q.Hook != "" {
		where = append(where, "hook = ?")
		args = append(args, q.Hook)
	}
	if q.Dispatch != "" {
		where = append(where, "dispatch = ?")
		args = append(args, q.Dispatch)
	}
	if q.Mask != hooks.LevelNone {
		where = append(where, "(category & ?) != 0")
		args = append(args, int(q.Mask))
	}

	query := `SELECT id, source, seq, dispatch, category, hook, priority, message FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id ASC"

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			rec      Record
			category int
		)
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Seq, &rec.Dispatch, &category, &rec.Hook, &rec.Priority, &rec.Message); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		rec.Category = hooks.Level(category)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return records, nil
}

// Dispatches returns the distinct non-empty dispatch ids in first-seen order.
func (j *Journal) Dispatches(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT dispatch
		FROM events
		WHERE dispatch != ''
		GROUP BY dispatch
		ORDER BY MIN(id) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query dispatches: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dispatches: %w", err)
	}
	return ids, nil
}
