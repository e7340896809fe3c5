package diag

import (
	"context"
	"log/slog"

	"github.com/roach88/hooks/internal/hooks"
)

// LogSink writes diagnostic events through a slog.Logger.
type LogSink struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogSink creates a sink logging at level. A nil logger uses slog.Default().
func NewLogSink(logger *slog.Logger, level slog.Level) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger, level: level}
}

// Notify implements hooks.Sink.
func (s *LogSink) Notify(ev hooks.Event) {
	attrs := []slog.Attr{
		slog.String("category", ev.Category.String()),
		slog.String("hook", ev.Hook),
		slog.Int64("seq", ev.Seq),
	}
	if ev.Category.Allows(hooks.LevelBinds) {
		attrs = append(attrs, slog.Int("priority", ev.Priority))
	}
	if ev.Dispatch != "" {
		attrs = append(attrs, slog.String("dispatch", ev.Dispatch))
	}
	s.logger.LogAttrs(context.Background(), s.level, "[Hooks] "+ev.Message, attrs...)
}
