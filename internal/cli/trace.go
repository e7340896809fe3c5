package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/hooks/internal/hooks"
	"github.com/roach88/hooks/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Source   string
	Hook     string
	Dispatch string
	Level    string
}

// TraceEvent is one journaled diagnostic event.
type TraceEvent struct {
	ID       int64  `json:"id"`
	Source   string `json:"source"`
	Seq      int64  `json:"seq"`
	Dispatch string `json:"dispatch,omitempty"`
	Category string `json:"category"`
	Hook     string `json:"hook"`
	Priority *int   `json:"priority,omitempty"`
	Message  string `json:"message"`
}

// TraceStats summarizes the selected events.
type TraceStats struct {
	TotalEvents int `json:"total_events"`
	Dispatches  int `json:"dispatches"`
	Binds       int `json:"binds"`
	Calls       int `json:"calls"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Events []TraceEvent `json:"events"`
	Stats  TraceStats   `json:"stats"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show journaled diagnostic events",
		Long: `Show diagnostic events journaled by "hooks run --db".

Events are grouped by source (scenario name, in name order) and listed in
the order they were written within each source. Filters combine: --source
selects a scenario, --hook a hook name, --dispatch a single run or filter
call, and --level keeps events whose category intersects the mask.

Examples:
  hooks trace --db ./hooks.db
  hooks trace --db ./hooks.db --source greet_order --level calls
  hooks trace --db ./hooks.db --dispatch greet_order-1 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Env.Database, "path to SQLite database (required unless HOOKS_DB is set)")
	if rootOpts.Env.Database == "" {
		_ = cmd.MarkFlagRequired("db")
	}
	cmd.Flags().StringVar(&opts.Source, "source", "", "filter to a scenario name")
	cmd.Flags().StringVar(&opts.Hook, "hook", "", "filter to a hook name")
	cmd.Flags().StringVar(&opts.Dispatch, "dispatch", "", "filter to a dispatch id")
	cmd.Flags().StringVar(&opts.Level, "level", "", "filter by category mask (e.g. calls, events|binds)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mask, err := hooks.ParseLevel(opts.Level)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --level", err)
	}

	// journal.Open would create a missing file.
	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	jr, err := journal.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer jr.Close()

	records, err := jr.Events(ctx, journal.Query{
		Source:   opts.Source,
		Hook:     opts.Hook,
		Dispatch: opts.Dispatch,
		Mask:     mask,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to query events", err)
	}

	// Already in write order; a stable sort keeps it within each source.
	slices.SortStableFunc(records, func(a, b journal.Record) int {
		return strings.Compare(a.Source, b.Source)
	})

	result := buildTrace(records)
	if opts.JSON() {
		return (&OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}).
			Encode(CLIResponse{Status: "ok", Data: result})
	}
	outputTraceText(cmd.OutOrStdout(), result)
	return nil
}

func buildTrace(records []journal.Record) TraceResult {
	result := TraceResult{Events: make([]TraceEvent, 0, len(records))}
	dispatches := map[string]struct{}{}

	for _, rec := range records {
		ev := TraceEvent{
			ID:       rec.ID,
			Source:   rec.Source,
			Seq:      rec.Seq,
			Dispatch: rec.Dispatch,
			Category: rec.Category.String(),
			Hook:     rec.Hook,
			Message:  rec.Message,
		}
		if rec.Category.Allows(hooks.LevelBinds) {
			p := rec.Priority
			ev.Priority = &p
			result.Stats.Binds++
		}
		if rec.Category.Allows(hooks.LevelCalls) {
			result.Stats.Calls++
		}
		if rec.Dispatch != "" {
			dispatches[rec.Dispatch] = struct{}{}
		}
		result.Events = append(result.Events, ev)
	}

	result.Stats.TotalEvents = len(result.Events)
	result.Stats.Dispatches = len(dispatches)
	return result
}

func outputTraceText(w io.Writer, result TraceResult) {
	if len(result.Events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}

	source := ""
	for i, ev := range result.Events {
		if i == 0 || ev.Source != source {
			source = ev.Source
			name := source
			if name == "" {
				name = "(no source)"
			}
			fmt.Fprintf(w, "== %s\n", name)
		}
		dispatch := ev.Dispatch
		if dispatch == "" {
			dispatch = "-"
		}
		fmt.Fprintf(w, "%4d  %-20s %-20s %s\n", ev.Seq, ev.Category, dispatch, ev.Message)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d event(s), %d dispatch(es), %d bind(s), %d call(s)\n",
		result.Stats.TotalEvents, result.Stats.Dispatches, result.Stats.Binds, result.Stats.Calls)
}
