package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/hooks/internal/diag"
	"github.com/roach88/hooks/internal/hooks"
	"github.com/roach88/hooks/internal/journal"
	"github.com/roach88/hooks/internal/script"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Level    string
	Filter   string
	Update   bool
}

// Golden states reported per scenario.
const (
	GoldenNone     = "none"
	GoldenMatch    = "match"
	GoldenMismatch = "mismatch"
	GoldenUpdated  = "updated"
)

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	File   string   `json:"file"`
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden"`
	Steps  int      `json:"steps"`
	Calls  int      `json:"calls"`
	Events int      `json:"events"`
	Errors []string `json:"errors,omitempty"`
}

// RunResult holds the overall run result.
type RunResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
	Database  string           `json:"database,omitempty"`
	Run       string           `json:"run,omitempty"`
}

// newRunToken names one "hooks run" invocation in the journal.
var newRunToken = func() string {
	return uuid.NewString()[:8]
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml|dir>...",
		Short: "Run hook scenarios",
		Long: `Run hook scenarios and check their expectations.

Each scenario runs against a fresh registry. When a golden file exists at
<scenario dir>/golden/<name>.golden, the scenario trace must match it;
--update rewrites golden files from the current traces.

With --db, every delivered diagnostic event is journaled to SQLite, tagged
with the scenario name. Journaled dispatch ids are prefixed with a token
naming this invocation ("<run>/<scenario>-N"), so repeated runs into one
database stay apart. --level overrides each scenario's diagnostic level.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, journal errors, etc.)

Examples:
  hooks run ./scenarios
  hooks run ./scenarios --filter "price-*"
  hooks run greet.yaml --db ./hooks.db --level all
  hooks run ./scenarios --update`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Env.Database, "journal diagnostics to this SQLite database (HOOKS_DB)")
	cmd.Flags().StringVar(&opts.Level, "level", rootOpts.Env.Level, "override diagnostic level, e.g. all, events|calls, 15 (HOOKS_LEVEL)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")

	return cmd
}

func runScenarios(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var runOpts []script.RunOption
	runOpts = append(runOpts, script.WithLogger(logger))
	if opts.Level != "" {
		level, err := hooks.ParseLevel(opts.Level)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --level", err)
		}
		runOpts = append(runOpts, script.WithLevel(level))
	}

	files, err := FindScenarioFiles(paths, opts.Filter)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Code == ErrCodeNoFiles {
			return outputRunResult(formatter, RunResult{Scenarios: []ScenarioResult{}})
		}
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	var jr *journal.Journal
	var run string
	if opts.Database != "" {
		run = newRunToken()
		logger.Debug("opening journal", "path", opts.Database)
		jr, err = journal.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := jr.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		jr.SetLogger(logger)
	}

	result := RunResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
		Database:  opts.Database,
		Run:       run,
	}
	for _, file := range files {
		sr := runScenarioFile(file, opts, jr, run, logger, runOpts)
		if !opts.JSON() {
			printScenarioText(formatter.Writer, sr)
		}
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	outErr := outputRunResult(formatter, result)
	if jr != nil && jr.Dropped() > 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("%d diagnostic event(s) could not be journaled", jr.Dropped()))
	}
	return outErr
}

// runScenarioFile loads, runs and golden-checks one scenario.
func runScenarioFile(file string, opts *RunOptions, jr *journal.Journal, run string, logger *slog.Logger, runOpts []script.RunOption) ScenarioResult {
	sr := ScenarioResult{File: file, Name: filepath.Base(file), Golden: GoldenNone}

	s, err := script.LoadScenario(file)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return sr
	}
	sr.Name = s.Name

	var sinks []hooks.Sink
	if jr != nil {
		sinks = append(sinks, journalSink(jr, run, s.Name))
	}
	if opts.Verbose {
		sinks = append(sinks, diag.NewLogSink(logger.With("scenario", s.Name), slog.LevelDebug))
	}
	scenarioOpts := runOpts
	if len(sinks) > 0 {
		scenarioOpts = append(slices.Clone(runOpts), script.WithSink(diag.Tee(sinks...)))
	}

	logger.Debug("running scenario", "file", file, "name", s.Name)
	result, err := script.Run(s, scenarioOpts...)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return sr
	}
	sr.Pass = result.Pass
	sr.Steps = len(result.Steps)
	sr.Calls = len(result.Calls)
	sr.Events = len(result.Diagnostics)
	sr.Errors = result.Errors

	golden, err := checkGolden(file, result, opts.Update)
	sr.Golden = golden
	if err != nil {
		sr.Pass = false
		sr.Errors = append(sr.Errors, err.Error())
	}
	return sr
}

// journalSink tags events with source and prefixes their dispatch ids with
// run. Golden traces keep the unprefixed ids.
func journalSink(jr *journal.Journal, run, source string) hooks.Sink {
	sink := jr.Sink(source)
	return hooks.SinkFunc(func(ev hooks.Event) {
		if ev.Dispatch != "" {
			ev.Dispatch = run + "/" + ev.Dispatch
		}
		sink.Notify(ev)
	})
}

// checkGolden compares the trace with the scenario's golden file, or
// rewrites it when update is set. A missing golden file is not an error.
func checkGolden(file string, result *script.Result, update bool) (string, error) {
	path := goldenFilePath(file)
	trace := script.FormatTrace(result)

	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return GoldenNone, fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(path, trace, 0644); err != nil {
			return GoldenNone, fmt.Errorf("failed to write golden file: %w", err)
		}
		return GoldenUpdated, nil
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return GoldenNone, nil
	}
	if err != nil {
		return GoldenNone, fmt.Errorf("failed to read golden file: %w", err)
	}
	if !bytes.Equal(want, trace) {
		return GoldenMismatch, fmt.Errorf("trace does not match golden file %s (run with --update to regenerate)", path)
	}
	return GoldenMatch, nil
}

func printScenarioText(w io.Writer, sr ScenarioResult) {
	if sr.Pass {
		suffix := ""
		if sr.Golden == GoldenUpdated {
			suffix = " (golden updated)"
		}
		fmt.Fprintf(w, "✓ %s%s\n", sr.Name, suffix)
		return
	}
	fmt.Fprintf(w, "✗ %s\n", sr.Name)
	for _, e := range sr.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

func outputRunResult(f *OutputFormatter, result RunResult) error {
	var failErr error
	if result.Failed > 0 {
		failErr = NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	if f.JSON() {
		resp := CLIResponse{Status: "ok", Data: result}
		if failErr != nil {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeFailed, Message: failErr.Error()}
		}
		if err := f.Encode(resp); err != nil {
			return err
		}
		return failErr
	}

	if result.Total == 0 {
		fmt.Fprintln(f.Writer, "No scenarios found.")
		return nil
	}
	fmt.Fprintln(f.Writer)
	fmt.Fprintf(f.Writer, "Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Database != "" {
		fmt.Fprintf(f.Writer, "Journaled to %s as run %s\n", result.Database, result.Run)
	}
	if failErr != nil {
		return failErr
	}
	fmt.Fprintln(f.Writer, "✓ All scenarios passed")
	return nil
}
