package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Env supplies defaults for command flags.
	Env EnvConfig
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the hooks CLI.
func NewRootCommand() *cobra.Command {
	envCfg, envErr := ParseEnv()
	opts := &RootOptions{Env: envCfg}

	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Priority-ordered hook and filter scenarios",
		Long: `Run, validate and trace hook scenarios.

A scenario binds builtin callbacks to named hooks and then runs or filters
those hooks, checking outputs, errors and call order. Diagnostic events can
be journaled to SQLite and inspected later with "hooks trace".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", envErr)
			}
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", envCfg.Verbose, "verbose output (HOOKS_VERBOSE)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", envCfg.Format, "output format (json|text) (HOOKS_FORMAT)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))

	return cmd
}

// JSON reports whether output is JSON.
func (o *RootOptions) JSON() bool {
	return o.Format == "json"
}

// newLogger builds the command logger: Info by default, Debug with
// --verbose, always to w (stderr) so stdout stays parseable.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
