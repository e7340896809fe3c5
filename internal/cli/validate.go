package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/hooks/internal/script"
)

// FileValidation is the validation outcome of one scenario file.
type FileValidation struct {
	File   string   `json:"file"`
	Name   string   `json:"name,omitempty"`
	Valid  bool     `json:"valid"`
	Code   string   `json:"code,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml|dir>...",
		Short: "Validate scenarios without running them",
		Long: `Validate scenario files against the scenario schema and rules.

Checks field names and types, that each step has exactly one of run or
filter, builtin callback arguments and diagnostic levels. No hooks are
run.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, filter, cmd)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runValidate(opts *RootOptions, paths []string, filter string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	files, err := FindScenarioFiles(paths, filter)
	if err != nil {
		code := ErrCodeGeneric
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			code = loadErr.Code
		}
		if outErr := formatter.Error(code, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, file := range files {
		formatter.VerboseLog("Validating %s", file)
		fv := validateFile(file)
		if !fv.Valid {
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	invalid := 0
	for _, fv := range result.Files {
		if !fv.Valid {
			invalid++
		}
	}

	if formatter.JSON() {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeScenario, Message: fmt.Sprintf("%d scenario(s) invalid", invalid)}
		}
		if err := formatter.Encode(resp); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		for _, fv := range result.Files {
			if fv.Valid {
				fmt.Fprintf(w, "✓ %s (%s)\n", fv.File, fv.Name)
				continue
			}
			fmt.Fprintf(w, "✗ %s\n", fv.File)
			for _, e := range fv.Errors {
				fmt.Fprintf(w, "  [%s] %s\n", fv.Code, e)
			}
		}
		if result.Valid {
			fmt.Fprintf(w, "✓ %d scenario(s) valid\n", len(result.Files))
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) invalid", invalid))
	}
	return nil
}

// validateFile loads one scenario. Schema problems are listed one per error.
func validateFile(file string) FileValidation {
	fv := FileValidation{File: file}

	s, err := script.LoadScenario(file)
	if err == nil {
		fv.Valid = true
		fv.Name = s.Name
		return fv
	}

	var schemaErr *script.SchemaError
	if errors.As(err, &schemaErr) {
		fv.Code = ErrCodeSchema
		fv.Errors = schemaErr.Problems
		return fv
	}
	fv.Code = ErrCodeScenario
	fv.Errors = []string{err.Error()}
	return fv
}
