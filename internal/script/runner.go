package script

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/roach88/hooks/internal/canon"
	"github.com/roach88/hooks/internal/diag"
	"github.com/roach88/hooks/internal/hooks"
	"github.com/roach88/hooks/internal/testutil"
)

// floatTolerance is the relative tolerance used when comparing numbers.
const floatTolerance = 1e-9

// RunOption configures Run.
type RunOption func(*runConfig)

type runConfig struct {
	sink     hooks.Sink
	level    hooks.Level
	levelSet bool
	logger   *slog.Logger
}

// WithSink forwards the scenario's diagnostic events to s as well as to the
// result.
func WithSink(s hooks.Sink) RunOption {
	return func(c *runConfig) {
		c.sink = s
	}
}

// WithLevel overrides the scenario's diagnostic level.
func WithLevel(l hooks.Level) RunOption {
	return func(c *runConfig) {
		c.level = l
		c.levelSet = true
	}
}

// WithLogger sets the logger for step progress (default: discard).
func WithLogger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = l
	}
}

// runner executes one scenario against a fresh registry.
type runner struct {
	reg    *hooks.Registry
	result *Result
	logger *slog.Logger

	// step is the 1-based index of the step being executed; 0 during setup.
	step int
}

// Run executes a scenario and returns its result.
//
// Each run uses a fresh registry, so sequence numbers start at 1, and
// names dispatches "<name>-1", "<name>-2", ...; identical scenarios give
// identical results. An error is returned only when the scenario cannot be
// set up; failed expectations are reported in Result.Errors.
func Run(s *Scenario, opts ...RunOption) (*Result, error) {
	cfg := &runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(cfg)
	}

	level := cfg.level
	if !cfg.levelSet {
		parsed, err := hooks.ParseLevel(s.Level)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: level: %w", s.Name, err)
		}
		level = parsed
	}

	rec := diag.NewRecorder()
	r := &runner{
		result: NewResult(s.Name),
		logger: cfg.logger.With("scenario", s.Name),
	}
	r.reg = hooks.New(
		hooks.WithSink(diag.Tee(rec, cfg.sink)),
		hooks.WithLevel(level),
		hooks.WithDispatchIDs(testutil.NewSequentialDispatchIDs(s.Name)),
	)

	for i, b := range s.Bindings {
		if err := r.bind(b); err != nil {
			return nil, fmt.Errorf("scenario %s: bindings[%d]: %w", s.Name, i, err)
		}
	}

	for i, step := range s.Steps {
		r.step = i + 1
		r.execute(step)
	}

	r.result.Diagnostics = rec.Events()
	return r.result, nil
}

// bind registers a builtin wrapped so that every call lands in the trace.
func (r *runner) bind(b BindingSpec) error {
	cb, err := builtin(b, r.bind)
	if err != nil {
		return err
	}

	label := b.DisplayLabel()
	priority := b.PriorityOrDefault()
	traced := func(args []hooks.Value) (hooks.Value, error) {
		call := Call{
			Step:     r.step,
			Hook:     b.Hook,
			Label:    label,
			Priority: priority,
			Args:     slices.Clone(args),
		}
		out, err := cb(args)
		if err != nil {
			call.Error = err.Error()
		} else {
			call.Result = out
		}
		r.result.Calls = append(r.result.Calls, call)
		return out, err
	}

	r.logger.Debug("binding", "hook", b.Hook, "label", label, "priority", priority)
	return r.reg.Bind(b.Hook, traced, priority)
}

func (r *runner) execute(step Step) {
	sr := StepResult{
		Index:  r.step,
		Kind:   step.Kind(),
		Hook:   step.Hook(),
		Params: step.Params,
	}
	if sr.Params == nil {
		sr.Params = []any{}
	}

	var err error
	if step.Filter != "" {
		sr.Value = step.Value
		sr.Output, err = r.reg.Filter(step.Filter, step.Value, step.Params...)
	} else {
		err = r.reg.Run(step.Run, step.Params...)
	}
	if err != nil {
		sr.Error = err.Error()
	}
	r.result.Steps = append(r.result.Steps, sr)
	r.logger.Debug("step", "index", sr.Index, "kind", sr.Kind, "hook", sr.Hook, "error", sr.Error)

	r.check(step, sr)
}

// check compares a step result with the step's expectations.
func (r *runner) check(step Step, sr StepResult) {
	prefix := fmt.Sprintf("step %d (%s %s)", sr.Index, sr.Kind, sr.Hook)

	switch {
	case step.ExpectError != "" && sr.Error == "":
		r.result.AddError(fmt.Sprintf("%s: expected error containing %q, got success", prefix, step.ExpectError))
	case step.ExpectError != "" && !strings.Contains(sr.Error, step.ExpectError):
		r.result.AddError(fmt.Sprintf("%s: expected error containing %q, got %q", prefix, step.ExpectError, sr.Error))
	case step.ExpectError == "" && sr.Error != "":
		r.result.AddError(fmt.Sprintf("%s: unexpected error: %s", prefix, sr.Error))
	}

	if step.HasExpect && sr.Error == "" && !valuesEqual(step.Expect, sr.Output) {
		r.result.AddError(fmt.Sprintf("%s: expected %s, got %s", prefix, canon.String(step.Expect), canon.String(sr.Output)))
	}

	if step.ExpectCalls != nil {
		got := r.result.CallsFor(sr.Index)
		if !slices.Equal(step.ExpectCalls, got) {
			r.result.AddError(fmt.Sprintf("%s: expected calls %v, got %v", prefix, step.ExpectCalls, got))
		}
	}
}

// valuesEqual compares numbers with a relative tolerance and everything
// else by canonical JSON, so 112 matches 112.0 and map order is ignored.
func valuesEqual(want, got any) bool {
	if wf, ok := toFloat(want); ok {
		gf, ok := toFloat(got)
		if !ok {
			return false
		}
		return math.Abs(wf-gf) <= floatTolerance*math.Max(1, math.Abs(wf))
	}

	wb, err := canon.Marshal(want)
	if err != nil {
		return false
	}
	gb, err := canon.Marshal(got)
	if err != nil {
		return false
	}
	return string(wb) == string(gb)
}
