package script

import "github.com/roach88/hooks/internal/hooks"

// Call is one callback invocation observed during a step.
type Call struct {
	Step     int         `json:"step"`
	Hook     string      `json:"hook"`
	Label    string      `json:"label"`
	Priority int         `json:"priority"`
	Args     []any       `json:"args"`
	Result   hooks.Value `json:"result,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// StepResult is the outcome of one step.
type StepResult struct {
	// Index is 1-based.
	Index  int         `json:"index"`
	Kind   string      `json:"kind"`
	Hook   string      `json:"hook"`
	Value  hooks.Value `json:"value,omitempty"`
	Params []any       `json:"params"`
	Output hooks.Value `json:"output,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	Name string `json:"name"`

	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	Steps       []StepResult  `json:"steps"`
	Calls       []Call        `json:"calls"`
	Diagnostics []hooks.Event `json:"diagnostics,omitempty"`
	Errors      []string      `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Steps:  []StepResult{},
		Calls:  []Call{},
		Errors: []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// CallsFor returns the labels invoked during step, in order.
func (r *Result) CallsFor(step int) []string {
	labels := []string{}
	for _, c := range r.Calls {
		if c.Step == step {
			labels = append(labels, c.Label)
		}
	}
	return labels
}
