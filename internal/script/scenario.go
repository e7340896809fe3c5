package script

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/hooks/internal/hooks"
)

// Scenario is a hook script: bindings to register and steps to trigger.
type Scenario struct {
	// Name uniquely identifies this scenario (and its golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario demonstrates.
	Description string `yaml:"description"`

	// Level is the diagnostic level, in hooks.ParseLevel syntax.
	// Empty means none.
	Level string `yaml:"level,omitempty"`

	// Bindings are registered in order before the first step.
	Bindings []BindingSpec `yaml:"bindings,omitempty"`

	// Steps trigger hooks in order.
	Steps []Step `yaml:"steps"`
}

// BindingSpec binds a builtin callback to a hook.
type BindingSpec struct {
	Hook     string `yaml:"hook"`
	Callback string `yaml:"callback"`

	// Priority defaults to hooks.DefaultPriority when omitted.
	Priority *int `yaml:"priority,omitempty"`

	// Label names the binding in traces; defaults to Callback.
	Label string `yaml:"label,omitempty"`

	// Args configure the builtin (e.g. the operand of add).
	Args []any `yaml:"args,omitempty"`
}

// Step triggers one hook. Exactly one of Run and Filter is set.
type Step struct {
	Run    string `yaml:"run,omitempty"`
	Filter string `yaml:"filter,omitempty"`

	// Value is the initial filter value.
	Value any `yaml:"value,omitempty"`

	Params []any `yaml:"params,omitempty"`

	// Expect is the expected filter result; only checked when HasExpect.
	Expect    any  `yaml:"expect,omitempty"`
	HasExpect bool `yaml:"-"`

	// ExpectError must be a substring of the step's error. When empty the
	// step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`

	// ExpectCalls lists the binding labels invoked by this step, in order.
	ExpectCalls []string `yaml:"expect_calls,omitempty"`
}

// Hook returns the hook the step triggers.
func (s Step) Hook() string {
	if s.Filter != "" {
		return s.Filter
	}
	return s.Run
}

// Kind returns "filter" or "run".
func (s Step) Kind() string {
	if s.Filter != "" {
		return "filter"
	}
	return "run"
}

// PriorityOrDefault returns the binding priority.
func (b BindingSpec) PriorityOrDefault() int {
	if b.Priority == nil {
		return hooks.DefaultPriority
	}
	return *b.Priority
}

// DisplayLabel returns Label, or Callback when no label is set.
func (b BindingSpec) DisplayLabel() string {
	if b.Label != "" {
		return b.Label
	}
	return b.Callback
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates a scenario document.
//
// Validation runs in three passes: the CUE schema (field names, types,
// required fields), strict YAML decoding, and rules the schema cannot
// express (one trigger per step, builtin argument shapes, level syntax).
func ParseScenario(data []byte) (*Scenario, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("invalid scenario: empty document")
	}

	if err := validateSchema(doc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// yaml cannot tell "expect: null" from a missing expect.
	if rawSteps, ok := doc["steps"].([]any); ok {
		for i, raw := range rawSteps {
			if m, ok := raw.(map[string]any); ok && i < len(s.Steps) {
				_, s.Steps[i].HasExpect = m["expect"]
			}
		}
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// validateScenario checks rules the schema does not express.
func validateScenario(s *Scenario) error {
	if _, err := hooks.ParseLevel(s.Level); err != nil {
		return fmt.Errorf("level: %w", err)
	}

	for i, b := range s.Bindings {
		if err := checkBuiltin(b); err != nil {
			return fmt.Errorf("bindings[%d]: %w", i, err)
		}
	}

	for i, step := range s.Steps {
		if (step.Run == "") == (step.Filter == "") {
			return fmt.Errorf("steps[%d]: exactly one of run or filter is required", i)
		}
		if step.Run != "" {
			if step.HasExpect {
				return fmt.Errorf("steps[%d]: expect is only valid on filter steps", i)
			}
			if step.Value != nil {
				return fmt.Errorf("steps[%d]: value is only valid on filter steps", i)
			}
		}
		if step.HasExpect && step.ExpectError != "" {
			return fmt.Errorf("steps[%d]: expect and expect_error are mutually exclusive", i)
		}
	}
	return nil
}
