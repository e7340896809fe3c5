package script

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGolden_Scenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)
			require.Equal(t, name, s.Name, "file name must match scenario name")

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestFormatTrace_Errors(t *testing.T) {
	r := NewResult("failing")
	r.Steps = append(r.Steps, StepResult{Index: 1, Kind: "run", Hook: "h", Params: []any{}, Error: `say "no"`})
	r.Calls = append(r.Calls, Call{Step: 1, Hook: "h", Label: "f", Priority: 10, Args: []any{}, Error: `say "no"`})
	r.AddError("step 1 (run h): unexpected error")

	want := `scenario failing
pass false
step 1 run h params=[] error="say \"no\""
  call f priority=10 args=[] error="say \"no\""
error step 1 (run h): unexpected error
`
	assert.Equal(t, want, string(FormatTrace(r)))
}
