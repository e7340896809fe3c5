package script

import (
	"bytes"
	"fmt"
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/hooks/internal/canon"
)

// FormatTrace renders a result as a stable, line-oriented trace.
//
//	scenario greet_order
//	pass true
//	step 1 run greet params=["world"] ok
//	  call b priority=5 args=["world"] result=null
//	  call a priority=20 args=["world"] result=null
//	diag 3 events|interaction greet-1 greet Running hook 'greet'
//
// Values are rendered as canonical JSON, so map order never causes
// spurious diffs.
func FormatTrace(r *Result) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "scenario %s\n", r.Name)
	fmt.Fprintf(&buf, "pass %t\n", r.Pass)

	for _, s := range r.Steps {
		fmt.Fprintf(&buf, "step %d %s %s", s.Index, s.Kind, s.Hook)
		if s.Kind == "filter" {
			fmt.Fprintf(&buf, " value=%s", canon.String(s.Value))
		}
		fmt.Fprintf(&buf, " params=%s", canon.String(s.Params))
		switch {
		case s.Error != "":
			fmt.Fprintf(&buf, " error=%s", strconv.Quote(s.Error))
		case s.Kind == "filter":
			fmt.Fprintf(&buf, " output=%s", canon.String(s.Output))
		default:
			buf.WriteString(" ok")
		}
		buf.WriteByte('\n')

		for _, c := range r.Calls {
			if c.Step != s.Index {
				continue
			}
			fmt.Fprintf(&buf, "  call %s priority=%d args=%s", c.Label, c.Priority, canon.String(c.Args))
			if c.Error != "" {
				fmt.Fprintf(&buf, " error=%s", strconv.Quote(c.Error))
			} else {
				fmt.Fprintf(&buf, " result=%s", canon.String(c.Result))
			}
			buf.WriteByte('\n')
		}
	}

	for _, ev := range r.Diagnostics {
		dispatch := ev.Dispatch
		if dispatch == "" {
			dispatch = "-"
		}
		fmt.Fprintf(&buf, "diag %d %s %s %s %s\n", ev.Seq, ev.Category, dispatch, ev.Hook, ev.Message)
	}

	for _, e := range r.Errors {
		fmt.Fprintf(&buf, "error %s\n", e)
	}
	return buf.Bytes()
}

// AssertGolden compares the trace of result against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/script -update
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, FormatTrace(result))
}

// RunWithGolden runs s and compares its trace against the golden file named
// after the scenario.
func RunWithGolden(t *testing.T, s *Scenario, opts ...RunOption) (*Result, error) {
	t.Helper()

	result, err := Run(s, opts...)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, s.Name, result)
	return result, nil
}
