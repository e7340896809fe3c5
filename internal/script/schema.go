package script

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE string

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error

	// cue.Context is not safe for concurrent use.
	schemaMu sync.Mutex
)

// loadSchema compiles the embedded schema once per process.
func loadSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile scenario schema: %w", err)
			return
		}
		schemaDef = v.LookupPath(cue.ParsePath("#Scenario"))
		if !schemaDef.Exists() {
			schemaErr = fmt.Errorf("compile scenario schema: #Scenario not found")
		}
	})
	return schemaCtx, schemaDef, schemaErr
}

// SchemaError reports a document that does not satisfy the scenario schema.
type SchemaError struct {
	// Problems holds one message per CUE error, each prefixed with the path
	// of the offending field.
	Problems []string
}

func (e *SchemaError) Error() string {
	if len(e.Problems) == 1 {
		return "schema: " + e.Problems[0]
	}
	return fmt.Sprintf("schema: %s (and %d more)", e.Problems[0], len(e.Problems)-1)
}

// validateSchema checks a decoded YAML document against #Scenario.
func validateSchema(doc map[string]any) error {
	ctx, def, err := loadSchema()
	if err != nil {
		return err
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()

	data := ctx.Encode(doc)
	if err := data.Err(); err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}

	unified := def.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		problems := []string{}
		for _, e := range errors.Errors(err) {
			problems = append(problems, e.Error())
		}
		if len(problems) == 0 {
			problems = append(problems, err.Error())
		}
		return &SchemaError{Problems: problems}
	}
	return nil
}
