package store

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"

	"github.com/antopolskiy/taskboard/internal/clierr"
)

//go:embed schema.cue
var schemaSource string

// Validate checks raw board file bytes against the board schema. The
// returned error is a clierr INVALID_INPUT whose details list every
// violation.
func Validate(filename string, data []byte) error {
	problems, err := schemaProblems(filename, data)
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		return nil
	}
	return clierr.Newf(clierr.InvalidInput, "%s does not match the board schema: %s",
		filename, problems[0]).
		WithDetails(map[string]any{"file": filename, "problems": problems})
}

func schemaProblems(filename string, data []byte) ([]string, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling board schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return nil, clierr.Newf(clierr.InvalidInput, "parsing %s: %v", filename, err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return nil, clierr.Newf(clierr.InvalidInput, "parsing %s: %v", filename, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Board")).Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var problems []string
		for _, e := range cueerrors.Errors(err) {
			problems = append(problems, strings.TrimSpace(cueerrors.Details(e, nil)))
		}
		return problems, nil
	}
	return nil, nil
}
