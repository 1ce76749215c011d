package loader

import (
	"fmt"
	"strings"

	"github.com/pyrite-lang/pyrite/analysis"
	"github.com/pyrite-lang/pyrite/ast"
)

// UnresolvedCheck flags free names that the resolver cannot bind. It
// backs the check command.
type UnresolvedCheck struct {
	Pipeline *analysis.Pipeline
}

func (c *UnresolvedCheck) Name() string { return "unresolved-names" }

func (c *UnresolvedCheck) Check(prog *ast.Program) error {
	res := c.Pipeline.Resolve(prog)
	if len(res.Dropped) == 0 {
		return nil
	}
	names := make([]string, len(res.Dropped))
	for i, d := range res.Dropped {
		names[i] = d.Name
	}
	return fmt.Errorf("%s: undefined names: %s", prog.SourceFile, strings.Join(names, ", "))
}
