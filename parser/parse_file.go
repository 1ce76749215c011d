package parser

import (
	"fmt"
	"os"

	"github.com/pyrite-lang/pyrite/ast"
)

// ParseFile reads a Pyrite source file and parses it into a Program.
func ParseFile(filename string) (*ast.Program, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return ParseSource(string(src), filename)
}

// ParseSource parses raw Pyrite source code into a Program.
// The name parameter is used for error messages.
func ParseSource(source, name string) (*ast.Program, error) {
	p := &Parser{}
	return p.Parse(name, []byte(source))
}
