// Package interp is the Pyrite runtime: a tree-walking evaluator over
// plain Go values, module import machinery backed by the native
// registry and the loader, and the activation point for implicit
// imports.
package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pyrite-lang/pyrite/ast"
)

// Values are plain Go values: nil, bool, int64, float64, string,
// []any (list), Tuple, map[string]any (dict), plus the callable and
// namespace types below. Native modules produce the same vocabulary,
// so no conversion happens at the module boundary.

// Tuple is an immutable sequence, distinct from lists for display and
// equality.
type Tuple []any

// Function is a user-defined function or lambda.
type Function struct {
	Name     string
	Params   []ast.Param
	Body     []ast.Statement // nil for lambdas
	Expr     ast.Expr        // lambda body, nil for def
	Env      *Env            // closure environment
	Defaults []any           // evaluated at definition time, aligned to the trailing params
}

// Builtin is a function implemented in Go.
type Builtin struct {
	Name string
	Fn   func(r *Runtime, args []any) (any, error)
}

// ModuleVal is an imported module's attribute namespace.
type ModuleVal struct {
	Name  string
	Attrs map[string]any
}

// Class is a class object: a named attribute namespace that can be
// instantiated.
type Class struct {
	Name  string
	Attrs map[string]any
}

// Instance is an object created from a Class.
type Instance struct {
	Class *Class
	Attrs map[string]any
}

// ExcType is a builtin exception type value. Raising is done by
// returning a *ScriptError; except clauses match against these.
type ExcType struct {
	Name string
}

// ScriptError is a runtime error visible to the script, matchable by
// except clauses.
type ScriptError struct {
	Kind string // exception type name, e.g. "ValueError"
	Msg  string
}

func (e *ScriptError) Error() string {
	return e.Kind + ": " + e.Msg
}

// scriptErrf builds a ScriptError.
func scriptErrf(kind, format string, args ...any) *ScriptError {
	return &ScriptError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// matches reports whether the error is caught by the given exception
// type. Exception is the catch-all base.
func (e *ScriptError) matches(t *ExcType) bool {
	return t.Name == "Exception" || t.Name == e.Kind
}

// Truth implements Python truthiness.
func Truth(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case Tuple:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

// Equal implements == over values: numeric cross-type comparison, deep
// sequence and dict equality, identity for everything else.
func Equal(a, b any) bool {
	if an, aok := toFloat(a); aok {
		if bn, bok := toFloat(b); bok {
			return an == bn
		}
		return false
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		return ok && seqEqual(x, y)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && seqEqual(x, y)
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, present := y[k]
			if !present || !Equal(v, w) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func seqEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// toFloat widens numeric values. bool is not numeric here.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Str renders a value the way print does: strings bare, everything
// else as Repr.
func Str(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return Repr(v)
}

// Repr renders a value the way the REPL does.
func Repr(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		s := strconv.FormatFloat(x, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case string:
		return "'" + strings.ReplaceAll(x, "'", "\\'") + "'"
	case []any:
		return "[" + joinReprs(x) + "]"
	case Tuple:
		if len(x) == 1 {
			return "(" + Repr(x[0]) + ",)"
		}
		return "(" + joinReprs(x) + ")"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = Repr(k) + ": " + Repr(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Function:
		return "<function " + x.Name + ">"
	case *Builtin:
		return "<builtin " + x.Name + ">"
	case *ModuleVal:
		return "<module " + x.Name + ">"
	case *Class:
		return "<class " + x.Name + ">"
	case *Instance:
		return "<" + x.Class.Name + " instance>"
	case *ExcType:
		return "<exception " + x.Name + ">"
	default:
		return fmt.Sprintf("%v", x)
	}
}

func joinReprs(vals []any) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = Repr(v)
	}
	return strings.Join(parts, ", ")
}

// TypeName returns the Python-style type name of a value.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case []any:
		return "list"
	case Tuple:
		return "tuple"
	case map[string]any:
		return "dict"
	case *Function, *Builtin:
		return "function"
	case *ModuleVal:
		return "module"
	case *Class:
		return "type"
	case *Instance:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
