package analysis

// builtins is the permanent builtin namespace. Names in this table are
// always resolvable and are never proposed as import candidates.
var builtins = map[string]bool{
	"print":      true,
	"len":        true,
	"range":      true,
	"str":        true,
	"int":        true,
	"float":      true,
	"bool":       true,
	"list":       true,
	"dict":       true,
	"tuple":      true,
	"set":        true,
	"abs":        true,
	"min":        true,
	"max":        true,
	"sum":        true,
	"sorted":     true,
	"reversed":   true,
	"enumerate":  true,
	"zip":        true,
	"map":        true,
	"filter":     true,
	"any":        true,
	"all":        true,
	"round":      true,
	"repr":       true,
	"type":       true,
	"isinstance": true,
	"getattr":    true,
	"hasattr":    true,
	"callable":   true,
	"chr":        true,
	"ord":        true,
	"input":      true,
	"open":       true,

	// Exception types
	"Exception":         true,
	"ValueError":        true,
	"TypeError":         true,
	"KeyError":          true,
	"IndexError":        true,
	"NameError":         true,
	"AttributeError":    true,
	"ImportError":       true,
	"RuntimeError":      true,
	"ZeroDivisionError": true,
	"StopIteration":     true,
}

// IsBuiltin reports whether name belongs to the permanent builtin namespace.
func IsBuiltin(name string) bool {
	return builtins[name]
}

// BuiltinNames returns the builtin table for runtimes that need to
// populate their global environment with the same names.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}
