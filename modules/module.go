// Package modules holds the registry of importable native modules: the
// namespace implicit imports resolve against and the import machinery
// materializes at runtime. Modules self-register from init functions;
// main.go blank-imports each one.
package modules

import (
	"fmt"
	"sort"
)

// FuncDef describes a function exposed by a module. Implementations
// take plain interpreter values and return a value or an error; arity
// is checked by the shared Call wrapper before Impl runs.
type FuncDef struct {
	// Name is the Pyrite-visible function name (e.g. "search").
	Name string
	// MinArgs is the number of required arguments.
	MinArgs int
	// MaxArgs is the number of accepted arguments. Zero means exactly
	// MinArgs; ignored when Variadic is set.
	MaxArgs int
	// Variadic accepts any number of arguments beyond MinArgs.
	Variadic bool
	// Impl is the Go implementation. Nil entries are export
	// declarations only and cannot be called.
	Impl func(args []any) (any, error)
}

// Module is an importable native module. Dotted names register
// submodules ("os.path").
type Module struct {
	// Name is the import name.
	Name string
	// Funcs lists the functions this module exposes.
	Funcs []FuncDef
	// Consts maps constant names to their values (e.g. math.pi).
	Consts map[string]any
}

// Exports returns the sorted exported names (functions and constants).
func (m *Module) Exports() []string {
	names := make([]string, 0, len(m.Funcs)+len(m.Consts))
	for _, f := range m.Funcs {
		names = append(names, f.Name)
	}
	for name := range m.Consts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Func returns the named function definition.
func (m *Module) Func(name string) (*FuncDef, bool) {
	for i := range m.Funcs {
		if m.Funcs[i].Name == name {
			return &m.Funcs[i], true
		}
	}
	return nil, false
}

// Call invokes a module function with arity checking.
func (m *Module) Call(funcName string, args []any) (any, error) {
	f, ok := m.Func(funcName)
	if !ok {
		return nil, fmt.Errorf("%s has no function %q", m.Name, funcName)
	}
	if f.Impl == nil {
		return nil, fmt.Errorf("%s.%s is not callable", m.Name, funcName)
	}
	if len(args) < f.MinArgs {
		return nil, fmt.Errorf("%s.%s: requires at least %d argument(s), got %d",
			m.Name, funcName, f.MinArgs, len(args))
	}
	if !f.Variadic {
		max := f.MaxArgs
		if max < f.MinArgs {
			max = f.MinArgs
		}
		if len(args) > max {
			return nil, fmt.Errorf("%s.%s: accepts at most %d argument(s), got %d",
				m.Name, funcName, max, len(args))
		}
	}
	return f.Impl(args)
}

var registry = make(map[string]*Module)

// Register adds a module to the global registry.
func Register(m *Module) {
	registry[m.Name] = m
}

// Get returns a registered module by name.
func Get(name string) (*Module, bool) {
	m, ok := registry[name]
	return m, ok
}

// IsModule returns true if name is a registered module.
func IsModule(name string) bool {
	_, ok := registry[name]
	return ok
}

// LookupFunc resolves a function of a registered module.
func LookupFunc(module, funcName string) (*FuncDef, bool) {
	m, ok := registry[module]
	if !ok {
		return nil, false
	}
	return m.Func(funcName)
}

// Names returns sorted names of all registered modules.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FuncIndex builds the reverse export index: exported name to the
// sorted modules that declare it.
func FuncIndex() map[string][]string {
	index := make(map[string][]string)
	for name, m := range registry {
		for _, export := range m.Exports() {
			index[export] = append(index[export], name)
		}
	}
	for _, mods := range index {
		sort.Strings(mods)
	}
	return index
}

// ModulesFor returns the sorted modules declaring name as an export.
func ModulesFor(name string) []string {
	return FuncIndex()[name]
}

// Registry is a namespace view of the global registry, satisfying the
// resolver's lookup interface.
type Registry struct{}

func (Registry) IsModule(path string) bool       { return IsModule(path) }
func (Registry) ModulesFor(name string) []string { return ModulesFor(name) }
