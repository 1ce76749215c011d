package modules

import (
	"strings"
	"testing"
)

// withCleanRegistry runs fn against an empty registry and restores the
// global one afterwards.
func withCleanRegistry(t *testing.T, fn func()) {
	t.Helper()
	saved := registry
	registry = make(map[string]*Module)
	defer func() { registry = saved }()
	fn()
}

func demoModule() *Module {
	return &Module{
		Name: "demo",
		Funcs: []FuncDef{
			{
				Name:    "greet",
				MinArgs: 1,
				Impl: func(args []any) (any, error) {
					return "hello " + args[0].(string), nil
				},
			},
			{
				Name:     "join",
				MinArgs:  1,
				Variadic: true,
				Impl: func(args []any) (any, error) {
					parts := make([]string, len(args))
					for i, a := range args {
						parts[i] = a.(string)
					}
					return strings.Join(parts, "/"), nil
				},
			},
			{Name: "stub"},
		},
		Consts: map[string]any{"answer": int64(42)},
	}
}

func TestRegisterAndGet(t *testing.T) {
	withCleanRegistry(t, func() {
		Register(demoModule())

		m, ok := Get("demo")
		if !ok {
			t.Fatal("demo not registered")
		}
		if m.Name != "demo" {
			t.Errorf("name = %q", m.Name)
		}
		if !IsModule("demo") || IsModule("nope") {
			t.Error("IsModule mismatch")
		}
	})
}

func TestDottedSubmodule(t *testing.T) {
	withCleanRegistry(t, func() {
		Register(&Module{Name: "os"})
		Register(&Module{Name: "os.path"})

		if !IsModule("os.path") {
			t.Error("dotted module names register as-is")
		}
		names := Names()
		if len(names) != 2 || names[0] != "os" || names[1] != "os.path" {
			t.Errorf("Names() = %v", names)
		}
	})
}

func TestExports(t *testing.T) {
	m := demoModule()
	got := m.Exports()
	want := []string{"answer", "greet", "join", "stub"}
	if len(got) != len(want) {
		t.Fatalf("exports = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("exports[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLookupFunc(t *testing.T) {
	withCleanRegistry(t, func() {
		Register(demoModule())

		f, ok := LookupFunc("demo", "greet")
		if !ok || f.Name != "greet" {
			t.Fatalf("LookupFunc = %v, %v", f, ok)
		}
		if _, ok := LookupFunc("demo", "missing"); ok {
			t.Error("missing function found")
		}
		if _, ok := LookupFunc("ghost", "greet"); ok {
			t.Error("missing module found")
		}
	})
}

func TestCallArity(t *testing.T) {
	m := demoModule()

	if _, err := m.Call("greet", nil); err == nil {
		t.Error("too few arguments accepted")
	}
	if _, err := m.Call("greet", []any{"a", "b"}); err == nil {
		t.Error("too many arguments accepted")
	}
	v, err := m.Call("greet", []any{"world"})
	if err != nil {
		t.Fatal(err)
	}
	if v != "hello world" {
		t.Errorf("got %v", v)
	}

	v, err = m.Call("join", []any{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if v != "a/b/c" {
		t.Errorf("variadic call = %v", v)
	}

	if _, err := m.Call("stub", nil); err == nil {
		t.Error("nil Impl must not be callable")
	}
	if _, err := m.Call("absent", nil); err == nil {
		t.Error("unknown function must error")
	}
}

func TestFuncIndex(t *testing.T) {
	withCleanRegistry(t, func() {
		Register(&Module{Name: "json", Funcs: []FuncDef{{Name: "loads"}, {Name: "dumps"}}})
		Register(&Module{Name: "yaml", Funcs: []FuncDef{{Name: "loads"}}})

		index := FuncIndex()
		mods := index["loads"]
		if len(mods) != 2 || mods[0] != "json" || mods[1] != "yaml" {
			t.Errorf("index[loads] = %v", mods)
		}
		if got := ModulesFor("dumps"); len(got) != 1 || got[0] != "json" {
			t.Errorf("ModulesFor(dumps) = %v", got)
		}
		if got := ModulesFor("absent"); len(got) != 0 {
			t.Errorf("ModulesFor(absent) = %v", got)
		}
	})
}

func TestRegistryNamespace(t *testing.T) {
	withCleanRegistry(t, func() {
		Register(&Module{Name: "re", Funcs: []FuncDef{{Name: "search"}}})

		var ns Registry
		if !ns.IsModule("re") {
			t.Error("namespace view must see registered modules")
		}
		if got := ns.ModulesFor("search"); len(got) != 1 || got[0] != "re" {
			t.Errorf("ModulesFor(search) = %v", got)
		}
	})
}
