package interp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pyrite-lang/pyrite/analysis"
	"github.com/pyrite-lang/pyrite/ast"
	"github.com/pyrite-lang/pyrite/loader"
	"github.com/pyrite-lang/pyrite/modules"
	"github.com/pyrite-lang/pyrite/parser"
)

// Runtime executes Pyrite programs. It owns the loader activation
// state, the loaded-module cache, and the builtin environment. A
// Runtime executes one program at a time.
type Runtime struct {
	pipeline    *analysis.Pipeline
	state       *loader.State
	moduleCache map[string]*ModuleVal
	builtins    *Env
	prog        *ast.Program

	// Stdout receives print output.
	Stdout io.Writer
}

// NewRuntime builds a runtime over a base loader and analysis pipeline.
func NewRuntime(base loader.Loader, pipeline *analysis.Pipeline) *Runtime {
	r := &Runtime{
		pipeline:    pipeline,
		state:       loader.NewState(base),
		moduleCache: make(map[string]*ModuleVal),
		Stdout:      os.Stdout,
	}
	r.builtins = NewEnv(nil)
	installBuiltins(r.builtins)
	return r
}

// EnableAutoImport patches the runtime's loader so every module loaded
// from here on gets implicit-import frontmatter. Idempotent; never an
// error. Embedders call this for the same transition a script triggers
// with `import autoimport`.
func (r *Runtime) EnableAutoImport() {
	r.state.Patch(r.pipeline)
}

// AutoImportEnabled reports whether the loader has been patched.
func (r *Runtime) AutoImportEnabled() bool {
	return r.state.Patched()
}

// GlobalEnv returns a fresh top-level environment over the builtins,
// for callers that execute incrementally (the REPL).
func (r *Runtime) GlobalEnv() *Env {
	return NewEnv(r.builtins)
}

// RunFile parses and executes a script.
func (r *Runtime) RunFile(path string) error {
	prog, err := parser.ParseFile(path)
	if err != nil {
		return err
	}
	return r.RunProgram(prog)
}

// RunSource parses and executes source under the given name.
func (r *Runtime) RunSource(name string, src []byte) error {
	prog, err := parser.ParseSource(string(src), name)
	if err != nil {
		return err
	}
	return r.RunProgram(prog)
}

// RunProgram executes a parsed program in a fresh global environment.
func (r *Runtime) RunProgram(prog *ast.Program) error {
	return r.ExecIn(prog, r.GlobalEnv())
}

// ExecIn executes a program in an existing environment.
func (r *Runtime) ExecIn(prog *ast.Program, env *Env) error {
	saved := r.prog
	r.prog = prog
	defer func() { r.prog = saved }()

	err := r.execBlock(prog.Statements, env)
	switch err.(type) {
	case *returnSignal:
		return errors.New("return outside function")
	case *breakSignal, *continueSignal:
		return errors.New("break or continue outside loop")
	}
	return err
}

// Eval evaluates a single expression in env, for the REPL.
func (r *Runtime) Eval(e ast.Expr, env *Env) (any, error) {
	return r.evalExpr(e, env)
}

// Control-flow signals travel as errors through exec.

type returnSignal struct{ value any }

func (*returnSignal) Error() string { return "return" }

type breakSignal struct{}

func (*breakSignal) Error() string { return "break" }

type continueSignal struct{}

func (*continueSignal) Error() string { return "continue" }

func (r *Runtime) execBlock(stmts []ast.Statement, env *Env) error {
	for _, s := range stmts {
		if err := r.execStmt(s, env); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runtime) execStmt(s ast.Statement, env *Env) error {
	switch st := s.(type) {
	case *ast.AssignStmt:
		return r.execAssign(st, env)
	case *ast.ExprStmt:
		_, err := r.evalExpr(st.Expression, env)
		return err
	case *ast.DefStmt:
		fn := &Function{Name: st.Name, Params: st.Params, Body: st.Body, Env: env}
		for _, p := range st.Params {
			if p.Default != nil {
				v, err := r.evalExpr(p.Default, env)
				if err != nil {
					return err
				}
				fn.Defaults = append(fn.Defaults, v)
			}
		}
		env.Bind(st.Name, fn)
		return nil
	case *ast.ClassStmt:
		return r.execClass(st, env)
	case *ast.ReturnStmt:
		var v any
		if st.Value != nil {
			var err error
			if v, err = r.evalExpr(st.Value, env); err != nil {
				return err
			}
		}
		return &returnSignal{value: v}
	case *ast.PassStmt:
		return nil
	case *ast.BreakStmt:
		return &breakSignal{}
	case *ast.ContinueStmt:
		return &continueSignal{}
	case *ast.IfStmt:
		return r.execIf(st, env)
	case *ast.WhileStmt:
		return r.execWhile(st, env)
	case *ast.ForStmt:
		return r.execFor(st, env)
	case *ast.TryStmt:
		return r.execTry(st, env)
	case *ast.ImportStmt:
		return r.execImport(st, env)
	case *ast.FromImportStmt:
		return r.execFromImport(st, env)
	default:
		return fmt.Errorf("unhandled statement %T", s)
	}
}

func (r *Runtime) execAssign(st *ast.AssignStmt, env *Env) error {
	v, err := r.evalExpr(st.Value, env)
	if err != nil {
		return err
	}
	if st.Op != "=" {
		// Augmented assignment reads the target first.
		cur, err := r.evalExpr(st.Target, env)
		if err != nil {
			return err
		}
		op := strings.TrimSuffix(st.Op, "=")
		if v, err = r.binaryOp(op, cur, v); err != nil {
			return err
		}
	}
	return r.assign(st.Target, v, env)
}

// assign stores v at the target: name binding, attribute set, index
// set, or sequence unpacking.
func (r *Runtime) assign(target ast.Expr, v any, env *Env) error {
	switch t := target.(type) {
	case *ast.Ident:
		env.Bind(t.Name, v)
		return nil
	case *ast.AttrExpr:
		obj, err := r.evalExpr(t.Object, env)
		if err != nil {
			return err
		}
		return setAttr(obj, t.Name, v)
	case *ast.IndexExpr:
		obj, err := r.evalExpr(t.Object, env)
		if err != nil {
			return err
		}
		idx, err := r.evalExpr(t.Index, env)
		if err != nil {
			return err
		}
		return setIndex(obj, idx, v)
	case *ast.TupleLit:
		return r.unpack(t.Elems, v, env)
	case *ast.ListLit:
		return r.unpack(t.Elems, v, env)
	default:
		return scriptErrf("TypeError", "cannot assign to %T", target)
	}
}

func (r *Runtime) unpack(targets []ast.Expr, v any, env *Env) error {
	items, err := iterate(v)
	if err != nil {
		return err
	}
	if len(items) != len(targets) {
		return scriptErrf("ValueError", "expected %d values to unpack, got %d", len(targets), len(items))
	}
	for i, t := range targets {
		if err := r.assign(t, items[i], env); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runtime) execClass(st *ast.ClassStmt, env *Env) error {
	attrs := make(map[string]any)
	for _, b := range st.Bases {
		base, err := r.evalExpr(b, env)
		if err != nil {
			return err
		}
		cls, ok := base.(*Class)
		if !ok {
			return scriptErrf("TypeError", "base of %s is not a class", st.Name)
		}
		for k, v := range cls.Attrs {
			attrs[k] = v
		}
	}
	clsEnv := NewEnv(env)
	if err := r.execBlock(st.Body, clsEnv); err != nil {
		return err
	}
	for k, v := range clsEnv.Snapshot() {
		attrs[k] = v
	}
	env.Bind(st.Name, &Class{Name: st.Name, Attrs: attrs})
	return nil
}

func (r *Runtime) execIf(st *ast.IfStmt, env *Env) error {
	cond, err := r.evalExpr(st.Condition, env)
	if err != nil {
		return err
	}
	if Truth(cond) {
		return r.execBlock(st.Body, env)
	}
	for _, e := range st.Elifs {
		cond, err := r.evalExpr(e.Condition, env)
		if err != nil {
			return err
		}
		if Truth(cond) {
			return r.execBlock(e.Body, env)
		}
	}
	return r.execBlock(st.Else, env)
}

func (r *Runtime) execWhile(st *ast.WhileStmt, env *Env) error {
	for {
		cond, err := r.evalExpr(st.Condition, env)
		if err != nil {
			return err
		}
		if !Truth(cond) {
			return nil
		}
		err = r.execBlock(st.Body, env)
		if _, ok := err.(*breakSignal); ok {
			return nil
		}
		if _, ok := err.(*continueSignal); ok {
			continue
		}
		if err != nil {
			return err
		}
	}
}

func (r *Runtime) execFor(st *ast.ForStmt, env *Env) error {
	seq, err := r.evalExpr(st.Iter, env)
	if err != nil {
		return err
	}
	items, err := iterate(seq)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := r.assign(st.Target, item, env); err != nil {
			return err
		}
		err := r.execBlock(st.Body, env)
		if _, ok := err.(*breakSignal); ok {
			return nil
		}
		if _, ok := err.(*continueSignal); ok {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Runtime) execTry(st *ast.TryStmt, env *Env) error {
	err := r.execBlock(st.Body, env)

	if scriptErr, ok := err.(*ScriptError); ok {
		for _, h := range st.Handlers {
			match := h.Type == nil
			if !match {
				tv, terr := r.evalExpr(h.Type, env)
				if terr != nil {
					err = terr
					break
				}
				if excType, isExc := tv.(*ExcType); isExc {
					match = scriptErr.matches(excType)
				}
			}
			if match {
				if h.Name != "" {
					env.Bind(h.Name, scriptErr)
				}
				err = r.execBlock(h.Body, env)
				break
			}
		}
	}

	if len(st.Finally) > 0 {
		if ferr := r.execBlock(st.Finally, env); ferr != nil {
			return ferr
		}
	}
	return err
}

func (r *Runtime) execImport(st *ast.ImportStmt, env *Env) error {
	if st.Module == "autoimport" {
		return r.activate(env)
	}
	mod, err := r.importModule(st.Module)
	if err != nil {
		return err
	}
	if st.Alias != "" {
		env.Bind(st.Alias, mod)
		return nil
	}
	return bindDotted(env, st.Module, mod)
}

func (r *Runtime) execFromImport(st *ast.FromImportStmt, env *Env) error {
	mod, err := r.importModule(st.Module)
	if err != nil {
		return err
	}
	for _, n := range st.Names {
		v, ok := mod.Attrs[n.Name]
		if !ok {
			return scriptErrf("ImportError", "cannot import %q from %s", n.Name, st.Module)
		}
		bound := n.Name
		if n.Alias != "" {
			bound = n.Alias
		}
		env.Bind(bound, v)
	}
	return nil
}

// bindDotted binds `import a.b.c` the Python way: the root name is
// bound to a namespace whose attribute chain reaches the module.
// Existing namespaces in env are extended, not replaced.
func bindDotted(env *Env, path string, mod *ModuleVal) error {
	parts := strings.Split(path, ".")
	if len(parts) == 1 {
		env.Bind(parts[0], mod)
		return nil
	}

	var root *ModuleVal
	if existing, ok := env.Get(parts[0]); ok {
		if m, isMod := existing.(*ModuleVal); isMod {
			root = m
		}
	}
	if root == nil {
		root = &ModuleVal{Name: parts[0], Attrs: make(map[string]any)}
	}

	cur := root
	for i := 1; i < len(parts)-1; i++ {
		next, ok := cur.Attrs[parts[i]].(*ModuleVal)
		if !ok {
			next = &ModuleVal{Name: strings.Join(parts[:i+1], "."), Attrs: make(map[string]any)}
			cur.Attrs[parts[i]] = next
		}
		cur = next
	}
	cur.Attrs[parts[len(parts)-1]] = mod
	env.Bind(parts[0], root)
	return nil
}

// importModule loads a module by name: native registry first, then the
// active loader. Results are cached per runtime.
func (r *Runtime) importModule(name string) (*ModuleVal, error) {
	if mod, ok := r.moduleCache[name]; ok {
		return mod, nil
	}

	if native, ok := modules.Get(name); ok {
		mod := r.materializeNative(native)
		r.moduleCache[name] = mod
		return mod, nil
	}

	src, path, err := r.state.Loader().Load(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, scriptErrf("ImportError", "no module named %q", name)
		}
		return nil, err
	}
	prog, err := parser.ParseSource(string(src), path)
	if err != nil {
		return nil, err
	}

	modEnv := NewEnv(r.builtins)
	if err := r.ExecIn(prog, modEnv); err != nil {
		return nil, err
	}
	mod := &ModuleVal{Name: name, Attrs: modEnv.Snapshot()}
	r.moduleCache[name] = mod
	return mod, nil
}

// materializeNative turns a registry module into a value: functions
// become builtins, constants are copied, and registered submodules
// ("os.path" under "os") are attached.
func (r *Runtime) materializeNative(m *modules.Module) *ModuleVal {
	mod := &ModuleVal{Name: m.Name, Attrs: make(map[string]any)}
	for _, f := range m.Funcs {
		if f.Impl == nil {
			continue
		}
		funcName := f.Name
		mod.Attrs[funcName] = &Builtin{
			Name: m.Name + "." + funcName,
			Fn: func(_ *Runtime, args []any) (any, error) {
				v, err := m.Call(funcName, args)
				if err != nil {
					return nil, asScriptError(err)
				}
				return v, nil
			},
		}
	}
	for k, v := range m.Consts {
		mod.Attrs[k] = v
	}
	prefix := m.Name + "."
	for _, sub := range modules.Names() {
		if strings.HasPrefix(sub, prefix) && !strings.Contains(sub[len(prefix):], ".") {
			native, _ := modules.Get(sub)
			mod.Attrs[sub[len(prefix):]] = r.materializeNative(native)
		}
	}
	return mod
}

// asScriptError exposes native module errors to except clauses as
// RuntimeError unless they already carry a kind.
func asScriptError(err error) error {
	var se *ScriptError
	if errors.As(err, &se) {
		return se
	}
	return &ScriptError{Kind: "RuntimeError", Msg: err.Error()}
}
