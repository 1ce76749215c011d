package interp

import (
	"strings"

	"github.com/pyrite-lang/pyrite/ast"
	"github.com/pyrite-lang/pyrite/resolve"
)

// activate handles the `import autoimport` trigger: run the pipeline
// over the current module and apply the resolved bindings to the live
// environment, then patch the loader for every later load. Both steps
// are synchronous; statements after the trigger see the bindings.
func (r *Runtime) activate(env *Env) error {
	if r.prog != nil {
		res := r.pipeline.Resolve(r.prog)
		r.apply(res.Requests, env)
	}
	r.EnableAutoImport()
	return nil
}

// apply executes binding requests against a live environment: imports
// bind module namespaces, aliases bind the value at their dotted path.
// Injection never aborts the running script; requests that fail to
// materialize are skipped.
func (r *Runtime) apply(reqs []resolve.Request, env *Env) {
	for _, req := range reqs {
		switch req.Kind {
		case resolve.ImportReq:
			mod, err := r.importModule(req.Module)
			if err != nil {
				continue
			}
			bindDotted(env, req.Module, mod)
		case resolve.AliasReq:
			v, err := r.evalPath(req.Path, env)
			if err != nil {
				continue
			}
			env.Bind(req.Name, v)
		}
	}
}

// Inject resolves a program's free names and applies the resulting
// bindings to env without patching the loader. The REPL uses this to
// auto-import per input.
func (r *Runtime) Inject(prog *ast.Program, env *Env) {
	res := r.pipeline.Resolve(prog)
	r.apply(res.Requests, env)
}

// evalPath walks a dotted path from the environment, e.g.
// "numpy.random.default_rng" after numpy has been bound.
func (r *Runtime) evalPath(path string, env *Env) (any, error) {
	parts := strings.Split(path, ".")
	v, ok := env.Get(parts[0])
	if !ok {
		return nil, scriptErrf("NameError", "name '%s' is not defined", parts[0])
	}
	for _, attr := range parts[1:] {
		var err error
		if v, err = r.getAttr(v, attr); err != nil {
			return nil, err
		}
	}
	return v, nil
}
