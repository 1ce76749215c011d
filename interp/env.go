package interp

// Env is one frame of the lexical environment chain. Assignment always
// binds in the current frame; reads walk outward.
type Env struct {
	parent *Env
	vars   map[string]any
}

// NewEnv creates a frame nested in parent. parent may be nil for the
// outermost frame.
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, vars: make(map[string]any)}
}

// Bind sets name in this frame.
func (e *Env) Bind(name string, v any) {
	e.vars[name] = v
}

// Get looks name up through the chain.
func (e *Env) Get(name string) (any, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether name is bound anywhere in the chain.
func (e *Env) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Snapshot returns a copy of this frame's own bindings, used to turn an
// executed module body into a module namespace.
func (e *Env) Snapshot() map[string]any {
	out := make(map[string]any, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}
