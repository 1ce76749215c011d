package analysis

import (
	"github.com/pyrite-lang/pyrite/ast"
	"github.com/pyrite-lang/pyrite/parser"
	"github.com/pyrite-lang/pyrite/resolve"
)

// Result is the outcome of resolving one module's free references.
type Result struct {
	Requests []resolve.Request
	Dropped  []resolve.Drop
}

// Frontmatter renders the resolved requests as prependable source.
func (r Result) Frontmatter() string {
	return Synthesize(r.Requests)
}

// Pipeline strings the analysis passes together with a resolver. The
// namespace and installer are fixed at construction; a fresh resolver
// is built per call so install retry state never leaks across loads.
type Pipeline struct {
	ns        resolve.Namespace
	installer resolve.Installer
}

// NewPipeline returns a pipeline over ns. installer may be nil, in
// which case unknown names drop without an install attempt.
func NewPipeline(ns resolve.Namespace, installer resolve.Installer) *Pipeline {
	return &Pipeline{ns: ns, installer: installer}
}

// Analyze parses src and resolves its free references. Parse errors are
// returned to the caller; resolution itself never fails.
func (p *Pipeline) Analyze(name string, src []byte) (Result, error) {
	prog, err := parser.ParseSource(string(src), name)
	if err != nil {
		return Result{}, err
	}
	return p.Resolve(prog), nil
}

// Resolve runs collection, alias detection, and symbol resolution over
// an already parsed program.
func (p *Pipeline) Resolve(prog *ast.Program) Result {
	r := resolve.New(p.ns, p.installer)
	set := resolve.NewSet()
	var dropped []resolve.Drop

	for _, cand := range Analyze(prog) {
		ref := cand.Ref
		switch {
		case len(ref.Chain) > 0:
			module, ok, err := r.Qualified(ref.Path())
			if !ok {
				dropped = append(dropped, resolve.Drop{Name: ref.Path(), Err: err})
				continue
			}
			set.Add(resolve.ImportOf(module))
		case cand.AliasPath != "":
			module, ok, err := r.Qualified(cand.AliasPath)
			if !ok {
				dropped = append(dropped, resolve.Drop{Name: ref.Name, Err: err})
				continue
			}
			set.Add(resolve.ImportOf(module))
			set.Add(resolve.AliasOf(ref.Name, cand.AliasPath))
		default:
			reqs, err := r.Bare(ref.Name)
			if len(reqs) == 0 {
				dropped = append(dropped, resolve.Drop{Name: ref.Name, Err: err})
				continue
			}
			for _, req := range reqs {
				set.Add(req)
			}
		}
	}

	return Result{Requests: set.Requests(), Dropped: dropped}
}
