package analysis

import (
	"strings"

	"github.com/pyrite-lang/pyrite/ast"
)

// Ref is a free identifier reference: a name read in some scope that no
// enclosing scope binds and that is not a builtin. If the reference is
// the root of an uninterrupted dotted access, Chain holds the attribute
// names in order; a call anywhere in the chain breaks it.
type Ref struct {
	Name  string
	Line  int
	Col   int
	Chain []string
}

// Path returns the flattened dotted path (root plus chain).
func (r Ref) Path() string {
	if len(r.Chain) == 0 {
		return r.Name
	}
	return r.Name + "." + strings.Join(r.Chain, ".")
}

// Candidate pairs a free reference with the alias chain that satisfies
// it, if one was observed earlier in the walk.
type Candidate struct {
	Ref Ref
	// AliasPath is the full dotted path a bare reference should be
	// bound to (e.g. "numpy.random.random" for a bare "random" seen
	// after "numpy.random.random(...)"). Empty when not applicable.
	AliasPath string
}

// Analyze runs the binding pass, the reference collection pass, and
// alias detection over one parsed program.
func Analyze(prog *ast.Program) []Candidate {
	tree := BuildScopes(prog)
	return DetectAliases(Collect(prog, tree))
}

// Collect walks the program with its scope tree and returns free
// references in source order, deduplicated by flattened path (the first
// read wins).
func Collect(prog *ast.Program, tree *ScopeTree) []Ref {
	c := &collector{tree: tree, seen: make(map[string]bool)}
	for _, s := range prog.Statements {
		c.visitStmt(s, tree.Module)
	}
	return c.refs
}

// DetectAliases scans references in order. Every qualified chain records
// its trailing attribute name; the first chain observed for a given
// trailing name wins, later different chains are ignored. A bare
// reference matching a previously recorded trailing name becomes an
// alias candidate for the full path.
func DetectAliases(refs []Ref) []Candidate {
	hints := make(map[string]string)
	out := make([]Candidate, 0, len(refs))
	for _, r := range refs {
		cand := Candidate{Ref: r}
		if len(r.Chain) > 0 {
			trailing := r.Chain[len(r.Chain)-1]
			if _, ok := hints[trailing]; !ok {
				hints[trailing] = r.Path()
			}
		} else if path, ok := hints[r.Name]; ok {
			cand.AliasPath = path
		}
		out = append(out, cand)
	}
	return out
}

type collector struct {
	tree *ScopeTree
	refs []Ref
	seen map[string]bool
}

func (c *collector) emit(name string, line, col int, chain []string) {
	r := Ref{Name: name, Line: line, Col: col, Chain: chain}
	path := r.Path()
	if c.seen[path] {
		return
	}
	c.seen[path] = true
	c.refs = append(c.refs, r)
}

// read handles a bare identifier read in scope sc.
func (c *collector) read(id *ast.Ident, sc *Scope) {
	if sc.Resolves(id.Name) || IsBuiltin(id.Name) {
		return
	}
	c.emit(id.Name, id.Line, id.Col, nil)
}

func (c *collector) visitStmts(stmts []ast.Statement, sc *Scope) {
	for _, s := range stmts {
		c.visitStmt(s, sc)
	}
}

func (c *collector) visitStmt(s ast.Statement, sc *Scope) {
	switch st := s.(type) {
	case *ast.AssignStmt:
		c.visitTarget(st.Target, sc)
		c.visitExpr(st.Value, sc)
	case *ast.ExprStmt:
		c.visitExpr(st.Expression, sc)
	case *ast.DefStmt:
		for _, p := range st.Params {
			if p.Default != nil {
				c.visitExpr(p.Default, sc)
			}
		}
		c.visitStmts(st.Body, c.tree.ScopeOf(st))
	case *ast.ClassStmt:
		for _, b := range st.Bases {
			c.visitExpr(b, sc)
		}
		c.visitStmts(st.Body, c.tree.ScopeOf(st))
	case *ast.ReturnStmt:
		if st.Value != nil {
			c.visitExpr(st.Value, sc)
		}
	case *ast.IfStmt:
		c.visitExpr(st.Condition, sc)
		c.visitStmts(st.Body, sc)
		for _, e := range st.Elifs {
			c.visitExpr(e.Condition, sc)
			c.visitStmts(e.Body, sc)
		}
		c.visitStmts(st.Else, sc)
	case *ast.WhileStmt:
		c.visitExpr(st.Condition, sc)
		c.visitStmts(st.Body, sc)
	case *ast.ForStmt:
		c.visitExpr(st.Iter, sc)
		c.visitStmts(st.Body, sc)
	case *ast.TryStmt:
		c.visitStmts(st.Body, sc)
		for _, h := range st.Handlers {
			if h.Type != nil {
				c.visitExpr(h.Type, sc)
			}
			c.visitStmts(h.Body, sc)
		}
		c.visitStmts(st.Finally, sc)
	}
}

// visitTarget visits the read positions inside an assignment target:
// plain name targets are stores, but attribute and index targets read
// their object (and index) expressions.
func (c *collector) visitTarget(e ast.Expr, sc *Scope) {
	switch target := e.(type) {
	case *ast.Ident:
		// store
	case *ast.TupleLit:
		for _, el := range target.Elems {
			c.visitTarget(el, sc)
		}
	case *ast.ListLit:
		for _, el := range target.Elems {
			c.visitTarget(el, sc)
		}
	case *ast.AttrExpr:
		c.visitExpr(target.Object, sc)
	case *ast.IndexExpr:
		c.visitExpr(target.Object, sc)
		c.visitExpr(target.Index, sc)
	}
}

func (c *collector) visitExpr(e ast.Expr, sc *Scope) {
	switch ex := e.(type) {
	case *ast.Ident:
		c.read(ex, sc)
	case *ast.AttrExpr:
		if root, chain, ok := flattenChain(ex); ok {
			if !sc.Resolves(root.Name) && !IsBuiltin(root.Name) {
				c.emit(root.Name, root.Line, root.Col, chain)
			}
			return
		}
		c.visitExpr(ex.Object, sc)
	case *ast.CallExpr:
		c.visitExpr(ex.Func, sc)
		for _, a := range ex.Args {
			c.visitExpr(a, sc)
		}
	case *ast.IndexExpr:
		c.visitExpr(ex.Object, sc)
		c.visitExpr(ex.Index, sc)
	case *ast.BinaryExpr:
		c.visitExpr(ex.Left, sc)
		c.visitExpr(ex.Right, sc)
	case *ast.UnaryExpr:
		c.visitExpr(ex.Operand, sc)
	case *ast.CondExpr:
		c.visitExpr(ex.Cond, sc)
		c.visitExpr(ex.Then, sc)
		c.visitExpr(ex.Else, sc)
	case *ast.ListLit:
		for _, el := range ex.Elems {
			c.visitExpr(el, sc)
		}
	case *ast.TupleLit:
		for _, el := range ex.Elems {
			c.visitExpr(el, sc)
		}
	case *ast.DictLit:
		for i := range ex.Keys {
			c.visitExpr(ex.Keys[i], sc)
			c.visitExpr(ex.Values[i], sc)
		}
	case *ast.LambdaExpr:
		for _, p := range ex.Params {
			if p.Default != nil {
				c.visitExpr(p.Default, sc)
			}
		}
		c.visitExpr(ex.Body, c.tree.ScopeOf(ex))
	case *ast.CompExpr:
		comp := c.tree.ScopeOf(ex)
		for i, cl := range ex.Clauses {
			if i == 0 {
				c.visitExpr(cl.Iter, sc)
			} else {
				c.visitExpr(cl.Iter, comp)
			}
			for _, cond := range cl.Ifs {
				c.visitExpr(cond, comp)
			}
		}
		c.visitExpr(ex.Elem, comp)
		if ex.Value != nil {
			c.visitExpr(ex.Value, comp)
		}
	}
}

// flattenChain returns the root identifier and attribute names of an
// uninterrupted dotted access (a.b.c). It fails if anything other than
// plain attribute access appears between the root and the outermost
// attribute, e.g. a call: f().b is not a static path.
func flattenChain(e *ast.AttrExpr) (*ast.Ident, []string, bool) {
	var chain []string
	cur := ast.Expr(e)
	for {
		switch node := cur.(type) {
		case *ast.AttrExpr:
			chain = append([]string{node.Name}, chain...)
			cur = node.Object
		case *ast.Ident:
			return node, chain, true
		default:
			return nil, nil, false
		}
	}
}
