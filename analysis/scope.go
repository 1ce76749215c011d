// Package analysis implements the static pipeline behind implicit
// imports: a scope tree mirroring Pyrite's lexical rules, a collector
// for identifier references that no scope binds, and a detector for
// qualified-access alias chains.
package analysis

import (
	"strings"

	"github.com/pyrite-lang/pyrite/ast"
)

// ScopeKind classifies a scope node.
type ScopeKind int

const (
	ModuleScope ScopeKind = iota
	FunctionScope
	ClassScope
	ComprehensionScope
)

// BindReason records why a name is local to a scope.
type BindReason int

const (
	BindAssign BindReason = iota
	BindParam
	BindDef
	BindClass
	BindImport
	BindExcept
	BindLoop
	BindComp
)

// Scope is one node of the scope tree. Scopes are built fresh for each
// analysis pass and never shared across passes.
type Scope struct {
	Kind     ScopeKind
	Parent   *Scope
	bindings map[string]BindReason
}

func newScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{Kind: kind, Parent: parent, bindings: make(map[string]BindReason)}
}

// Bind records name as local to s. The first recorded reason wins.
func (s *Scope) Bind(name string, reason BindReason) {
	if _, ok := s.bindings[name]; !ok {
		s.bindings[name] = reason
	}
}

// Binds reports whether s itself binds name.
func (s *Scope) Binds(name string) (BindReason, bool) {
	r, ok := s.bindings[name]
	return r, ok
}

// Resolves reports whether a read of name occurring directly in s is
// bound by s or any enclosing scope. Class scopes are not visible to
// reads originating in scopes nested below them; only reads directly in
// the class body see class-level bindings.
func (s *Scope) Resolves(name string) bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == ClassScope && cur != s {
			continue
		}
		if _, ok := cur.bindings[name]; ok {
			return true
		}
	}
	return false
}

// ScopeTree is the result of the binding pass: the module scope plus a
// mapping from scope-introducing AST nodes to their scopes, used by the
// collector to re-enter the same scopes during its own walk.
type ScopeTree struct {
	Module *Scope
	byNode map[ast.Node]*Scope
}

// ScopeOf returns the scope introduced by a def, lambda, class, or
// comprehension node.
func (t *ScopeTree) ScopeOf(n ast.Node) *Scope {
	return t.byNode[n]
}

// BuildScopes walks the whole program once and records every binding
// construct: assignment targets, parameters, def/class names, import
// targets, exception-capture names, and loop variables. Because the
// complete tree is built before any reference is resolved, a name
// assigned anywhere in a function body is local for the entire body.
func BuildScopes(prog *ast.Program) *ScopeTree {
	t := &ScopeTree{
		Module: newScope(ModuleScope, nil),
		byNode: make(map[ast.Node]*Scope),
	}
	for _, s := range prog.Statements {
		t.bindStmt(s, t.Module)
	}
	return t
}

func (t *ScopeTree) bindStmts(stmts []ast.Statement, sc *Scope) {
	for _, s := range stmts {
		t.bindStmt(s, sc)
	}
}

func (t *ScopeTree) bindStmt(s ast.Statement, sc *Scope) {
	switch st := s.(type) {
	case *ast.AssignStmt:
		t.bindTarget(st.Target, sc, BindAssign)
		t.bindExpr(st.Value, sc)
	case *ast.ExprStmt:
		t.bindExpr(st.Expression, sc)
	case *ast.DefStmt:
		sc.Bind(st.Name, BindDef)
		fn := newScope(FunctionScope, sc)
		t.byNode[st] = fn
		for _, p := range st.Params {
			fn.Bind(p.Name, BindParam)
			if p.Default != nil {
				// Defaults are evaluated in the enclosing scope.
				t.bindExpr(p.Default, sc)
			}
		}
		t.bindStmts(st.Body, fn)
	case *ast.ClassStmt:
		sc.Bind(st.Name, BindClass)
		for _, b := range st.Bases {
			t.bindExpr(b, sc)
		}
		cls := newScope(ClassScope, sc)
		t.byNode[st] = cls
		t.bindStmts(st.Body, cls)
	case *ast.ReturnStmt:
		if st.Value != nil {
			t.bindExpr(st.Value, sc)
		}
	case *ast.IfStmt:
		t.bindExpr(st.Condition, sc)
		t.bindStmts(st.Body, sc)
		for _, e := range st.Elifs {
			t.bindExpr(e.Condition, sc)
			t.bindStmts(e.Body, sc)
		}
		t.bindStmts(st.Else, sc)
	case *ast.WhileStmt:
		t.bindExpr(st.Condition, sc)
		t.bindStmts(st.Body, sc)
	case *ast.ForStmt:
		// for does not introduce a scope; the loop variable leaks.
		t.bindTarget(st.Target, sc, BindLoop)
		t.bindExpr(st.Iter, sc)
		t.bindStmts(st.Body, sc)
	case *ast.TryStmt:
		t.bindStmts(st.Body, sc)
		for _, h := range st.Handlers {
			if h.Type != nil {
				t.bindExpr(h.Type, sc)
			}
			if h.Name != "" {
				sc.Bind(h.Name, BindExcept)
			}
			t.bindStmts(h.Body, sc)
		}
		t.bindStmts(st.Finally, sc)
	case *ast.ImportStmt:
		if st.Alias != "" {
			sc.Bind(st.Alias, BindImport)
		} else {
			sc.Bind(rootOf(st.Module), BindImport)
		}
	case *ast.FromImportStmt:
		for _, n := range st.Names {
			if n.Alias != "" {
				sc.Bind(n.Alias, BindImport)
			} else {
				sc.Bind(n.Name, BindImport)
			}
		}
	}
}

// bindTarget records assignment-target bindings. Attribute and index
// targets bind nothing; their subexpressions are reads.
func (t *ScopeTree) bindTarget(e ast.Expr, sc *Scope, reason BindReason) {
	switch target := e.(type) {
	case *ast.Ident:
		sc.Bind(target.Name, reason)
	case *ast.TupleLit:
		for _, el := range target.Elems {
			t.bindTarget(el, sc, reason)
		}
	case *ast.ListLit:
		for _, el := range target.Elems {
			t.bindTarget(el, sc, reason)
		}
	case *ast.AttrExpr:
		t.bindExpr(target.Object, sc)
	case *ast.IndexExpr:
		t.bindExpr(target.Object, sc)
		t.bindExpr(target.Index, sc)
	}
}

// bindExpr descends into expressions looking for constructs that
// introduce scopes or bindings: lambdas and comprehensions.
func (t *ScopeTree) bindExpr(e ast.Expr, sc *Scope) {
	switch ex := e.(type) {
	case *ast.LambdaExpr:
		fn := newScope(FunctionScope, sc)
		t.byNode[ex] = fn
		for _, p := range ex.Params {
			fn.Bind(p.Name, BindParam)
			if p.Default != nil {
				t.bindExpr(p.Default, sc)
			}
		}
		t.bindExpr(ex.Body, fn)
	case *ast.CompExpr:
		comp := newScope(ComprehensionScope, sc)
		t.byNode[ex] = comp
		for i, cl := range ex.Clauses {
			t.bindTarget(cl.Target, comp, BindComp)
			// The first iterable is evaluated in the enclosing scope.
			if i == 0 {
				t.bindExpr(cl.Iter, sc)
			} else {
				t.bindExpr(cl.Iter, comp)
			}
			for _, cond := range cl.Ifs {
				t.bindExpr(cond, comp)
			}
		}
		t.bindExpr(ex.Elem, comp)
		if ex.Value != nil {
			t.bindExpr(ex.Value, comp)
		}
	case *ast.CondExpr:
		t.bindExpr(ex.Cond, sc)
		t.bindExpr(ex.Then, sc)
		t.bindExpr(ex.Else, sc)
	case *ast.BinaryExpr:
		t.bindExpr(ex.Left, sc)
		t.bindExpr(ex.Right, sc)
	case *ast.UnaryExpr:
		t.bindExpr(ex.Operand, sc)
	case *ast.CallExpr:
		t.bindExpr(ex.Func, sc)
		for _, a := range ex.Args {
			t.bindExpr(a, sc)
		}
	case *ast.AttrExpr:
		t.bindExpr(ex.Object, sc)
	case *ast.IndexExpr:
		t.bindExpr(ex.Object, sc)
		t.bindExpr(ex.Index, sc)
	case *ast.ListLit:
		for _, el := range ex.Elems {
			t.bindExpr(el, sc)
		}
	case *ast.TupleLit:
		for _, el := range ex.Elems {
			t.bindExpr(el, sc)
		}
	case *ast.DictLit:
		for i := range ex.Keys {
			t.bindExpr(ex.Keys[i], sc)
			t.bindExpr(ex.Values[i], sc)
		}
	}
}

// rootOf returns the first component of a dotted module path.
func rootOf(module string) string {
	if i := strings.IndexByte(module, '.'); i >= 0 {
		return module[:i]
	}
	return module
}
