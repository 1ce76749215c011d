package ast

// Node is the interface for all AST nodes.
type Node interface {
	node()
}

// Statement is the interface for statement nodes.
type Statement interface {
	Node
	stmt()
	StmtLine() int
}

// BaseStmt provides common fields for all statements.
type BaseStmt struct {
	SourceLine int // start line in the original source
}

func (b BaseStmt) StmtLine() int { return b.SourceLine }

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr()
}

// Program is the root node.
type Program struct {
	Statements []Statement
	SourceFile string // display path of the source file
	RawSource  string // original source text, retained for rewriting
}

func (p *Program) node() {}

// AssignStmt represents target = value, including augmented forms
// (target += value etc., recorded in Op) and tuple targets.
type AssignStmt struct {
	BaseStmt
	Target Expr   // Ident, AttrExpr, IndexExpr, or TupleLit
	Op     string // "=", "+=", "-=", "*=", "/="
	Value  Expr
}

func (a *AssignStmt) node() {}
func (a *AssignStmt) stmt() {}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	BaseStmt
	Expression Expr
}

func (e *ExprStmt) node() {}
func (e *ExprStmt) stmt() {}

// Param is a single function parameter with an optional default.
type Param struct {
	Name    string
	Default Expr
}

// DefStmt represents def name(params): body.
type DefStmt struct {
	BaseStmt
	Name   string
	Params []Param
	Body   []Statement
}

func (d *DefStmt) node() {}
func (d *DefStmt) stmt() {}

// ClassStmt represents class name(bases): body.
type ClassStmt struct {
	BaseStmt
	Name  string
	Bases []Expr
	Body  []Statement
}

func (c *ClassStmt) node() {}
func (c *ClassStmt) stmt() {}

// ReturnStmt represents return [value].
type ReturnStmt struct {
	BaseStmt
	Value Expr // nil for bare return
}

func (r *ReturnStmt) node() {}
func (r *ReturnStmt) stmt() {}

// PassStmt is the no-op statement.
type PassStmt struct {
	BaseStmt
}

func (p *PassStmt) node() {}
func (p *PassStmt) stmt() {}

// BreakStmt exits the innermost loop.
type BreakStmt struct {
	BaseStmt
}

func (b *BreakStmt) node() {}
func (b *BreakStmt) stmt() {}

// ContinueStmt continues the innermost loop.
type ContinueStmt struct {
	BaseStmt
}

func (c *ContinueStmt) node() {}
func (c *ContinueStmt) stmt() {}

// ElifClause is one elif arm of an IfStmt.
type ElifClause struct {
	Condition Expr
	Body      []Statement
}

// IfStmt represents if/elif/else.
type IfStmt struct {
	BaseStmt
	Condition Expr
	Body      []Statement
	Elifs     []ElifClause
	Else      []Statement
}

func (i *IfStmt) node() {}
func (i *IfStmt) stmt() {}

// WhileStmt represents while cond: body.
type WhileStmt struct {
	BaseStmt
	Condition Expr
	Body      []Statement
}

func (w *WhileStmt) node() {}
func (w *WhileStmt) stmt() {}

// ForStmt represents for target in iter: body. The loop variable binds
// in the enclosing function or module scope, not a scope of its own.
type ForStmt struct {
	BaseStmt
	Target Expr // Ident or TupleLit of Idents
	Iter   Expr
	Body   []Statement
}

func (f *ForStmt) node() {}
func (f *ForStmt) stmt() {}

// ExceptClause is one except arm of a TryStmt.
type ExceptClause struct {
	Type Expr   // nil for a bare except
	Name string // "" unless `except E as name`
	Body []Statement
}

// TryStmt represents try/except/finally.
type TryStmt struct {
	BaseStmt
	Body     []Statement
	Handlers []ExceptClause
	Finally  []Statement
}

func (t *TryStmt) node() {}
func (t *TryStmt) stmt() {}

// ImportStmt represents import module[.sub] [as alias].
type ImportStmt struct {
	BaseStmt
	Module string // dotted module path
	Alias  string // optional
}

func (i *ImportStmt) node() {}
func (i *ImportStmt) stmt() {}

// ImportedName is one name in a from-import list.
type ImportedName struct {
	Name  string
	Alias string // optional
}

// FromImportStmt represents from module import a [as x], b.
type FromImportStmt struct {
	BaseStmt
	Module string
	Names  []ImportedName
}

func (f *FromImportStmt) node() {}
func (f *FromImportStmt) stmt() {}

// ---- Expressions ----

// Ident is a name reference. Position is kept so analysis can report
// where a reference occurred.
type Ident struct {
	Name string
	Line int
	Col  int
}

func (i *Ident) node() {}
func (i *Ident) expr() {}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
}

func (l *IntLit) node() {}
func (l *IntLit) expr() {}

// FloatLit is a floating point literal.
type FloatLit struct {
	Value float64
}

func (l *FloatLit) node() {}
func (l *FloatLit) expr() {}

// StringLit is a string literal (already unescaped).
type StringLit struct {
	Value string
}

func (l *StringLit) node() {}
func (l *StringLit) expr() {}

// BoolLit is True or False.
type BoolLit struct {
	Value bool
}

func (l *BoolLit) node() {}
func (l *BoolLit) expr() {}

// NoneLit is None.
type NoneLit struct{}

func (l *NoneLit) node() {}
func (l *NoneLit) expr() {}

// ListLit is [a, b, c].
type ListLit struct {
	Elems []Expr
}

func (l *ListLit) node() {}
func (l *ListLit) expr() {}

// TupleLit is a, b or (a, b).
type TupleLit struct {
	Elems []Expr
}

func (l *TupleLit) node() {}
func (l *TupleLit) expr() {}

// DictLit is {k: v, ...}.
type DictLit struct {
	Keys   []Expr
	Values []Expr
}

func (l *DictLit) node() {}
func (l *DictLit) expr() {}

// AttrExpr is object.name.
type AttrExpr struct {
	Object Expr
	Name   string
}

func (a *AttrExpr) node() {}
func (a *AttrExpr) expr() {}

// IndexExpr is object[index].
type IndexExpr struct {
	Object Expr
	Index  Expr
}

func (i *IndexExpr) node() {}
func (i *IndexExpr) expr() {}

// CallExpr is fn(args...).
type CallExpr struct {
	Func Expr
	Args []Expr
}

func (c *CallExpr) node() {}
func (c *CallExpr) expr() {}

// BinaryExpr covers arithmetic, comparison, and boolean operators.
// Op is the source operator ("+", "==", "and", "in", "not in", ...).
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (b *BinaryExpr) node() {}
func (b *BinaryExpr) expr() {}

// UnaryExpr is -x or not x.
type UnaryExpr struct {
	Op      string
	Operand Expr
}

func (u *UnaryExpr) node() {}
func (u *UnaryExpr) expr() {}

// LambdaExpr is lambda params: expr.
type LambdaExpr struct {
	Params []Param
	Body   Expr
}

func (l *LambdaExpr) node() {}
func (l *LambdaExpr) expr() {}

// CondExpr is then if cond else else_.
type CondExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (c *CondExpr) node() {}
func (c *CondExpr) expr() {}

// CompKind distinguishes the comprehension forms.
type CompKind int

const (
	ListComp CompKind = iota
	SetComp
	DictComp
	GenExp
)

// CompClause is one `for target in iter [if cond]*` clause.
type CompClause struct {
	Target Expr // Ident or TupleLit of Idents
	Iter   Expr
	Ifs    []Expr
}

// CompExpr is a comprehension or generator expression. Loop variables
// bind in a scope of their own, unlike for statements.
type CompExpr struct {
	Kind    CompKind
	Elem    Expr // element (or key for DictComp)
	Value   Expr // value, DictComp only
	Clauses []CompClause
}

func (c *CompExpr) node() {}
func (c *CompExpr) expr() {}
