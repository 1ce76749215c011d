package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyrite-lang/pyrite/ast"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := ParseSource(src, "test.pyr")
	require.NoError(t, err)
	return prog
}

func TestAssignment(t *testing.T) {
	prog := parse(t, "x = 1\n")
	require.Len(t, prog.Statements, 1)
	as, ok := prog.Statements[0].(*ast.AssignStmt)
	require.True(t, ok)
	assert.Equal(t, "=", as.Op)
	assert.Equal(t, "x", as.Target.(*ast.Ident).Name)
	assert.Equal(t, int64(1), as.Value.(*ast.IntLit).Value)
}

func TestAugmentedAssignment(t *testing.T) {
	prog := parse(t, "x += 2\n")
	as := prog.Statements[0].(*ast.AssignStmt)
	assert.Equal(t, "+=", as.Op)
}

func TestTupleAssignment(t *testing.T) {
	prog := parse(t, "a, b = 1, 2\n")
	as := prog.Statements[0].(*ast.AssignStmt)
	target, ok := as.Target.(*ast.TupleLit)
	require.True(t, ok)
	require.Len(t, target.Elems, 2)
	value := as.Value.(*ast.TupleLit)
	require.Len(t, value.Elems, 2)
}

func TestAttrChain(t *testing.T) {
	prog := parse(t, "numpy.random.default_rng()\n")
	call := prog.Statements[0].(*ast.ExprStmt).Expression.(*ast.CallExpr)
	attr := call.Func.(*ast.AttrExpr)
	assert.Equal(t, "default_rng", attr.Name)
	inner := attr.Object.(*ast.AttrExpr)
	assert.Equal(t, "random", inner.Name)
	assert.Equal(t, "numpy", inner.Object.(*ast.Ident).Name)
}

func TestDef(t *testing.T) {
	src := "def f(a, b=2):\n    return a + b\n"
	prog := parse(t, src)
	def := prog.Statements[0].(*ast.DefStmt)
	assert.Equal(t, "f", def.Name)
	require.Len(t, def.Params, 2)
	assert.Nil(t, def.Params[0].Default)
	assert.NotNil(t, def.Params[1].Default)
	require.Len(t, def.Body, 1)
	_, ok := def.Body[0].(*ast.ReturnStmt)
	assert.True(t, ok)
}

func TestSingleLineDef(t *testing.T) {
	prog := parse(t, "def f(): return 1\n")
	def := prog.Statements[0].(*ast.DefStmt)
	require.Len(t, def.Body, 1)
}

func TestClass(t *testing.T) {
	src := "class Dog(Animal):\n    def bark(self):\n        pass\n"
	prog := parse(t, src)
	cls := prog.Statements[0].(*ast.ClassStmt)
	assert.Equal(t, "Dog", cls.Name)
	require.Len(t, cls.Bases, 1)
	require.Len(t, cls.Body, 1)
}

func TestIfElifElse(t *testing.T) {
	src := "if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n"
	prog := parse(t, src)
	ifs := prog.Statements[0].(*ast.IfStmt)
	require.Len(t, ifs.Elifs, 1)
	require.Len(t, ifs.Else, 1)
}

func TestForLoop(t *testing.T) {
	src := "for k, v in items:\n    pass\n"
	prog := parse(t, src)
	f := prog.Statements[0].(*ast.ForStmt)
	_, ok := f.Target.(*ast.TupleLit)
	assert.True(t, ok)
	assert.Equal(t, "items", f.Iter.(*ast.Ident).Name)
}

func TestTryExcept(t *testing.T) {
	src := "try:\n    pass\nexcept ValueError as e:\n    pass\nfinally:\n    pass\n"
	prog := parse(t, src)
	try := prog.Statements[0].(*ast.TryStmt)
	require.Len(t, try.Handlers, 1)
	assert.Equal(t, "e", try.Handlers[0].Name)
	assert.Equal(t, "ValueError", try.Handlers[0].Type.(*ast.Ident).Name)
	require.Len(t, try.Finally, 1)
}

func TestImports(t *testing.T) {
	src := "import os.path\nimport numpy as np\nfrom math import sqrt, pi\n"
	prog := parse(t, src)
	imp := prog.Statements[0].(*ast.ImportStmt)
	assert.Equal(t, "os.path", imp.Module)
	assert.Equal(t, "", imp.Alias)

	aliased := prog.Statements[1].(*ast.ImportStmt)
	assert.Equal(t, "np", aliased.Alias)

	from := prog.Statements[2].(*ast.FromImportStmt)
	assert.Equal(t, "math", from.Module)
	require.Len(t, from.Names, 2)
	assert.Equal(t, "sqrt", from.Names[0].Name)
}

func TestComparisonOperators(t *testing.T) {
	prog := parse(t, "a not in b\n")
	bin := prog.Statements[0].(*ast.ExprStmt).Expression.(*ast.BinaryExpr)
	assert.Equal(t, "not in", bin.Op)
}

func TestConditionalExpression(t *testing.T) {
	prog := parse(t, "x = 1 if ok else 2\n")
	as := prog.Statements[0].(*ast.AssignStmt)
	_, ok := as.Value.(*ast.CondExpr)
	assert.True(t, ok)
}

func TestLambda(t *testing.T) {
	prog := parse(t, "f = lambda x: x * 2\n")
	as := prog.Statements[0].(*ast.AssignStmt)
	lam := as.Value.(*ast.LambdaExpr)
	require.Len(t, lam.Params, 1)
}

func TestListComprehension(t *testing.T) {
	prog := parse(t, "squares = [x * x for x in nums if x > 0]\n")
	as := prog.Statements[0].(*ast.AssignStmt)
	comp := as.Value.(*ast.CompExpr)
	assert.Equal(t, ast.ListComp, comp.Kind)
	require.Len(t, comp.Clauses, 1)
	require.Len(t, comp.Clauses[0].Ifs, 1)
}

func TestDictLiteralAndComprehension(t *testing.T) {
	prog := parse(t, "d = {'a': 1}\ne = {k: v for k, v in pairs}\n")
	d := prog.Statements[0].(*ast.AssignStmt).Value.(*ast.DictLit)
	require.Len(t, d.Keys, 1)
	e := prog.Statements[1].(*ast.AssignStmt).Value.(*ast.CompExpr)
	assert.Equal(t, ast.DictComp, e.Kind)
	assert.NotNil(t, e.Value)
}

func TestSemicolonSeparatedStatements(t *testing.T) {
	prog := parse(t, "a = 1; b = 2\n")
	require.Len(t, prog.Statements, 2)
}

func TestSourceMetadata(t *testing.T) {
	prog := parse(t, "x = 1\ny = 2\n")
	assert.Equal(t, "test.pyr", prog.SourceFile)
	assert.Equal(t, "x = 1\ny = 2\n", prog.RawSource)
	assert.Equal(t, 2, prog.Statements[1].StmtLine())
}

func TestParseErrorHasPosition(t *testing.T) {
	_, err := ParseSource("def :\n", "bad.pyr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.pyr:1")
}

func TestInvalidAssignTarget(t *testing.T) {
	_, err := ParseSource("f() = 1\n", "bad.pyr")
	require.Error(t, err)
}
