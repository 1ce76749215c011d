// Package parser turns Pyrite tokens into the typed AST. It is a plain
// recursive-descent parser; operator precedence is encoded in the
// call chain (or > and > not > comparison > arith > term > unary > power).
package parser

import (
	"fmt"
	"strconv"

	"github.com/pyrite-lang/pyrite/ast"
	"github.com/pyrite-lang/pyrite/scanner"
)

// Error is a positioned parse error.
type Error struct {
	File string
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Msg)
}

// Parser parses one source buffer at a time.
type Parser struct {
	file string
	toks []scanner.Token
	pos  int
}

// Parse tokenizes and parses src into a Program. The name parameter is
// used for error messages and recorded as the program's SourceFile.
func (p *Parser) Parse(name string, src []byte) (*ast.Program, error) {
	s := scanner.New(name, string(src))
	toks, err := s.Scan()
	if err != nil {
		return nil, err
	}
	p.file = name
	p.toks = toks
	p.pos = 0

	prog := &ast.Program{SourceFile: name, RawSource: string(src)}
	for !p.at(scanner.EOF) {
		if p.accept(scanner.NEWLINE) {
			continue
		}
		stmts, err := p.statementLine()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmts...)
	}
	return prog, nil
}

func (p *Parser) cur() scanner.Token { return p.toks[p.pos] }

func (p *Parser) at(t scanner.TokenType) bool { return p.cur().Type == t }

func (p *Parser) accept(t scanner.TokenType) bool {
	if p.at(t) {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) next() scanner.Token {
	t := p.cur()
	if !p.at(scanner.EOF) {
		p.pos++
	}
	return t
}

func (p *Parser) expect(t scanner.TokenType, what string) (scanner.Token, error) {
	if !p.at(t) {
		return p.cur(), p.errorf("expected %s, found %q", what, p.describe(p.cur()))
	}
	return p.next(), nil
}

func (p *Parser) describe(t scanner.Token) string {
	switch t.Type {
	case scanner.NEWLINE:
		return "newline"
	case scanner.INDENT:
		return "indent"
	case scanner.DEDENT:
		return "dedent"
	case scanner.EOF:
		return "end of file"
	}
	return t.Lexeme
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	t := p.cur()
	return &Error{File: p.file, Line: t.Line, Col: t.Col, Msg: fmt.Sprintf(format, args...)}
}

// statementLine parses either one compound statement or a semicolon
// separated run of simple statements ending in NEWLINE.
func (p *Parser) statementLine() ([]ast.Statement, error) {
	switch p.cur().Type {
	case scanner.KwIf:
		s, err := p.ifStmt()
		return one(s, err)
	case scanner.KwWhile:
		s, err := p.whileStmt()
		return one(s, err)
	case scanner.KwFor:
		s, err := p.forStmt()
		return one(s, err)
	case scanner.KwTry:
		s, err := p.tryStmt()
		return one(s, err)
	case scanner.KwDef:
		s, err := p.defStmt()
		return one(s, err)
	case scanner.KwClass:
		s, err := p.classStmt()
		return one(s, err)
	}

	var stmts []ast.Statement
	for {
		s, err := p.simpleStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		if !p.accept(scanner.SEMI) {
			break
		}
		if p.at(scanner.NEWLINE) {
			break
		}
	}
	if _, err := p.expect(scanner.NEWLINE, "newline"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func one(s ast.Statement, err error) ([]ast.Statement, error) {
	if err != nil {
		return nil, err
	}
	return []ast.Statement{s}, nil
}

func (p *Parser) base() ast.BaseStmt {
	return ast.BaseStmt{SourceLine: p.cur().Line}
}

func (p *Parser) simpleStmt() (ast.Statement, error) {
	base := p.base()
	switch p.cur().Type {
	case scanner.KwPass:
		p.next()
		return &ast.PassStmt{BaseStmt: base}, nil
	case scanner.KwBreak:
		p.next()
		return &ast.BreakStmt{BaseStmt: base}, nil
	case scanner.KwContinue:
		p.next()
		return &ast.ContinueStmt{BaseStmt: base}, nil
	case scanner.KwReturn:
		p.next()
		ret := &ast.ReturnStmt{BaseStmt: base}
		if !p.at(scanner.NEWLINE) && !p.at(scanner.SEMI) {
			v, err := p.testList()
			if err != nil {
				return nil, err
			}
			ret.Value = v
		}
		return ret, nil
	case scanner.KwImport:
		return p.importStmt(base)
	case scanner.KwFrom:
		return p.fromImportStmt(base)
	}
	return p.exprOrAssign(base)
}

func (p *Parser) importStmt(base ast.BaseStmt) (ast.Statement, error) {
	p.next() // import
	module, err := p.dottedName()
	if err != nil {
		return nil, err
	}
	stmt := &ast.ImportStmt{BaseStmt: base, Module: module}
	if p.accept(scanner.KwAs) {
		alias, err := p.expect(scanner.NAME, "name")
		if err != nil {
			return nil, err
		}
		stmt.Alias = alias.Lexeme
	}
	return stmt, nil
}

func (p *Parser) fromImportStmt(base ast.BaseStmt) (ast.Statement, error) {
	p.next() // from
	module, err := p.dottedName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.KwImport, "import"); err != nil {
		return nil, err
	}
	stmt := &ast.FromImportStmt{BaseStmt: base, Module: module}
	for {
		name, err := p.expect(scanner.NAME, "name")
		if err != nil {
			return nil, err
		}
		in := ast.ImportedName{Name: name.Lexeme}
		if p.accept(scanner.KwAs) {
			alias, err := p.expect(scanner.NAME, "name")
			if err != nil {
				return nil, err
			}
			in.Alias = alias.Lexeme
		}
		stmt.Names = append(stmt.Names, in)
		if !p.accept(scanner.COMMA) {
			break
		}
	}
	return stmt, nil
}

func (p *Parser) dottedName() (string, error) {
	name, err := p.expect(scanner.NAME, "module name")
	if err != nil {
		return "", err
	}
	out := name.Lexeme
	for p.accept(scanner.DOT) {
		part, err := p.expect(scanner.NAME, "name after '.'")
		if err != nil {
			return "", err
		}
		out += "." + part.Lexeme
	}
	return out, nil
}

var augOps = map[scanner.TokenType]string{
	scanner.PLUSEQ:  "+=",
	scanner.MINUSEQ: "-=",
	scanner.STAREQ:  "*=",
	scanner.SLASHEQ: "/=",
}

func (p *Parser) exprOrAssign(base ast.BaseStmt) (ast.Statement, error) {
	expr, err := p.testList()
	if err != nil {
		return nil, err
	}

	if op, ok := augOps[p.cur().Type]; ok {
		p.next()
		if err := checkTarget(expr, false); err != nil {
			return nil, p.errorf("%v", err)
		}
		value, err := p.testList()
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{BaseStmt: base, Target: expr, Op: op, Value: value}, nil
	}

	if p.accept(scanner.ASSIGN) {
		if err := checkTarget(expr, true); err != nil {
			return nil, p.errorf("%v", err)
		}
		value, err := p.testList()
		if err != nil {
			return nil, err
		}
		// Chained assignment a = b = expr is not supported; the second
		// '=' would fail to parse as an expression, which is fine.
		return &ast.AssignStmt{BaseStmt: base, Target: expr, Op: "=", Value: value}, nil
	}

	return &ast.ExprStmt{BaseStmt: base, Expression: expr}, nil
}

// checkTarget validates that e can appear on the left of an assignment.
func checkTarget(e ast.Expr, allowTuple bool) error {
	switch t := e.(type) {
	case *ast.Ident, *ast.AttrExpr, *ast.IndexExpr:
		return nil
	case *ast.TupleLit:
		if !allowTuple {
			return fmt.Errorf("cannot use tuple as augmented assignment target")
		}
		for _, el := range t.Elems {
			if err := checkTarget(el, false); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("cannot assign to this expression")
}

// suite parses `: simple_line` or `: NEWLINE INDENT stmt+ DEDENT`.
func (p *Parser) suite() ([]ast.Statement, error) {
	if _, err := p.expect(scanner.COLON, "':'"); err != nil {
		return nil, err
	}
	if !p.accept(scanner.NEWLINE) {
		// Single-line body: if x: y = 1
		return p.statementLine()
	}
	if _, err := p.expect(scanner.INDENT, "indented block"); err != nil {
		return nil, err
	}
	var body []ast.Statement
	for !p.at(scanner.DEDENT) && !p.at(scanner.EOF) {
		if p.accept(scanner.NEWLINE) {
			continue
		}
		stmts, err := p.statementLine()
		if err != nil {
			return nil, err
		}
		body = append(body, stmts...)
	}
	if _, err := p.expect(scanner.DEDENT, "dedent"); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, p.errorf("expected an indented block")
	}
	return body, nil
}

func (p *Parser) ifStmt() (ast.Statement, error) {
	base := p.base()
	p.next() // if
	cond, err := p.test()
	if err != nil {
		return nil, err
	}
	body, err := p.suite()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{BaseStmt: base, Condition: cond, Body: body}
	for p.at(scanner.KwElif) {
		p.next()
		c, err := p.test()
		if err != nil {
			return nil, err
		}
		b, err := p.suite()
		if err != nil {
			return nil, err
		}
		stmt.Elifs = append(stmt.Elifs, ast.ElifClause{Condition: c, Body: b})
	}
	if p.accept(scanner.KwElse) {
		b, err := p.suite()
		if err != nil {
			return nil, err
		}
		stmt.Else = b
	}
	return stmt, nil
}

func (p *Parser) whileStmt() (ast.Statement, error) {
	base := p.base()
	p.next() // while
	cond, err := p.test()
	if err != nil {
		return nil, err
	}
	body, err := p.suite()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{BaseStmt: base, Condition: cond, Body: body}, nil
}

func (p *Parser) forStmt() (ast.Statement, error) {
	base := p.base()
	p.next() // for
	target, err := p.targetList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.KwIn, "'in'"); err != nil {
		return nil, err
	}
	iter, err := p.testList()
	if err != nil {
		return nil, err
	}
	body, err := p.suite()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{BaseStmt: base, Target: target, Iter: iter, Body: body}, nil
}

// targetList parses one or more comma separated names for a for loop or
// comprehension clause.
func (p *Parser) targetList() (ast.Expr, error) {
	var elems []ast.Expr
	for {
		name, err := p.expect(scanner.NAME, "loop variable")
		if err != nil {
			return nil, err
		}
		elems = append(elems, &ast.Ident{Name: name.Lexeme, Line: name.Line, Col: name.Col})
		if !p.accept(scanner.COMMA) {
			break
		}
	}
	if len(elems) == 1 {
		return elems[0], nil
	}
	return &ast.TupleLit{Elems: elems}, nil
}

func (p *Parser) tryStmt() (ast.Statement, error) {
	base := p.base()
	p.next() // try
	body, err := p.suite()
	if err != nil {
		return nil, err
	}
	stmt := &ast.TryStmt{BaseStmt: base, Body: body}
	for p.at(scanner.KwExcept) {
		p.next()
		var clause ast.ExceptClause
		if !p.at(scanner.COLON) {
			typ, err := p.test()
			if err != nil {
				return nil, err
			}
			clause.Type = typ
			if p.accept(scanner.KwAs) {
				name, err := p.expect(scanner.NAME, "name")
				if err != nil {
					return nil, err
				}
				clause.Name = name.Lexeme
			}
		}
		b, err := p.suite()
		if err != nil {
			return nil, err
		}
		clause.Body = b
		stmt.Handlers = append(stmt.Handlers, clause)
	}
	if p.accept(scanner.KwFinally) {
		b, err := p.suite()
		if err != nil {
			return nil, err
		}
		stmt.Finally = b
	}
	if len(stmt.Handlers) == 0 && stmt.Finally == nil {
		return nil, p.errorf("expected 'except' or 'finally'")
	}
	return stmt, nil
}

func (p *Parser) defStmt() (ast.Statement, error) {
	base := p.base()
	p.next() // def
	name, err := p.expect(scanner.NAME, "function name")
	if err != nil {
		return nil, err
	}
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	body, err := p.suite()
	if err != nil {
		return nil, err
	}
	return &ast.DefStmt{BaseStmt: base, Name: name.Lexeme, Params: params, Body: body}, nil
}

func (p *Parser) paramList() ([]ast.Param, error) {
	if _, err := p.expect(scanner.LPAREN, "'('"); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.at(scanner.RPAREN) {
		name, err := p.expect(scanner.NAME, "parameter name")
		if err != nil {
			return nil, err
		}
		param := ast.Param{Name: name.Lexeme}
		if p.accept(scanner.ASSIGN) {
			def, err := p.test()
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params = append(params, param)
		if !p.accept(scanner.COMMA) {
			break
		}
	}
	if _, err := p.expect(scanner.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) classStmt() (ast.Statement, error) {
	base := p.base()
	p.next() // class
	name, err := p.expect(scanner.NAME, "class name")
	if err != nil {
		return nil, err
	}
	stmt := &ast.ClassStmt{BaseStmt: base, Name: name.Lexeme}
	if p.accept(scanner.LPAREN) {
		for !p.at(scanner.RPAREN) {
			b, err := p.test()
			if err != nil {
				return nil, err
			}
			stmt.Bases = append(stmt.Bases, b)
			if !p.accept(scanner.COMMA) {
				break
			}
		}
		if _, err := p.expect(scanner.RPAREN, "')'"); err != nil {
			return nil, err
		}
	}
	body, err := p.suite()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

// ---- Expressions ----

// testList parses test (',' test)*, producing a TupleLit for 2+.
func (p *Parser) testList() (ast.Expr, error) {
	first, err := p.test()
	if err != nil {
		return nil, err
	}
	if !p.at(scanner.COMMA) {
		return first, nil
	}
	elems := []ast.Expr{first}
	for p.accept(scanner.COMMA) {
		if p.exprEnd() {
			break // trailing comma
		}
		e, err := p.test()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	return &ast.TupleLit{Elems: elems}, nil
}

// exprEnd reports whether the current token cannot start an expression.
func (p *Parser) exprEnd() bool {
	switch p.cur().Type {
	case scanner.NEWLINE, scanner.SEMI, scanner.EOF, scanner.RPAREN,
		scanner.RBRACKET, scanner.RBRACE, scanner.COLON, scanner.ASSIGN,
		scanner.PLUSEQ, scanner.MINUSEQ, scanner.STAREQ, scanner.SLASHEQ:
		return true
	}
	return false
}

func (p *Parser) test() (ast.Expr, error) {
	if p.at(scanner.KwLambda) {
		return p.lambda()
	}
	expr, err := p.orTest()
	if err != nil {
		return nil, err
	}
	if p.at(scanner.KwIf) {
		p.next()
		cond, err := p.orTest()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(scanner.KwElse, "'else'"); err != nil {
			return nil, err
		}
		els, err := p.test()
		if err != nil {
			return nil, err
		}
		return &ast.CondExpr{Cond: cond, Then: expr, Else: els}, nil
	}
	return expr, nil
}

func (p *Parser) lambda() (ast.Expr, error) {
	p.next() // lambda
	var params []ast.Param
	for p.at(scanner.NAME) {
		name := p.next()
		param := ast.Param{Name: name.Lexeme}
		if p.accept(scanner.ASSIGN) {
			def, err := p.test()
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params = append(params, param)
		if !p.accept(scanner.COMMA) {
			break
		}
	}
	if _, err := p.expect(scanner.COLON, "':'"); err != nil {
		return nil, err
	}
	body, err := p.test()
	if err != nil {
		return nil, err
	}
	return &ast.LambdaExpr{Params: params, Body: body}, nil
}

func (p *Parser) orTest() (ast.Expr, error) {
	left, err := p.andTest()
	if err != nil {
		return nil, err
	}
	for p.at(scanner.KwOr) {
		p.next()
		right, err := p.andTest()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: "or", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) andTest() (ast.Expr, error) {
	left, err := p.notTest()
	if err != nil {
		return nil, err
	}
	for p.at(scanner.KwAnd) {
		p.next()
		right, err := p.notTest()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: "and", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) notTest() (ast.Expr, error) {
	if p.at(scanner.KwNot) {
		p.next()
		operand, err := p.notTest()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: "not", Operand: operand}, nil
	}
	return p.comparison()
}

func (p *Parser) comparison() (ast.Expr, error) {
	left, err := p.arith()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.cur().Type {
		case scanner.EQ:
			op = "=="
		case scanner.NEQ:
			op = "!="
		case scanner.LT:
			op = "<"
		case scanner.LTE:
			op = "<="
		case scanner.GT:
			op = ">"
		case scanner.GTE:
			op = ">="
		case scanner.KwIn:
			op = "in"
		case scanner.KwNot:
			// "not in"
			if p.toks[p.pos+1].Type != scanner.KwIn {
				return left, nil
			}
			p.next()
			op = "not in"
		default:
			return left, nil
		}
		p.next()
		right, err := p.arith()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) arith() (ast.Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.at(scanner.PLUS) || p.at(scanner.MINUS) {
		op := p.next().Lexeme
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) term() (ast.Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.at(scanner.STAR) || p.at(scanner.SLASH) || p.at(scanner.SLASHSLASH) || p.at(scanner.PERCENT) {
		op := p.next().Lexeme
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.at(scanner.MINUS) || p.at(scanner.PLUS) {
		op := p.next().Lexeme
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, Operand: operand}, nil
	}
	return p.power()
}

func (p *Parser) power() (ast.Expr, error) {
	base, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if p.at(scanner.STARSTAR) {
		p.next()
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: "**", Left: base, Right: exp}, nil
	}
	return base, nil
}

func (p *Parser) postfix() (ast.Expr, error) {
	expr, err := p.atom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case scanner.LPAREN:
			p.next()
			call := &ast.CallExpr{Func: expr}
			for !p.at(scanner.RPAREN) {
				arg, err := p.test()
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if !p.accept(scanner.COMMA) {
					break
				}
			}
			if _, err := p.expect(scanner.RPAREN, "')'"); err != nil {
				return nil, err
			}
			expr = call
		case scanner.DOT:
			p.next()
			name, err := p.expect(scanner.NAME, "attribute name")
			if err != nil {
				return nil, err
			}
			expr = &ast.AttrExpr{Object: expr, Name: name.Lexeme}
		case scanner.LBRACKET:
			p.next()
			index, err := p.test()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(scanner.RBRACKET, "']'"); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Object: expr, Index: index}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) atom() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case scanner.NAME:
		p.next()
		return &ast.Ident{Name: tok.Lexeme, Line: tok.Line, Col: tok.Col}, nil
	case scanner.INT:
		p.next()
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid integer literal %q", tok.Lexeme)
		}
		return &ast.IntLit{Value: v}, nil
	case scanner.FLOAT:
		p.next()
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorf("invalid float literal %q", tok.Lexeme)
		}
		return &ast.FloatLit{Value: v}, nil
	case scanner.STRING:
		p.next()
		return &ast.StringLit{Value: tok.Lexeme}, nil
	case scanner.KwTrue:
		p.next()
		return &ast.BoolLit{Value: true}, nil
	case scanner.KwFalse:
		p.next()
		return &ast.BoolLit{Value: false}, nil
	case scanner.KwNone:
		p.next()
		return &ast.NoneLit{}, nil
	case scanner.LPAREN:
		return p.parenAtom()
	case scanner.LBRACKET:
		return p.listAtom()
	case scanner.LBRACE:
		return p.braceAtom()
	case scanner.KwLambda:
		return p.lambda()
	}
	return nil, p.errorf("unexpected %q", p.describe(tok))
}

// parenAtom parses (expr), (a, b) tuples, () and generator expressions.
func (p *Parser) parenAtom() (ast.Expr, error) {
	p.next() // (
	if p.accept(scanner.RPAREN) {
		return &ast.TupleLit{}, nil
	}
	first, err := p.test()
	if err != nil {
		return nil, err
	}
	if p.at(scanner.KwFor) {
		clauses, err := p.compClauses()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(scanner.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return &ast.CompExpr{Kind: ast.GenExp, Elem: first, Clauses: clauses}, nil
	}
	if p.at(scanner.COMMA) {
		elems := []ast.Expr{first}
		for p.accept(scanner.COMMA) {
			if p.at(scanner.RPAREN) {
				break
			}
			e, err := p.test()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		if _, err := p.expect(scanner.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return &ast.TupleLit{Elems: elems}, nil
	}
	if _, err := p.expect(scanner.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return first, nil
}

// listAtom parses [a, b], [] and list comprehensions.
func (p *Parser) listAtom() (ast.Expr, error) {
	p.next() // [
	lit := &ast.ListLit{}
	if p.accept(scanner.RBRACKET) {
		return lit, nil
	}
	first, err := p.test()
	if err != nil {
		return nil, err
	}
	if p.at(scanner.KwFor) {
		clauses, err := p.compClauses()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(scanner.RBRACKET, "']'"); err != nil {
			return nil, err
		}
		return &ast.CompExpr{Kind: ast.ListComp, Elem: first, Clauses: clauses}, nil
	}
	lit.Elems = append(lit.Elems, first)
	for p.accept(scanner.COMMA) {
		if p.at(scanner.RBRACKET) {
			break
		}
		e, err := p.test()
		if err != nil {
			return nil, err
		}
		lit.Elems = append(lit.Elems, e)
	}
	if _, err := p.expect(scanner.RBRACKET, "']'"); err != nil {
		return nil, err
	}
	return lit, nil
}

// braceAtom parses {k: v}, {}, dict comprehensions, and set displays
// (set displays are represented as set comprehensions / list literals).
func (p *Parser) braceAtom() (ast.Expr, error) {
	p.next() // {
	if p.accept(scanner.RBRACE) {
		return &ast.DictLit{}, nil
	}
	first, err := p.test()
	if err != nil {
		return nil, err
	}
	if p.accept(scanner.COLON) {
		value, err := p.test()
		if err != nil {
			return nil, err
		}
		if p.at(scanner.KwFor) {
			clauses, err := p.compClauses()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(scanner.RBRACE, "'}'"); err != nil {
				return nil, err
			}
			return &ast.CompExpr{Kind: ast.DictComp, Elem: first, Value: value, Clauses: clauses}, nil
		}
		dict := &ast.DictLit{Keys: []ast.Expr{first}, Values: []ast.Expr{value}}
		for p.accept(scanner.COMMA) {
			if p.at(scanner.RBRACE) {
				break
			}
			k, err := p.test()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(scanner.COLON, "':'"); err != nil {
				return nil, err
			}
			v, err := p.test()
			if err != nil {
				return nil, err
			}
			dict.Keys = append(dict.Keys, k)
			dict.Values = append(dict.Values, v)
		}
		if _, err := p.expect(scanner.RBRACE, "'}'"); err != nil {
			return nil, err
		}
		return dict, nil
	}
	if p.at(scanner.KwFor) {
		clauses, err := p.compClauses()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(scanner.RBRACE, "'}'"); err != nil {
			return nil, err
		}
		return &ast.CompExpr{Kind: ast.SetComp, Elem: first, Clauses: clauses}, nil
	}
	// Set display; element order is preserved.
	lit := &ast.ListLit{Elems: []ast.Expr{first}}
	for p.accept(scanner.COMMA) {
		if p.at(scanner.RBRACE) {
			break
		}
		e, err := p.test()
		if err != nil {
			return nil, err
		}
		lit.Elems = append(lit.Elems, e)
	}
	if _, err := p.expect(scanner.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return lit, nil
}

// compClauses parses one or more `for x in iter [if cond]*` clauses.
func (p *Parser) compClauses() ([]ast.CompClause, error) {
	var clauses []ast.CompClause
	for p.at(scanner.KwFor) {
		p.next()
		target, err := p.targetList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(scanner.KwIn, "'in'"); err != nil {
			return nil, err
		}
		iter, err := p.orTest()
		if err != nil {
			return nil, err
		}
		clause := ast.CompClause{Target: target, Iter: iter}
		for p.at(scanner.KwIf) {
			p.next()
			cond, err := p.orTest()
			if err != nil {
				return nil, err
			}
			clause.Ifs = append(clause.Ifs, cond)
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}
