// Package scanner tokenizes Pyrite source. Pyrite uses Python-style
// lexical structure: logical lines terminated by NEWLINE, block structure
// expressed with INDENT/DEDENT tokens, and implicit line joining inside
// parentheses, brackets, and braces.
package scanner

import (
	"fmt"
	"strings"
)

// TokenType identifies the kind of a token.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	// Layout
	NEWLINE
	INDENT
	DEDENT

	// Literals and identifiers
	NAME
	INT
	FLOAT
	STRING

	// Punctuation
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	LBRACE   // {
	RBRACE   // }
	COLON    // :
	COMMA    // ,
	DOT      // .
	SEMI     // ;

	// Operators
	PLUS       // +
	MINUS      // -
	STAR       // *
	STARSTAR   // **
	SLASH      // /
	SLASHSLASH // //
	PERCENT    // %
	ASSIGN     // =
	PLUSEQ     // +=
	MINUSEQ    // -=
	STAREQ     // *=
	SLASHEQ    // /=
	EQ         // ==
	NEQ        // !=
	LT         // <
	LTE        // <=
	GT         // >
	GTE        // >=

	// Keywords
	KwAnd
	KwOr
	KwNot
	KwIf
	KwElif
	KwElse
	KwWhile
	KwFor
	KwIn
	KwDef
	KwLambda
	KwClass
	KwReturn
	KwPass
	KwBreak
	KwContinue
	KwTry
	KwExcept
	KwFinally
	KwImport
	KwFrom
	KwAs
	KwTrue
	KwFalse
	KwNone
)

var keywords = map[string]TokenType{
	"and":      KwAnd,
	"or":       KwOr,
	"not":      KwNot,
	"if":       KwIf,
	"elif":     KwElif,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"in":       KwIn,
	"def":      KwDef,
	"lambda":   KwLambda,
	"class":    KwClass,
	"return":   KwReturn,
	"pass":     KwPass,
	"break":    KwBreak,
	"continue": KwContinue,
	"try":      KwTry,
	"except":   KwExcept,
	"finally":  KwFinally,
	"import":   KwImport,
	"from":     KwFrom,
	"as":       KwAs,
	"True":     KwTrue,
	"False":    KwFalse,
	"None":     KwNone,
}

// Token is a single lexical token with its source position.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int // 1-based
	Col    int // 1-based
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s", t.Line, t.Col, t.Lexeme)
}

// Error is a positioned scan error.
type Error struct {
	File string
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Msg)
}

// Scanner tokenizes one source buffer. Indentation state is tracked with
// a stack of column widths; a tab counts as 8 columns.
type Scanner struct {
	file    string
	src     string
	pos     int
	line    int
	col     int
	depth   int   // open bracket depth; newlines are suppressed inside brackets
	indents []int // indentation stack, always starts with 0
	tokens  []Token
}

// New creates a Scanner for the given source. The file name is used in
// error messages only.
func New(file, src string) *Scanner {
	return &Scanner{
		file:    file,
		src:     src,
		line:    1,
		col:     1,
		indents: []int{0},
	}
}

// Scan tokenizes the whole buffer. The returned slice always ends with
// NEWLINE (if any statement was seen), pending DEDENTs, and EOF.
func (s *Scanner) Scan() ([]Token, error) {
	atLineStart := true
	for {
		if atLineStart && s.depth == 0 {
			blank, err := s.scanIndent()
			if err != nil {
				return nil, err
			}
			if blank {
				continue
			}
			atLineStart = false
		}

		ch, ok := s.peek()
		if !ok {
			break
		}

		switch {
		case ch == '\n':
			s.advance()
			if s.depth == 0 {
				s.emit(NEWLINE, "\n")
				atLineStart = true
			}
		case ch == ' ' || ch == '\t' || ch == '\r':
			s.advance()
		case ch == '#':
			s.skipComment()
		case ch == '\\' && s.peekAt(1) == '\n':
			// Explicit line continuation
			s.advance()
			s.advance()
		case isNameStart(ch):
			s.scanName()
		case isDigit(ch):
			if err := s.scanNumber(); err != nil {
				return nil, err
			}
		case ch == '\'' || ch == '"':
			if err := s.scanString(ch); err != nil {
				return nil, err
			}
		default:
			if err := s.scanOperator(ch); err != nil {
				return nil, err
			}
		}
	}

	// Close the final logical line and any open blocks.
	if n := len(s.tokens); n > 0 && s.tokens[n-1].Type != NEWLINE {
		s.emit(NEWLINE, "\n")
	}
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.emit(DEDENT, "")
	}
	s.emit(EOF, "")
	return s.tokens, nil
}

// scanIndent measures leading whitespace at the start of a logical line
// and emits INDENT/DEDENT tokens. Returns true if the line is blank or
// comment-only (and was consumed).
func (s *Scanner) scanIndent() (blank bool, err error) {
	width := 0
	for {
		ch, ok := s.peek()
		if !ok {
			return false, nil
		}
		if ch == ' ' {
			width++
			s.advance()
		} else if ch == '\t' {
			width += 8 - width%8
			s.advance()
		} else {
			break
		}
	}

	ch, ok := s.peek()
	if !ok {
		return false, nil
	}
	if ch == '\n' {
		s.advance()
		return true, nil
	}
	if ch == '#' {
		s.skipComment()
		return true, nil
	}
	if ch == '\r' {
		s.advance()
		return true, nil
	}

	top := s.indents[len(s.indents)-1]
	switch {
	case width > top:
		s.indents = append(s.indents, width)
		s.emit(INDENT, "")
	case width < top:
		for len(s.indents) > 1 && s.indents[len(s.indents)-1] > width {
			s.indents = s.indents[:len(s.indents)-1]
			s.emit(DEDENT, "")
		}
		if s.indents[len(s.indents)-1] != width {
			return false, s.errorf("unindent does not match any outer indentation level")
		}
	}
	return false, nil
}

func (s *Scanner) scanName() {
	line, col := s.line, s.col
	start := s.pos
	for {
		ch, ok := s.peek()
		if !ok || !isNameCont(ch) {
			break
		}
		s.advance()
	}
	word := s.src[start:s.pos]
	if kw, ok := keywords[word]; ok {
		s.tokens = append(s.tokens, Token{Type: kw, Lexeme: word, Line: line, Col: col})
		return
	}
	s.tokens = append(s.tokens, Token{Type: NAME, Lexeme: word, Line: line, Col: col})
}

func (s *Scanner) scanNumber() error {
	line, col := s.line, s.col
	start := s.pos
	isFloat := false
	for {
		ch, ok := s.peek()
		if !ok {
			break
		}
		if isDigit(ch) || ch == '_' {
			s.advance()
		} else if ch == '.' && !isFloat && isDigit(s.peekAt(1)) {
			isFloat = true
			s.advance()
		} else {
			break
		}
	}
	typ := INT
	if isFloat {
		typ = FLOAT
	}
	lexeme := strings.ReplaceAll(s.src[start:s.pos], "_", "")
	s.tokens = append(s.tokens, Token{Type: typ, Lexeme: lexeme, Line: line, Col: col})
	return nil
}

// scanString handles single- and double-quoted strings with the usual
// backslash escapes. The stored lexeme is the decoded value.
func (s *Scanner) scanString(quote byte) error {
	line, col := s.line, s.col
	s.advance() // opening quote
	var b strings.Builder
	for {
		ch, ok := s.peek()
		if !ok || ch == '\n' {
			return &Error{File: s.file, Line: line, Col: col, Msg: "unterminated string literal"}
		}
		s.advance()
		if ch == quote {
			s.tokens = append(s.tokens, Token{Type: STRING, Lexeme: b.String(), Line: line, Col: col})
			return nil
		}
		if ch == '\\' {
			esc, ok := s.peek()
			if !ok {
				return &Error{File: s.file, Line: line, Col: col, Msg: "unterminated string literal"}
			}
			s.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			case '\'':
				b.WriteByte('\'')
			case '"':
				b.WriteByte('"')
			case '0':
				b.WriteByte(0)
			case '\n':
				// escaped newline inside a string: joined
			default:
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
			continue
		}
		b.WriteByte(ch)
	}
}

func (s *Scanner) scanOperator(ch byte) error {
	line, col := s.line, s.col
	two := func(t TokenType, lex string) {
		s.advance()
		s.advance()
		s.tokens = append(s.tokens, Token{Type: t, Lexeme: lex, Line: line, Col: col})
	}
	one := func(t TokenType, lex string) {
		s.advance()
		s.tokens = append(s.tokens, Token{Type: t, Lexeme: lex, Line: line, Col: col})
	}

	next := s.peekAt(1)
	switch ch {
	case '(':
		s.depth++
		one(LPAREN, "(")
	case ')':
		s.depth--
		one(RPAREN, ")")
	case '[':
		s.depth++
		one(LBRACKET, "[")
	case ']':
		s.depth--
		one(RBRACKET, "]")
	case '{':
		s.depth++
		one(LBRACE, "{")
	case '}':
		s.depth--
		one(RBRACE, "}")
	case ':':
		one(COLON, ":")
	case ',':
		one(COMMA, ",")
	case '.':
		one(DOT, ".")
	case ';':
		one(SEMI, ";")
	case '+':
		if next == '=' {
			two(PLUSEQ, "+=")
		} else {
			one(PLUS, "+")
		}
	case '-':
		if next == '=' {
			two(MINUSEQ, "-=")
		} else {
			one(MINUS, "-")
		}
	case '*':
		if next == '=' {
			two(STAREQ, "*=")
		} else if next == '*' {
			two(STARSTAR, "**")
		} else {
			one(STAR, "*")
		}
	case '/':
		if next == '=' {
			two(SLASHEQ, "/=")
		} else if next == '/' {
			two(SLASHSLASH, "//")
		} else {
			one(SLASH, "/")
		}
	case '%':
		one(PERCENT, "%")
	case '=':
		if next == '=' {
			two(EQ, "==")
		} else {
			one(ASSIGN, "=")
		}
	case '!':
		if next == '=' {
			two(NEQ, "!=")
		} else {
			return s.errorf("unexpected character %q", ch)
		}
	case '<':
		if next == '=' {
			two(LTE, "<=")
		} else {
			one(LT, "<")
		}
	case '>':
		if next == '=' {
			two(GTE, ">=")
		} else {
			one(GT, ">")
		}
	default:
		return s.errorf("unexpected character %q", ch)
	}
	return nil
}

func (s *Scanner) skipComment() {
	for {
		ch, ok := s.peek()
		if !ok || ch == '\n' {
			return
		}
		s.advance()
	}
}

func (s *Scanner) peek() (byte, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos], true
}

// peekAt returns the byte at offset n from the current position, or 0.
func (s *Scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

func (s *Scanner) advance() {
	if s.pos < len(s.src) {
		if s.src[s.pos] == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
		s.pos++
	}
}

func (s *Scanner) emit(t TokenType, lexeme string) {
	s.tokens = append(s.tokens, Token{Type: t, Lexeme: lexeme, Line: s.line, Col: s.col})
}

func (s *Scanner) errorf(format string, args ...interface{}) error {
	return &Error{File: s.file, Line: s.line, Col: s.col, Msg: fmt.Sprintf(format, args...)}
}

func isNameStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNameCont(ch byte) bool {
	return isNameStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
