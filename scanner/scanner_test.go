package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestSimpleStatement(t *testing.T) {
	toks, err := New("test.pyr", "x = 1\n").Scan()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{NAME, ASSIGN, INT, NEWLINE, EOF}, types(toks))
}

func TestIndentDedent(t *testing.T) {
	src := "if x:\n    y = 1\nz = 2\n"
	toks, err := New("test.pyr", src).Scan()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{
		KwIf, NAME, COLON, NEWLINE,
		INDENT, NAME, ASSIGN, INT, NEWLINE, DEDENT,
		NAME, ASSIGN, INT, NEWLINE, EOF,
	}, types(toks))
}

func TestNestedDedents(t *testing.T) {
	src := "def f():\n    if x:\n        pass\n"
	toks, err := New("test.pyr", src).Scan()
	require.NoError(t, err)
	// Both levels close at EOF.
	n := len(toks)
	assert.Equal(t, EOF, toks[n-1].Type)
	assert.Equal(t, DEDENT, toks[n-2].Type)
	assert.Equal(t, DEDENT, toks[n-3].Type)
}

func TestBracketsSuppressNewline(t *testing.T) {
	src := "x = [1,\n     2]\n"
	toks, err := New("test.pyr", src).Scan()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{
		NAME, ASSIGN, LBRACKET, INT, COMMA, INT, RBRACKET, NEWLINE, EOF,
	}, types(toks))
}

func TestBlankLinesAndComments(t *testing.T) {
	src := "# header\nx = 1\n\n   # indented comment\ny = 2\n"
	toks, err := New("test.pyr", src).Scan()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{
		NAME, ASSIGN, INT, NEWLINE,
		NAME, ASSIGN, INT, NEWLINE, EOF,
	}, types(toks))
}

func TestStringEscapes(t *testing.T) {
	toks, err := New("test.pyr", `s = 'a\nb'`+"\n").Scan()
	require.NoError(t, err)
	require.Equal(t, STRING, toks[2].Type)
	assert.Equal(t, "a\nb", toks[2].Lexeme)
}

func TestDoubleQuotedString(t *testing.T) {
	toks, err := New("test.pyr", "s = \"hi\"\n").Scan()
	require.NoError(t, err)
	require.Equal(t, STRING, toks[2].Type)
	assert.Equal(t, "hi", toks[2].Lexeme)
}

func TestNumbers(t *testing.T) {
	toks, err := New("test.pyr", "a = 10\nb = 2.5\nc = 1_000\n").Scan()
	require.NoError(t, err)
	assert.Equal(t, INT, toks[2].Type)
	assert.Equal(t, "10", toks[2].Lexeme)
	assert.Equal(t, FLOAT, toks[6].Type)
	assert.Equal(t, "2.5", toks[6].Lexeme)
	assert.Equal(t, "1000", toks[10].Lexeme)
}

func TestOperators(t *testing.T) {
	toks, err := New("test.pyr", "a ** b // c != d\n").Scan()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{NAME, STARSTAR, NAME, SLASHSLASH, NAME, NEQ, NAME, NEWLINE, EOF}, types(toks))
}

func TestKeywords(t *testing.T) {
	toks, err := New("test.pyr", "not True and None\n").Scan()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{KwNot, KwTrue, KwAnd, KwNone, NEWLINE, EOF}, types(toks))
}

func TestPositions(t *testing.T) {
	toks, err := New("test.pyr", "x = 1\ny = 2\n").Scan()
	require.NoError(t, err)
	// y is the first token of line 2.
	assert.Equal(t, 2, toks[4].Line)
	assert.Equal(t, 1, toks[4].Col)
}

func TestUnterminatedString(t *testing.T) {
	_, err := New("test.pyr", "s = 'oops\n").Scan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test.pyr:1")
}

func TestInconsistentDedent(t *testing.T) {
	src := "if x:\n        pass\n    pass\n"
	_, err := New("test.pyr", src).Scan()
	require.Error(t, err)
}
