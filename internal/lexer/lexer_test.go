package lexer

import (
	"testing"

	"github.com/pinslang/pins/internal/token"
	"github.com/stretchr/testify/require"
)

type expectedToken struct {
	expectedType    token.Type
	expectedLiteral string
}

func checkTokens(t *testing.T, input string, tests []expectedToken) {
	t.Helper()
	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		require.Nil(t, err)
		require.Equal(t, tt.expectedType, tok.Type, "tests[%d] - tokentype wrong", i)
		require.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d] - literal wrong", i)
	}
}

func TestOperators(t *testing.T) {
	checkTokens(t, "+-*/%&|!==!=<=>=<>=()[]{}:;.,", []expectedToken{
		{token.PLUS, "+"},
		{token.MINUS, "-"},
		{token.ASTERISK, "*"},
		{token.SLASH, "/"},
		{token.MOD, "%"},
		{token.AMPERSAND, "&"},
		{token.PIPE, "|"},
		{token.NOT_EQ, "!="},
		{token.ASSIGN, "="},
		{token.NOT_EQ, "!="},
		{token.LT_EQUALS, "<="},
		{token.GT_EQUALS, ">="},
		{token.LT, "<"},
		{token.GT_EQUALS, ">="},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACKET, "["},
		{token.RBRACKET, "]"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.COLON, ":"},
		{token.SEMICOLON, ";"},
		{token.PERIOD, "."},
		{token.COMMA, ","},
		{token.EOF, ""},
	})
}

func TestDefinition(t *testing.T) {
	input := `# the classic
fun fact(n: integer): integer = { if n <= 1 then 1 else n * fact(n - 1) }`
	checkTokens(t, input, []expectedToken{
		{token.FUN, "fun"},
		{token.IDENT, "fact"},
		{token.LPAREN, "("},
		{token.IDENT, "n"},
		{token.COLON, ":"},
		{token.INTEGER, "integer"},
		{token.RPAREN, ")"},
		{token.COLON, ":"},
		{token.INTEGER, "integer"},
		{token.ASSIGN, "="},
		{token.LBRACE, "{"},
		{token.IF, "if"},
		{token.IDENT, "n"},
		{token.LT_EQUALS, "<="},
		{token.INT, "1"},
		{token.THEN, "then"},
		{token.INT, "1"},
		{token.ELSE, "else"},
		{token.IDENT, "n"},
		{token.ASTERISK, "*"},
		{token.IDENT, "fact"},
		{token.LPAREN, "("},
		{token.IDENT, "n"},
		{token.MINUS, "-"},
		{token.INT, "1"},
		{token.RPAREN, ")"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	})
}

func TestKeywordsAndAtoms(t *testing.T) {
	checkTokens(t, "typ var arr logical string where while for true false x_1", []expectedToken{
		{token.TYP, "typ"},
		{token.VAR, "var"},
		{token.ARR, "arr"},
		{token.LOGICAL, "logical"},
		{token.STR, "string"},
		{token.WHERE, "where"},
		{token.WHILE, "while"},
		{token.FOR, "for"},
		{token.TRUE, "true"},
		{token.FALSE, "false"},
		{token.IDENT, "x_1"},
		{token.EOF, ""},
	})
}

func TestString(t *testing.T) {
	checkTokens(t, `'hello' 'it''s' ''`, []expectedToken{
		{token.STRING, "hello"},
		{token.STRING, "it's"},
		{token.STRING, ""},
		{token.EOF, ""},
	})
}

func TestUnterminatedString(t *testing.T) {
	l := New("'abc")
	tok, err := l.Next()
	require.NotNil(t, err)
	require.Equal(t, "unterminated string literal", err.Error())
	require.Equal(t, token.Type(token.ILLEGAL), tok.Type)
}

func TestInvalidCharacter(t *testing.T) {
	l := New("x @")
	_, err := l.Next()
	require.Nil(t, err)
	tok, err := l.Next()
	require.NotNil(t, err)
	require.Equal(t, token.Type(token.ILLEGAL), tok.Type)
}

func TestPositions(t *testing.T) {
	l := New("var x : integer;\nvar yy : string")
	l.SetFilename("a.pins")
	var last token.Token
	for {
		tok, err := l.Next()
		require.Nil(t, err)
		if tok.Type == token.EOF {
			break
		}
		last = tok
		if tok.Literal == "yy" {
			require.Equal(t, 2, tok.StartPosition.LineNumber())
			require.Equal(t, 5, tok.StartPosition.ColumnNumber())
			require.Equal(t, "a.pins", tok.StartPosition.File)
			require.Equal(t, "var yy : string", l.GetLineText(tok))
		}
	}
	require.Equal(t, "string", last.Literal)
}

func TestSaveRestore(t *testing.T) {
	l := New("a b")
	state := l.SaveState()
	tok, _ := l.Next()
	require.Equal(t, "a", tok.Literal)
	l.RestoreState(state)
	tok, _ = l.Next()
	require.Equal(t, "a", tok.Literal)
}
