package parser

import (
	"fmt"
	"strings"

	"github.com/pinslang/pins/errors"
	"github.com/pinslang/pins/internal/token"
)

// tokenError records a parse error located at the given token.
func (p *Parser) tokenError(code errors.ErrorCode, t token.Token, format string, args ...any) {
	p.errors.Add(&errors.CompileError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		Filename:   p.l.Filename(),
		Line:       t.StartPosition.LineNumber(),
		Column:     t.StartPosition.ColumnNumber(),
		EndColumn:  t.EndPosition.ColumnNumber(),
		SourceLine: p.l.GetLineText(t),
	})
}

// lexError records an error reported by the lexer.
func (p *Parser) lexError(t token.Token, err error) {
	code := errors.E1005
	if strings.HasPrefix(err.Error(), "unterminated") {
		code = errors.E1002
	}
	p.tokenError(code, t, "%s", err)
}

// peekError raises an error if the next token is not the expected type.
func (p *Parser) peekError(context string, expected token.Type, got token.Token) {
	code := errors.E1001
	switch {
	case got.Type == token.EOF:
		code = errors.E1007
	case expected == token.IDENT:
		code = errors.E1006
	}
	p.tokenError(code, got, "unexpected %s while parsing %s (expected %s)",
		tokenDescription(got), context, tokenTypeDescription(expected))
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return fmt.Sprintf("identifier %q", t.Literal)
	case token.INT:
		return fmt.Sprintf("integer %s", t.Literal)
	case token.STRING:
		return fmt.Sprintf("string '%s'", t.Literal)
	}
	return fmt.Sprintf("%q", t.Literal)
}

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.INT:
		return "integer"
	case token.EOF:
		return "end of file"
	}
	return fmt.Sprintf("%q", strings.ToLower(string(t)))
}
