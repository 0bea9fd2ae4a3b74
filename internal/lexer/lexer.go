// Package lexer turns PINS source text into a stream of tokens.
package lexer

import (
	"fmt"
	"strings"

	"github.com/pinslang/pins/internal/token"
)

// Lexer holds our object-state.
type Lexer struct {
	// The input source code
	input string

	// The current character position
	position int

	// The next character position
	readPosition int

	// The current character
	ch byte

	// 0-indexed line and the byte offset at which it starts
	line      int
	lineStart int

	// The current token start position
	tokenStartPosition token.Position

	// The file name
	file string
}

// State captures the lexer position so it can be restored after lookahead.
type State struct {
	position     int
	readPosition int
	ch           byte
	line         int
	lineStart    int
}

// New creates a Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// SetFilename sets the name reported in token positions.
func (l *Lexer) SetFilename(file string) {
	l.file = file
}

// Filename returns the name set by SetFilename.
func (l *Lexer) Filename() string {
	return l.file
}

// SaveState returns the current position of the lexer.
func (l *Lexer) SaveState() State {
	return State{
		position:     l.position,
		readPosition: l.readPosition,
		ch:           l.ch,
		line:         l.line,
		lineStart:    l.lineStart,
	}
}

// RestoreState rewinds the lexer to a previously saved state.
func (l *Lexer) RestoreState(s State) {
	l.position = s.position
	l.readPosition = s.readPosition
	l.ch = s.ch
	l.line = s.line
	l.lineStart = s.lineStart
}

// Next returns the next token. At end of input it returns EOF tokens forever.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespaceAndComments()
	l.tokenStartPosition = l.currentPosition()

	switch ch := l.ch; {
	case ch == 0:
		return l.newToken(token.EOF, ""), nil
	case ch == '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.newToken(token.EQ, "=="), nil
		}
		return l.single(token.ASSIGN), nil
	case ch == '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.newToken(token.NOT_EQ, "!="), nil
		}
		return l.single(token.BANG), nil
	case ch == '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.newToken(token.LT_EQUALS, "<="), nil
		}
		return l.single(token.LT), nil
	case ch == '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.newToken(token.GT_EQUALS, ">="), nil
		}
		return l.single(token.GT), nil
	case ch == '+':
		return l.single(token.PLUS), nil
	case ch == '-':
		return l.single(token.MINUS), nil
	case ch == '*':
		return l.single(token.ASTERISK), nil
	case ch == '/':
		return l.single(token.SLASH), nil
	case ch == '%':
		return l.single(token.MOD), nil
	case ch == '&':
		return l.single(token.AMPERSAND), nil
	case ch == '|':
		return l.single(token.PIPE), nil
	case ch == '(':
		return l.single(token.LPAREN), nil
	case ch == ')':
		return l.single(token.RPAREN), nil
	case ch == '[':
		return l.single(token.LBRACKET), nil
	case ch == ']':
		return l.single(token.RBRACKET), nil
	case ch == '{':
		return l.single(token.LBRACE), nil
	case ch == '}':
		return l.single(token.RBRACE), nil
	case ch == ':':
		return l.single(token.COLON), nil
	case ch == ';':
		return l.single(token.SEMICOLON), nil
	case ch == '.':
		return l.single(token.PERIOD), nil
	case ch == ',':
		return l.single(token.COMMA), nil
	case ch == '\'':
		return l.readString()
	case isDigit(ch):
		return l.newToken(token.INT, l.readWhile(isDigit)), nil
	case isIdentStart(ch):
		ident := l.readWhile(isIdentChar)
		return l.newToken(token.LookupIdentifier(ident), ident), nil
	default:
		tok := l.single(token.ILLEGAL)
		return tok, fmt.Errorf("invalid character %q", ch)
	}
}

// GetLineText returns the full source line that contains the given token.
func (l *Lexer) GetLineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start < 0 || start > len(l.input) {
		return ""
	}
	end := strings.IndexByte(l.input[start:], '\n')
	if end < 0 {
		return l.input[start:]
	}
	return l.input[start : start+end]
}

func (l *Lexer) single(t token.Type) token.Token {
	lit := string(l.ch)
	l.readChar()
	return l.newToken(t, lit)
}

func (l *Lexer) newToken(t token.Type, literal string) token.Token {
	end := l.currentPosition()
	if end.Column > 0 {
		end.Column--
	}
	return token.Token{
		Type:          t,
		Literal:       literal,
		StartPosition: l.tokenStartPosition,
		EndPosition:   end,
	}
}

// readString reads a quoted string. A doubled quote stands for one quote
// character inside the string.
func (l *Lexer) readString() (token.Token, error) {
	var b strings.Builder
	for {
		l.readChar()
		switch {
		case l.ch == 0 || l.ch == '\n':
			tok := l.newToken(token.ILLEGAL, b.String())
			return tok, fmt.Errorf("unterminated string literal")
		case l.ch == '\'' && l.peekChar() == '\'':
			b.WriteByte('\'')
			l.readChar()
		case l.ch == '\'':
			l.readChar()
			return l.newToken(token.STRING, b.String()), nil
		case l.ch < 32 || l.ch > 126:
			tok := l.newToken(token.ILLEGAL, b.String())
			return tok, fmt.Errorf("invalid character %q in string literal", l.ch)
		default:
			b.WriteByte(l.ch)
		}
	}
}

func (l *Lexer) readWhile(pred func(byte) bool) string {
	start := l.position
	for pred(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		case '#':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.readPosition
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) currentPosition() token.Position {
	return token.Position{
		Char:      l.position,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.position - l.lineStart,
		File:      l.file,
	}
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
