// Package token defines the keywords and tokens produced when lexing PINS
// source code.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes on the same line.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	AMPERSAND Type = "&"
	ARR       Type = "ARR"
	ASSIGN    Type = "="
	ASTERISK  Type = "*"
	BANG      Type = "!"
	COLON     Type = ":"
	COMMA     Type = ","
	ELSE      Type = "ELSE"
	EOF       Type = "EOF"
	EQ        Type = "=="
	FALSE     Type = "FALSE"
	FOR       Type = "FOR"
	FUN       Type = "FUN"
	GT        Type = ">"
	GT_EQUALS Type = ">="
	IDENT     Type = "IDENT"
	IF        Type = "IF"
	ILLEGAL   Type = "ILLEGAL"
	INT       Type = "INT"
	INTEGER   Type = "INTEGER"
	LBRACE    Type = "{"
	LBRACKET  Type = "["
	LOGICAL   Type = "LOGICAL"
	LPAREN    Type = "("
	LT        Type = "<"
	LT_EQUALS Type = "<="
	MINUS     Type = "-"
	MOD       Type = "%"
	NOT_EQ    Type = "!="
	PERIOD    Type = "."
	PIPE      Type = "|"
	PLUS      Type = "+"
	RBRACE    Type = "}"
	RBRACKET  Type = "]"
	RPAREN    Type = ")"
	SEMICOLON Type = ";"
	SLASH     Type = "/"
	STRING    Type = "STRING"
	STR       Type = "STR"
	THEN      Type = "THEN"
	TRUE      Type = "TRUE"
	TYP       Type = "TYP"
	VAR       Type = "VAR"
	WHERE     Type = "WHERE"
	WHILE     Type = "WHILE"
)

// Reserved keywords
var keywords = map[string]Type{
	"arr":     ARR,
	"else":    ELSE,
	"false":   FALSE,
	"for":     FOR,
	"fun":     FUN,
	"if":      IF,
	"integer": INTEGER,
	"logical": LOGICAL,
	"string":  STR,
	"then":    THEN,
	"true":    TRUE,
	"typ":     TYP,
	"var":     VAR,
	"where":   WHERE,
	"while":   WHILE,
}

// LookupIdentifier returns the keyword type for identifier, or IDENT if it
// is not reserved.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}
