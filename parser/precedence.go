package parser

import "github.com/pinslang/pins/internal/token"

// Precedence order for operators, loosest first.
const (
	_ int = iota
	LOWEST
	OR          // |
	AND         // &
	COMPARISON  // == != <= >= < >
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x +x !x
	INDEX       // a[i]
)

// Precedence table, used to map token types to precedence levels
var precedences = map[token.Type]int{
	token.PIPE:      OR,
	token.AMPERSAND: AND,
	token.EQ:        COMPARISON,
	token.NOT_EQ:    COMPARISON,
	token.LT:        COMPARISON,
	token.LT_EQUALS: COMPARISON,
	token.GT:        COMPARISON,
	token.GT_EQUALS: COMPARISON,
	token.PLUS:      SUM,
	token.MINUS:     SUM,
	token.ASTERISK:  PRODUCT,
	token.SLASH:     PRODUCT,
	token.MOD:       PRODUCT,
	token.LBRACKET:  INDEX,
}
