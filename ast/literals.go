package ast

import (
	"strconv"
	"strings"
)

// Int is an expression node that holds an integer literal.
type Int struct {
	Base
	Literal string // the literal text
	Value   int    // the parsed value
}

func (x *Int) exprNode()      {}
func (x *Int) String() string { return x.Literal }

// Bool is an expression node that holds a logical literal.
type Bool struct {
	Base
	Value bool
}

func (x *Bool) exprNode()      {}
func (x *Bool) String() string { return strconv.FormatBool(x.Value) }

// String is an expression node that holds a string literal.
type String struct {
	Base
	Value string // the unquoted value
}

func (x *String) exprNode() {}

func (x *String) String() string {
	return "'" + strings.ReplaceAll(x.Value, "'", "''") + "'"
}
