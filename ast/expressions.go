package ast

import "fmt"

// BinaryOp is the operator of a Binary expression.
type BinaryOp int

const (
	Or BinaryOp = iota
	And
	Eq
	Ne
	Le
	Ge
	Lt
	Gt
	Add
	Sub
	Mul
	Div
	Mod
)

var binaryOpNames = [...]string{
	Or:  "|",
	And: "&",
	Eq:  "==",
	Ne:  "!=",
	Le:  "<=",
	Ge:  ">=",
	Lt:  "<",
	Gt:  ">",
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Mod: "%",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// IsLogical reports whether op combines two logical values.
func (op BinaryOp) IsLogical() bool { return op == Or || op == And }

// IsComparison reports whether op compares two values.
func (op BinaryOp) IsComparison() bool { return op >= Eq && op <= Gt }

// IsArithmetic reports whether op combines two integers into an integer.
func (op BinaryOp) IsArithmetic() bool { return op >= Add && op <= Mod }

// UnaryOp is the operator of a Unary expression.
type UnaryOp int

const (
	Plus UnaryOp = iota
	Minus
	Not
)

func (op UnaryOp) String() string {
	switch op {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Not:
		return "!"
	default:
		return fmt.Sprintf("UnaryOp(%d)", int(op))
	}
}

// Binary is "x op y".
type Binary struct {
	Base
	Op BinaryOp
	X  Expr
	Y  Expr
}

func (x *Binary) exprNode()      {}
func (x *Binary) String() string { return fmt.Sprintf("(%s %s %s)", x.X, x.Op, x.Y) }

// Unary is "op x".
type Unary struct {
	Base
	Op UnaryOp
	X  Expr
}

func (x *Unary) exprNode()      {}
func (x *Unary) String() string { return fmt.Sprintf("(%s%s)", x.Op, x.X) }

// Index is "x [ index ]".
type Index struct {
	Base
	X     Expr
	Index Expr
}

func (x *Index) exprNode()      {}
func (x *Index) String() string { return fmt.Sprintf("%s[%s]", x.X, x.Index) }

// Exprs is a parenthesized, comma separated expression list. Its value is
// the value of the last element.
type Exprs struct {
	Base
	List []Expr
}

func (x *Exprs) exprNode()      {}
func (x *Exprs) String() string { return "(" + joinExprs(x.List) + ")" }

// Ident names a variable or parameter.
type Ident struct {
	Base
	Name string
}

func (x *Ident) exprNode()      {}
func (x *Ident) String() string { return x.Name }

// Call is "name ( args )".
type Call struct {
	Base
	Name string
	Args []Expr
}

func (x *Call) exprNode()      {}
func (x *Call) String() string { return fmt.Sprintf("%s(%s)", x.Name, joinExprs(x.Args)) }

// Assign is "{ dst = src }".
type Assign struct {
	Base
	Dst Expr
	Src Expr
}

func (x *Assign) exprNode()      {}
func (x *Assign) String() string { return fmt.Sprintf("{%s = %s}", x.Dst, x.Src) }

// If is "{ if cond then then [ else else ] }".
type If struct {
	Base
	Cond Expr
	Then Expr
	Else Expr // nil without an else branch
}

func (x *If) exprNode() {}

func (x *If) String() string {
	if x.Else == nil {
		return fmt.Sprintf("{if %s then %s}", x.Cond, x.Then)
	}
	return fmt.Sprintf("{if %s then %s else %s}", x.Cond, x.Then, x.Else)
}

// While is "{ while cond : body }".
type While struct {
	Base
	Cond Expr
	Body Expr
}

func (x *While) exprNode()      {}
func (x *While) String() string { return fmt.Sprintf("{while %s : %s}", x.Cond, x.Body) }

// For is "{ for counter = lo, hi, step : body }". The loop runs while the
// counter is less than hi.
type For struct {
	Base
	Counter *Ident
	Lo      Expr
	Hi      Expr
	Step    Expr
	Body    Expr
}

func (x *For) exprNode() {}

func (x *For) String() string {
	return fmt.Sprintf("{for %s = %s, %s, %s : %s}", x.Counter, x.Lo, x.Hi, x.Step, x.Body)
}

// Where is "expr { where defs }". The definitions are visible in expr.
type Where struct {
	Base
	X    Expr
	Defs []Def
}

func (x *Where) exprNode()      {}
func (x *Where) String() string { return fmt.Sprintf("%s {where %s}", x.X, joinDefs(x.Defs)) }
