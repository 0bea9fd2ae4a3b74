// Package ir defines the tree intermediate representation produced by the
// code generator and executed by the virtual machine.
//
// Expressions compute a value: Const, Name, Temp, Mem, BinOp, Call and ESeq.
// Statements only have effects: Move, Exp, Jump, CJump, Label and Seq. Nodes
// are never modified after construction; rewriting passes build new nodes.
package ir

import (
	"fmt"
	"strings"

	"github.com/pinslang/pins/temp"
)

// Node is implemented by every IR node.
type Node interface {
	String() string
	irNode()
}

// Expr is a node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a node that is executed for its effect.
type Stmt interface {
	Node
	stmtNode()
}

// Const is an integer constant.
type Const struct {
	Value int
}

// Name is the address of a label. The labels FP and SP denote the
// machine's frame and stack pointers.
type Name struct {
	Label temp.Label
}

// Temp reads a temporary of the current activation.
type Temp struct {
	Temp temp.Temp
}

// Mem reads the memory word at Addr. As the destination of a Move it
// denotes the word itself.
type Mem struct {
	Addr Expr
}

// BinOp applies Op to X and Y.
type BinOp struct {
	Op Op
	X  Expr
	Y  Expr
}

// Call invokes the function at Label. Args[0] is the static link.
type Call struct {
	Label temp.Label
	Args  []Expr
}

// ESeq executes Stmt and then evaluates Expr.
type ESeq struct {
	Stmt Stmt
	Expr Expr
}

// Move stores the value of Src into Dst, which is a Temp or a Mem.
type Move struct {
	Dst Expr
	Src Expr
}

// Exp evaluates X and discards the result.
type Exp struct {
	X Expr
}

// Jump transfers control to Label.
type Jump struct {
	Label temp.Label
}

// CJump transfers control to True when Cond is non-zero, else to False.
type CJump struct {
	Cond  Expr
	True  temp.Label
	False temp.Label
}

// Label marks a jump target.
type Label struct {
	Label temp.Label
}

// Seq executes Stmts in order.
type Seq struct {
	Stmts []Stmt
}

func (*Const) irNode() {}
func (*Name) irNode()  {}
func (*Temp) irNode()  {}
func (*Mem) irNode()   {}
func (*BinOp) irNode() {}
func (*Call) irNode()  {}
func (*ESeq) irNode()  {}
func (*Move) irNode()  {}
func (*Exp) irNode()   {}
func (*Jump) irNode()  {}
func (*CJump) irNode() {}
func (*Label) irNode() {}
func (*Seq) irNode()   {}

func (*Const) exprNode() {}
func (*Name) exprNode()  {}
func (*Temp) exprNode()  {}
func (*Mem) exprNode()   {}
func (*BinOp) exprNode() {}
func (*Call) exprNode()  {}
func (*ESeq) exprNode()  {}

func (*Move) stmtNode()  {}
func (*Exp) stmtNode()   {}
func (*Jump) stmtNode()  {}
func (*CJump) stmtNode() {}
func (*Label) stmtNode() {}
func (*Seq) stmtNode()   {}

func (n *Const) String() string { return fmt.Sprintf("CONST(%d)", n.Value) }
func (n *Name) String() string  { return fmt.Sprintf("NAME(%s)", n.Label) }
func (n *Temp) String() string  { return fmt.Sprintf("TEMP(%s)", n.Temp) }
func (n *Mem) String() string   { return fmt.Sprintf("MEM(%s)", n.Addr) }
func (n *Jump) String() string  { return fmt.Sprintf("JUMP(%s)", n.Label) }
func (n *Label) String() string { return fmt.Sprintf("LABEL(%s)", n.Label) }
func (n *Exp) String() string   { return fmt.Sprintf("EXP(%s)", n.X) }

func (n *BinOp) String() string {
	return fmt.Sprintf("BINOP(%s, %s, %s)", n.Op, n.X, n.Y)
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("CALL(%s, [%s])", n.Label, strings.Join(args, ", "))
}

func (n *ESeq) String() string {
	return fmt.Sprintf("ESEQ(%s, %s)", n.Stmt, n.Expr)
}

func (n *Move) String() string {
	return fmt.Sprintf("MOVE(%s, %s)", n.Dst, n.Src)
}

func (n *CJump) String() string {
	return fmt.Sprintf("CJUMP(%s, %s, %s)", n.Cond, n.True, n.False)
}

func (n *Seq) String() string {
	stmts := make([]string, len(n.Stmts))
	for i, s := range n.Stmts {
		stmts[i] = s.String()
	}
	return fmt.Sprintf("SEQ(%s)", strings.Join(stmts, ", "))
}

// NewSeq returns a Seq of stmts, or the statement itself when there is
// only one.
func NewSeq(stmts ...Stmt) Stmt {
	if len(stmts) == 1 {
		return stmts[0]
	}
	return &Seq{Stmts: stmts}
}

// Bin returns a BinOp node.
func Bin(op Op, x, y Expr) *BinOp {
	return &BinOp{Op: op, X: x, Y: y}
}

// MemAt returns MEM(base + offset).
func MemAt(base Expr, offset int) *Mem {
	return &Mem{Addr: Bin(Add, base, &Const{Value: offset})}
}
