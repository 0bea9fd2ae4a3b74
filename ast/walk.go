package ast

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, d := range n.Defs {
			Walk(v, d)
		}

	// Definitions
	case *TypeDef:
		Walk(v, n.Type)
	case *VarDef:
		Walk(v, n.Type)
	case *Param:
		Walk(v, n.Type)
	case *FunDef:
		for _, p := range n.Params {
			Walk(v, p)
		}
		Walk(v, n.Result)
		if n.Body != nil {
			Walk(v, n.Body)
		}

	// Types
	case *AtomType, *TypeName:
		// leaves
	case *ArrType:
		Walk(v, n.Elem)

	// Expressions
	case *Int, *Bool, *String, *Ident:
		// leaves
	case *Binary:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *Unary:
		Walk(v, n.X)
	case *Index:
		Walk(v, n.X)
		Walk(v, n.Index)
	case *Exprs:
		for _, e := range n.List {
			Walk(v, e)
		}
	case *Call:
		for _, a := range n.Args {
			Walk(v, a)
		}
	case *Assign:
		Walk(v, n.Dst)
		Walk(v, n.Src)
	case *If:
		Walk(v, n.Cond)
		Walk(v, n.Then)
		if n.Else != nil {
			Walk(v, n.Else)
		}
	case *While:
		Walk(v, n.Cond)
		Walk(v, n.Body)
	case *For:
		Walk(v, n.Counter)
		Walk(v, n.Lo)
		Walk(v, n.Hi)
		Walk(v, n.Step)
		Walk(v, n.Body)
	case *Where:
		for _, d := range n.Defs {
			Walk(v, d)
		}
		Walk(v, n.X)
	}

	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node, followed by a
// call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
