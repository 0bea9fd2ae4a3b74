// Package ast defines the abstract syntax tree representation of PINS code.
//
// Every node carries a NodeID that is unique within one parsed program. Later
// phases attach their results to nodes through side tables keyed by NodeID
// rather than by mutating the tree.
package ast

import (
	"strings"

	"github.com/pinslang/pins/internal/token"
)

// NodeID identifies a node within one program.
type NodeID int

// NoID is the zero NodeID. Parsed nodes never use it.
const NoID NodeID = 0

// Node represents a portion of the syntax tree.
type Node interface {
	// ID returns the node's identity, stable for the lifetime of the tree.
	ID() NodeID

	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Def is a definition: a type, variable, function or parameter.
type Def interface {
	Node
	DefName() string
	defNode()
}

// Expr represents an expression node. In PINS every construct is an
// expression, including loops and assignments.
type Expr interface {
	Node
	exprNode()
}

// TypeExpr is a type as written in the source.
type TypeExpr interface {
	Node
	typeNode()
}

// Base holds the fields shared by all nodes.
type Base struct {
	id  NodeID
	pos token.Position
}

// NewBase returns a Base with the given identity and position.
func NewBase(id NodeID, pos token.Position) Base {
	return Base{id: id, pos: pos}
}

func (b Base) ID() NodeID          { return b.id }
func (b Base) Pos() token.Position { return b.pos }

// IDs issues NodeIDs in increasing order, starting at 1.
type IDs struct {
	last NodeID
}

// Next returns a fresh NodeID.
func (g *IDs) Next() NodeID {
	g.last++
	return g.last
}

// Last returns the most recently issued NodeID.
func (g *IDs) Last() NodeID {
	return g.last
}

// Program is the root of a parsed source file.
type Program struct {
	Base
	Defs []Def

	// Builtins are the prelude functions visible to every program. They have
	// no body and are implemented by the interpreter.
	Builtins []*FunDef

	// IDs continues the numbering used by the parser, so that nodes added
	// later stay unique within the program.
	IDs IDs
}

func (p *Program) String() string {
	var parts []string
	for _, d := range p.Defs {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, ";\n")
}

// Functions returns the top-level function definitions in source order.
func (p *Program) Functions() []*FunDef {
	var funcs []*FunDef
	for _, d := range p.Defs {
		if f, ok := d.(*FunDef); ok {
			funcs = append(funcs, f)
		}
	}
	return funcs
}

// Function returns the top-level function with the given name.
func (p *Program) Function(name string) (*FunDef, bool) {
	for _, f := range p.Functions() {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

func joinDefs(defs []Def) string {
	parts := make([]string, 0, len(defs))
	for _, d := range defs {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, "; ")
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
