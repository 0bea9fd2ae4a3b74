// Package semantic resolves names and checks types in a parsed PINS program.
//
// Results are recorded in an Info value, keyed by ast.NodeID, which the frame
// layout and code generation phases consume. The tree itself is not modified
// apart from attaching the prelude functions to Program.Builtins.
package semantic

import (
	"github.com/pinslang/pins/ast"
	"github.com/pinslang/pins/types"
)

// Info holds the results of checking one program.
type Info struct {
	// Defs maps every name use (ast.Ident, ast.Call, ast.TypeName) to the
	// definition it refers to.
	Defs map[ast.NodeID]ast.Def

	// Types maps expressions, type expressions and definitions to their
	// semantic types. Functions map to *types.Func.
	Types map[ast.NodeID]types.Type
}

func newInfo() *Info {
	return &Info{
		Defs:  map[ast.NodeID]ast.Def{},
		Types: map[ast.NodeID]types.Type{},
	}
}

// DefOf returns the definition a name use refers to, or nil.
func (i *Info) DefOf(n ast.Node) ast.Def {
	return i.Defs[n.ID()]
}

// TypeOf returns the type recorded for n, or nil.
func (i *Info) TypeOf(n ast.Node) types.Type {
	return i.Types[n.ID()]
}

// FuncOf returns the signature of a function definition, or nil.
func (i *Info) FuncOf(f *ast.FunDef) *types.Func {
	fn, _ := i.Types[f.ID()].(*types.Func)
	return fn
}

// Callee returns the function a call refers to, or nil.
func (i *Info) Callee(c *ast.Call) *ast.FunDef {
	f, _ := i.Defs[c.ID()].(*ast.FunDef)
	return f
}
