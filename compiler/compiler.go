// Package compiler translates a checked and laid out PINS program into tree
// IR chunks.
//
// # Chunks
//
// Every global variable and every string literal becomes a DataChunk. Every
// function with a body becomes a CodeChunk whose body moves the value of the
// function's expression into the frame's return value register. Nested
// functions are emitted before the function that encloses them.
//
// # Static Links
//
// A frame's static link (at FP+0) points to the frame of the lexically
// enclosing function. A variable declared d levels out is reached by
// following the link d times, which shows up in the IR as d nested MEM nodes
// around the frame pointer temp. A call passes the frame pointer of the
// callee's defining frame as argument 0, found the same way.
//
// # Memoization
//
// Each AST node is lowered exactly once. Lowering the same node again
// returns the cached IR, so that a string literal yields one DataChunk and a
// for-loop counter is shared by its three uses.
package compiler

import (
	"github.com/pinslang/pins/ast"
	"github.com/pinslang/pins/errors"
	"github.com/pinslang/pins/frame"
	"github.com/pinslang/pins/ir"
	"github.com/pinslang/pins/semantic"
	"github.com/pinslang/pins/temp"
	"github.com/pinslang/pins/types"
)

const phase = "code generation"

// BoundsError is the label of the runtime routine called when an array
// index is out of range. Its arguments are the index and the length.
const BoundsError temp.Label = "_boundsError"

// Option configures a Generator.
type Option func(*Generator)

// WithBoundsChecks controls whether array indexing is checked at runtime.
// Checks are enabled by default.
func WithBoundsChecks(enabled bool) Option {
	return func(g *Generator) {
		g.boundsChecks = enabled
	}
}

// Generator lowers AST nodes to IR.
type Generator struct {
	info   *semantic.Info
	layout *frame.Layout
	alloc  *temp.Allocator

	// The program being generated
	program *ir.Program

	// Lowered code per node. Definitions map to nil.
	memo map[ast.NodeID]ir.Node

	// Frames of the functions being lowered, innermost last
	frames []*frame.Frame

	boundsChecks bool
}

// New returns a Generator for a program checked into info and laid out into
// layout. The allocator must be the one used for the layout.
func New(info *semantic.Info, layout *frame.Layout, alloc *temp.Allocator, options ...Option) *Generator {
	g := &Generator{
		info:         info,
		layout:       layout,
		alloc:        alloc,
		program:      ir.NewProgram(),
		memo:         map[ast.NodeID]ir.Node{},
		boundsChecks: true,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Generate lowers every definition of prog and returns the generated chunks.
func Generate(prog *ast.Program, info *semantic.Info, layout *frame.Layout, alloc *temp.Allocator, options ...Option) (*ir.Program, error) {
	g := New(info, layout, alloc, options...)
	for _, d := range prog.Defs {
		if _, err := g.Lower(d); err != nil {
			return nil, err
		}
	}
	return g.Program(), nil
}

// Program returns the chunks generated so far.
func (g *Generator) Program() *ir.Program {
	return g.program
}

// Lower returns the IR for n, generating it on first use. Definitions lower
// to nil and emit chunks as a side effect.
func (g *Generator) Lower(n ast.Node) (ir.Node, error) {
	if code, ok := g.memo[n.ID()]; ok {
		return code, nil
	}
	var code ir.Node
	var err error
	switch n := n.(type) {
	case ast.Def:
		err = g.def(n)
	case ast.Expr:
		code, err = g.lowerExpr(n)
	default:
		err = errors.Unsupportedf("cannot lower %T", n)
	}
	if err != nil {
		return nil, err
	}
	g.memo[n.ID()] = code
	return code, nil
}

func (g *Generator) current() *frame.Frame {
	if len(g.frames) == 0 {
		return nil
	}
	return g.frames[len(g.frames)-1]
}

func (g *Generator) add(c ir.Chunk) error {
	if err := g.program.Add(c); err != nil {
		return &errors.InternalError{Phase: phase, Err: err}
	}
	return nil
}

func (g *Generator) def(d ast.Def) error {
	switch d := d.(type) {
	case *ast.TypeDef, *ast.Param:
		return nil
	case *ast.VarDef:
		access, ok := g.layout.AccessOf(d).(*frame.GlobalAccess)
		if !ok {
			// Locals live in their frame and need no code.
			return nil
		}
		t := g.info.TypeOf(d)
		if t == nil {
			return errors.InternalErrorf(phase, "no type recorded for variable %s", d.Name)
		}
		return g.add(&ir.DataChunk{Label: access.Label, Size: t.Size()})
	case *ast.FunDef:
		return g.function(d)
	}
	return errors.Unsupportedf("cannot lower definition %T", d)
}

func (g *Generator) function(d *ast.FunDef) error {
	if d.IsBuiltin() {
		return nil
	}
	f := g.layout.FrameOf(d)
	if f == nil {
		return errors.InternalErrorf(phase, "no frame for function %s", d.Name)
	}
	g.frames = append(g.frames, f)
	body, err := g.value(d.Body)
	g.frames = g.frames[:len(g.frames)-1]
	if err != nil {
		return err
	}
	return g.add(&ir.CodeChunk{
		Frame: f,
		Body:  &ir.Move{Dst: &ir.Temp{Temp: f.RV}, Src: body},
	})
}

// value lowers e for use as a value.
func (g *Generator) value(e ast.Expr) (ir.Expr, error) {
	code, err := g.Lower(e)
	if err != nil {
		return nil, err
	}
	return g.valueOf(code), nil
}

// valueOf converts lowered code to an expression. An assignment yields the
// assigned value; any other statement yields 0.
func (g *Generator) valueOf(code ir.Node) ir.Expr {
	switch code := code.(type) {
	case ir.Expr:
		return code
	case *ir.Move:
		t := &ir.Temp{Temp: g.alloc.NewTemp()}
		return &ir.ESeq{
			Stmt: &ir.Seq{Stmts: []ir.Stmt{
				&ir.Move{Dst: t, Src: code.Src},
				&ir.Move{Dst: code.Dst, Src: t},
			}},
			Expr: t,
		}
	case *ir.Seq:
		n := len(code.Stmts)
		if n == 0 {
			break
		}
		if last, ok := code.Stmts[n-1].(*ir.Move); ok {
			if n == 1 {
				return g.valueOf(last)
			}
			return &ir.ESeq{Stmt: ir.NewSeq(code.Stmts[:n-1]...), Expr: g.valueOf(last)}
		}
	}
	return &ir.ESeq{Stmt: code.(ir.Stmt), Expr: &ir.Const{Value: 0}}
}

// stmt lowers e for its effect only.
func (g *Generator) stmt(e ast.Expr) (ir.Stmt, error) {
	code, err := g.Lower(e)
	if err != nil {
		return nil, err
	}
	return stmtOf(code), nil
}

func stmtOf(code ir.Node) ir.Stmt {
	if s, ok := code.(ir.Stmt); ok {
		return s
	}
	return &ir.Exp{X: code.(ir.Expr)}
}

// staticLink returns the frame pointer of the enclosing frame at level
// target, as seen from frame cur.
func staticLink(cur *frame.Frame, target int) ir.Expr {
	var link ir.Expr = &ir.Temp{Temp: cur.FP}
	for i := 0; i < cur.Level-target; i++ {
		link = &ir.Mem{Addr: link}
	}
	return link
}

// addressOf strips the memory read from an lvalue, leaving its address.
func addressOf(e ir.Expr) (ir.Expr, error) {
	switch e := e.(type) {
	case *ir.Mem:
		return e.Addr, nil
	case *ir.ESeq:
		addr, err := addressOf(e.Expr)
		if err != nil {
			return nil, err
		}
		return &ir.ESeq{Stmt: e.Stmt, Expr: addr}, nil
	}
	return nil, errors.InternalErrorf(phase, "%s does not denote a memory location", e)
}

func (g *Generator) arrayOf(e ast.Expr) (*types.Array, error) {
	arr, ok := types.Resolve(g.info.TypeOf(e)).(*types.Array)
	if !ok {
		return nil, errors.InternalErrorf(phase, "%s is not an array", e)
	}
	return arr, nil
}

func (g *Generator) newLabels(n int) []temp.Label {
	labels := make([]temp.Label, n)
	for i := range labels {
		labels[i] = g.alloc.NewLabel()
	}
	return labels
}
