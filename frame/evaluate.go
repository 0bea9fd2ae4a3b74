package frame

import (
	"github.com/pinslang/pins/ast"
	"github.com/pinslang/pins/errors"
	"github.com/pinslang/pins/semantic"
	"github.com/pinslang/pins/temp"
)

const phase = "frame layout"

// Layout holds the frames and accesses computed for one program.
type Layout struct {
	// Global is the implicit top-level frame that owns global variables.
	Global *Frame

	// Frames maps function definitions, including the prelude, to their
	// frames.
	Frames map[ast.NodeID]*Frame

	// Accesses maps variable and parameter definitions to their storage.
	Accesses map[ast.NodeID]Access

	// Order lists function frames in the order their definitions were
	// entered.
	Order []*Frame
}

// FrameOf returns the frame of a function definition, or nil.
func (l *Layout) FrameOf(f *ast.FunDef) *Frame {
	return l.Frames[f.ID()]
}

// AccessOf returns the access of a variable or parameter definition, or nil.
func (l *Layout) AccessOf(d ast.Def) Access {
	return l.Accesses[d.ID()]
}

// Lookup returns the frame with the given function name or label.
func (l *Layout) Lookup(name string) (*Frame, bool) {
	for _, f := range l.Order {
		if f.Name == name || string(f.Label) == name {
			return f, true
		}
	}
	return nil, false
}

// Evaluate lays out every function frame and variable access of a checked
// program. Labels and registers are drawn from alloc.
func Evaluate(prog *ast.Program, info *semantic.Info, alloc *temp.Allocator) (*Layout, error) {
	e := &evaluator{
		info:  info,
		alloc: alloc,
		layout: &Layout{
			Global:   &Frame{Level: GlobalLevel},
			Frames:   map[ast.NodeID]*Frame{},
			Accesses: map[ast.NodeID]Access{},
		},
	}
	for _, b := range prog.Builtins {
		if err := e.funDef(b); err != nil {
			return nil, err
		}
	}
	for _, d := range prog.Defs {
		if err := e.def(d); err != nil {
			return nil, err
		}
	}
	return e.layout, nil
}

type evaluator struct {
	info   *semantic.Info
	alloc  *temp.Allocator
	layout *Layout
	stack  []*Frame
	level  int
}

func (e *evaluator) current() *Frame {
	if len(e.stack) == 0 {
		return nil
	}
	return e.stack[len(e.stack)-1]
}

func (e *evaluator) sizeOf(n ast.Node) (int, error) {
	t := e.info.TypeOf(n)
	if t == nil {
		return 0, errors.InternalErrorf(phase, "no type recorded for %s", n)
	}
	return t.Size(), nil
}

func (e *evaluator) defs(defs []ast.Def) error {
	for _, d := range defs {
		if err := e.def(d); err != nil {
			return err
		}
	}
	return nil
}

func (e *evaluator) def(d ast.Def) error {
	switch d := d.(type) {
	case *ast.TypeDef:
		return nil
	case *ast.VarDef:
		size, err := e.sizeOf(d)
		if err != nil {
			return err
		}
		if f := e.current(); f != nil {
			e.layout.Accesses[d.ID()] = f.addLocal(size)
		} else {
			e.layout.Accesses[d.ID()] = &GlobalAccess{Label: e.alloc.NamedLabel(d.Name)}
		}
		return nil
	case *ast.FunDef:
		return e.funDef(d)
	}
	return errors.InternalErrorf(phase, "unexpected definition %T", d)
}

func (e *evaluator) funDef(d *ast.FunDef) error {
	parent := e.current()
	if parent == nil {
		parent = e.layout.Global
	}
	f := &Frame{
		Name:    d.Name,
		Level:   e.level,
		Parent:  parent,
		Builtin: d.IsBuiltin(),
		FP:      e.alloc.NewTemp(),
		RV:      e.alloc.NewTemp(),
	}
	if parent.IsGlobal() {
		f.Label = e.alloc.NamedLabel(d.Name)
	} else {
		f.Label = e.alloc.NewLabel()
	}
	e.layout.Frames[d.ID()] = f
	e.layout.Order = append(e.layout.Order, f)

	for _, p := range d.Params {
		size, err := e.sizeOf(p)
		if err != nil {
			return err
		}
		e.layout.Accesses[p.ID()] = f.addParam(size)
	}
	if d.Body == nil {
		return nil
	}
	e.stack = append(e.stack, f)
	e.level++
	err := e.expr(d.Body)
	e.level--
	e.stack = e.stack[:len(e.stack)-1]
	return err
}

func (e *evaluator) exprs(list ...ast.Expr) error {
	for _, x := range list {
		if x == nil {
			continue
		}
		if err := e.expr(x); err != nil {
			return err
		}
	}
	return nil
}

func (e *evaluator) expr(x ast.Expr) error {
	switch x := x.(type) {
	case *ast.Int, *ast.Bool, *ast.String, *ast.Ident:
		return nil
	case *ast.Binary:
		return e.exprs(x.X, x.Y)
	case *ast.Unary:
		return e.expr(x.X)
	case *ast.Index:
		// A failed bounds check calls out with a link, the index and the length.
		if f := e.current(); f != nil {
			f.reserveArgs(3 * WordSize)
		}
		return e.exprs(x.X, x.Index)
	case *ast.Exprs:
		return e.exprs(x.List...)
	case *ast.Assign:
		return e.exprs(x.Dst, x.Src)
	case *ast.If:
		return e.exprs(x.Cond, x.Then, x.Else)
	case *ast.While:
		return e.exprs(x.Cond, x.Body)
	case *ast.For:
		return e.exprs(x.Lo, x.Hi, x.Step, x.Body)
	case *ast.Where:
		if err := e.defs(x.Defs); err != nil {
			return err
		}
		return e.expr(x.X)
	case *ast.Call:
		return e.call(x)
	}
	return errors.InternalErrorf(phase, "unexpected expression %T", x)
}

func (e *evaluator) call(c *ast.Call) error {
	f := e.current()
	if f == nil {
		return errors.InternalErrorf(phase, "call to %s outside of any function", c.Name)
	}
	size := WordSize
	for _, a := range c.Args {
		if err := e.expr(a); err != nil {
			return err
		}
		n, err := e.sizeOf(a)
		if err != nil {
			return err
		}
		size += n
	}
	result, err := e.sizeOf(c)
	if err != nil {
		return err
	}
	f.reserveArgs(max(size, result))
	return nil
}
