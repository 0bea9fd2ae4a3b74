package compiler

import (
	"github.com/pinslang/pins/ast"
	"github.com/pinslang/pins/errors"
	"github.com/pinslang/pins/frame"
	"github.com/pinslang/pins/ir"
	"github.com/pinslang/pins/semantic"
)

var binaryOps = map[ast.BinaryOp]ir.Op{
	ast.Or:  ir.Or,
	ast.And: ir.And,
	ast.Eq:  ir.Eq,
	ast.Ne:  ir.Ne,
	ast.Le:  ir.Le,
	ast.Ge:  ir.Ge,
	ast.Lt:  ir.Lt,
	ast.Gt:  ir.Gt,
	ast.Add: ir.Add,
	ast.Sub: ir.Sub,
	ast.Mul: ir.Mul,
	ast.Div: ir.Div,
}

func (g *Generator) lowerExpr(e ast.Expr) (ir.Node, error) {
	switch e := e.(type) {
	case *ast.Int:
		return &ir.Const{Value: e.Value}, nil
	case *ast.Bool:
		if e.Value {
			return &ir.Const{Value: 1}, nil
		}
		return &ir.Const{Value: 0}, nil
	case *ast.String:
		return g.stringLiteral(e)
	case *ast.Ident:
		return g.variable(e)
	case *ast.Binary:
		return g.binary(e)
	case *ast.Unary:
		return g.unary(e)
	case *ast.Index:
		return g.index(e)
	case *ast.Exprs:
		return g.exprs(e)
	case *ast.Call:
		return g.call(e)
	case *ast.Assign:
		dst, err := g.value(e.Dst)
		if err != nil {
			return nil, err
		}
		src, err := g.value(e.Src)
		if err != nil {
			return nil, err
		}
		return &ir.Move{Dst: dst, Src: src}, nil
	case *ast.If:
		return g.ifExpr(e)
	case *ast.While:
		return g.whileExpr(e)
	case *ast.For:
		return g.forExpr(e)
	case *ast.Where:
		for _, d := range e.Defs {
			if _, err := g.Lower(d); err != nil {
				return nil, err
			}
		}
		return g.Lower(e.X)
	}
	return nil, errors.Unsupportedf("cannot lower expression %T", e)
}

func (g *Generator) stringLiteral(s *ast.String) (ir.Node, error) {
	label := g.alloc.NewLabel()
	value := s.Value
	if err := g.add(&ir.DataChunk{Label: label, Size: frame.WordSize, Literal: &value}); err != nil {
		return nil, err
	}
	return &ir.Mem{Addr: &ir.Name{Label: label}}, nil
}

func (g *Generator) variable(id *ast.Ident) (ir.Node, error) {
	def := g.info.DefOf(id)
	if def == nil {
		return nil, errors.InternalErrorf(phase, "unresolved name %s", id.Name)
	}
	switch access := g.layout.AccessOf(def).(type) {
	case *frame.GlobalAccess:
		return &ir.Mem{Addr: &ir.Name{Label: access.Label}}, nil
	case *frame.ParamAccess, *frame.LocalAccess:
		cur := g.current()
		if cur == nil {
			return nil, errors.InternalErrorf(phase, "%s used outside of any function", id.Name)
		}
		owner := frame.Owner(access)
		return ir.MemAt(staticLink(cur, owner.Level), frame.OffsetOf(access)), nil
	}
	return nil, errors.InternalErrorf(phase, "no access for %s", id.Name)
}

func (g *Generator) binary(e *ast.Binary) (ir.Node, error) {
	x, err := g.value(e.X)
	if err != nil {
		return nil, err
	}
	y, err := g.value(e.Y)
	if err != nil {
		return nil, err
	}
	if e.Op == ast.Mod {
		// x - y * (x / y), with both operands evaluated exactly once
		tx := &ir.Temp{Temp: g.alloc.NewTemp()}
		ty := &ir.Temp{Temp: g.alloc.NewTemp()}
		return &ir.ESeq{
			Stmt: &ir.Seq{Stmts: []ir.Stmt{
				&ir.Move{Dst: tx, Src: x},
				&ir.Move{Dst: ty, Src: y},
			}},
			Expr: ir.Bin(ir.Sub, tx, ir.Bin(ir.Mul, ty, ir.Bin(ir.Div, tx, ty))),
		}, nil
	}
	op, ok := binaryOps[e.Op]
	if !ok {
		return nil, errors.Unsupportedf("binary operator %s", e.Op)
	}
	return ir.Bin(op, x, y), nil
}

func (g *Generator) unary(e *ast.Unary) (ir.Node, error) {
	x, err := g.value(e.X)
	if err != nil {
		return nil, err
	}
	zero := &ir.Const{Value: 0}
	switch e.Op {
	case ast.Plus:
		return ir.Bin(ir.Add, zero, x), nil
	case ast.Minus:
		return ir.Bin(ir.Sub, zero, x), nil
	case ast.Not:
		return ir.Bin(ir.Eq, zero, x), nil
	}
	return nil, errors.Unsupportedf("unary operator %s", e.Op)
}

func (g *Generator) index(e *ast.Index) (ir.Node, error) {
	arr, err := g.arrayOf(e.X)
	if err != nil {
		return nil, err
	}
	x, err := g.value(e.X)
	if err != nil {
		return nil, err
	}
	base, err := addressOf(x)
	if err != nil {
		return nil, err
	}
	i, err := g.value(e.Index)
	if err != nil {
		return nil, err
	}
	// The base is evaluated before the index. A base with side effects, such
	// as the bounds check of an inner subscript, is saved in a temp first.
	var pre []ir.Stmt
	if !pure(base) {
		tb := &ir.Temp{Temp: g.alloc.NewTemp()}
		pre = append(pre, &ir.Move{Dst: tb, Src: base})
		base = tb
	}
	elemSize := &ir.Const{Value: arr.Elem.Size()}
	if !g.boundsChecks {
		mem := &ir.Mem{Addr: ir.Bin(ir.Add, base, ir.Bin(ir.Mul, i, elemSize))}
		if len(pre) == 0 {
			return mem, nil
		}
		return &ir.ESeq{Stmt: ir.NewSeq(pre...), Expr: mem}, nil
	}
	cur := g.current()
	if cur == nil {
		return nil, errors.InternalErrorf(phase, "array index outside of any function")
	}
	ti := &ir.Temp{Temp: g.alloc.NewTemp()}
	labels := g.newLabels(2)
	ok, bad := labels[0], labels[1]
	length := &ir.Const{Value: arr.Len}
	check := &ir.Seq{Stmts: append(pre,
		&ir.Move{Dst: ti, Src: i},
		&ir.CJump{
			Cond:  ir.Bin(ir.And, ir.Bin(ir.Ge, ti, &ir.Const{Value: 0}), ir.Bin(ir.Lt, ti, length)),
			True:  ok,
			False: bad,
		},
		&ir.Label{Label: bad},
		&ir.Exp{X: &ir.Call{
			Label: BoundsError,
			Args:  []ir.Expr{&ir.Temp{Temp: cur.FP}, ti, length},
		}},
		&ir.Label{Label: ok},
	)}
	return &ir.ESeq{
		Stmt: check,
		Expr: &ir.Mem{Addr: ir.Bin(ir.Add, base, ir.Bin(ir.Mul, ti, elemSize))},
	}, nil
}

// pure reports whether evaluating e has no side effects.
func pure(e ir.Expr) bool {
	clean := true
	ir.Inspect(e, func(n ir.Node) bool {
		switch n.(type) {
		case *ir.Call, *ir.ESeq:
			clean = false
		}
		return clean
	})
	return clean
}

func (g *Generator) exprs(e *ast.Exprs) (ir.Node, error) {
	if len(e.List) == 1 {
		return g.Lower(e.List[0])
	}
	n := len(e.List)
	stmts := make([]ir.Stmt, 0, n)
	for _, x := range e.List[:n-1] {
		s, err := g.stmt(x)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	last, err := g.Lower(e.List[n-1])
	if err != nil {
		return nil, err
	}
	if x, ok := last.(ir.Expr); ok {
		return &ir.ESeq{Stmt: ir.NewSeq(stmts...), Expr: x}, nil
	}
	return &ir.Seq{Stmts: append(stmts, last.(ir.Stmt))}, nil
}

func (g *Generator) call(c *ast.Call) (ir.Node, error) {
	cur := g.current()
	if cur == nil {
		return nil, errors.InternalErrorf(phase, "call to %s outside of any function", c.Name)
	}
	callee := g.info.Callee(c)
	if callee == nil {
		return nil, errors.InternalErrorf(phase, "unresolved function %s", c.Name)
	}
	f := g.layout.FrameOf(callee)
	if f == nil {
		return nil, errors.InternalErrorf(phase, "no frame for function %s", c.Name)
	}
	args := []ir.Expr{staticLink(cur, f.Parent.Level)}
	byAddress := callee.IsBuiltin() && semantic.IsInput(callee.Name)
	for _, a := range c.Args {
		arg, err := g.value(a)
		if err != nil {
			return nil, err
		}
		if byAddress {
			if arg, err = addressOf(arg); err != nil {
				return nil, err
			}
		}
		args = append(args, arg)
	}
	return &ir.Call{Label: f.Label, Args: args}, nil
}

func (g *Generator) ifExpr(e *ast.If) (ir.Node, error) {
	cond, err := g.value(e.Cond)
	if err != nil {
		return nil, err
	}
	then, err := g.stmt(e.Then)
	if err != nil {
		return nil, err
	}
	if e.Else == nil {
		labels := g.newLabels(2)
		thenL, endL := labels[0], labels[1]
		return &ir.Seq{Stmts: []ir.Stmt{
			&ir.CJump{Cond: cond, True: thenL, False: endL},
			&ir.Label{Label: thenL},
			then,
			&ir.Label{Label: endL},
		}}, nil
	}
	els, err := g.stmt(e.Else)
	if err != nil {
		return nil, err
	}
	labels := g.newLabels(3)
	thenL, elseL, endL := labels[0], labels[1], labels[2]
	return &ir.Seq{Stmts: []ir.Stmt{
		&ir.CJump{Cond: cond, True: thenL, False: elseL},
		&ir.Label{Label: thenL},
		then,
		&ir.Jump{Label: endL},
		&ir.Label{Label: elseL},
		els,
		&ir.Label{Label: endL},
	}}, nil
}

func (g *Generator) whileExpr(e *ast.While) (ir.Node, error) {
	cond, err := g.value(e.Cond)
	if err != nil {
		return nil, err
	}
	body, err := g.stmt(e.Body)
	if err != nil {
		return nil, err
	}
	labels := g.newLabels(3)
	condL, bodyL, endL := labels[0], labels[1], labels[2]
	return &ir.Seq{Stmts: []ir.Stmt{
		&ir.Label{Label: condL},
		&ir.CJump{Cond: cond, True: bodyL, False: endL},
		&ir.Label{Label: bodyL},
		body,
		&ir.Jump{Label: condL},
		&ir.Label{Label: endL},
	}}, nil
}

func (g *Generator) forExpr(e *ast.For) (ir.Node, error) {
	var parts [4]ir.Expr
	for i, x := range []ast.Expr{e.Counter, e.Lo, e.Hi, e.Step} {
		v, err := g.value(x)
		if err != nil {
			return nil, err
		}
		parts[i] = v
	}
	counter, lo, hi, step := parts[0], parts[1], parts[2], parts[3]
	body, err := g.stmt(e.Body)
	if err != nil {
		return nil, err
	}
	labels := g.newLabels(3)
	condL, bodyL, endL := labels[0], labels[1], labels[2]
	return &ir.Seq{Stmts: []ir.Stmt{
		&ir.Move{Dst: counter, Src: lo},
		&ir.Label{Label: condL},
		&ir.CJump{Cond: ir.Bin(ir.Lt, counter, hi), True: bodyL, False: endL},
		&ir.Label{Label: bodyL},
		body,
		&ir.Move{Dst: counter, Src: ir.Bin(ir.Add, counter, step)},
		&ir.Jump{Label: condL},
		&ir.Label{Label: endL},
	}}, nil
}
