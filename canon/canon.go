// Package canon rewrites tree IR into a flat list of canonical statements.
//
// In canonical form there are no Seq or ESeq nodes, and every Call is either
// the source of a Move into a temp or the operand of an Exp. Other calls are
// moved into fresh temps ahead of the statement that uses them. Evaluation
// order is preserved: an expression is only moved past a statement when the
// two cannot interfere.
package canon

import (
	"github.com/pinslang/pins/ir"
	"github.com/pinslang/pins/temp"
)

// Linearize returns the canonical statement list for body. Fresh temps are
// drawn from alloc.
func Linearize(body ir.Stmt, alloc *temp.Allocator) []ir.Stmt {
	c := &canonicalizer{alloc: alloc}
	return flatten(c.stmt(body), nil)
}

// Program fills in the Linear field of every code chunk of p that does not
// have one yet.
func Program(p *ir.Program, alloc *temp.Allocator) {
	for _, code := range p.Functions() {
		if code.Linear == nil {
			code.Linear = Linearize(code.Body, alloc)
		}
	}
}

// IsCanonical reports whether stmts contains only canonical statements.
func IsCanonical(stmts []ir.Stmt) bool {
	for _, s := range stmts {
		ok := true
		switch s := s.(type) {
		case *ir.Seq:
			return false
		case *ir.Move:
			if call, isCall := s.Src.(*ir.Call); isCall {
				_, toTemp := s.Dst.(*ir.Temp)
				ok = toTemp && !nested(call.Args...)
			} else {
				ok = !nested(s.Dst, s.Src)
			}
		case *ir.Exp:
			if call, isCall := s.X.(*ir.Call); isCall {
				ok = !nested(call.Args...)
			} else {
				ok = !nested(s.X)
			}
		case *ir.CJump:
			ok = !nested(s.Cond)
		}
		if !ok {
			return false
		}
	}
	return true
}

// nested reports whether any of exps contains a Call or an ESeq.
func nested(exps ...ir.Expr) bool {
	found := false
	for _, e := range exps {
		ir.Inspect(e, func(n ir.Node) bool {
			switch n.(type) {
			case *ir.Call, *ir.ESeq:
				found = true
			}
			return !found
		})
	}
	return found
}

type canonicalizer struct {
	alloc *temp.Allocator
}

func (c *canonicalizer) newTemp() *ir.Temp {
	return &ir.Temp{Temp: c.alloc.NewTemp()}
}

var nop ir.Stmt = &ir.Exp{X: &ir.Const{Value: 0}}

func isNop(s ir.Stmt) bool {
	e, ok := s.(*ir.Exp)
	if !ok {
		return false
	}
	_, isConst := e.X.(*ir.Const)
	return isConst
}

func seq(a, b ir.Stmt) ir.Stmt {
	switch {
	case isNop(a):
		return b
	case isNop(b):
		return a
	}
	return &ir.Seq{Stmts: []ir.Stmt{a, b}}
}

// commute reports whether e evaluates to the same value before and after s.
func commute(s ir.Stmt, e ir.Expr) bool {
	if isNop(s) {
		return true
	}
	switch e.(type) {
	case *ir.Const, *ir.Name:
		return true
	}
	return false
}

func (c *canonicalizer) stmt(s ir.Stmt) ir.Stmt {
	switch s := s.(type) {
	case *ir.Seq:
		out := nop
		for _, x := range s.Stmts {
			out = seq(out, c.stmt(x))
		}
		return out
	case *ir.Jump, *ir.Label:
		return s
	case *ir.CJump:
		return c.reorderStmt([]ir.Expr{s.Cond}, func(l []ir.Expr) ir.Stmt {
			return &ir.CJump{Cond: l[0], True: s.True, False: s.False}
		})
	case *ir.Move:
		return c.move(s)
	case *ir.Exp:
		if call, ok := s.X.(*ir.Call); ok {
			return c.reorderStmt(call.Args, func(l []ir.Expr) ir.Stmt {
				return &ir.Exp{X: &ir.Call{Label: call.Label, Args: l}}
			})
		}
		return c.reorderStmt([]ir.Expr{s.X}, func(l []ir.Expr) ir.Stmt {
			return &ir.Exp{X: l[0]}
		})
	}
	return s
}

func (c *canonicalizer) move(s *ir.Move) ir.Stmt {
	switch dst := s.Dst.(type) {
	case *ir.Temp:
		if call, ok := s.Src.(*ir.Call); ok {
			return c.reorderStmt(call.Args, func(l []ir.Expr) ir.Stmt {
				return &ir.Move{Dst: dst, Src: &ir.Call{Label: call.Label, Args: l}}
			})
		}
		return c.reorderStmt([]ir.Expr{s.Src}, func(l []ir.Expr) ir.Stmt {
			return &ir.Move{Dst: dst, Src: l[0]}
		})
	case *ir.Mem:
		return c.reorderStmt([]ir.Expr{dst.Addr, s.Src}, func(l []ir.Expr) ir.Stmt {
			return &ir.Move{Dst: &ir.Mem{Addr: l[0]}, Src: l[1]}
		})
	case *ir.ESeq:
		return c.stmt(&ir.Seq{Stmts: []ir.Stmt{dst.Stmt, &ir.Move{Dst: dst.Expr, Src: s.Src}}})
	}
	return c.reorderStmt([]ir.Expr{s.Src}, func(l []ir.Expr) ir.Stmt {
		return &ir.Move{Dst: s.Dst, Src: l[0]}
	})
}

func (c *canonicalizer) expr(e ir.Expr) (ir.Stmt, ir.Expr) {
	switch e := e.(type) {
	case *ir.BinOp:
		return c.reorderExpr([]ir.Expr{e.X, e.Y}, func(l []ir.Expr) ir.Expr {
			return &ir.BinOp{Op: e.Op, X: l[0], Y: l[1]}
		})
	case *ir.Mem:
		return c.reorderExpr([]ir.Expr{e.Addr}, func(l []ir.Expr) ir.Expr {
			return &ir.Mem{Addr: l[0]}
		})
	case *ir.ESeq:
		s := c.stmt(e.Stmt)
		s2, x := c.expr(e.Expr)
		return seq(s, s2), x
	case *ir.Call:
		return c.reorderExpr(e.Args, func(l []ir.Expr) ir.Expr {
			return &ir.Call{Label: e.Label, Args: l}
		})
	}
	return nop, e
}

func (c *canonicalizer) reorderStmt(exps []ir.Expr, build func([]ir.Expr) ir.Stmt) ir.Stmt {
	s, l := c.reorder(exps)
	return seq(s, build(l))
}

func (c *canonicalizer) reorderExpr(exps []ir.Expr, build func([]ir.Expr) ir.Expr) (ir.Stmt, ir.Expr) {
	s, l := c.reorder(exps)
	return s, build(l)
}

// reorder pulls the statements out of exps, left to right. The returned
// expressions are free of calls and statements.
func (c *canonicalizer) reorder(exps []ir.Expr) (ir.Stmt, []ir.Expr) {
	if len(exps) == 0 {
		return nop, nil
	}
	first := exps[0]
	if call, ok := first.(*ir.Call); ok {
		t := c.newTemp()
		first = &ir.ESeq{Stmt: &ir.Move{Dst: t, Src: call}, Expr: t}
	}
	s, e := c.expr(first)
	rest, l := c.reorder(exps[1:])
	if commute(rest, e) {
		return seq(s, rest), append([]ir.Expr{e}, l...)
	}
	t := c.newTemp()
	return seq(seq(s, &ir.Move{Dst: t, Src: e}), rest), append([]ir.Expr{t}, l...)
}

func flatten(s ir.Stmt, out []ir.Stmt) []ir.Stmt {
	if seq, ok := s.(*ir.Seq); ok {
		for _, x := range seq.Stmts {
			out = flatten(x, out)
		}
		return out
	}
	if isNop(s) {
		return out
	}
	return append(out, s)
}
