package canon

import (
	"context"
	"testing"

	"github.com/pinslang/pins/compiler"
	"github.com/pinslang/pins/frame"
	"github.com/pinslang/pins/ir"
	"github.com/pinslang/pins/parser"
	"github.com/pinslang/pins/semantic"
	"github.com/pinslang/pins/temp"
	"github.com/stretchr/testify/require"
)

func tmp(n int) *ir.Temp { return &ir.Temp{Temp: temp.Temp(n)} }

func konst(n int) *ir.Const { return &ir.Const{Value: n} }

func call(label string, args ...ir.Expr) *ir.Call {
	return &ir.Call{Label: temp.Label(label), Args: args}
}

// callOrder returns the labels of calls in stmts, in execution order.
func callOrder(stmts []ir.Stmt) []temp.Label {
	var labels []temp.Label
	for _, s := range stmts {
		ir.Inspect(s, func(n ir.Node) bool {
			if c, ok := n.(*ir.Call); ok {
				labels = append(labels, c.Label)
			}
			return true
		})
	}
	return labels
}

func TestCallIntoTempIsKept(t *testing.T) {
	alloc := temp.NewAllocator()
	s := &ir.Move{Dst: tmp(100), Src: call("_f", konst(0), konst(1))}
	out := Linearize(s, alloc)
	require.Equal(t, []ir.Stmt{s}, out)
	_, temps := alloc.Counts()
	require.Equal(t, 0, temps)

	e := &ir.Exp{X: call("_putInt", konst(0), konst(7))}
	require.Equal(t, []ir.Stmt{e}, Linearize(e, alloc))
}

func TestNestedCallsAreHoisted(t *testing.T) {
	alloc := temp.NewAllocator()
	s := &ir.Move{
		Dst: tmp(100),
		Src: ir.Bin(ir.Add, call("_f", konst(0)), call("_g", konst(0), call("_h", konst(0)))),
	}
	out := Linearize(s, alloc)
	require.True(t, IsCanonical(out))
	require.Equal(t, []temp.Label{"_f", "_h", "_g"}, callOrder(out))

	last := out[len(out)-1].(*ir.Move)
	require.Equal(t, tmp(100), last.Dst)
	sum := last.Src.(*ir.BinOp)
	require.IsType(t, &ir.Temp{}, sum.X)
	require.IsType(t, &ir.Temp{}, sum.Y)
}

func TestCallIntoMemoryIsHoisted(t *testing.T) {
	alloc := temp.NewAllocator()
	s := &ir.Move{Dst: &ir.Mem{Addr: &ir.Name{Label: "_x"}}, Src: call("_f", konst(0))}
	out := Linearize(s, alloc)
	require.Len(t, out, 2)
	hoist := out[0].(*ir.Move)
	require.IsType(t, &ir.Call{}, hoist.Src)
	require.Equal(t, &ir.Move{Dst: &ir.Mem{Addr: &ir.Name{Label: "_x"}}, Src: hoist.Dst}, out[1])
}

func TestESeqRemoval(t *testing.T) {
	alloc := temp.NewAllocator()
	s := &ir.Seq{Stmts: []ir.Stmt{
		&ir.Label{Label: "L0"},
		&ir.Exp{X: &ir.ESeq{Stmt: &ir.Move{Dst: tmp(1), Src: konst(5)}, Expr: tmp(1)}},
		&ir.Seq{Stmts: []ir.Stmt{
			&ir.CJump{
				Cond:  &ir.ESeq{Stmt: &ir.Move{Dst: tmp(2), Src: konst(1)}, Expr: ir.Bin(ir.Lt, tmp(2), konst(3))},
				True:  "L0",
				False: "L1",
			},
			&ir.Jump{Label: "L0"},
		}},
		&ir.Label{Label: "L1"},
	}}
	out := Linearize(s, alloc)
	require.True(t, IsCanonical(out))
	require.Equal(t, []string{
		"LABEL(L0)",
		"MOVE(TEMP(T1), CONST(5))",
		"EXP(TEMP(T1))",
		"MOVE(TEMP(T2), CONST(1))",
		"CJUMP(BINOP(LTH, TEMP(T2), CONST(3)), L0, L1)",
		"JUMP(L0)",
		"LABEL(L1)",
	}, strings(out))
}

func TestMoveIntoESeq(t *testing.T) {
	alloc := temp.NewAllocator()
	dst := &ir.ESeq{
		Stmt: &ir.Exp{X: call("_check", konst(0))},
		Expr: &ir.Mem{Addr: &ir.Name{Label: "_v"}},
	}
	out := Linearize(&ir.Move{Dst: dst, Src: konst(9)}, alloc)
	require.Equal(t, []string{
		"EXP(CALL(_check, [CONST(0)]))",
		"MOVE(MEM(NAME(_v)), CONST(9))",
	}, strings(out))
}

func TestOperandOrderIsPreserved(t *testing.T) {
	alloc := temp.NewAllocator()
	// The read of T1 must happen before the ESeq that overwrites it.
	s := &ir.Exp{X: ir.Bin(ir.Sub, tmp(1), &ir.ESeq{Stmt: &ir.Move{Dst: tmp(1), Src: konst(0)}, Expr: konst(2)})}
	out := Linearize(s, alloc)
	require.Len(t, out, 3)
	saved := out[0].(*ir.Move)
	require.Equal(t, tmp(1), saved.Src)
	require.Equal(t, "MOVE(TEMP(T1), CONST(0))", out[1].String())
	require.Equal(t, &ir.Exp{X: ir.Bin(ir.Sub, saved.Dst, konst(2))}, out[2])
}

func TestIsCanonical(t *testing.T) {
	require.False(t, IsCanonical([]ir.Stmt{&ir.Seq{}}))
	require.False(t, IsCanonical([]ir.Stmt{&ir.Exp{X: ir.Bin(ir.Add, call("_f"), konst(1))}}))
	require.False(t, IsCanonical([]ir.Stmt{&ir.Move{Dst: &ir.Mem{Addr: konst(4)}, Src: call("_f")}}))
	require.True(t, IsCanonical([]ir.Stmt{&ir.Move{Dst: tmp(1), Src: call("_f")}}))
}

func TestProgram(t *testing.T) {
	src := `
fun fact(n : integer) : integer = ({ if n <= 1 then { r = 1 } else { r = n * fact(n - 1) } }, r) { where var r : integer };
fun main() : integer = fact(5) + fact(3) % 4`
	prog, err := parser.Parse(context.Background(), src)
	require.Nil(t, err)
	info, err := semantic.Check(prog)
	require.Nil(t, err)
	alloc := temp.NewAllocator()
	layout, err := frame.Evaluate(prog, info, alloc)
	require.Nil(t, err)
	p, err := compiler.Generate(prog, info, layout, alloc)
	require.Nil(t, err)

	Program(p, alloc)
	for _, code := range p.Functions() {
		require.NotEmpty(t, code.Linear)
		require.True(t, IsCanonical(code.Linear), "%s is not canonical", code.Frame.Label)
		last := code.Linear[len(code.Linear)-1].(*ir.Move)
		require.Equal(t, &ir.Temp{Temp: code.Frame.RV}, last.Dst)
	}
	main, _ := p.Function("main")
	require.Equal(t, []temp.Label{"_fact", "_fact"}, callOrder(main.Linear))

	// A second pass keeps the cached statements.
	linear := main.Linear
	Program(p, alloc)
	require.Same(t, &linear[0], &main.Linear[0])
}

func strings(stmts []ir.Stmt) []string {
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.String()
	}
	return out
}
