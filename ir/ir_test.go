package ir

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pinslang/pins/frame"
	"github.com/pinslang/pins/temp"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	fp := &Temp{Temp: 3}
	s := &Move{
		Dst: MemAt(fp, -4),
		Src: &Call{Label: "_f", Args: []Expr{fp, &Const{Value: 41}}},
	}
	require.Equal(t,
		"MOVE(MEM(BINOP(ADD, TEMP(T3), CONST(-4))), CALL(_f, [TEMP(T3), CONST(41)]))",
		s.String())
	require.Equal(t, "CJUMP(CONST(1), L0, L1)", (&CJump{Cond: &Const{Value: 1}, True: "L0", False: "L1"}).String())
	require.Equal(t, "SEQ(LABEL(L0), JUMP(L0))", (&Seq{Stmts: []Stmt{&Label{Label: "L0"}, &Jump{Label: "L0"}}}).String())
}

func TestOpString(t *testing.T) {
	require.Equal(t, "OR", Or.String())
	require.Equal(t, "MOD", Mod.String())
	require.Equal(t, "UNKNOWN", Op(99).String())
	require.True(t, Lt.IsComparison())
	require.False(t, Add.IsComparison())
}

func TestNewSeq(t *testing.T) {
	one := &Label{Label: "L0"}
	require.Same(t, one, NewSeq(one))
	require.Len(t, NewSeq(one, one).(*Seq).Stmts, 2)
}

func TestInspect(t *testing.T) {
	tree := &ESeq{
		Stmt: &Move{Dst: &Temp{Temp: 1}, Src: &Mem{Addr: &Mem{Addr: &Name{Label: temp.FP}}}},
		Expr: Bin(Add, &Temp{Temp: 1}, &Const{Value: 1}),
	}
	var mems, total int
	Inspect(tree, func(n Node) bool {
		total++
		if _, ok := n.(*Mem); ok {
			mems++
		}
		return true
	})
	require.Equal(t, 2, mems)
	require.Equal(t, 9, total)

	total = 0
	Inspect(tree, func(n Node) bool {
		total++
		_, isMove := n.(*Move)
		return !isMove
	})
	require.Equal(t, 5, total)
}

func TestFprint(t *testing.T) {
	s := &Seq{Stmts: []Stmt{
		&CJump{Cond: Bin(Lt, &Temp{Temp: 0}, &Const{Value: 3}), True: "L1", False: "L2"},
		&Exp{X: &Call{Label: "_putInt", Args: []Expr{&Const{Value: 0}, &Temp{Temp: 0}}}},
	}}
	expected := strings.TrimSpace(`
SEQ
  CJUMP L1, L2
    BINOP LTH
      TEMP(T0)
      CONST(3)
  EXP
    CALL _putInt
      CONST(0)
      TEMP(T0)
`)
	require.Equal(t, expected+"\n", Sprint(s))
}

func TestProgram(t *testing.T) {
	p := NewProgram()
	lit := "hello"
	global := &frame.Frame{Level: frame.GlobalLevel}
	f := &frame.Frame{Name: "f", Label: "_f", Parent: global}
	nested := &frame.Frame{Name: "g", Label: "L3", Level: 1, Parent: f}
	require.Nil(t, p.Add(&DataChunk{Label: "_x", Size: 4}))
	require.Nil(t, p.Add(&DataChunk{Label: "L0", Size: 4, Literal: &lit}))
	require.Nil(t, p.Add(&CodeChunk{Frame: f, Body: &Exp{X: &Const{}}}))
	require.Nil(t, p.Add(&CodeChunk{Frame: nested, Body: &Exp{X: &Const{}}}))
	require.Error(t, p.Add(&DataChunk{Label: "_x", Size: 4}))

	require.Len(t, p.Data(), 2)
	require.Len(t, p.Functions(), 2)

	code, ok := p.Function("f")
	require.True(t, ok)
	require.Same(t, f, code.Frame)
	code, ok = p.Function("L3")
	require.True(t, ok)
	require.Same(t, nested, code.Frame)
	code, ok = p.Function("g")
	require.True(t, ok)
	require.Same(t, nested, code.Frame)
	_, ok = p.Function("_x")
	require.False(t, ok)
	c, ok := p.Chunk("L0")
	require.True(t, ok)
	require.Equal(t, `DATA(L0, 4, "hello")`, c.(*DataChunk).String())

	var buf bytes.Buffer
	require.Nil(t, FprintProgram(&buf, p, false))
	require.Contains(t, buf.String(), "DATA(_x, 4)\n")
	require.Contains(t, buf.String(), "FRAME(_f, level=0")
}
