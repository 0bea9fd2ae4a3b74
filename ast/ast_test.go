package ast

import (
	"testing"

	"github.com/pinslang/pins/internal/token"
	"github.com/stretchr/testify/require"
)

// fact builds: fun fact(n : integer) : integer = {if (n <= 1) then 1 else (n * fact((n - 1)))}
func fact(ids *IDs) *FunDef {
	at := func() Base { return NewBase(ids.Next(), token.NoPos) }
	n := &Param{Base: at(), Name: "n", Type: &AtomType{Base: at(), Kind: KindInteger}}
	ident := func() *Ident { return &Ident{Base: at(), Name: "n"} }
	one := func() *Int { return &Int{Base: at(), Literal: "1", Value: 1} }
	body := &If{
		Base: at(),
		Cond: &Binary{Base: at(), Op: Le, X: ident(), Y: one()},
		Then: one(),
		Else: &Binary{Base: at(), Op: Mul, X: ident(), Y: &Call{
			Base: at(),
			Name: "fact",
			Args: []Expr{&Binary{Base: at(), Op: Sub, X: ident(), Y: one()}},
		}},
	}
	return &FunDef{
		Base:   at(),
		Name:   "fact",
		Params: []*Param{n},
		Result: &AtomType{Base: at(), Kind: KindInteger},
		Body:   body,
	}
}

func TestString(t *testing.T) {
	var ids IDs
	f := fact(&ids)
	require.Equal(t,
		"fun fact(n : integer) : integer = {if (n <= 1) then 1 else (n * fact((n - 1)))}",
		f.String())
	require.False(t, f.IsBuiltin())
	require.Equal(t, "'it''s'", (&String{Value: "it's"}).String())
	require.Equal(t, "arr[3] logical", (&ArrType{Len: 3, Elem: &AtomType{Kind: KindLogical}}).String())
}

func TestUniqueIDs(t *testing.T) {
	var ids IDs
	prog := &Program{Base: NewBase(ids.Next(), token.NoPos), Defs: []Def{fact(&ids)}}
	seen := map[NodeID]bool{}
	Inspect(prog, func(n Node) bool {
		if n == nil {
			return false
		}
		require.NotEqual(t, NoID, n.ID())
		require.False(t, seen[n.ID()], "duplicate id %d", n.ID())
		seen[n.ID()] = true
		return true
	})
	require.Len(t, seen, int(ids.Last()))
}

func TestInspectSkipsChildren(t *testing.T) {
	var ids IDs
	f := fact(&ids)
	var visited []string
	Inspect(f, func(n Node) bool {
		if n == nil {
			return false
		}
		switch n := n.(type) {
		case *Call:
			visited = append(visited, n.Name)
			return false
		case *Ident:
			visited = append(visited, n.Name)
		}
		return true
	})
	// The identifier inside the call's argument is not visited.
	require.Equal(t, []string{"n", "n", "fact"}, visited)
}

func TestProgramFunctions(t *testing.T) {
	var ids IDs
	prog := &Program{Defs: []Def{
		&VarDef{Base: NewBase(ids.Next(), token.NoPos), Name: "x", Type: &AtomType{Kind: KindInteger}},
		fact(&ids),
	}}
	require.Len(t, prog.Functions(), 1)
	f, ok := prog.Function("fact")
	require.True(t, ok)
	require.Equal(t, "fact", f.DefName())
	_, ok = prog.Function("x")
	require.False(t, ok)
}

func TestOperatorClasses(t *testing.T) {
	require.True(t, Or.IsLogical())
	require.True(t, Lt.IsComparison())
	require.False(t, Add.IsComparison())
	require.True(t, Mod.IsArithmetic())
	require.Equal(t, "%", Mod.String())
	require.Equal(t, "!", Not.String())
}
