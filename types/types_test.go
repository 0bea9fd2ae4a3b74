package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizes(t *testing.T) {
	require.Equal(t, 4, IntegerType.Size())
	require.Equal(t, 4, StringType.Size())
	require.Equal(t, 4, LogicalType.Size())
	require.Equal(t, 4, VoidType.Size())
	require.Equal(t, 40, (&Array{Len: 10, Elem: IntegerType}).Size())
	grid := &Array{Len: 3, Elem: &Array{Len: 2, Elem: IntegerType}}
	require.Equal(t, 24, grid.Size())
	require.Equal(t, 24, (&Named{Name: "grid", Underlying: grid}).Size())
	fn := &Func{Params: []Type{IntegerType}, Result: LogicalType}
	require.Equal(t, 4, fn.Size())
}

func TestIdentical(t *testing.T) {
	vec := &Named{Name: "vec", Underlying: &Array{Len: 3, Elem: IntegerType}}
	alias := &Named{Name: "alias", Underlying: vec}
	require.True(t, Identical(vec, &Array{Len: 3, Elem: IntegerType}))
	require.True(t, Identical(alias, vec))
	require.False(t, Identical(vec, &Array{Len: 4, Elem: IntegerType}))
	require.False(t, Identical(IntegerType, LogicalType))
	require.True(t, Identical(
		&Func{Params: []Type{IntegerType}, Result: VoidType},
		&Func{Params: []Type{IntegerType}, Result: VoidType}))
	require.False(t, Identical(
		&Func{Params: []Type{IntegerType}, Result: VoidType},
		&Func{Params: []Type{StringType}, Result: VoidType}))
}

func TestPredicates(t *testing.T) {
	named := &Named{Name: "n", Underlying: IntegerType}
	require.True(t, Is(named, Integer))
	require.True(t, IsAtom(named))
	require.False(t, IsAtom(VoidType))
	require.Nil(t, ElemOf(IntegerType))
	require.Equal(t, StringType, ElemOf(&Array{Len: 2, Elem: StringType}))
}

func TestString(t *testing.T) {
	require.Equal(t, "arr[2] string", (&Array{Len: 2, Elem: StringType}).String())
	require.Equal(t, "(integer, logical) -> void",
		(&Func{Params: []Type{IntegerType, LogicalType}, Result: VoidType}).String())
}
