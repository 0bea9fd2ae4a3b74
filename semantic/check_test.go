package semantic

import (
	"context"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pinslang/pins/ast"
	"github.com/pinslang/pins/errors"
	"github.com/pinslang/pins/parser"
	"github.com/pinslang/pins/types"
	"github.com/stretchr/testify/require"
)

func check(t *testing.T, src string) (*ast.Program, *Info) {
	t.Helper()
	prog, err := parser.Parse(context.Background(), src)
	require.Nil(t, err)
	info, err := Check(prog, WithSource(src))
	require.Nil(t, err)
	return prog, info
}

func checkErr(t *testing.T, src string) *errors.CompileError {
	t.Helper()
	prog, err := parser.Parse(context.Background(), src)
	require.Nil(t, err)
	_, err = Check(prog, WithSource(src))
	require.NotNil(t, err)
	var cerr *errors.CompileError
	require.True(t, errors.As(err, &cerr), "got %T: %v", err, err)
	return cerr
}

func TestResolveNested(t *testing.T) {
	prog, info := check(t, `
fun outer(x : integer) : integer = inner(1) { where fun inner(y : integer) : integer = x + y }`)
	outer, _ := prog.Function("outer")
	where := outer.Body.(*ast.Where)
	inner := where.Defs[0].(*ast.FunDef)

	// The call resolves to inner, and x inside inner resolves to outer's parameter.
	call := where.X.(*ast.Call)
	require.Same(t, inner, info.Callee(call))
	sum := inner.Body.(*ast.Binary)
	require.Same(t, outer.Params[0], info.DefOf(sum.X))
	require.Same(t, inner.Params[0], info.DefOf(sum.Y))
	require.Equal(t, types.IntegerType, info.TypeOf(sum))
}

func TestPrelude(t *testing.T) {
	prog, info := check(t, `fun main() : integer = (putInt(42), putString('hi'), 0)`)
	require.Len(t, prog.Builtins, 4)
	put := prog.Builtins[0]
	require.Equal(t, PutInt, put.Name)
	require.True(t, put.IsBuiltin())
	fn := info.FuncOf(put)
	require.NotNil(t, fn)
	require.Equal(t, types.VoidType, fn.Result)

	// A second check reuses the same prelude.
	_, err := Check(prog)
	require.Nil(t, err)
	require.Len(t, prog.Builtins, 4)
}

func TestExpressionTypes(t *testing.T) {
	prog, info := check(t, `
typ vec : arr[3] integer;
var v : vec;
var s : string;
fun f(i : integer) : logical = (
	{ v[i] = i * 2 },
	{ s = 'x' },
	{ if i > 0 then putInt(i) },
	{ while false : 1 },
	{ for i = 0, 3, 1 : v[i] },
	!(v[0] == 1) | true
)`)
	f, _ := prog.Function("f")
	list := f.Body.(*ast.Exprs).List
	require.Equal(t, "integer", info.TypeOf(list[0]).String())
	require.Equal(t, "string", info.TypeOf(list[1]).String())
	require.Equal(t, types.VoidType, info.TypeOf(list[2]))
	require.Equal(t, types.VoidType, info.TypeOf(list[3]))
	require.Equal(t, types.VoidType, info.TypeOf(list[4]))
	require.Equal(t, types.LogicalType, info.TypeOf(list[5]))
	require.Equal(t, types.LogicalType, info.TypeOf(f.Body))

	v := prog.Defs[1].(*ast.VarDef)
	require.Equal(t, 12, info.TypeOf(v).Size())
	require.Equal(t, "vec", info.TypeOf(v).String())
}

func TestNamedTypeOrder(t *testing.T) {
	_, info := check(t, `var m : matrix; typ matrix : arr[2] row; typ row : arr[3] integer`)
	require.NotNil(t, info)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		src     string
		code    errors.ErrorCode
		message string
	}{
		{`fun f() : integer = y`, errors.E2001, `undefined name "y"`},
		{`fun f() : integer = g(1)`, errors.E2002, `undefined name "g"`},
		{`var x : t`, errors.E2003, `undefined name "t"`},
		{`var x : integer; var x : string`, errors.E2004, `"x" is already defined in this scope`},
		{`fun f(a : integer, a : integer) : integer = a`, errors.E2004, `duplicate parameter "a"`},
		{`fun f() : integer = true`, errors.E2005, `body of f has type logical but the function returns integer`},
		{`fun f() : integer = 1 + true`, errors.E2005, `invalid operands for +: integer and logical`},
		{`fun f() : logical = 'a' == 'b'`, errors.E2005, `invalid operands for ==: string and string`},
		{`fun f() : integer = -true`, errors.E2005, `operator - expects integer, not logical`},
		{`fun f() : integer = ({ if 1 then 2 }, 0)`, errors.E2005, `if condition must be logical, not integer`},
		{`fun f(a : integer) : integer = a(1)`, errors.E2008, `"a" is not a function`},
		{`fun f() : integer = f`, errors.E2007, `"f" is not a variable`},
		{`fun f(a : integer) : integer = f(a, a)`, errors.E2006, `f expects 1 arguments but got 2`},
		{`fun f() : integer = ({ 1 = 2 }, 0)`, errors.E2007, `cannot assign to 1`},
		{`fun f() : integer = (getInt(5), 0)`, errors.E2007, `argument of getInt must be a variable`},
		{`fun f(a : arr[2] integer) : integer = 0`, errors.E2010, `parameter "a" of f must have an atom type, not arr[2] integer`},
		{`typ a : b; typ b : a`, errors.E2009, `type "a" is defined in terms of itself`},
		{`var v : arr[2] integer; fun f() : integer = v[true]`, errors.E2005, `array index must be integer, not logical`},
		{`fun f(x : integer) : integer = x[0]`, errors.E2005, `cannot index a value of type integer`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			err := checkErr(t, tt.src)
			require.Equal(t, tt.code, err.Code)
			require.Equal(t, tt.message, err.Message)
		})
	}
}

func TestSuggestion(t *testing.T) {
	err := checkErr(t, "var count : integer;\nfun f() : integer = coutn")
	require.Equal(t, errors.E2001, err.Code)
	require.Equal(t, 2, err.Line)
	require.Equal(t, 21, err.Column)
	require.Equal(t, "fun f() : integer = coutn", err.SourceLine)
	require.Equal(t, "count", err.Suggestions[0].Value)
}

func TestMultipleErrors(t *testing.T) {
	prog, err := parser.Parse(context.Background(), "fun f() : integer = a; fun g() : integer = b")
	require.Nil(t, err)
	_, err = Check(prog)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 2)
}
