package semantic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pinslang/pins/ast"
	"github.com/pinslang/pins/errors"
	"github.com/pinslang/pins/types"
)

// Option configures a checker.
type Option func(*checker)

// WithSource supplies the program text so errors can quote the offending
// source line.
func WithSource(source string) Option {
	return func(c *checker) {
		c.lines = strings.Split(source, "\n")
	}
}

// Check resolves every name in prog and computes the type of every
// expression. All errors found are reported together.
func Check(prog *ast.Program, options ...Option) (*Info, error) {
	c := &checker{info: newInfo(), resolving: map[*ast.TypeDef]bool{}}
	for _, opt := range options {
		opt(c)
	}
	attachPrelude(prog)

	universe := newScope(nil)
	for _, b := range prog.Builtins {
		universe.declare(b)
		c.checkSignature(b)
	}
	c.checkDefs(newScope(universe), prog.Defs)
	if c.errs.HasErrors() {
		return c.info, c.errs.ToError()
	}
	return c.info, nil
}

type checker struct {
	info      *Info
	errs      errors.CompileErrors
	lines     []string
	resolving map[*ast.TypeDef]bool
}

type scope struct {
	parent *scope
	names  map[string]ast.Def
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: map[string]ast.Def{}}
}

func (s *scope) declare(d ast.Def) bool {
	if _, exists := s.names[d.DefName()]; exists {
		return false
	}
	s.names[d.DefName()] = d
	return true
}

func (s *scope) lookup(name string) ast.Def {
	for ; s != nil; s = s.parent {
		if d, ok := s.names[name]; ok {
			return d
		}
	}
	return nil
}

// visible returns every name reachable from s, for suggestions.
func (s *scope) visible() []string {
	var names []string
	for ; s != nil; s = s.parent {
		for name := range s.names {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (c *checker) errorf(n ast.Node, code errors.ErrorCode, format string, args ...any) *errors.CompileError {
	pos := n.Pos()
	err := &errors.CompileError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Filename: pos.File,
		Line:     pos.LineNumber(),
		Column:   pos.ColumnNumber(),
	}
	if pos.Line < len(c.lines) {
		err.SourceLine = c.lines[pos.Line]
	}
	c.errs.Add(err)
	return err
}

// checkDefs checks one list of mutually visible definitions: declare all
// names, then resolve types, then signatures, then bodies.
func (c *checker) checkDefs(s *scope, defs []ast.Def) {
	for _, d := range defs {
		if !s.declare(d) {
			c.errorf(d, errors.E2004, "%q is already defined in this scope", d.DefName())
		}
	}
	for _, d := range defs {
		if td, ok := d.(*ast.TypeDef); ok {
			c.typeDef(s, td)
		}
	}
	for _, d := range defs {
		switch d := d.(type) {
		case *ast.VarDef:
			if t := c.resolveType(s, d.Type); t != nil {
				c.info.Types[d.ID()] = t
			}
		case *ast.FunDef:
			c.signature(s, d)
		}
	}
	for _, d := range defs {
		if f, ok := d.(*ast.FunDef); ok {
			c.funBody(s, f)
		}
	}
}

func (c *checker) typeDef(s *scope, td *ast.TypeDef) types.Type {
	if t, ok := c.info.Types[td.ID()]; ok {
		return t
	}
	if c.resolving[td] {
		c.errorf(td, errors.E2009, "type %q is defined in terms of itself", td.Name)
		return nil
	}
	c.resolving[td] = true
	defer delete(c.resolving, td)
	under := c.resolveType(s, td.Type)
	if under == nil {
		return nil
	}
	named := &types.Named{Name: td.Name, Underlying: under}
	c.info.Types[td.ID()] = named
	return named
}

func (c *checker) resolveType(s *scope, te ast.TypeExpr) types.Type {
	var t types.Type
	switch te := te.(type) {
	case *ast.AtomType:
		t = atomType(te.Kind)
	case *ast.ArrType:
		elem := c.resolveType(s, te.Elem)
		if elem == nil {
			return nil
		}
		t = &types.Array{Len: te.Len, Elem: elem}
	case *ast.TypeName:
		d := s.lookup(te.Name)
		if d == nil {
			c.undefined(s, te, errors.E2003, te.Name)
			return nil
		}
		td, ok := d.(*ast.TypeDef)
		if !ok {
			c.errorf(te, errors.E2003, "%q is not a type", te.Name)
			return nil
		}
		c.info.Defs[te.ID()] = td
		if t = c.typeDef(s, td); t == nil {
			return nil
		}
	default:
		c.errorf(te, errors.E1010, "unexpected type expression %T", te)
		return nil
	}
	c.info.Types[te.ID()] = t
	return t
}

func atomType(k ast.AtomKind) types.Type {
	switch k {
	case ast.KindLogical:
		return types.LogicalType
	case ast.KindInteger:
		return types.IntegerType
	case ast.KindString:
		return types.StringType
	default:
		return types.VoidType
	}
}

// checkSignature records the signature of a prelude function.
func (c *checker) checkSignature(f *ast.FunDef) {
	c.signature(nil, f)
}

func (c *checker) signature(s *scope, f *ast.FunDef) {
	fn := &types.Func{}
	ok := true
	for _, p := range f.Params {
		t := c.resolveType(s, p.Type)
		if t == nil {
			ok = false
			continue
		}
		if !types.IsAtom(t) {
			c.errorf(p, errors.E2010, "parameter %q of %s must have an atom type, not %s", p.Name, f.Name, t)
			ok = false
		}
		c.info.Types[p.ID()] = t
		fn.Params = append(fn.Params, t)
	}
	result := c.resolveType(s, f.Result)
	if result == nil {
		return
	}
	if _, isArr := types.Resolve(result).(*types.Array); isArr {
		c.errorf(f.Result, errors.E2010, "function %s cannot return an array", f.Name)
		ok = false
	}
	fn.Result = result
	if ok {
		c.info.Types[f.ID()] = fn
	}
}

func (c *checker) funBody(s *scope, f *ast.FunDef) {
	fn := c.info.FuncOf(f)
	inner := newScope(s)
	for _, p := range f.Params {
		if !inner.declare(p) {
			c.errorf(p, errors.E2004, "duplicate parameter %q", p.Name)
		}
	}
	body := c.expr(inner, f.Body)
	if fn == nil || body == nil {
		return
	}
	if !types.Identical(body, fn.Result) {
		c.errorf(f.Body, errors.E2005, "body of %s has type %s but the function returns %s", f.Name, body, fn.Result)
	}
}

// expr checks e and returns its type, or nil after reporting an error.
func (c *checker) expr(s *scope, e ast.Expr) types.Type {
	t := c.exprType(s, e)
	if t != nil {
		c.info.Types[e.ID()] = t
	}
	return t
}

func (c *checker) exprType(s *scope, e ast.Expr) types.Type {
	switch e := e.(type) {
	case *ast.Int:
		return types.IntegerType
	case *ast.Bool:
		return types.LogicalType
	case *ast.String:
		return types.StringType
	case *ast.Ident:
		return c.variable(s, e)
	case *ast.Binary:
		return c.binary(s, e)
	case *ast.Unary:
		x := c.expr(s, e.X)
		if x == nil {
			return nil
		}
		want := types.Integer
		if e.Op == ast.Not {
			want = types.Logical
		}
		if !types.Is(x, want) {
			c.errorf(e, errors.E2005, "operator %s expects %s, not %s", e.Op, atomName(want), x)
			return nil
		}
		return x
	case *ast.Index:
		x := c.expr(s, e.X)
		i := c.expr(s, e.Index)
		if x == nil || i == nil {
			return nil
		}
		elem := types.ElemOf(x)
		if elem == nil {
			c.errorf(e, errors.E2005, "cannot index a value of type %s", x)
			return nil
		}
		if !types.Is(i, types.Integer) {
			c.errorf(e.Index, errors.E2005, "array index must be integer, not %s", i)
			return nil
		}
		return elem
	case *ast.Exprs:
		var last types.Type
		for _, x := range e.List {
			last = c.expr(s, x)
		}
		return last
	case *ast.Call:
		return c.call(s, e)
	case *ast.Assign:
		dst := c.expr(s, e.Dst)
		src := c.expr(s, e.Src)
		if dst == nil || src == nil {
			return nil
		}
		if !isLValue(e.Dst) {
			c.errorf(e.Dst, errors.E2007, "cannot assign to %s", e.Dst)
			return nil
		}
		if !types.IsAtom(dst) || !types.Identical(dst, src) {
			c.errorf(e, errors.E2005, "cannot assign %s to %s", src, dst)
			return nil
		}
		return dst
	case *ast.If:
		c.condition(s, e.Cond, "if")
		c.expr(s, e.Then)
		if e.Else != nil {
			c.expr(s, e.Else)
		}
		return types.VoidType
	case *ast.While:
		c.condition(s, e.Cond, "while")
		c.expr(s, e.Body)
		return types.VoidType
	case *ast.For:
		if t := c.expr(s, e.Counter); t != nil && !types.Is(t, types.Integer) {
			c.errorf(e.Counter, errors.E2005, "for counter %s must be integer, not %s", e.Counter.Name, t)
		}
		for _, bound := range []ast.Expr{e.Lo, e.Hi, e.Step} {
			if t := c.expr(s, bound); t != nil && !types.Is(t, types.Integer) {
				c.errorf(bound, errors.E2005, "for bounds must be integer, not %s", t)
			}
		}
		c.expr(s, e.Body)
		return types.VoidType
	case *ast.Where:
		inner := newScope(s)
		c.checkDefs(inner, e.Defs)
		return c.expr(inner, e.X)
	}
	c.errorf(e, errors.E1004, "unexpected expression %T", e)
	return nil
}

func (c *checker) condition(s *scope, cond ast.Expr, what string) {
	if t := c.expr(s, cond); t != nil && !types.Is(t, types.Logical) {
		c.errorf(cond, errors.E2005, "%s condition must be logical, not %s", what, t)
	}
}

func (c *checker) variable(s *scope, id *ast.Ident) types.Type {
	d := s.lookup(id.Name)
	if d == nil {
		c.undefined(s, id, errors.E2001, id.Name)
		return nil
	}
	switch d.(type) {
	case *ast.VarDef, *ast.Param:
	default:
		c.errorf(id, errors.E2007, "%q is not a variable", id.Name)
		return nil
	}
	c.info.Defs[id.ID()] = d
	return c.info.Types[d.ID()]
}

func (c *checker) binary(s *scope, e *ast.Binary) types.Type {
	x := c.expr(s, e.X)
	y := c.expr(s, e.Y)
	if x == nil || y == nil {
		return nil
	}
	switch {
	case e.Op.IsLogical():
		if types.Is(x, types.Logical) && types.Is(y, types.Logical) {
			return types.LogicalType
		}
	case e.Op.IsComparison():
		if (types.Is(x, types.Integer) && types.Is(y, types.Integer)) ||
			(types.Is(x, types.Logical) && types.Is(y, types.Logical)) {
			return types.LogicalType
		}
	case e.Op.IsArithmetic():
		if types.Is(x, types.Integer) && types.Is(y, types.Integer) {
			return types.IntegerType
		}
	}
	c.errorf(e, errors.E2005, "invalid operands for %s: %s and %s", e.Op, x, y)
	return nil
}

func (c *checker) call(s *scope, call *ast.Call) types.Type {
	d := s.lookup(call.Name)
	if d == nil {
		c.undefined(s, call, errors.E2002, call.Name)
		for _, a := range call.Args {
			c.expr(s, a)
		}
		return nil
	}
	f, ok := d.(*ast.FunDef)
	if !ok {
		c.errorf(call, errors.E2008, "%q is not a function", call.Name)
		return nil
	}
	c.info.Defs[call.ID()] = f
	fn := c.info.FuncOf(f)
	args := make([]types.Type, len(call.Args))
	for i, a := range call.Args {
		args[i] = c.expr(s, a)
	}
	if fn == nil {
		return nil
	}
	if len(args) != len(fn.Params) {
		c.errorf(call, errors.E2006, "%s expects %d arguments but got %d", f.Name, len(fn.Params), len(args))
		return fn.Result
	}
	for i, a := range args {
		if a != nil && !types.Identical(a, fn.Params[i]) {
			c.errorf(call.Args[i], errors.E2005, "argument %d of %s must be %s, not %s", i+1, f.Name, fn.Params[i], a)
		}
	}
	if f.IsBuiltin() && IsInput(f.Name) {
		for _, a := range call.Args {
			if !isLValue(a) {
				c.errorf(a, errors.E2007, "argument of %s must be a variable", f.Name)
			}
		}
	}
	return fn.Result
}

func (c *checker) undefined(s *scope, n ast.Node, code errors.ErrorCode, name string) {
	err := c.errorf(n, code, "undefined name %q", name)
	err.Suggestions = errors.SuggestSimilar(name, s.visible())
}

// isLValue reports whether e denotes a storage location.
func isLValue(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Ident:
		return true
	case *ast.Index:
		return isLValue(e.X)
	}
	return false
}

func atomName(k types.Kind) string {
	return (&types.Atom{Kind: k}).String()
}
