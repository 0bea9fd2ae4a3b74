// Package types describes the semantic types of PINS values.
//
// Every value occupies whole words: atoms take one word and arrays take the
// combined size of their elements.
package types

import (
	"fmt"
	"strings"
)

// WordSize is the size in bytes of one machine word.
const WordSize = 4

// Type is a semantic type.
type Type interface {
	// Size returns the number of bytes a value of this type occupies.
	Size() int
	String() string
}

// Kind enumerates the atom types.
type Kind int

const (
	Logical Kind = iota
	Integer
	String
	Void
)

// Atom is one of the built-in scalar types.
type Atom struct {
	Kind Kind
}

var (
	LogicalType = &Atom{Kind: Logical}
	IntegerType = &Atom{Kind: Integer}
	StringType  = &Atom{Kind: String}
	VoidType    = &Atom{Kind: Void}
)

func (t *Atom) Size() int { return WordSize }

func (t *Atom) String() string {
	switch t.Kind {
	case Logical:
		return "logical"
	case Integer:
		return "integer"
	case String:
		return "string"
	default:
		return "void"
	}
}

// Array is a fixed length sequence of elements.
type Array struct {
	Len  int
	Elem Type
}

func (t *Array) Size() int      { return t.Len * t.Elem.Size() }
func (t *Array) String() string { return fmt.Sprintf("arr[%d] %s", t.Len, t.Elem) }

// Func is the type of a function.
type Func struct {
	Params []Type
	Result Type
}

// Size of a function value; functions are never stored, so only the result
// slot matters to callers.
func (t *Func) Size() int { return t.Result.Size() }

func (t *Func) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.Result)
}

// Named is a type introduced by a type definition. Its underlying type is
// filled in once the definition has been checked.
type Named struct {
	Name       string
	Underlying Type
}

func (t *Named) Size() int {
	if t.Underlying == nil {
		return 0
	}
	return t.Underlying.Size()
}

func (t *Named) String() string { return t.Name }

// Resolve strips any Named wrappers from t.
func Resolve(t Type) Type {
	for {
		n, ok := t.(*Named)
		if !ok || n.Underlying == nil {
			return t
		}
		t = n.Underlying
	}
}

// Identical reports whether two types have the same structure once named
// types are resolved.
func Identical(a, b Type) bool {
	a, b = Resolve(a), Resolve(b)
	switch a := a.(type) {
	case *Atom:
		b, ok := b.(*Atom)
		return ok && a.Kind == b.Kind
	case *Array:
		b, ok := b.(*Array)
		return ok && a.Len == b.Len && Identical(a.Elem, b.Elem)
	case *Func:
		b, ok := b.(*Func)
		if !ok || len(a.Params) != len(b.Params) || !Identical(a.Result, b.Result) {
			return false
		}
		for i := range a.Params {
			if !Identical(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Is reports whether t resolves to the atom of the given kind.
func Is(t Type, kind Kind) bool {
	a, ok := Resolve(t).(*Atom)
	return ok && a.Kind == kind
}

// IsAtom reports whether t resolves to a logical, integer or string atom.
func IsAtom(t Type) bool {
	a, ok := Resolve(t).(*Atom)
	return ok && a.Kind != Void
}

// ElemOf returns the element type of an array, or nil.
func ElemOf(t Type) Type {
	if a, ok := Resolve(t).(*Array); ok {
		return a.Elem
	}
	return nil
}
