package ast

import "fmt"

// AtomKind enumerates the built-in atom types.
type AtomKind int

const (
	KindLogical AtomKind = iota
	KindInteger
	KindString
	KindVoid
)

func (k AtomKind) String() string {
	switch k {
	case KindLogical:
		return "logical"
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindVoid:
		return "void"
	default:
		return fmt.Sprintf("AtomKind(%d)", int(k))
	}
}

// AtomType is one of the keywords logical, integer or string.
type AtomType struct {
	Base
	Kind AtomKind
}

func (t *AtomType) typeNode()      {}
func (t *AtomType) String() string { return t.Kind.String() }

// ArrType is "arr [ len ] elem".
type ArrType struct {
	Base
	Len  int
	Elem TypeExpr
}

func (t *ArrType) typeNode()      {}
func (t *ArrType) String() string { return fmt.Sprintf("arr[%d] %s", t.Len, t.Elem) }

// TypeName refers to a type introduced by a TypeDef.
type TypeName struct {
	Base
	Name string
}

func (t *TypeName) typeNode()      {}
func (t *TypeName) String() string { return t.Name }
