package ast

import (
	"fmt"
	"strings"
)

// TypeDef is "typ name : type".
type TypeDef struct {
	Base
	Name string
	Type TypeExpr
}

func (d *TypeDef) defNode()        {}
func (d *TypeDef) DefName() string { return d.Name }
func (d *TypeDef) String() string  { return fmt.Sprintf("typ %s : %s", d.Name, d.Type) }

// VarDef is "var name : type".
type VarDef struct {
	Base
	Name string
	Type TypeExpr
}

func (d *VarDef) defNode()        {}
func (d *VarDef) DefName() string { return d.Name }
func (d *VarDef) String() string  { return fmt.Sprintf("var %s : %s", d.Name, d.Type) }

// Param is one formal parameter of a function.
type Param struct {
	Base
	Name string
	Type TypeExpr
}

func (d *Param) defNode()        {}
func (d *Param) DefName() string { return d.Name }
func (d *Param) String() string  { return fmt.Sprintf("%s : %s", d.Name, d.Type) }

// FunDef is "fun name ( params ) : result = body".
type FunDef struct {
	Base
	Name   string
	Params []*Param
	Result TypeExpr
	Body   Expr // nil for builtins
}

func (d *FunDef) defNode()        {}
func (d *FunDef) DefName() string { return d.Name }

// IsBuiltin reports whether the function is provided by the runtime.
func (d *FunDef) IsBuiltin() bool { return d.Body == nil }

func (d *FunDef) String() string {
	params := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		params = append(params, p.String())
	}
	s := fmt.Sprintf("fun %s(%s) : %s", d.Name, strings.Join(params, ", "), d.Result)
	if d.Body != nil {
		s += " = " + d.Body.String()
	}
	return s
}
