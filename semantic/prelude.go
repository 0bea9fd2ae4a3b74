package semantic

import (
	"github.com/pinslang/pins/ast"
	"github.com/pinslang/pins/internal/token"
)

// Names of the prelude functions. The input functions store into the
// variable passed as their argument.
const (
	PutInt    = "putInt"
	GetInt    = "getInt"
	PutString = "putString"
	GetString = "getString"
)

var prelude = []struct {
	name  string
	param ast.AtomKind
}{
	{PutInt, ast.KindInteger},
	{GetInt, ast.KindInteger},
	{PutString, ast.KindString},
	{GetString, ast.KindString},
}

// IsInput reports whether name is a prelude function that writes to its
// argument.
func IsInput(name string) bool {
	return name == GetInt || name == GetString
}

// attachPrelude adds the prelude declarations to prog unless a previous
// check already did.
func attachPrelude(prog *ast.Program) {
	if len(prog.Builtins) > 0 {
		return
	}
	base := func() ast.Base { return ast.NewBase(prog.IDs.Next(), token.NoPos) }
	for _, p := range prelude {
		param := &ast.Param{
			Base: base(),
			Name: "value",
			Type: &ast.AtomType{Base: base(), Kind: p.param},
		}
		prog.Builtins = append(prog.Builtins, &ast.FunDef{
			Base:   base(),
			Name:   p.name,
			Params: []*ast.Param{param},
			Result: &ast.AtomType{Base: base(), Kind: ast.KindVoid},
		})
	}
}
