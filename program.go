package pins

import (
	"github.com/pinslang/pins/ast"
	"github.com/pinslang/pins/frame"
	"github.com/pinslang/pins/ir"
	"github.com/pinslang/pins/semantic"
	"github.com/pinslang/pins/types"
)

// Program is the compiled representation of PINS source code.
// It is immutable after creation and safe for concurrent use.
// Multiple goroutines can call Run on the same Program simultaneously.
type Program struct {
	ast    *ast.Program
	info   *semantic.Info
	layout *frame.Layout
	code   *ir.Program

	source   string
	filename string
}

// Source returns the original source code that was compiled.
func (p *Program) Source() string {
	return p.source
}

// Filename returns the filename associated with this program, if any.
func (p *Program) Filename() string {
	return p.filename
}

// AST returns the checked syntax tree.
func (p *Program) AST() *ast.Program {
	return p.ast
}

// Info returns the name and type information of the program.
func (p *Program) Info() *semantic.Info {
	return p.info
}

// Layout returns the frames of every function.
func (p *Program) Layout() *frame.Layout {
	return p.layout
}

// Code returns the generated chunks with their linear code.
func (p *Program) Code() *ir.Program {
	return p.code
}

// FunctionNames returns the names of the top-level functions.
func (p *Program) FunctionNames() []string {
	var names []string
	for _, f := range p.ast.Functions() {
		names = append(names, f.Name)
	}
	return names
}

// ResultType returns the result type of a top-level function.
func (p *Program) ResultType(name string) (types.Type, bool) {
	f, ok := p.ast.Function(name)
	if !ok {
		return nil, false
	}
	fn := p.info.FuncOf(f)
	if fn == nil {
		return nil, false
	}
	return fn.Result, true
}
