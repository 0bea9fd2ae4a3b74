// Package pins compiles and interprets programs written in PINS, a small
// nested-function language with integers, logicals, strings and fixed-size
// arrays.
//
// Compilation runs the parser, the semantic checker, frame layout, IR
// generation and canonicalization. Run interprets the resulting IR:
//
//	prog, err := pins.Compile(`fun main() : integer = 6 * 7`)
//	if err != nil {
//		return err
//	}
//	result, err := pins.Run(ctx, prog) // 42
package pins

import (
	"context"
	"fmt"

	"github.com/pinslang/pins/canon"
	"github.com/pinslang/pins/compiler"
	"github.com/pinslang/pins/errors"
	"github.com/pinslang/pins/frame"
	"github.com/pinslang/pins/parser"
	"github.com/pinslang/pins/semantic"
	"github.com/pinslang/pins/temp"
	"github.com/pinslang/pins/types"
	"github.com/pinslang/pins/vm"
)

// Compile parses, checks and compiles source code into linear IR.
// The returned Program is immutable and safe for concurrent use.
func Compile(source string, opts ...Option) (*Program, error) {
	return compile(context.Background(), source, collectOptions(opts...))
}

func compile(ctx context.Context, source string, o *options) (*Program, error) {
	tree, err := parser.Parse(ctx, source, o.parserOpts()...)
	if err != nil {
		return nil, err
	}
	info, err := semantic.Check(tree, o.checkerOpts(source)...)
	if err != nil {
		return nil, err
	}
	alloc := temp.NewAllocator()
	layout, err := frame.Evaluate(tree, info, alloc)
	if err != nil {
		return nil, err
	}
	code, err := compiler.Generate(tree, info, layout, alloc, o.compilerOpts()...)
	if err != nil {
		return nil, err
	}
	canon.Program(code, alloc)
	return &Program{
		ast:      tree,
		info:     info,
		layout:   layout,
		code:     code,
		source:   source,
		filename: o.filename,
	}, nil
}

// Run calls the entry function of a compiled program and returns its result
// as a native Go value: int for integer, bool for logical, string for string
// and nil for void. Each call creates fresh runtime state, allowing
// concurrent execution of the same Program.
func Run(ctx context.Context, prog *Program, opts ...Option) (any, error) {
	o := collectOptions(opts...)
	resultType, ok := prog.ResultType(o.entry)
	if !ok {
		return nil, errors.EvalErrorf(errors.E3005, "function %q not found", o.entry)
	}
	// Nested functions may share the entry's name, so call by label.
	entry, _ := prog.ast.Function(o.entry)
	label := prog.layout.FrameOf(entry).Label
	args := make([]vm.Value, len(o.args))
	copy(args, o.args)
	result, err := vm.Run(ctx, prog.code, string(label), args, o.vmOpts()...)
	if err != nil {
		return nil, err
	}
	return convert(result, resultType)
}

// Eval is a convenience function that compiles and runs source code.
// It is equivalent to Compile() followed by Run().
func Eval(ctx context.Context, source string, opts ...Option) (any, error) {
	o := collectOptions(opts...)
	prog, err := compile(ctx, source, o)
	if err != nil {
		return nil, err
	}
	return Run(ctx, prog, opts...)
}

func convert(v vm.Value, t types.Type) (any, error) {
	atom, ok := types.Resolve(t).(*types.Atom)
	if !ok {
		return nil, fmt.Errorf("cannot return a value of type %s", t)
	}
	switch atom.Kind {
	case types.Void:
		return nil, nil
	case types.String:
		switch v := v.(type) {
		case string:
			return v, nil
		case nil:
			return "", nil
		}
	case types.Integer:
		switch v := v.(type) {
		case int:
			return v, nil
		case nil:
			return 0, nil
		}
	case types.Logical:
		switch v := v.(type) {
		case int:
			return v != 0, nil
		case nil:
			return false, nil
		}
	}
	return nil, errors.EvalErrorf(errors.E3001, "result %v is not a valid %s", v, t)
}
