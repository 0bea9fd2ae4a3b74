package vm

import (
	"context"

	"github.com/pinslang/pins/ir"
)

// Run calls the entry function of prog in a new Virtual Machine and returns
// the result.
func Run(ctx context.Context, prog *ir.Program, entry string, args []Value, options ...Option) (Value, error) {
	return New(prog, options...).Call(ctx, entry, args...)
}
