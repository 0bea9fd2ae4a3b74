package vm

import (
	"io"

	"github.com/rs/zerolog"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithStackOrigin sets the initial value of SP. The stack grows downward
// from here. The default is DefaultStackOrigin.
func WithStackOrigin(addr int) Option {
	return func(vm *VirtualMachine) {
		vm.stackOrigin = addr
	}
}

// WithDataBase sets the address of the first data chunk. Data chunks are
// placed upward from here. The default is DefaultDataBase.
func WithDataBase(addr int) Option {
	return func(vm *VirtualMachine) {
		vm.dataBase = addr
	}
}

// WithMaxDepth limits the number of nested calls. Exceeding it fails the run
// with a stack overflow error. The default is MaxFrameDepth.
func WithMaxDepth(depth int) Option {
	return func(vm *VirtualMachine) {
		vm.maxDepth = depth
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution. The interval is specified in number of statements. A value of 0
// disables deterministic checking, relying only on the background goroutine
// that monitors the context. The default is DefaultContextCheckInterval.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events.
// Returning false from any observer method halts execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}

// WithStdin sets the reader used by getInt and getString.
func WithStdin(r io.Reader) Option {
	return func(vm *VirtualMachine) {
		vm.stdin = r
	}
}

// WithStdout sets the writer used by putInt and putString.
func WithStdout(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.stdout = w
	}
}

// WithLogger sets the logger for execution tracing. Calls and returns are
// logged at debug level, memory and temporary writes at trace level.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}
