package vm

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pinslang/pins/compiler"
	"github.com/pinslang/pins/errors"
	"github.com/pinslang/pins/frame"
	"github.com/pinslang/pins/temp"
)

// A builtin reads its arguments from the caller's outgoing slots: the static
// link at SP and the first argument at SP+4. It leaves 0 as its result.
type builtin func(vm *VirtualMachine) error

var builtins = map[temp.Label]builtin{
	"_putInt":            putInt,
	"_putString":         putString,
	"_getInt":            getInt,
	"_getString":         getString,
	compiler.BoundsError: boundsError,
}

// arg returns the value of argument i, counting the static link as 0.
func (vm *VirtualMachine) arg(i int) Value {
	return vm.machine.Load(vm.machine.SP + frame.WordSize*i)
}

func (vm *VirtualMachine) done() error {
	vm.store(vm.machine.SP, 0)
	return nil
}

func putInt(vm *VirtualMachine) error {
	n, err := vm.intValue(vm.arg(1))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(vm.stdout, n); err != nil {
		return vm.evalError(errors.E3007, "write failed: %v", err)
	}
	return vm.done()
}

func putString(vm *VirtualMachine) error {
	s, err := vm.stringValue(vm.arg(1))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(vm.stdout, s); err != nil {
		return vm.evalError(errors.E3007, "write failed: %v", err)
	}
	return vm.done()
}

// token reads the next whitespace-delimited word of input.
func (vm *VirtualMachine) token() (string, error) {
	var s string
	if _, err := fmt.Fscan(vm.input, &s); err != nil {
		if err == io.EOF {
			return "", vm.evalError(errors.E3008, "unexpected end of input")
		}
		return "", vm.evalError(errors.E3008, "read failed: %v", err)
	}
	return s, nil
}

func getInt(vm *VirtualMachine) error {
	addr, err := vm.intValue(vm.arg(1))
	if err != nil {
		return err
	}
	s, err := vm.token()
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return vm.evalError(errors.E3008, "invalid integer input %q", s)
	}
	vm.store(addr, n)
	return vm.done()
}

func getString(vm *VirtualMachine) error {
	addr, err := vm.intValue(vm.arg(1))
	if err != nil {
		return err
	}
	s, err := vm.token()
	if err != nil {
		return err
	}
	vm.store(addr, s)
	return vm.done()
}

func boundsError(vm *VirtualMachine) error {
	index, err := vm.intValue(vm.arg(1))
	if err != nil {
		return err
	}
	length, err := vm.intValue(vm.arg(2))
	if err != nil {
		return err
	}
	return vm.evalError(errors.E3003, "index %d out of range [0, %d)", index, length)
}
