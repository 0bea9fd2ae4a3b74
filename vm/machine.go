package vm

import (
	"sort"

	"github.com/pinslang/pins/temp"
)

// Value is the content of a memory cell or temporary: an int or a string.
type Value = any

// Machine is the memory and register state of one run.
type Machine struct {
	// FP is the frame pointer of the running function.
	FP int

	// SP is the stack pointer. The stack grows downward.
	SP int

	memory map[int]Value
	data   map[temp.Label]int
}

func newMachine(sp int, data map[temp.Label]int) *Machine {
	return &Machine{
		FP:     sp,
		SP:     sp,
		memory: map[int]Value{},
		data:   data,
	}
}

// Load returns the value stored at addr, or nil if nothing was stored there.
func (m *Machine) Load(addr int) Value {
	return m.memory[addr]
}

// Store writes v to addr.
func (m *Machine) Store(addr int, v Value) {
	m.memory[addr] = v
}

// Address returns the address of a data chunk.
func (m *Machine) Address(label temp.Label) (int, bool) {
	addr, ok := m.data[label]
	return addr, ok
}

// Global returns the value stored in the data chunk with the given label.
func (m *Machine) Global(label temp.Label) (Value, bool) {
	addr, ok := m.data[label]
	if !ok {
		return nil, false
	}
	return m.memory[addr], true
}

// Addresses returns every address that holds a value, in increasing order.
func (m *Machine) Addresses() []int {
	addrs := make([]int, 0, len(m.memory))
	for addr := range m.memory {
		addrs = append(addrs, addr)
	}
	sort.Ints(addrs)
	return addrs
}
