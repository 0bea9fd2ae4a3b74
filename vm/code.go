package vm

import (
	"github.com/pinslang/pins/frame"
	"github.com/pinslang/pins/ir"
	"github.com/pinslang/pins/temp"
)

// code is a function ready to be executed: its frame, its linear
// statements and the position of every label among them.
type code struct {
	frame  *frame.Frame
	stmts  []ir.Stmt
	labels map[temp.Label]int
}

func loadCode(c *ir.CodeChunk) *code {
	lc := &code{
		frame:  c.Frame,
		stmts:  c.Linear,
		labels: map[temp.Label]int{},
	}
	for i, s := range c.Linear {
		if l, ok := s.(*ir.Label); ok {
			lc.labels[l.Label] = i
		}
	}
	return lc
}

// activation holds the temporaries of one call. Memory and registers are
// shared through the Machine.
type activation struct {
	code  *code
	pc    int
	temps map[temp.Temp]Value
}

func newActivation(c *code, fp int) *activation {
	a := &activation{
		code:  c,
		temps: map[temp.Temp]Value{},
	}
	a.temps[c.frame.FP] = fp
	return a
}

// jump moves the program counter to label.
func (a *activation) jump(label temp.Label) bool {
	i, ok := a.code.labels[label]
	if !ok {
		return false
	}
	a.pc = i
	return true
}
