// Package dis supports inspection of generated PINS code. It lists the
// canonical statements of a function, the frame of every function and the
// data chunks of a program as tables.
package dis

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/pinslang/pins/frame"
	"github.com/pinslang/pins/internal/table"
	"github.com/pinslang/pins/ir"
	"github.com/pinslang/pins/temp"
)

// Instruction is one canonical statement of a function.
type Instruction struct {
	PC       int
	Name     string
	Operands string
	Targets  []temp.Label
	Call     temp.Label
	Stmt     ir.Stmt
}

// Disassemble returns the instructions of a linearized code chunk.
func Disassemble(c *ir.CodeChunk) ([]Instruction, error) {
	if c.Linear == nil {
		return nil, fmt.Errorf("function %s has no linear code", c.Frame.Label)
	}
	instructions := make([]Instruction, 0, len(c.Linear))
	for pc, s := range c.Linear {
		instr := Instruction{PC: pc, Stmt: s}
		switch s := s.(type) {
		case *ir.Move:
			instr.Name = "MOVE"
			instr.Operands = fmt.Sprintf("%s, %s", s.Dst, s.Src)
			if call, ok := s.Src.(*ir.Call); ok {
				instr.Call = call.Label
			}
		case *ir.Exp:
			instr.Name = "EXP"
			instr.Operands = s.X.String()
			if call, ok := s.X.(*ir.Call); ok {
				instr.Call = call.Label
			}
		case *ir.Jump:
			instr.Name = "JUMP"
			instr.Targets = []temp.Label{s.Label}
		case *ir.CJump:
			instr.Name = "CJUMP"
			instr.Operands = s.Cond.String()
			instr.Targets = []temp.Label{s.True, s.False}
		case *ir.Label:
			instr.Name = "LABEL"
			instr.Operands = string(s.Label)
		default:
			return nil, fmt.Errorf("unexpected %T at %d in %s", s, pc, c.Frame.Label)
		}
		instructions = append(instructions, instr)
	}
	return instructions, nil
}

var (
	bold    = color.New(color.Bold)
	cyan    = color.New(color.FgHiCyan)
	magenta = color.New(color.FgMagenta)
	green   = color.New(color.FgGreen)
	yellow  = color.New(color.FgYellow)
	italic  = color.New(color.Italic)
)

func info(instr Instruction) string {
	switch {
	case len(instr.Targets) == 1:
		return cyan.Sprint(instr.Targets[0])
	case len(instr.Targets) == 2:
		return cyan.Sprintf("true=%s false=%s", instr.Targets[0], instr.Targets[1])
	case instr.Call != "":
		return magenta.Sprintf("call %s", instr.Call)
	}
	return ""
}

// Print a table of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) {
	var lines [][]string
	for _, instr := range instructions {
		lines = append(lines, []string{
			strconv.Itoa(instr.PC),
			bold.Sprint(instr.Name),
			instr.Operands,
			info(instr),
		})
	}
	table.NewTable(writer).
		WithHeader([]string{"PC", "OP", "OPERANDS", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignLeft,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

// Frames prints the layout of every user-defined function frame.
func Frames(layout *frame.Layout, writer io.Writer) {
	var lines [][]string
	for _, f := range layout.Order {
		if f.Builtin {
			continue
		}
		lines = append(lines, []string{
			bold.Sprint(f.Name),
			cyan.Sprint(f.Label),
			strconv.Itoa(f.Level),
			strconv.Itoa(f.ParamsSize),
			strconv.Itoa(f.LocalsSize),
			strconv.Itoa(f.OutgoingArgsSize),
			yellow.Sprint(f.Size()),
			f.FP.String(),
			f.RV.String(),
		})
	}
	table.NewTable(writer).
		WithHeader([]string{"FUNCTION", "LABEL", "LEVEL", "PARAMS", "LOCALS", "ARGS", "SIZE", "FP", "RV"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignLeft,
			table.AlignLeft,
			table.AlignRight,
			table.AlignRight,
			table.AlignRight,
			table.AlignRight,
			table.AlignRight,
			table.AlignLeft,
			table.AlignLeft,
		}).
		WithRows(lines).
		Render()
}

// Data prints the data chunks of a program.
func Data(prog *ir.Program, writer io.Writer) {
	var lines [][]string
	for _, d := range prog.Data() {
		value := italic.Sprint("global")
		if d.Literal != nil {
			s := *d.Literal
			if len(s) > 40 {
				s = s[:37] + "..."
			}
			value = green.Sprintf("%q", s)
		}
		lines = append(lines, []string{
			cyan.Sprint(d.Label),
			strconv.Itoa(d.Size),
			value,
		})
	}
	table.NewTable(writer).
		WithHeader([]string{"LABEL", "SIZE", "VALUE"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithRows(lines).
		Render()
}

// Program prints the data chunks of prog followed by the instructions of
// each function, headed by its frame.
func Program(prog *ir.Program, writer io.Writer) error {
	if len(prog.Data()) > 0 {
		Data(prog, writer)
	}
	for _, c := range prog.Functions() {
		instructions, err := Disassemble(c)
		if err != nil {
			return err
		}
		fmt.Fprintln(writer, bold.Sprint(c.Frame))
		Print(instructions, writer)
	}
	return nil
}
