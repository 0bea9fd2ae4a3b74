// Package frame computes the stack layout of every PINS function: where its
// parameters and locals live relative to the frame pointer, how much room it
// needs for outgoing call arguments, and how functions nest.
package frame

import (
	"fmt"

	"github.com/pinslang/pins/temp"
	"github.com/pinslang/pins/types"
)

const (
	// WordSize is the size in bytes of every atom and of a static link.
	WordSize = types.WordSize

	// Linkage is the space reserved for the saved frame pointer and the
	// return address slot.
	Linkage = 2 * WordSize

	// GlobalLevel is the nesting level of the implicit top-level frame.
	GlobalLevel = -1
)

// Frame describes the activation record of one function.
//
// A frame laid out at address FP looks like this, growing down:
//
//	FP+4 ...        parameters, in order
//	FP+0            static link
//	FP-4 ...        locals
//	FP-LocalsSize-4 saved caller FP
//	SP+4 ...        outgoing arguments
//	SP+0            outgoing static link / returned value
type Frame struct {
	// Name is the function name, or "" for the global frame.
	Name string

	// Level is 0 for top-level functions and parent+1 for nested ones.
	Level int

	// Parent is the lexically enclosing frame. It is nil only for the global
	// frame.
	Parent *Frame

	// Label is the entry label of the function's code.
	Label temp.Label

	// Builtin is set for prelude functions, which have no body.
	Builtin bool

	LocalsSize       int
	OutgoingArgsSize int
	ParamsSize       int
	NumParams        int

	// FP and RV are the frame pointer and return value registers.
	FP temp.Temp
	RV temp.Temp

	Locals []*LocalAccess
}

// Size returns the total size of the frame.
func (f *Frame) Size() int {
	return f.LocalsSize + f.OutgoingArgsSize + Linkage
}

// IsGlobal reports whether f is the implicit top-level frame.
func (f *Frame) IsGlobal() bool {
	return f.Parent == nil
}

// String returns a one-line summary of the frame.
func (f *Frame) String() string {
	if f.IsGlobal() {
		return "FRAME(global)"
	}
	return fmt.Sprintf("FRAME(%s, level=%d, locals=%d, args=%d, size=%d, fp=%s, rv=%s)",
		f.Label, f.Level, f.LocalsSize, f.OutgoingArgsSize, f.Size(), f.FP, f.RV)
}

func (f *Frame) addParam(size int) *ParamAccess {
	a := &ParamAccess{Frame: f, Offset: WordSize + f.ParamsSize}
	f.ParamsSize += size
	f.NumParams++
	return a
}

func (f *Frame) addLocal(size int) *LocalAccess {
	f.LocalsSize += size
	a := &LocalAccess{Frame: f, Offset: -f.LocalsSize}
	f.Locals = append(f.Locals, a)
	return a
}

func (f *Frame) reserveArgs(size int) {
	f.OutgoingArgsSize = max(f.OutgoingArgsSize, size)
}

// Access describes where a variable or parameter is stored.
type Access interface {
	String() string
	access()
}

// GlobalAccess is a top-level variable at a static address.
type GlobalAccess struct {
	Label temp.Label
}

func (a *GlobalAccess) access() {}

func (a *GlobalAccess) String() string {
	return fmt.Sprintf("GLOBAL(%s)", a.Label)
}

// ParamAccess is a parameter at a positive offset from its frame's FP.
type ParamAccess struct {
	Frame  *Frame
	Offset int
}

func (a *ParamAccess) access() {}

func (a *ParamAccess) String() string {
	return fmt.Sprintf("PARAM(%s%+d)", a.Frame.Label, a.Offset)
}

// LocalAccess is a local variable at a negative offset from its frame's FP.
type LocalAccess struct {
	Frame  *Frame
	Offset int
}

func (a *LocalAccess) access() {}

func (a *LocalAccess) String() string {
	return fmt.Sprintf("LOCAL(%s%+d)", a.Frame.Label, a.Offset)
}

// Owner returns the frame that declares the storage behind a, or nil for
// globals.
func Owner(a Access) *Frame {
	switch a := a.(type) {
	case *ParamAccess:
		return a.Frame
	case *LocalAccess:
		return a.Frame
	}
	return nil
}

// OffsetOf returns the FP-relative offset of a frame-resident access.
func OffsetOf(a Access) int {
	switch a := a.(type) {
	case *ParamAccess:
		return a.Offset
	case *LocalAccess:
		return a.Offset
	}
	return 0
}
