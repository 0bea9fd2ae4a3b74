// Package temp issues the symbolic labels and virtual registers used by the
// frame layout, IR generation and canonicalization phases.
//
// An Allocator is created once per compilation and shared by every phase, so
// that labels and temporaries are unique within the resulting program.
package temp

import (
	"fmt"
	"sync"
)

// Label names a location in code or static data.
type Label string

// String returns the label name.
func (l Label) String() string {
	return string(l)
}

// Temp is a virtual register. Temps are local to one activation.
type Temp int

// String returns the temp as "T<n>".
func (t Temp) String() string {
	return fmt.Sprintf("T%d", int(t))
}

// Reserved pseudo-registers resolved by the interpreter when used as a Name.
const (
	FP Label = "FP"
	SP Label = "SP"
)

// Allocator hands out fresh labels and temps.
type Allocator struct {
	mu     sync.Mutex
	labels int
	temps  int
}

// NewAllocator returns an Allocator whose counters start at zero.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// NewLabel returns a fresh anonymous label "L<n>".
func (a *Allocator) NewLabel() Label {
	a.mu.Lock()
	defer a.mu.Unlock()
	l := Label(fmt.Sprintf("L%d", a.labels))
	a.labels++
	return l
}

// NamedLabel returns the label of a top-level name, "_<name>". Named labels
// are not counted; the same name always yields the same label.
func (a *Allocator) NamedLabel(name string) Label {
	return Label("_" + name)
}

// NewTemp returns a fresh temporary.
func (a *Allocator) NewTemp() Temp {
	a.mu.Lock()
	defer a.mu.Unlock()
	t := Temp(a.temps)
	a.temps++
	return t
}

// Counts reports how many anonymous labels and temps have been issued.
func (a *Allocator) Counts() (labels, temps int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.labels, a.temps
}
