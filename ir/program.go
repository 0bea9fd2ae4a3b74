package ir

import (
	"fmt"

	"github.com/pinslang/pins/frame"
	"github.com/pinslang/pins/temp"
)

// Chunk is a unit of generated output: static data or function code.
type Chunk interface {
	ChunkLabel() temp.Label
	chunk()
}

// DataChunk is a statically allocated block of memory. Global variables
// and string constants each get one.
type DataChunk struct {
	Label temp.Label
	Size  int

	// Literal holds the contents of a string constant's slot.
	Literal *string
}

func (c *DataChunk) chunk() {}

// ChunkLabel returns the address label of the data.
func (c *DataChunk) ChunkLabel() temp.Label { return c.Label }

func (c *DataChunk) String() string {
	if c.Literal != nil {
		return fmt.Sprintf("DATA(%s, %d, %q)", c.Label, c.Size, *c.Literal)
	}
	return fmt.Sprintf("DATA(%s, %d)", c.Label, c.Size)
}

// CodeChunk is the code of one function.
type CodeChunk struct {
	Frame *frame.Frame
	Body  Stmt

	// Linear is the canonical statement list for Body, filled in once by
	// linearization.
	Linear []Stmt
}

func (c *CodeChunk) chunk() {}

// ChunkLabel returns the entry label of the function.
func (c *CodeChunk) ChunkLabel() temp.Label { return c.Frame.Label }

func (c *CodeChunk) String() string {
	return fmt.Sprintf("CODE(%s)", c.Frame.Label)
}

// Program is the ordered list of chunks generated for a source program.
type Program struct {
	Chunks []Chunk

	byLabel map[temp.Label]Chunk
	byName  map[string]*CodeChunk
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{
		byLabel: map[temp.Label]Chunk{},
		byName:  map[string]*CodeChunk{},
	}
}

// Add appends a chunk. Adding a chunk whose label is already present is an
// error.
func (p *Program) Add(c Chunk) error {
	label := c.ChunkLabel()
	if _, exists := p.byLabel[label]; exists {
		return fmt.Errorf("duplicate chunk label %s", label)
	}
	p.Chunks = append(p.Chunks, c)
	p.byLabel[label] = c
	if code, ok := c.(*CodeChunk); ok && code.Frame.Name != "" {
		if _, exists := p.byName[code.Frame.Name]; !exists {
			p.byName[code.Frame.Name] = code
		}
	}
	return nil
}

// Chunk returns the chunk with the given label.
func (p *Program) Chunk(label temp.Label) (Chunk, bool) {
	c, ok := p.byLabel[label]
	return c, ok
}

// Code returns the code chunk with the given entry label.
func (p *Program) Code(label temp.Label) (*CodeChunk, bool) {
	c, ok := p.byLabel[label].(*CodeChunk)
	return c, ok
}

// Function returns the code of a function, looked up first by label and
// then by name. When nested functions share a name the first one generated
// wins; use the label to pick another.
func (p *Program) Function(name string) (*CodeChunk, bool) {
	if c, ok := p.Code(temp.Label(name)); ok {
		return c, true
	}
	c, ok := p.byName[name]
	return c, ok
}

// Data returns the data chunks in program order.
func (p *Program) Data() []*DataChunk {
	var out []*DataChunk
	for _, c := range p.Chunks {
		if d, ok := c.(*DataChunk); ok {
			out = append(out, d)
		}
	}
	return out
}

// Functions returns the code chunks in program order.
func (p *Program) Functions() []*CodeChunk {
	var out []*CodeChunk
	for _, c := range p.Chunks {
		if code, ok := c.(*CodeChunk); ok {
			out = append(out, code)
		}
	}
	return out
}
