package bytecode

import (
	"fmt"

	"github.com/xirelogy/go-nova/internal/object"
)

// MaxConstants is the size of the index space addressable by OP_CONSTANT_INDEX.
const MaxConstants = 1 << 16

// Chunk is a compiled instruction sequence with its constant pool.
type Chunk struct {
	Instructions []Instruction
	Constants    []object.Value
	Lines        []LineInfo
	Source       string
}

// LineInfo maps instruction offsets to source lines (start-inclusive).
type LineInfo struct {
	Offset int
	Line   int
}

func NewChunk(source string) *Chunk {
	return &Chunk{Source: source}
}

// Write appends a single instruction attributed to line.
func (c *Chunk) Write(op OpCode, line int) {
	c.markLine(len(c.Instructions), line)
	c.Instructions = append(c.Instructions, Instruction{Op: op})
}

// AddConstant appends v to the pool and emits the OP_CONSTANT /
// OP_CONSTANT_INDEX pair that loads it.
func (c *Chunk) AddConstant(v object.Value, line int) error {
	if len(c.Constants) >= MaxConstants {
		return fmt.Errorf("too many constants in one chunk (max %d)", MaxConstants)
	}
	idx := uint16(len(c.Constants))
	c.Constants = append(c.Constants, v)
	c.markLine(len(c.Instructions), line)
	c.Instructions = append(c.Instructions,
		Instruction{Op: OP_CONSTANT},
		Instruction{Op: OP_CONSTANT_INDEX, Index: idx},
	)
	return nil
}

// Append concatenates other onto c. Constant indices of other are shifted
// by the size of c's pool so they keep pointing at the same values; c's own
// indices are untouched.
func (c *Chunk) Append(other *Chunk) error {
	if other == nil {
		return nil
	}
	shift := len(c.Constants)
	if shift+len(other.Constants) > MaxConstants {
		return fmt.Errorf("too many constants in one chunk (max %d)", MaxConstants)
	}
	base := len(c.Instructions)
	for _, info := range other.Lines {
		c.markLine(base+info.Offset, info.Line)
	}
	for _, ins := range other.Instructions {
		if ins.Op == OP_CONSTANT_INDEX {
			ins.Index += uint16(shift)
		}
		c.Instructions = append(c.Instructions, ins)
	}
	c.Constants = append(c.Constants, other.Constants...)
	return nil
}

// LineAt returns the source line for the instruction at offset, or 0.
func (c *Chunk) LineAt(offset int) int {
	line := 0
	for _, info := range c.Lines {
		if info.Offset > offset {
			break
		}
		line = info.Line
	}
	return line
}

// Validate checks that every OP_CONSTANT is followed by an in-range
// OP_CONSTANT_INDEX.
func (c *Chunk) Validate() error {
	for i, ins := range c.Instructions {
		switch ins.Op {
		case OP_CONSTANT:
			if i+1 >= len(c.Instructions) || c.Instructions[i+1].Op != OP_CONSTANT_INDEX {
				return fmt.Errorf("offset %d: OP_CONSTANT without OP_CONSTANT_INDEX", i)
			}
		case OP_CONSTANT_INDEX:
			if i == 0 || c.Instructions[i-1].Op != OP_CONSTANT {
				return fmt.Errorf("offset %d: stray OP_CONSTANT_INDEX", i)
			}
			if int(ins.Index) >= len(c.Constants) {
				return fmt.Errorf("offset %d: constant index %d out of range (pool has %d)", i, ins.Index, len(c.Constants))
			}
		}
	}
	return nil
}

func (c *Chunk) markLine(offset, line int) {
	if line <= 0 {
		return
	}
	if n := len(c.Lines); n > 0 && c.Lines[n-1].Line == line {
		return
	}
	c.Lines = append(c.Lines, LineInfo{Offset: offset, Line: line})
}
