package bytecode

import (
	"testing"

	"github.com/kr/pretty"

	"github.com/xirelogy/go-nova/internal/object"
)

func buildChunk(t *testing.T, line int, values ...float64) *Chunk {
	t.Helper()
	c := NewChunk("test")
	for _, v := range values {
		if err := c.AddConstant(object.Number(v), line); err != nil {
			t.Fatalf("add constant: %v", err)
		}
	}
	return c
}

func constantIndices(c *Chunk) []uint16 {
	var out []uint16
	for _, ins := range c.Instructions {
		if ins.Op == OP_CONSTANT_INDEX {
			out = append(out, ins.Index)
		}
	}
	return out
}

func TestAddConstantEmitsPair(t *testing.T) {
	c := buildChunk(t, 1, 1.5)
	expected := []Instruction{{Op: OP_CONSTANT}, {Op: OP_CONSTANT_INDEX, Index: 0}}
	if diff := pretty.Diff(expected, c.Instructions); len(diff) != 0 {
		t.Fatalf("instruction mismatch: %v", diff)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestAppendRenumbersSecondChunk(t *testing.T) {
	a := buildChunk(t, 1, 10, 20, 30)
	a.Write(OP_ADD, 1)
	b := buildChunk(t, 2, 40, 50)
	b.Write(OP_MUL, 2)

	before := constantIndices(a)
	bIndices := constantIndices(b)
	n := len(a.Constants)

	if err := a.Append(b); err != nil {
		t.Fatalf("append: %v", err)
	}

	got := constantIndices(a)
	if diff := pretty.Diff(before, got[:len(before)]); len(diff) != 0 {
		t.Fatalf("first chunk indices changed: %v", diff)
	}
	for i, idx := range bIndices {
		if got[len(before)+i] != idx+uint16(n) {
			t.Fatalf("second chunk index %d: expected %d, got %d", i, idx+uint16(n), got[len(before)+i])
		}
	}
	for i, ins := range a.Instructions {
		if ins.Op == OP_CONSTANT_INDEX {
			expected := []float64{10, 20, 30, 40, 50}[constantIndexOrdinal(a, i)]
			if a.Constants[ins.Index].Num != expected {
				t.Fatalf("offset %d: expected constant %v, got %v", i, expected, a.Constants[ins.Index])
			}
		}
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if a.Instructions[len(a.Instructions)-1].Op != OP_MUL {
		t.Fatalf("expected trailing OP_MUL, got %s", a.Instructions[len(a.Instructions)-1])
	}
}

// constantIndexOrdinal counts the OP_CONSTANT_INDEX instructions before offset.
func constantIndexOrdinal(c *Chunk, offset int) int {
	n := 0
	for i := 0; i < offset; i++ {
		if c.Instructions[i].Op == OP_CONSTANT_INDEX {
			n++
		}
	}
	return n
}

func TestAppendShiftsLines(t *testing.T) {
	a := buildChunk(t, 1, 1)
	b := buildChunk(t, 3, 2)
	b.Write(OP_NEG, 4)
	if err := a.Append(b); err != nil {
		t.Fatalf("append: %v", err)
	}
	expected := []LineInfo{{Offset: 0, Line: 1}, {Offset: 2, Line: 3}, {Offset: 4, Line: 4}}
	if diff := pretty.Diff(expected, a.Lines); len(diff) != 0 {
		t.Fatalf("line table mismatch: %v", diff)
	}
	if a.LineAt(3) != 3 || a.LineAt(4) != 4 {
		t.Fatalf("unexpected line lookup %d/%d", a.LineAt(3), a.LineAt(4))
	}
}

func TestAppendEmptyChunks(t *testing.T) {
	a := NewChunk("a")
	if err := a.Append(NewChunk("b")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := a.Append(nil); err != nil {
		t.Fatalf("append nil: %v", err)
	}
	if len(a.Instructions) != 0 || len(a.Constants) != 0 {
		t.Fatalf("expected empty chunk, got %+v", a)
	}
}

func TestConstantPoolLimit(t *testing.T) {
	c := NewChunk("big")
	c.Constants = make([]object.Value, MaxConstants)
	if err := c.AddConstant(object.Number(1), 1); err == nil {
		t.Fatalf("expected pool limit error")
	}
	small := buildChunk(t, 1, 1)
	if err := c.Append(small); err == nil {
		t.Fatalf("expected pool limit error on append")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		chunk *Chunk
	}{
		{"dangling constant", &Chunk{Instructions: []Instruction{{Op: OP_CONSTANT}}}},
		{"stray index", &Chunk{Instructions: []Instruction{{Op: OP_CONSTANT_INDEX}}, Constants: []object.Value{object.Number(1)}}},
		{"out of range", &Chunk{Instructions: []Instruction{{Op: OP_CONSTANT}, {Op: OP_CONSTANT_INDEX, Index: 1}}, Constants: []object.Value{object.Number(1)}}},
	}
	for _, tt := range tests {
		if err := tt.chunk.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tt.name)
		}
	}
}
