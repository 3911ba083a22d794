package bytecode

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xirelogy/go-nova/internal/object"
)

// Disassembler formats bytecode as a readable assembly-style dump.
type Disassembler struct {
	w       io.Writer
	printed bool
}

// NewDisassembler constructs a disassembler that writes to w.
func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{w: w}
}

// DisassembleChunk emits a header line followed by one line per instruction.
func (d *Disassembler) DisassembleChunk(label string, chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("nil chunk")
	}
	if d.printed {
		fmt.Fprintln(d.w)
	}
	d.printed = true

	if label == "" {
		label = "<expr>"
	}
	source := chunk.Source
	if source == "" {
		source = "<unknown>"
	}
	fmt.Fprintf(d.w, "chunk %s (instructions=%d, constants=%d) source=%s\n",
		label, len(chunk.Instructions), len(chunk.Constants), source)

	for offset, ins := range chunk.Instructions {
		line := chunk.LineAt(offset)
		lineStr := "-"
		if line > 0 {
			lineStr = strconv.Itoa(line)
		}
		fmt.Fprintf(d.w, "%04d %4s %-16s", offset, lineStr, ins.Op)
		if ins.Op == OP_CONSTANT_INDEX {
			if int(ins.Index) >= len(chunk.Constants) {
				return fmt.Errorf("const index out of range: %d", ins.Index)
			}
			fmt.Fprintf(d.w, " %d ; const[%d]=%s", ins.Index, ins.Index, formatConst(chunk.Constants[ins.Index]))
		}
		fmt.Fprintln(d.w)
	}
	return nil
}

func formatConst(v object.Value) string {
	if v.Kind == object.KindString {
		return strconv.Quote(v.Str)
	}
	return object.Text(v)
}
