package bytecode

import "fmt"

// OpCode enumerates bytecode operations.
type OpCode byte

const (
	OP_CONSTANT OpCode = iota
	// OP_CONSTANT_INDEX always follows OP_CONSTANT and carries the pool index.
	OP_CONSTANT_INDEX
	OP_ADD
	OP_SUB
	OP_MUL
	OP_DIV
	OP_NEG
	OP_RETURN
)

var opNames = [...]string{
	OP_CONSTANT:       "OP_CONSTANT",
	OP_CONSTANT_INDEX: "OP_CONSTANT_INDEX",
	OP_ADD:            "OP_ADD",
	OP_SUB:            "OP_SUB",
	OP_MUL:            "OP_MUL",
	OP_DIV:            "OP_DIV",
	OP_NEG:            "OP_NEG",
	OP_RETURN:         "OP_RETURN",
}

func (op OpCode) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("OP_0x%02X", byte(op))
}

// IsBinary reports whether op pops two operands and pushes one.
func (op OpCode) IsBinary() bool {
	switch op {
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV:
		return true
	default:
		return false
	}
}

// Instruction is one decoded operation. Index is only meaningful for
// OP_CONSTANT_INDEX.
type Instruction struct {
	Op    OpCode
	Index uint16
}

func (ins Instruction) String() string {
	if ins.Op == OP_CONSTANT_INDEX {
		return fmt.Sprintf("%s %d", ins.Op, ins.Index)
	}
	return ins.Op.String()
}
