package vm

import (
	"github.com/pkg/errors"

	"github.com/xirelogy/go-nova/internal/bytecode"
	"github.com/xirelogy/go-nova/internal/object"
)

// DefaultStackSize is the value stack capacity of a new VM.
const DefaultStackSize = 256

// VM is a fixed-capacity stack machine for arithmetic chunks.
type VM struct {
	stack     []object.Value
	sp        int
	chunk     *bytecode.Chunk
	ip        int
	lastOp    int
	traceHook TraceHook
	instLimit int
	instCount int
}

// New constructs a VM with the default stack capacity.
func New() *VM {
	return &VM{stack: make([]object.Value, DefaultStackSize), lastOp: -1}
}

// SetStackSize replaces the value stack with one of the given capacity.
func (vm *VM) SetStackSize(size int) {
	if size <= 0 {
		size = DefaultStackSize
	}
	vm.stack = make([]object.Value, size)
	vm.sp = 0
}

// SetTraceHook registers a callback for instruction-level tracing.
func (vm *VM) SetTraceHook(h TraceHook) {
	vm.traceHook = h
}

// SetInstructionLimit caps the number of instructions executed per Run (0 for unlimited).
func (vm *VM) SetInstructionLimit(limit int) {
	if limit < 0 {
		limit = 0
	}
	vm.instLimit = limit
}

// ResetState clears the stack and instruction pointer.
func (vm *VM) ResetState() {
	for i := 0; i < vm.sp; i++ {
		vm.stack[i] = object.Value{}
	}
	vm.sp = 0
	vm.ip = 0
	vm.lastOp = -1
	vm.instCount = 0
}

// Run executes chunk from the start and returns the value on top of the
// stack at OP_RETURN.
func (vm *VM) Run(chunk *bytecode.Chunk) (object.Value, error) {
	vm.ResetState()
	vm.chunk = chunk
	if chunk == nil {
		return vm.errorf("invalid chunk")
	}

	for {
		if vm.ip >= len(chunk.Instructions) {
			return vm.errorf("reached end of bytecode without OP_RETURN")
		}
		if vm.instLimit > 0 {
			vm.instCount++
			if vm.instCount > vm.instLimit {
				return vm.errorf("instruction limit exceeded")
			}
		}
		vm.lastOp = vm.ip
		ins := chunk.Instructions[vm.ip]
		vm.ip++
		vm.trace(ins.Op)

		switch ins.Op {
		case bytecode.OP_CONSTANT:
			if vm.ip >= len(chunk.Instructions) || chunk.Instructions[vm.ip].Op != bytecode.OP_CONSTANT_INDEX {
				return vm.errorf("OP_CONSTANT without OP_CONSTANT_INDEX")
			}
			idx := int(chunk.Instructions[vm.ip].Index)
			vm.ip++
			if idx >= len(chunk.Constants) {
				return vm.errorf("constant index %d out of range", idx)
			}
			if err := vm.push(chunk.Constants[idx]); err != nil {
				return object.None(), err
			}
		case bytecode.OP_CONSTANT_INDEX:
			return vm.errorf("stray OP_CONSTANT_INDEX")
		case bytecode.OP_ADD, bytecode.OP_SUB, bytecode.OP_MUL, bytecode.OP_DIV:
			b, err := vm.pop()
			if err != nil {
				return object.None(), err
			}
			a, err := vm.pop()
			if err != nil {
				return object.None(), err
			}
			res, err := binaryOp(ins.Op, a, b)
			if err != nil {
				return vm.wrapError(err)
			}
			if err := vm.push(res); err != nil {
				return object.None(), err
			}
		case bytecode.OP_NEG:
			v, err := vm.pop()
			if err != nil {
				return object.None(), err
			}
			if v.Kind != object.KindNumber {
				return vm.errorf("operand must be a number, got %s", object.TypeName(v))
			}
			if err := vm.push(object.Number(-v.Num)); err != nil {
				return object.None(), err
			}
		case bytecode.OP_RETURN:
			if vm.sp == 0 {
				return object.None(), nil
			}
			return vm.stack[vm.sp-1], nil
		default:
			return vm.errorf("unknown opcode %d", byte(ins.Op))
		}
	}
}

func (vm *VM) push(v object.Value) error {
	if vm.sp >= len(vm.stack) {
		_, err := vm.errorf("stack overflow (capacity %d)", len(vm.stack))
		return err
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

func (vm *VM) pop() (object.Value, error) {
	if vm.sp == 0 {
		return vm.errorf("stack underflow")
	}
	vm.sp--
	v := vm.stack[vm.sp]
	vm.stack[vm.sp] = object.Value{}
	return v, nil
}

func binaryOp(op bytecode.OpCode, a, b object.Value) (object.Value, error) {
	if a.Kind != object.KindNumber || b.Kind != object.KindNumber {
		return object.None(), errors.Errorf("operands of %s must be numbers, got %s and %s", op, object.TypeName(a), object.TypeName(b))
	}
	switch op {
	case bytecode.OP_ADD:
		return object.Number(a.Num + b.Num), nil
	case bytecode.OP_SUB:
		return object.Number(a.Num - b.Num), nil
	case bytecode.OP_MUL:
		return object.Number(a.Num * b.Num), nil
	case bytecode.OP_DIV:
		return object.Number(a.Num / b.Num), nil
	}
	return object.None(), errors.Errorf("unsupported op %s", op)
}
