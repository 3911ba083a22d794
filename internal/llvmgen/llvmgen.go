// Package llvmgen lowers arithmetic bytecode chunks to LLVM IR.
package llvmgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"

	"github.com/xirelogy/go-nova/internal/bytecode"
	"github.com/xirelogy/go-nova/internal/object"
)

// Lower translates chunk into a module holding a single function
// `double @name()`. The operand stack is executed symbolically, so each
// value on it becomes an SSA value rather than a memory slot.
func Lower(name string, chunk *bytecode.Chunk) (*ir.Module, error) {
	if chunk == nil {
		return nil, errors.New("nil chunk")
	}
	if err := chunk.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid chunk")
	}

	m := ir.NewModule()
	if chunk.Source != "" {
		m.SourceFilename = chunk.Source
	}
	fn := m.NewFunc(name, types.Double)
	entry := fn.NewBlock("entry")

	var stack []value.Value
	pop := func(at int) (value.Value, error) {
		if len(stack) == 0 {
			return nil, errors.Errorf("stack underflow at %04d", at)
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}

	for ip := 0; ip < len(chunk.Instructions); ip++ {
		ins := chunk.Instructions[ip]
		switch ins.Op {
		case bytecode.OP_CONSTANT:
			ip++
			if ip >= len(chunk.Instructions) || chunk.Instructions[ip].Op != bytecode.OP_CONSTANT_INDEX {
				return nil, errors.Errorf("OP_CONSTANT without index at %04d", ip-1)
			}
			c := chunk.Constants[chunk.Instructions[ip].Index]
			if c.Kind != object.KindNumber {
				return nil, errors.Errorf("cannot lower %s constant at %04d", object.TypeName(c), ip-1)
			}
			stack = append(stack, constant.NewFloat(types.Double, c.Num))
		case bytecode.OP_ADD, bytecode.OP_SUB, bytecode.OP_MUL, bytecode.OP_DIV:
			b, err := pop(ip)
			if err != nil {
				return nil, err
			}
			a, err := pop(ip)
			if err != nil {
				return nil, err
			}
			stack = append(stack, binary(entry, ins.Op, a, b))
		case bytecode.OP_NEG:
			v, err := pop(ip)
			if err != nil {
				return nil, err
			}
			stack = append(stack, entry.NewFNeg(v))
		case bytecode.OP_RETURN:
			if len(stack) == 0 {
				entry.NewRet(constant.NewFloat(types.Double, 0))
			} else {
				entry.NewRet(stack[len(stack)-1])
			}
			return m, nil
		default:
			return nil, errors.Errorf("cannot lower %s at %04d", ins.Op, ip)
		}
	}
	return nil, errors.New("chunk has no OP_RETURN")
}

func binary(b *ir.Block, op bytecode.OpCode, x, y value.Value) value.Value {
	switch op {
	case bytecode.OP_ADD:
		return b.NewFAdd(x, y)
	case bytecode.OP_SUB:
		return b.NewFSub(x, y)
	case bytecode.OP_MUL:
		return b.NewFMul(x, y)
	default:
		return b.NewFDiv(x, y)
	}
}
