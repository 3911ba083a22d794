package vm_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/xirelogy/go-nova/internal/bytecode"
	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/vm"
)

func constants(t *testing.T, values ...object.Value) *bytecode.Chunk {
	t.Helper()
	chunk := bytecode.NewChunk("calc.nv")
	for _, v := range values {
		if err := chunk.AddConstant(v, 1); err != nil {
			t.Fatalf("add constant: %v", err)
		}
	}
	return chunk
}

func run(t *testing.T, chunk *bytecode.Chunk) object.Value {
	t.Helper()
	v, err := vm.New().Run(chunk)
	if err != nil {
		t.Fatalf("vm error: %v", err)
	}
	return v
}

func TestVMArithmetic(t *testing.T) {
	tests := []struct {
		op       bytecode.OpCode
		a, b     float64
		expected float64
	}{
		{bytecode.OP_ADD, 1, 2, 3},
		{bytecode.OP_SUB, 10, 4, 6},
		{bytecode.OP_MUL, 3, 7, 21},
		{bytecode.OP_DIV, 9, 2, 4.5},
	}
	for _, tt := range tests {
		chunk := constants(t, object.Number(tt.a), object.Number(tt.b))
		chunk.Write(tt.op, 1)
		chunk.Write(bytecode.OP_RETURN, 1)
		v := run(t, chunk)
		if v.Kind != object.KindNumber || v.Num != tt.expected {
			t.Fatalf("%s: expected %v, got %#v", tt.op, tt.expected, v)
		}
	}
}

func TestVMOperandOrder(t *testing.T) {
	// 8 - 2 must pop 2 first, then 8
	chunk := constants(t, object.Number(8), object.Number(2))
	chunk.Write(bytecode.OP_SUB, 1)
	chunk.Write(bytecode.OP_RETURN, 1)
	if v := run(t, chunk); v.Num != 6 {
		t.Fatalf("expected 6, got %v", v.Num)
	}
}

func TestVMNegate(t *testing.T) {
	chunk := constants(t, object.Number(4))
	chunk.Write(bytecode.OP_NEG, 1)
	chunk.Write(bytecode.OP_NEG, 1)
	chunk.Write(bytecode.OP_NEG, 1)
	chunk.Write(bytecode.OP_RETURN, 1)
	if v := run(t, chunk); v.Num != -4 {
		t.Fatalf("expected -4, got %v", v.Num)
	}
}

func TestVMReturnWithEmptyStack(t *testing.T) {
	chunk := bytecode.NewChunk("")
	chunk.Write(bytecode.OP_RETURN, 1)
	if v := run(t, chunk); v.Kind != object.KindNone {
		t.Fatalf("expected none, got %#v", v)
	}
}

func TestVMErrors(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *bytecode.Chunk
		expected string
	}{
		{
			name: "missing return",
			build: func() *bytecode.Chunk {
				return constants(t, object.Number(1))
			},
			expected: "reached end of bytecode without OP_RETURN",
		},
		{
			name: "underflow",
			build: func() *bytecode.Chunk {
				c := constants(t, object.Number(1))
				c.Write(bytecode.OP_ADD, 2)
				c.Write(bytecode.OP_RETURN, 2)
				return c
			},
			expected: "calc.nv:2 at 0002: stack underflow",
		},
		{
			name: "non-number operand",
			build: func() *bytecode.Chunk {
				c := constants(t, object.String("a"), object.Number(1))
				c.Write(bytecode.OP_MUL, 1)
				c.Write(bytecode.OP_RETURN, 1)
				return c
			},
			expected: "operands of OP_MUL must be numbers, got string and number",
		},
		{
			name: "negate string",
			build: func() *bytecode.Chunk {
				c := constants(t, object.String("a"))
				c.Write(bytecode.OP_NEG, 1)
				c.Write(bytecode.OP_RETURN, 1)
				return c
			},
			expected: "operand must be a number, got string",
		},
		{
			name: "dangling constant",
			build: func() *bytecode.Chunk {
				c := bytecode.NewChunk("")
				c.Write(bytecode.OP_CONSTANT, 1)
				return c
			},
			expected: "OP_CONSTANT without OP_CONSTANT_INDEX",
		},
	}
	for _, tt := range tests {
		_, err := vm.New().Run(tt.build())
		if err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
		var rerr *vm.RuntimeError
		if !errors.As(err, &rerr) {
			t.Fatalf("%s: expected *vm.RuntimeError, got %T", tt.name, err)
		}
		if !strings.Contains(err.Error(), tt.expected) {
			t.Fatalf("%s: expected error containing %q, got %q", tt.name, tt.expected, err.Error())
		}
	}
}

func TestVMStackOverflow(t *testing.T) {
	chunk := constants(t, object.Number(1), object.Number(2), object.Number(3))
	chunk.Write(bytecode.OP_ADD, 1)
	chunk.Write(bytecode.OP_ADD, 1)
	chunk.Write(bytecode.OP_RETURN, 1)

	machine := vm.New()
	machine.SetStackSize(2)
	_, err := machine.Run(chunk)
	if err == nil || !strings.Contains(err.Error(), "stack overflow (capacity 2)") {
		t.Fatalf("expected stack overflow, got %v", err)
	}

	machine.SetStackSize(3)
	v, err := machine.Run(chunk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num != 6 {
		t.Fatalf("expected 6, got %v", v.Num)
	}
}

func TestVMInstructionLimit(t *testing.T) {
	chunk := constants(t, object.Number(1), object.Number(2))
	chunk.Write(bytecode.OP_ADD, 1)
	chunk.Write(bytecode.OP_RETURN, 1)

	machine := vm.New()
	machine.SetInstructionLimit(2)
	if _, err := machine.Run(chunk); err == nil || !strings.Contains(err.Error(), "instruction limit exceeded") {
		t.Fatalf("expected instruction limit error, got %v", err)
	}
	machine.SetInstructionLimit(0)
	if _, err := machine.Run(chunk); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVMTraceHook(t *testing.T) {
	chunk := constants(t, object.Number(1), object.Number(2))
	chunk.Write(bytecode.OP_ADD, 1)
	chunk.Write(bytecode.OP_RETURN, 1)

	var ops []string
	var depths []int
	machine := vm.New()
	machine.SetTraceHook(func(info vm.TraceInfo) {
		ops = append(ops, info.Op.String())
		depths = append(depths, info.Depth)
	})
	execute := func() {
		if _, err := machine.Run(chunk); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	execute()

	expected := "OP_CONSTANT OP_CONSTANT OP_ADD OP_RETURN"
	if got := strings.Join(ops, " "); got != expected {
		t.Fatalf("expected trace %q, got %q", expected, got)
	}
	if depths[2] != 2 || depths[3] != 1 {
		t.Fatalf("unexpected depths %v", depths)
	}
}
