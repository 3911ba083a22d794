package compiler_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/xirelogy/go-nova/internal/bytecode"
	"github.com/xirelogy/go-nova/internal/compiler"
	"github.com/xirelogy/go-nova/internal/interpreter"
	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/parser"
	"github.com/xirelogy/go-nova/internal/vm"
)

func compile(t *testing.T, src string) *bytecode.Chunk {
	t.Helper()
	expr, err := parser.ParseExpression("calc.nv", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	chunk, err := compiler.Compile(expr)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return chunk
}

func TestCompileInstructionSequence(t *testing.T) {
	chunk := compile(t, "1 + 2 / 3")

	var got []string
	for _, ins := range chunk.Instructions {
		got = append(got, ins.String())
	}
	expected := []string{
		"OP_CONSTANT", "OP_CONSTANT_INDEX 0",
		"OP_CONSTANT", "OP_CONSTANT_INDEX 1",
		"OP_CONSTANT", "OP_CONSTANT_INDEX 2",
		"OP_DIV",
		"OP_ADD",
		"OP_RETURN",
	}
	if strings.Join(got, ",") != strings.Join(expected, ",") {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i, want := range []float64{1, 2, 3} {
		if chunk.Constants[i].Num != want {
			t.Fatalf("constant %d: expected %v, got %#v", i, want, chunk.Constants[i])
		}
	}
	if chunk.Source != "calc.nv" {
		t.Fatalf("expected source calc.nv, got %q", chunk.Source)
	}
}

func TestCompileNegation(t *testing.T) {
	chunk := compile(t, "-(4 - 1)")
	last := chunk.Instructions[len(chunk.Instructions)-2]
	if last.Op != bytecode.OP_NEG {
		t.Fatalf("expected OP_NEG before return, got %s", last.Op)
	}
}

func TestCompileRejects(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{"a + 1", "variables not supported"},
		{"f(1)", "calls not supported"},
		{"p.x", "property access not supported"},
		{"!true", "operator '!' not supported"},
		{"1 < 2", "operator '<' not supported"},
	}
	for _, tt := range tests {
		expr, err := parser.ParseExpression("calc.nv", tt.src)
		if err != nil {
			t.Fatalf("%s: parse error: %v", tt.src, err)
		}
		_, err = compiler.Compile(expr)
		var cerr *compiler.Error
		if !errors.As(err, &cerr) {
			t.Fatalf("%s: expected *compiler.Error, got %v", tt.src, err)
		}
		if !strings.Contains(cerr.Message, tt.expected) {
			t.Fatalf("%s: expected message containing %q, got %q", tt.src, tt.expected, cerr.Message)
		}
	}
}

func TestCompiledMatchesInterpreter(t *testing.T) {
	sources := []string{
		"1 + 2 / 3",
		"(1 + 2) * 3 - 4",
		"-2 * -(3 + 4)",
		"10 / 4 / 5",
		"2 * 3 + 4 * 5 - 6 / 2",
		"1 / 0",
		"((((7))))",
	}
	in := interpreter.New()
	for _, src := range sources {
		expr, err := parser.ParseExpression("calc.nv", src)
		if err != nil {
			t.Fatalf("%s: parse error: %v", src, err)
		}
		want, err := in.Evaluate(expr)
		if err != nil {
			t.Fatalf("%s: interpreter error: %v", src, err)
		}
		chunk, err := compiler.Compile(expr)
		if err != nil {
			t.Fatalf("%s: compile error: %v", src, err)
		}
		got, err := vm.New().Run(chunk)
		if err != nil {
			t.Fatalf("%s: vm error: %v", src, err)
		}
		if got.Kind != object.KindNumber || got.Num != want.Num {
			if !(math.IsNaN(got.Num) && math.IsNaN(want.Num)) {
				t.Fatalf("%s: expected %v, got %v", src, want.Num, got.Num)
			}
		}
	}
}

func TestCompiledStringOperandFailsAtRuntime(t *testing.T) {
	chunk := compile(t, `"a" - 1`)
	if _, err := vm.New().Run(chunk); err == nil {
		t.Fatalf("expected runtime error for string operand")
	}
}
