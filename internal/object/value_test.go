package object

import (
	"testing"

	"github.com/xirelogy/go-nova/internal/ast"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		v        Value
		expected bool
	}{
		{None(), false},
		{Bool(false), false},
		{Bool(true), true},
		{Number(0), true},
		{String(""), true},
		{FromCallable(NewNative("f", 0, nil)), true},
	}
	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.expected {
			t.Fatalf("%s: expected %v, got %v", tt.v, tt.expected, got)
		}
	}
}

func TestEqual(t *testing.T) {
	class := &Class{ClassName: "A", Methods: map[string]*DefinedCall{}}
	a := FromInstance(NewInstance(1, class))
	b := FromInstance(NewInstance(2, class))

	tests := []struct {
		left, right Value
		expected    bool
	}{
		{None(), None(), true},
		{Number(1), Number(1), true},
		{Number(1), String("1"), false},
		{String("x"), String("x"), true},
		{Bool(true), Bool(false), false},
		{a, a, true},
		{a, b, false},
		// callables never compare unequal
		{FromCallable(NewNative("f", 0, nil)), FromCallable(class), true},
	}
	for _, tt := range tests {
		if got := Equal(tt.left, tt.right); got != tt.expected {
			t.Fatalf("%s == %s: expected %v, got %v", tt.left, tt.right, tt.expected, got)
		}
	}
}

func TestCompare(t *testing.T) {
	if c, err := Compare(Number(1), Number(2)); err != nil || c != -1 {
		t.Fatalf("expected -1, got %d (%v)", c, err)
	}
	if c, err := Compare(String("b"), String("a")); err != nil || c != 1 {
		t.Fatalf("expected 1, got %d (%v)", c, err)
	}
	if c, err := Compare(Bool(false), Bool(true)); err != nil || c != -1 {
		t.Fatalf("expected -1, got %d (%v)", c, err)
	}
	if _, err := Compare(Number(1), String("1")); err == nil {
		t.Fatalf("expected mixed-kind comparison to fail")
	}
	if _, err := Compare(None(), None()); err == nil {
		t.Fatalf("expected none comparison to fail")
	}
}

func TestText(t *testing.T) {
	decl := &ast.FuncDecl{Name: "add"}
	class := &Class{ClassName: "Point", Methods: map[string]*DefinedCall{}}
	tests := []struct {
		v        Value
		expected string
	}{
		{None(), "none"},
		{Bool(true), "true"},
		{Number(3), "3"},
		{Number(0.25), "0.25"},
		{Number(1e21), "1000000000000000000000"},
		{String("hi"), "hi"},
		{FromCallable(NewNative("clock", 0, nil)), "<native fn clock>"},
		{FromCallable(&DefinedCall{Decl: decl}), "<fn add>"},
		{FromCallable(class), "<class Point>"},
		{FromInstance(NewInstance(7, class)), "<Point instance>"},
	}
	for _, tt := range tests {
		if got := Text(tt.v); got != tt.expected {
			t.Fatalf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestBindCopiesPrimitives(t *testing.T) {
	num := NewRef(Number(1))
	if Bind(num) == num {
		t.Fatalf("expected primitive to be copied")
	}

	inst := NewRef(FromInstance(NewInstance(1, &Class{ClassName: "A"})))
	if Bind(inst) != inst {
		t.Fatalf("expected instance handle to be shared")
	}
	if Bind(nil).Get().Kind != KindNone {
		t.Fatalf("expected nil handle to bind none")
	}
}

func TestFindMethodWalksSuperclasses(t *testing.T) {
	greet := &DefinedCall{Decl: &ast.FuncDecl{Name: "greet"}}
	base := &Class{ClassName: "A", Methods: map[string]*DefinedCall{"greet": greet}}
	mid := &Class{ClassName: "B", Superclass: NewRef(FromCallable(base)), Methods: map[string]*DefinedCall{}}
	leaf := &Class{ClassName: "C", Superclass: NewRef(FromCallable(mid)), Methods: map[string]*DefinedCall{}}

	if m := leaf.FindMethod("greet"); m != greet {
		t.Fatalf("expected inherited method, got %v", m)
	}
	if m := leaf.FindMethod("missing"); m != nil {
		t.Fatalf("expected nil, got %v", m)
	}
}

func TestDescendsFrom(t *testing.T) {
	base := &Class{ClassName: "A"}
	leaf := &Class{ClassName: "B", Superclass: NewRef(FromCallable(base))}
	other := &Class{ClassName: "C"}

	if !leaf.DescendsFrom(base) || !leaf.DescendsFrom(leaf) {
		t.Fatalf("expected B to descend from A and itself")
	}
	if base.DescendsFrom(leaf) || leaf.DescendsFrom(other) {
		t.Fatalf("expected unrelated classes not to match")
	}
}

func TestInstanceProperty(t *testing.T) {
	get := &DefinedCall{Decl: &ast.FuncDecl{Name: "get"}, Closure: NewEnvironment(nil)}
	class := &Class{ClassName: "A", Methods: map[string]*DefinedCall{"get": get}}
	inst := NewInstance(1, class)
	inst.SetField("x", NewRef(Number(4)))

	ref, ok := inst.Property("x")
	if !ok || ref.Get().Num != 4 {
		t.Fatalf("expected field x=4, got %v", ref)
	}
	ref, ok = inst.Property("get")
	if !ok {
		t.Fatalf("expected bound method")
	}
	bound := ref.Get().Call.(*DefinedCall)
	self, ok := bound.Closure.Lookup("self")
	if !ok || self.Get().Inst != inst {
		t.Fatalf("expected self bound to the instance")
	}
	if _, ok := inst.Property("nope"); ok {
		t.Fatalf("expected missing property")
	}
	if names := inst.FieldNames(); len(names) != 1 || names[0] != "x" {
		t.Fatalf("unexpected field names %v", names)
	}
}
