package object

import (
	"fmt"
	"strconv"
)

type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindNumber
	KindString
	KindCallable
	KindInstance
)

var kindNames = [...]string{
	KindNone:     "none",
	KindBool:     "bool",
	KindNumber:   "number",
	KindString:   "string",
	KindCallable: "callable",
	KindInstance: "instance",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is the tagged union every script expression evaluates to.
type Value struct {
	Kind Kind
	B    bool
	Num  float64
	Str  string
	Call Callable
	Inst *Instance
}

func None() Value { return Value{Kind: KindNone} }
func Bool(b bool) Value {
	return Value{Kind: KindBool, B: b}
}
func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}
func FromCallable(c Callable) Value {
	return Value{Kind: KindCallable, Call: c}
}
func FromInstance(inst *Instance) Value {
	return Value{Kind: KindInstance, Inst: inst}
}

// Truthy reports false for none and false only.
func Truthy(v Value) bool {
	switch v.Kind {
	case KindNone:
		return false
	case KindBool:
		return v.B
	default:
		return true
	}
}

// IsPrimitive reports whether the value is copied on binding.
func IsPrimitive(v Value) bool {
	switch v.Kind {
	case KindBool, KindNumber, KindString:
		return true
	default:
		return false
	}
}

// Equal compares values structurally. Any two callables are equal;
// instances are equal when they share an id.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNone:
		return true
	case KindBool:
		return a.B == b.B
	case KindNumber:
		return a.Num == b.Num
	case KindString:
		return a.Str == b.Str
	case KindCallable:
		return true
	case KindInstance:
		return a.Inst.ID == b.Inst.ID
	default:
		return false
	}
}

// Compare orders two values of the same primitive kind, returning -1, 0 or 1.
func Compare(a, b Value) (int, error) {
	if a.Kind != b.Kind {
		return 0, fmt.Errorf("cannot compare %s with %s", a.Kind, b.Kind)
	}
	switch a.Kind {
	case KindNumber:
		switch {
		case a.Num < b.Num:
			return -1, nil
		case a.Num > b.Num:
			return 1, nil
		}
		return 0, nil
	case KindString:
		switch {
		case a.Str < b.Str:
			return -1, nil
		case a.Str > b.Str:
			return 1, nil
		}
		return 0, nil
	case KindBool:
		switch {
		case a.B == b.B:
			return 0, nil
		case !a.B:
			return -1, nil
		}
		return 1, nil
	default:
		return 0, fmt.Errorf("%s values are not ordered", a.Kind)
	}
}

// Text renders a value the way print shows it.
func Text(v Value) string {
	switch v.Kind {
	case KindNone:
		return "none"
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindCallable:
		switch c := v.Call.(type) {
		case *NativeCall:
			return "<native fn " + c.Name() + ">"
		case *Class:
			return "<class " + c.Name() + ">"
		case nil:
			return "<fn>"
		default:
			return "<fn " + c.Name() + ">"
		}
	case KindInstance:
		return "<" + v.Inst.Class.Name() + " instance>"
	default:
		return "<unknown>"
	}
}

// TypeName names the dynamic type of v for diagnostics and typeof.
func TypeName(v Value) string {
	switch v.Kind {
	case KindCallable:
		if _, ok := v.Call.(*Class); ok {
			return "class"
		}
		return "function"
	default:
		return v.Kind.String()
	}
}

func (v Value) String() string { return Text(v) }
