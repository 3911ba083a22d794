package object

import (
	"fmt"
	"io"

	"github.com/xirelogy/go-nova/internal/ast"
)

// Variadic disables the arity check for a native function.
const Variadic = -1

// Callable is implemented by *NativeCall, *DefinedCall and *Class only.
type Callable interface {
	Name() string
	Arity() int
	callable()
}

// Runtime is the interpreter surface native functions receive.
type Runtime interface {
	Output() io.Writer
	Call(callee Value, args []*Ref) (*Ref, error)
	Lookup(name string) (*Ref, bool)
}

type NativeFunc func(rt Runtime, args []*Ref) (*Ref, error)

type NativeCall struct {
	FnName  string
	NumArgs int
	Fn      NativeFunc
}

func NewNative(name string, arity int, fn NativeFunc) *NativeCall {
	return &NativeCall{FnName: name, NumArgs: arity, Fn: fn}
}

func (n *NativeCall) Name() string { return n.FnName }
func (n *NativeCall) Arity() int   { return n.NumArgs }
func (n *NativeCall) callable()    {}

// DefinedCall is a script function or method with the scope it closed over.
type DefinedCall struct {
	Decl          *ast.FuncDecl
	Closure       *Environment
	IsInitializer bool
}

func (d *DefinedCall) Name() string { return d.Decl.Name }
func (d *DefinedCall) Arity() int   { return len(d.Decl.Params) }
func (d *DefinedCall) callable()    {}

// Bind returns a copy of the method whose closure has self bound to inst.
func (d *DefinedCall) Bind(inst *Instance) *DefinedCall {
	env := NewEnvironment(d.Closure)
	env.Declare("self", NewRef(FromInstance(inst)))
	return &DefinedCall{Decl: d.Decl, Closure: env, IsInitializer: d.IsInitializer}
}

type Class struct {
	ClassName  string
	Superclass *Ref
	Methods    map[string]*DefinedCall
}

func (c *Class) Name() string { return c.ClassName }

// Arity is the arity of init, or zero when the class has none.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}
func (c *Class) callable() {}

// FindMethod looks name up on the class and then along the superclass chain.
func (c *Class) FindMethod(name string) *DefinedCall {
	for cls := c; cls != nil; cls = cls.super() {
		if m, ok := cls.Methods[name]; ok {
			return m
		}
	}
	return nil
}

// DescendsFrom reports whether c is ancestor or inherits from it.
func (c *Class) DescendsFrom(ancestor *Class) bool {
	for cls := c; cls != nil; cls = cls.super() {
		if cls == ancestor {
			return true
		}
	}
	return false
}

func (c *Class) super() *Class {
	if c.Superclass == nil {
		return nil
	}
	if sc, ok := c.Superclass.Get().Call.(*Class); ok {
		return sc
	}
	return nil
}

// ExitSignal asks the interpreter to stop with a process exit code.
type ExitSignal struct {
	Code int
}

func (e *ExitSignal) Error() string {
	return fmt.Sprintf("exit requested with code %d", e.Code)
}
