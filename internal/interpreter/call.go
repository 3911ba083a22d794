package interpreter

import (
	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/token"
)

func (in *Interpreter) call(callee object.Value, args []*object.Ref, pos token.Position) (*object.Ref, error) {
	if callee.Kind != object.KindCallable || callee.Call == nil {
		return nil, in.errorf(pos, "can only call functions and classes, got %s", object.TypeName(callee))
	}
	fn := callee.Call
	if arity := fn.Arity(); arity != object.Variadic && arity != len(args) {
		return nil, in.errorf(pos, "%s expects %d arguments, got %d", fn.Name(), arity, len(args))
	}
	if len(in.frames) >= in.maxDepth {
		return nil, in.wrapf(pos, ErrStackOverflow, "maximum call depth %d exceeded calling %s", in.maxDepth, fn.Name())
	}

	prevSite := in.site
	in.site = pos
	in.frames = append(in.frames, callFrame{function: fn.Name(), site: pos})
	defer func() {
		in.frames = in.frames[:len(in.frames)-1]
		in.site = prevSite
	}()

	switch c := fn.(type) {
	case *object.NativeCall:
		ref, err := c.Fn(in, args)
		if err != nil {
			return nil, in.wrapError(pos, err)
		}
		if ref == nil {
			ref = object.NewRef(object.None())
		}
		return ref, nil
	case *object.DefinedCall:
		return in.callDefined(c, args)
	case *object.Class:
		return in.instantiate(c, args)
	default:
		return nil, in.errorf(pos, "cannot call %T", fn)
	}
}

// callDefined binds parameters in a fresh scope under the closure and turns
// a return outcome into the call result.
func (in *Interpreter) callDefined(fn *object.DefinedCall, args []*object.Ref) (*object.Ref, error) {
	env := object.NewEnvironment(fn.Closure)
	for i, p := range fn.Decl.Params {
		env.Declare(p.Name, object.Bind(args[i]))
	}

	out, err := in.execBlock(fn.Decl.Body.Statements, env)
	if err != nil {
		return nil, err
	}
	switch {
	case out.Kind == Exit:
		return nil, &object.ExitSignal{Code: out.Code}
	case fn.IsInitializer:
		return fn.Closure.Get("self"), nil
	case out.Kind == Return:
		return object.NewRef(out.Value), nil
	}
	return object.NewRef(object.None()), nil
}

// instantiate allocates an instance, runs init against it when the class
// chain defines one, and yields the instance.
func (in *Interpreter) instantiate(class *object.Class, args []*object.Ref) (*object.Ref, error) {
	in.nextID++
	inst := object.NewInstance(in.nextID, class)
	if init := class.FindMethod("init"); init != nil {
		if _, err := in.callDefined(init.Bind(inst), args); err != nil {
			return nil, err
		}
	}
	return object.NewRef(object.FromInstance(inst)), nil
}
