package interpreter

import (
	"math"

	"github.com/pkg/errors"

	"github.com/xirelogy/go-nova/internal/ast"
	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/token"
)

func (in *Interpreter) eval(expr ast.Expression) (*object.Ref, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return object.NewRef(object.Number(e.Value)), nil
	case *ast.StringLiteral:
		return object.NewRef(object.String(e.Value)), nil
	case *ast.BoolLiteral:
		return object.NewRef(object.Bool(e.Value)), nil
	case *ast.NoneLiteral:
		return object.NewRef(object.None()), nil
	case *ast.GroupingExpr:
		return in.eval(e.Inner)

	case *ast.Variable:
		ref, ok := in.env.Lookup(e.Name)
		if !ok {
			return nil, in.wrapf(e.Pos(), object.ErrUndefined, "cannot resolve '%s'", e.Name)
		}
		return ref, nil

	case *ast.AssignExpr:
		val, err := in.eval(e.Value)
		if err != nil {
			return nil, err
		}
		ref := object.Bind(val)
		if err := in.env.Set(e.Name, ref); err != nil {
			return nil, in.wrapf(e.Pos(), err, "cannot assign '%s'", e.Name)
		}
		return ref, nil

	case *ast.GetExpr:
		obj, err := in.eval(e.Object)
		if err != nil {
			return nil, err
		}
		return in.property(obj.Get(), e.Name, e.Pos())

	case *ast.SetExpr:
		obj, err := in.eval(e.Object)
		if err != nil {
			return nil, err
		}
		target := obj.Get()
		if target.Kind != object.KindInstance {
			return nil, in.errorf(e.Pos(), "only instances have fields, got %s", object.TypeName(target))
		}
		val, err := in.eval(e.Value)
		if err != nil {
			return nil, err
		}
		ref := object.Bind(val)
		target.Inst.SetField(e.Name, ref)
		return ref, nil

	case *ast.UnaryExpr:
		right, err := in.eval(e.Right)
		if err != nil {
			return nil, err
		}
		v := right.Get()
		switch e.Operator {
		case token.Minus:
			if v.Kind != object.KindNumber {
				return nil, in.errorf(e.Pos(), "operand of '-' must be a number, got %s", object.TypeName(v))
			}
			return object.NewRef(object.Number(-v.Num)), nil
		case token.Bang:
			return object.NewRef(object.Bool(!object.Truthy(v))), nil
		}
		return nil, in.errorf(e.Pos(), "unknown unary operator %s", ast.OperatorText(e.Operator))

	case *ast.BinaryExpr:
		if e.Operator == token.And || e.Operator == token.Or {
			return in.logical(e)
		}
		left, err := in.eval(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := in.eval(e.Right)
		if err != nil {
			return nil, err
		}
		v, err := binaryOp(e.Operator, left.Get(), right.Get())
		if err != nil {
			return nil, in.wrapError(e.Pos(), err)
		}
		return object.NewRef(v), nil

	case *ast.CallExpr:
		callee, err := in.eval(e.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]*object.Ref, 0, len(e.Arguments))
		for _, a := range e.Arguments {
			arg, err := in.eval(a)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return in.call(callee.Get(), args, e.Pos())

	default:
		return nil, in.errorf(expr.Pos(), "unsupported expression %T", expr)
	}
}

// logical short-circuits: the right operand is only evaluated when the left
// one does not decide the result.
func (in *Interpreter) logical(e *ast.BinaryExpr) (*object.Ref, error) {
	left, err := in.eval(e.Left)
	if err != nil {
		return nil, err
	}
	l := object.Truthy(left.Get())
	if e.Operator == token.Or && l {
		return object.NewRef(object.Bool(true)), nil
	}
	if e.Operator == token.And && !l {
		return object.NewRef(object.Bool(false)), nil
	}
	right, err := in.eval(e.Right)
	if err != nil {
		return nil, err
	}
	return object.NewRef(object.Bool(object.Truthy(right.Get()))), nil
}

// property resolves fields and methods on instances, and methods on classes.
// A class method is bound to the self in scope only when that instance
// belongs to the class or a subclass of it, which is how super.method()
// reaches the overridden implementation.
func (in *Interpreter) property(v object.Value, name string, pos token.Position) (*object.Ref, error) {
	switch v.Kind {
	case object.KindInstance:
		if ref, ok := v.Inst.Property(name); ok {
			return ref, nil
		}
		return nil, in.errorf(pos, "undefined property '%s' on %s", name, object.Text(v))
	case object.KindCallable:
		class, ok := v.Call.(*object.Class)
		if !ok {
			break
		}
		m := class.FindMethod(name)
		if m == nil {
			return nil, in.errorf(pos, "undefined method '%s' on class %s", name, class.Name())
		}
		if self, ok := in.env.Lookup("self"); ok {
			if sv := self.Get(); sv.Kind == object.KindInstance && sv.Inst.Class.DescendsFrom(class) {
				return object.NewRef(object.FromCallable(m.Bind(sv.Inst))), nil
			}
		}
		return object.NewRef(object.FromCallable(m)), nil
	}
	return nil, in.errorf(pos, "only instances have properties, got %s", object.TypeName(v))
}

func binaryOp(op token.Type, a, b object.Value) (object.Value, error) {
	switch op {
	case token.Plus:
		if a.Kind == object.KindString || b.Kind == object.KindString {
			return object.String(object.Text(a) + object.Text(b)), nil
		}
		if a.Kind == object.KindNumber && b.Kind == object.KindNumber {
			return object.Number(a.Num + b.Num), nil
		}
		return object.None(), errors.Errorf("operands of '+' must be numbers or strings, got %s and %s", object.TypeName(a), object.TypeName(b))
	case token.Minus, token.Star, token.Slash, token.Percent, token.Caret:
		if a.Kind != object.KindNumber || b.Kind != object.KindNumber {
			return object.None(), errors.Errorf("operands of '%s' must be numbers, got %s and %s", ast.OperatorText(op), object.TypeName(a), object.TypeName(b))
		}
		return object.Number(arith(op, a.Num, b.Num)), nil
	case token.Equal:
		return object.Bool(object.Equal(a, b)), nil
	case token.NotEqual:
		return object.Bool(!object.Equal(a, b)), nil
	case token.Less, token.LessEqual, token.Greater, token.GreaterEqual:
		c, err := object.Compare(a, b)
		if err != nil {
			return object.None(), err
		}
		switch op {
		case token.Less:
			return object.Bool(c < 0), nil
		case token.LessEqual:
			return object.Bool(c <= 0), nil
		case token.Greater:
			return object.Bool(c > 0), nil
		default:
			return object.Bool(c >= 0), nil
		}
	}
	return object.None(), errors.Errorf("unknown binary operator %s", ast.OperatorText(op))
}

func arith(op token.Type, a, b float64) float64 {
	switch op {
	case token.Minus:
		return a - b
	case token.Star:
		return a * b
	case token.Slash:
		return a / b
	case token.Percent:
		return math.Mod(a, b)
	default:
		return math.Pow(a, b)
	}
}
