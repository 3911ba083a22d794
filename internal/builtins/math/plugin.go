package mathbuiltin

import (
	"math"

	"github.com/pkg/errors"

	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/runtime"
)

var unary = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"abs":   math.Abs,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"round": math.Round,
	"exp":   math.Exp,
	"ln":    math.Log,
	"log10": math.Log10,
}

var binary = map[string]func(float64, float64) float64{
	"pow": math.Pow,
	"min": math.Min,
	"max": math.Max,
}

func init() {
	for name, fn := range unary {
		runtime.Register(runtime.Spec{Name: name, Arity: 1, Handler: unaryHandler(name, fn)})
	}
	for name, fn := range binary {
		runtime.Register(runtime.Spec{Name: name, Arity: 2, Handler: binaryHandler(name, fn)})
	}
}

func unaryHandler(name string, fn func(float64) float64) object.NativeFunc {
	return func(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
		x, err := number(name, runtime.Arg(args, 0))
		if err != nil {
			return nil, err
		}
		return runtime.Return(object.Number(fn(x)))
	}
}

func binaryHandler(name string, fn func(float64, float64) float64) object.NativeFunc {
	return func(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
		a, err := number(name, runtime.Arg(args, 0))
		if err != nil {
			return nil, err
		}
		b, err := number(name, runtime.Arg(args, 1))
		if err != nil {
			return nil, err
		}
		return runtime.Return(object.Number(fn(a, b)))
	}
}

func number(name string, v object.Value) (float64, error) {
	if v.Kind != object.KindNumber {
		return 0, errors.Errorf("%s expects numbers, got %s", name, object.TypeName(v))
	}
	return v.Num, nil
}
