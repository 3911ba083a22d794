package get_field

import (
	"github.com/pkg/errors"

	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/runtime"
)

func init() {
	runtime.Register(runtime.Spec{
		Name:    "getField",
		Arity:   3,
		Handler: runGetField,
	})
}

// runGetField reads a field, falling back to the default when it is missing.
func runGetField(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
	target := runtime.Arg(args, 0)
	name := runtime.Arg(args, 1)
	if name.Kind != object.KindString {
		return nil, errors.Errorf("getField expects a string field name, got %s", object.TypeName(name))
	}
	if target.Kind == object.KindInstance {
		if ref, ok := target.Inst.Field(name.Str); ok {
			return ref, nil
		}
	}
	return args[2], nil
}
