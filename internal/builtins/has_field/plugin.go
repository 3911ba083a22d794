package has_field

import (
	"github.com/pkg/errors"

	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/runtime"
)

func init() {
	runtime.Register(runtime.Spec{
		Name:    "hasField",
		Arity:   2,
		Handler: runHasField,
	})
}

func runHasField(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
	target := runtime.Arg(args, 0)
	name := runtime.Arg(args, 1)
	if name.Kind != object.KindString {
		return nil, errors.Errorf("hasField expects a string field name, got %s", object.TypeName(name))
	}
	ok := target.Kind == object.KindInstance && target.Inst.HasField(name.Str)
	return runtime.Return(object.Bool(ok))
}
