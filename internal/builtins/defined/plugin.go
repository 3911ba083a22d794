package defined

import (
	"github.com/pkg/errors"

	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/runtime"
)

func init() {
	runtime.Register(runtime.Spec{
		Name:    "defined",
		Arity:   1,
		Handler: runDefined,
	})
}

// runDefined tells an unbound name apart from one bound to none.
func runDefined(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
	name := runtime.Arg(args, 0)
	if name.Kind != object.KindString {
		return nil, errors.Errorf("defined expects a variable name, got %s", object.TypeName(name))
	}
	_, ok := rt.Lookup(name.Str)
	return runtime.Return(object.Bool(ok))
}
