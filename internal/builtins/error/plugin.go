package errorbuiltin

import (
	"github.com/pkg/errors"

	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/runtime"
)

func init() {
	runtime.Register(runtime.Spec{
		Name:    "error",
		Arity:   1,
		Handler: runError,
	})
}

// runError aborts the script with the given message.
func runError(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
	v := runtime.Arg(args, 0)
	if v.Kind != object.KindString {
		return nil, errors.Errorf("error expects string, got %s", object.TypeName(v))
	}
	return nil, errors.New(v.Str)
}
