package exit

import (
	"github.com/pkg/errors"

	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/runtime"
)

func init() {
	runtime.Register(runtime.Spec{
		Name:    "exit",
		Arity:   object.Variadic,
		Handler: runExit,
	})
}

// runExit stops the script. The optional argument is the exit code.
func runExit(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
	if len(args) > 1 {
		return nil, errors.Errorf("exit expects at most 1 argument, got %d", len(args))
	}
	code := 0
	if len(args) == 1 {
		v := runtime.Arg(args, 0)
		if v.Kind != object.KindNumber {
			return nil, errors.Errorf("exit code must be a number, got %s", object.TypeName(v))
		}
		code = int(v.Num)
	}
	return nil, &object.ExitSignal{Code: code}
}
