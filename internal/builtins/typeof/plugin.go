package typeof

import (
	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/runtime"
)

func init() {
	runtime.Register(runtime.Spec{
		Name:    "typeof",
		Arity:   1,
		Handler: runTypeof,
	})
}

func runTypeof(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
	v := runtime.Arg(args, 0)
	if v.Kind == object.KindInstance {
		return runtime.Return(object.String(v.Inst.Class.Name()))
	}
	return runtime.Return(object.String(object.TypeName(v)))
}
