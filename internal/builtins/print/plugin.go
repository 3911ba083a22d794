package printbuiltin

import (
	"io"
	"strings"

	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/runtime"
)

func init() {
	runtime.Register(runtime.Spec{
		Name:    "print",
		Arity:   object.Variadic,
		Handler: runPrint,
	})
	runtime.Register(runtime.Spec{
		Name:    "println",
		Arity:   object.Variadic,
		Handler: runPrintln,
	})
}

func runPrint(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
	_, err := io.WriteString(rt.Output(), join(args))
	if err != nil {
		return nil, err
	}
	return runtime.Return(object.None())
}

func runPrintln(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
	_, err := io.WriteString(rt.Output(), join(args)+"\n")
	if err != nil {
		return nil, err
	}
	return runtime.Return(object.None())
}

// join renders the arguments separated by single spaces.
func join(args []*object.Ref) string {
	parts := make([]string, len(args))
	for i := range args {
		parts[i] = object.Text(runtime.Arg(args, i))
	}
	return strings.Join(parts, " ")
}
