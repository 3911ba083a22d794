package runtime

import (
	"fmt"
	"sort"

	"github.com/xirelogy/go-nova/internal/object"
)

// Spec describes a native function visible to scripts.
type Spec struct {
	Name    string
	Arity   int // object.Variadic skips the argument count check
	Handler object.NativeFunc
}

var byName = map[string]Spec{}

// Register installs a native function. Plugins call it from init.
func Register(spec Spec) {
	if spec.Handler == nil {
		panic(fmt.Sprintf("builtin %s has nil handler", spec.Name))
	}
	if _, exists := byName[spec.Name]; exists {
		panic(fmt.Sprintf("builtin %s already registered", spec.Name))
	}
	if spec.Arity < object.Variadic {
		panic(fmt.Sprintf("builtin %s has invalid arity %d", spec.Name, spec.Arity))
	}
	byName[spec.Name] = spec
}

// LookupByName finds a builtin by its script-visible name.
func LookupByName(name string) (Spec, bool) {
	spec, ok := byName[name]
	return spec, ok
}

// All returns all registered builtins sorted by name.
func All() []Spec {
	out := make([]Spec, 0, len(byName))
	for _, spec := range byName {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Native wraps a spec as a callable value.
func (s Spec) Native() *object.NativeCall {
	return object.NewNative(s.Name, s.Arity, s.Handler)
}

// Arg returns the value of argument i, or none when it was not supplied.
func Arg(args []*object.Ref, i int) object.Value {
	if i < len(args) && args[i] != nil {
		return args[i].Get()
	}
	return object.None()
}

// Return wraps v in a fresh handle.
func Return(v object.Value) (*object.Ref, error) {
	return object.NewRef(v), nil
}
