package object

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUndefined is wrapped by errors about names no scope defines.
var ErrUndefined = errors.New("undefined variable")

// Environment is one lexical scope: bindings plus an optional parent.
type Environment struct {
	mu     sync.RWMutex
	parent *Environment
	values map[string]*Ref
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, values: make(map[string]*Ref)}
}

// Declare creates or overwrites name in this scope.
func (e *Environment) Declare(name string, ref *Ref) {
	e.mu.Lock()
	e.values[name] = ref
	e.mu.Unlock()
}

// Set rebinds name in the nearest scope that defines it. It never creates
// a binding.
func (e *Environment) Set(name string, ref *Ref) error {
	for env := e; env != nil; env = env.parent {
		env.mu.Lock()
		if _, ok := env.values[name]; ok {
			env.values[name] = ref
			env.mu.Unlock()
			return nil
		}
		env.mu.Unlock()
	}
	return fmt.Errorf("%w '%s'", ErrUndefined, name)
}

// Lookup resolves name through the scope chain.
func (e *Environment) Lookup(name string) (*Ref, bool) {
	for env := e; env != nil; env = env.parent {
		env.mu.RLock()
		ref, ok := env.values[name]
		env.mu.RUnlock()
		if ok {
			return ref, true
		}
	}
	return nil, false
}

// Get is Lookup that yields a fresh none handle for unresolved names.
func (e *Environment) Get(name string) *Ref {
	if ref, ok := e.Lookup(name); ok {
		return ref
	}
	return NewRef(None())
}

// Delete removes the nearest binding of name.
func (e *Environment) Delete(name string) bool {
	for env := e; env != nil; env = env.parent {
		env.mu.Lock()
		if _, ok := env.values[name]; ok {
			delete(env.values, name)
			env.mu.Unlock()
			return true
		}
		env.mu.Unlock()
	}
	return false
}

// Names lists the names bound directly in this scope, sorted.
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
