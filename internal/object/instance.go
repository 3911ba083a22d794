package object

import (
	"sort"
	"sync"
)

type Instance struct {
	ID    uint64
	Class *Class

	mu     sync.RWMutex
	fields map[string]*Ref
}

func NewInstance(id uint64, class *Class) *Instance {
	return &Instance{ID: id, Class: class, fields: make(map[string]*Ref)}
}

func (i *Instance) Field(name string) (*Ref, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	ref, ok := i.fields[name]
	return ref, ok
}

func (i *Instance) SetField(name string, ref *Ref) {
	i.mu.Lock()
	i.fields[name] = ref
	i.mu.Unlock()
}

func (i *Instance) HasField(name string) bool {
	_, ok := i.Field(name)
	return ok
}

func (i *Instance) FieldNames() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	names := make([]string, 0, len(i.fields))
	for name := range i.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Property resolves a field first and then a method bound to the instance.
func (i *Instance) Property(name string) (*Ref, bool) {
	if ref, ok := i.Field(name); ok {
		return ref, true
	}
	if m := i.Class.FindMethod(name); m != nil {
		return NewRef(FromCallable(m.Bind(i))), true
	}
	return nil, false
}
