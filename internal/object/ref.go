package object

// Ref is a handle to a stored value. Bindings in several scopes, closures
// and instance fields may all point at the same Ref. The value never changes
// once stored; assignment rebinds a name to a new Ref.
type Ref struct {
	v Value
}

func NewRef(v Value) *Ref {
	return &Ref{v: v}
}

func (r *Ref) Get() Value { return r.v }

// Bind returns the handle a new binding should hold: primitives are copied
// into a fresh Ref, everything else keeps sharing r.
func Bind(r *Ref) *Ref {
	if r == nil {
		return NewRef(None())
	}
	v := r.Get()
	if IsPrimitive(v) {
		return NewRef(v)
	}
	return r
}
