// Package values implements epilang's runtime value and pointer model (C1):
// the tagged Value sum, the shared non-owning Pointer handle, the V
// evaluator-result sum (Owned/Borrowed), and the typed operator tables that
// lang/machine dispatches through.
package values

// Value is the interface implemented by every runtime value variant: Unit,
// Int, Float, Bool, String, *List, *Function, *Class, *Object, *Method and
// *BuiltInFunction. Operations dispatch by type-switching on the concrete
// type rather than using dynamic downcasts sprinkled through the evaluator.
type Value interface {
	String() string
	Type() string
}

// Pointer is a shared, non-owning handle to a heap-allocated Value. Many
// Pointers may designate the same cell; Go's garbage collector keeps the
// cell alive as long as any Pointer (or any value transitively holding one,
// e.g. a List element or an Object field) is reachable, which is sufficient
// to satisfy the list-element and closure-capture lifetime requirements
// without any manual bookkeeping.
type Pointer struct {
	v Value
}

// NewPointer heap-allocates v and returns a fresh handle to it.
func NewPointer(v Value) *Pointer {
	return &Pointer{v: v}
}

// Get returns the value currently designated by p.
func (p *Pointer) Get() Value { return p.v }

// Set overwrites the value designated by p. All other pointers sharing this
// cell observe the new value; this is how list/object mutation is made
// visible to every alias.
func (p *Pointer) Set(v Value) { p.v = v }

// unitValue is the sentinel returned by expressions with no useful result.
type unitValue struct{}

func (unitValue) String() string { return "unit" }
func (unitValue) Type() string   { return "unit" }

// Unit is the single Unit value; there is exactly one, by convention, though
// nothing prevents constructing more since it carries no state.
var Unit Value = unitValue{}

// UnitPointer is the distinguished shared pointer designating the static
// Unit value. Every newly declared variable slot (LetExp) holds this
// pointer until first assigned. It is never mutated: Set is never called on
// it by the evaluator.
var UnitPointer = NewPointer(Unit)

// V is the evaluator's result type: either a freshly computed Value (Owned)
// or a Pointer into live storage (Borrowed). Borrowed results preserve
// aliasing, which subscript/property assignment and method binding depend
// on; Owned results are used for everything else. Exactly one of the two
// fields is meaningful, selected by Borrowed.
type V struct {
	borrowed bool
	owned    Value
	ptr      *Pointer
}

// OwnedV wraps a freshly computed value.
func OwnedV(v Value) V { return V{owned: v} }

// BorrowedV wraps a pointer into live storage.
func BorrowedV(p *Pointer) V { return V{borrowed: true, ptr: p} }

// IsBorrowed reports whether this result aliases live storage.
func (r V) IsBorrowed() bool { return r.borrowed }

// Value returns the underlying value, dereferencing if borrowed.
func (r V) Value() Value {
	if r.borrowed {
		return r.ptr.Get()
	}
	return r.owned
}

// Pointer returns the borrowed pointer; callers must check IsBorrowed first.
func (r V) Pointer() *Pointer {
	return r.ptr
}

// ToPointer coerces r to a Pointer: an existing one if Borrowed, or a fresh
// heap allocation of the owned value otherwise. This is the "V -> Pointer"
// coercion used whenever a result must be stored (assignment, argument
// passing, list construction).
func (r V) ToPointer() *Pointer {
	if r.borrowed {
		return r.ptr
	}
	return NewPointer(r.owned)
}
