package values

import "strings"

// List is an ordered, mutable, heterogeneous sequence of Pointers. Storing
// *Pointer directly (rather than a copy of the Value) is what makes a
// Borrowed read from Subscript stay valid as long as the list itself is
// reachable: Go's garbage collector, not manual ownership, is the
// enforcement mechanism.
type List struct {
	Elements []*Pointer
}

var _ Value = (*List)(nil)

// NewList builds a List from already-coerced element pointers.
func NewList(elems []*Pointer) *List { return &List{Elements: elems} }

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range l.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Get().String())
	}
	b.WriteByte(']')
	return b.String()
}

func (l *List) Type() string { return "list" }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.Elements) }

// Empty reports whether the list has no elements, used by as_bool.
func (l *List) Empty() bool { return len(l.Elements) == 0 }
