package values

import "fmt"

// Method is a value pairing a bound self pointer with a function pointer,
// constructed by PropertyAccess when the named property resolves to a
// method rather than a field. Self aliases the object it was bound to, so
// mutation through `self.field = ...` inside the method body is observed by
// the caller.
type Method struct {
	Self     *Pointer
	Function *Pointer
}

var _ Value = (*Method)(nil)

func (m *Method) String() string { return fmt.Sprintf("bound method") }
func (m *Method) Type() string   { return "method" }
