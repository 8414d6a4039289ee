package values

import (
	"fmt"

	"github.com/epieffe/epilang/lang/ir"
)

// Function is a first-class closure: a compiled body plus the pointers it
// carries with it. For a named function (one produced from NamedFunctionExp)
// Captured[0] is a self-pointer to the Function value itself, enabling
// recursion by name; for an anonymous closure there is no self-pointer and
// Captured holds only the lexically captured outer bindings. NumArgs counts
// only the declared parameters (for methods, it additionally counts the
// implicit leading self).
type Function struct {
	NumArgs   int
	HasSelf   bool
	Captured  []*Pointer
	Body      ir.Exp
}

var _ Value = (*Function)(nil)

func (f *Function) String() string { return fmt.Sprintf("function(%d args)", f.NumArgs) }
func (f *Function) Type() string   { return "function" }

// BuiltInFunction gives built-ins (print/println/input) the same calling
// convention as user functions, so the evaluator's FunctionCall dispatch
// stays uniform.
type BuiltInFunction struct {
	Name string
	// NumArgs is the fixed arity; no built-in needs variadic arguments.
	NumArgs int
	Call    func(args []*Pointer) (Value, error)
}

var _ Value = (*BuiltInFunction)(nil)

func (b *BuiltInFunction) String() string { return fmt.Sprintf("builtin %s", b.Name) }
func (b *BuiltInFunction) Type() string   { return "builtin" }
