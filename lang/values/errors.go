package values

import "fmt"

// These are the runtime error variants a program can trigger by misusing a
// value: a bad operator/operand pairing, an out-of-range index, an unknown
// field, a bad call. They are ordinary Go errors (no panics) so the
// evaluator can propagate them with plain error returns instead of raising
// exceptions for a value-level condition.

// IncompatibleTypesError is OperationError(IncompatibleTypes(op, t1, t2)):
// a binary operator applied to two operand types it doesn't support.
type IncompatibleTypesError struct {
	Op       string
	T1, T2   string
}

func (e *IncompatibleTypesError) Error() string {
	return fmt.Sprintf("incompatible types for %s: %s and %s", e.Op, e.T1, e.T2)
}

// IncompatibleTypeError is OperationError(IncompatibleType(op, t)): a unary
// operator applied to a type it doesn't support.
type IncompatibleTypeError struct {
	Op string
	T  string
}

func (e *IncompatibleTypeError) Error() string {
	return fmt.Sprintf("incompatible type for %s: %s", e.Op, e.T)
}

// ListIndexOutOfRangeError signals a subscript index outside [0, len).
type ListIndexOutOfRangeError struct {
	Index, Len int
}

func (e *ListIndexOutOfRangeError) Error() string {
	return fmt.Sprintf("list index out of range: %d (len %d)", e.Index, e.Len)
}

// NotSubscriptableError signals subscripting a non-List value (Objects
// included) with an Int index.
type NotSubscriptableError struct{ T string }

func (e *NotSubscriptableError) Error() string {
	return fmt.Sprintf("value of type %s is not subscriptable", e.T)
}

// IndexTypeError signals a subscript index of the wrong type for its
// container (e.g. a List indexed by a non-Int).
type IndexTypeError struct {
	Container, Index string
}

func (e *IndexTypeError) Error() string {
	return fmt.Sprintf("cannot index %s with %s", e.Container, e.Index)
}

// NoSuchFieldError signals assignment to an unknown Object field.
type NoSuchFieldError struct{ Name string }

func (e *NoSuchFieldError) Error() string { return fmt.Sprintf("no such field: %s", e.Name) }

// NoSuchFieldOrMethodError signals property access to a name that is
// neither a field nor a method.
type NoSuchFieldOrMethodError struct{ Name string }

func (e *NoSuchFieldOrMethodError) Error() string {
	return fmt.Sprintf("no such field or method: %s", e.Name)
}

// ValueNotCallableError signals calling a non-callable value.
type ValueNotCallableError struct{ T string }

func (e *ValueNotCallableError) Error() string {
	return fmt.Sprintf("value of type %s is not callable", e.T)
}

// WrongArgumentsNumberError signals a call with the wrong argument count.
type WrongArgumentsNumberError struct{ Expected, Got int }

func (e *WrongArgumentsNumberError) Error() string {
	return fmt.Sprintf("wrong number of arguments: expected %d, got %d", e.Expected, e.Got)
}
