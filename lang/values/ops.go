package values

import (
	"github.com/epieffe/epilang/lang/ir"
)

// AsBool is the as_bool coercion used by the ! operator, by And/Or
// short-circuiting, and by If/While conditions.
func AsBool(v Value) bool {
	switch t := v.(type) {
	case unitValue:
		return false
	case Bool:
		return bool(t)
	case Int:
		return t != 0
	case Float:
		return t != 0
	case String:
		return len(t) != 0
	case *List:
		return !t.Empty()
	default:
		return true
	}
}

func typeErr2(op string, a, b Value) error {
	return &IncompatibleTypesError{Op: op, T1: a.Type(), T2: b.Type()}
}

// Binary dispatches an arithmetic/relational/equality operator over already
// evaluated operands, following a type-promotion (Int widens to Float when
// mixed) and pointer-identity (for reference values) discipline. And/Or are
// not handled here: they short-circuit in the evaluator before the right
// operand is even evaluated.
func Binary(op ir.BinaryOp, a, b Value) (Value, error) {
	switch op {
	case ir.Add:
		return add(a, b)
	case ir.Sub:
		return arith(op, a, b, "-")
	case ir.Mul:
		return arith(op, a, b, "*")
	case ir.Div:
		return arith(op, a, b, "/")
	case ir.Eq:
		return Bool(equal(a, b)), nil
	case ir.Neq:
		return Bool(!equal(a, b)), nil
	case ir.Lt, ir.Le, ir.Gt, ir.Ge:
		return relational(op, a, b)
	}
	panic("values: unknown binary op")
}

func add(a, b Value) (Value, error) {
	if as, ok := a.(String); ok {
		return as + String(b.String()), nil
	}
	if bs, ok := b.(String); ok {
		return String(a.String()) + bs, nil
	}
	if al, ok := a.(*List); ok {
		if bl, ok := b.(*List); ok {
			elems := make([]*Pointer, 0, len(al.Elements)+len(bl.Elements))
			elems = append(elems, al.Elements...)
			elems = append(elems, bl.Elements...)
			return NewList(elems), nil
		}
		return nil, typeErr2("+", a, b)
	}
	return arith(ir.Add, a, b, "+")
}

func arith(op ir.BinaryOp, a, b Value, sym string) (Value, error) {
	ai, aIsInt := a.(Int)
	bi, bIsInt := b.(Int)
	if aIsInt && bIsInt {
		switch op {
		case ir.Add:
			return ai + bi, nil
		case ir.Sub:
			return ai - bi, nil
		case ir.Mul:
			return ai * bi, nil
		case ir.Div:
			return ai / bi, nil // divide-by-zero: Go's own panic, not a language-level error
		}
	}
	af, aIsF := toFloat(a)
	bf, bIsF := toFloat(b)
	if aIsF && bIsF {
		switch op {
		case ir.Add:
			return Float(af + bf), nil
		case ir.Sub:
			return Float(af - bf), nil
		case ir.Mul:
			return Float(af * bf), nil
		case ir.Div:
			return Float(af / bf), nil
		}
	}
	return nil, typeErr2(sym, a, b)
}

func toFloat(v Value) (float32, bool) {
	switch t := v.(type) {
	case Int:
		return float32(t), true
	case Float:
		return float32(t), true
	default:
		return 0, false
	}
}

func relational(op ir.BinaryOp, a, b Value) (Value, error) {
	var cmp int
	switch {
	case isNumeric(a) && isNumeric(b):
		af, _ := toFloat(a)
		bf, _ := toFloat(b)
		switch {
		case af < bf:
			cmp = -1
		case af > bf:
			cmp = 1
		default:
			cmp = 0
		}
	case isString(a) && isString(b):
		as, bs := string(a.(String)), string(b.(String))
		switch {
		case as < bs:
			cmp = -1
		case as > bs:
			cmp = 1
		default:
			cmp = 0
		}
	default:
		return nil, typeErr2(opSymbol(op), a, b)
	}
	switch op {
	case ir.Lt:
		return Bool(cmp < 0), nil
	case ir.Le:
		return Bool(cmp <= 0), nil
	case ir.Gt:
		return Bool(cmp > 0), nil
	case ir.Ge:
		return Bool(cmp >= 0), nil
	}
	panic("values: unknown relational op")
}

func isNumeric(v Value) bool {
	switch v.(type) {
	case Int, Float:
		return true
	default:
		return false
	}
}

func isString(v Value) bool {
	_, ok := v.(String)
	return ok
}

func opSymbol(op ir.BinaryOp) string {
	switch op {
	case ir.Lt:
		return "<"
	case ir.Le:
		return "<="
	case ir.Gt:
		return ">"
	case ir.Ge:
		return ">="
	}
	return "?"
}

// equal implements == (and, negated, !=): within-type comparison for
// primitives, pointer-identity for reference values, false for any other
// type pairing.
func equal(a, b Value) bool {
	switch av := a.(type) {
	case Int:
		if bv, ok := b.(Int); ok {
			return av == bv
		}
	case Float:
		if bv, ok := b.(Float); ok {
			return av.Equal(bv) // NaN != NaN, IEEE 754 semantics
		}
	case Bool:
		if bv, ok := b.(Bool); ok {
			return av == bv
		}
	case String:
		if bv, ok := b.(String); ok {
			return av == bv
		}
	case unitValue:
		_, ok := b.(unitValue)
		return ok
	}
	// reference types: pointer (i.e. Go pointer) identity
	switch av := a.(type) {
	case *List:
		bv, ok := b.(*List)
		return ok && av == bv
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	case *Class:
		bv, ok := b.(*Class)
		return ok && av == bv
	case *Object:
		bv, ok := b.(*Object)
		return ok && av == bv
	case *Method:
		bv, ok := b.(*Method)
		return ok && av == bv
	case *BuiltInFunction:
		bv, ok := b.(*BuiltInFunction)
		return ok && av == bv
	}
	return false
}

// Unary applies a prefix unary operator; the only one in this grammar is
// logical negation.
func Unary(op ir.UnaryOp, a Value) (Value, error) {
	switch op {
	case ir.Not:
		return Bool(!AsBool(a)), nil
	}
	panic("values: unknown unary op")
}

// Subscript resolves `element[index]` to the underlying list and a valid
// in-range Go slice index. Both reads (Subscript expression) and writes
// (Assign to a Subscript l-value) go through this single helper so the
// range/type-checking logic is not duplicated.
func Subscript(element, index Value) (*List, int, error) {
	list, ok := element.(*List)
	if !ok {
		if _, isInt := index.(Int); isInt {
			return nil, 0, &NotSubscriptableError{T: element.Type()}
		}
		return nil, 0, &IndexTypeError{Container: element.Type(), Index: index.Type()}
	}
	i, ok := index.(Int)
	if !ok {
		return nil, 0, &IndexTypeError{Container: list.Type(), Index: index.Type()}
	}
	if int(i) < 0 || int(i) >= len(list.Elements) {
		return nil, 0, &ListIndexOutOfRangeError{Index: int(i), Len: len(list.Elements)}
	}
	return list, int(i), nil
}
