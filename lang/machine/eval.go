package machine

import (
	"github.com/epieffe/epilang/lang/ir"
	"github.com/epieffe/epilang/lang/values"
)

// Evaluate runs e against m, resolving every Variable{scope} at
// variables[stackStart+scope]. Calls establish a fresh stackStart at the new
// call's base; blocks reuse the stackStart of their enclosing evaluation
// (only the truncation point moves).
func Evaluate(e ir.Exp, m *Module, stackStart int) (values.V, error) {
	switch n := e.(type) {
	case *ir.ConstantExp:
		return values.OwnedV(fromConstant(n.Value)), nil

	case *ir.VariableExp:
		return values.BorrowedV(m.Variables[stackStart+n.Scope]), nil

	case *ir.ClassRefExp:
		def, ok := m.LookupClass(n.ID)
		if !ok {
			panic("machine: unresolved class id, compiler invariant violated")
		}
		return values.OwnedV(&values.Class{Def: def}), nil

	case *ir.ConcatExp:
		if _, err := Evaluate(n.First, m, stackStart); err != nil {
			return values.V{}, err
		}
		return Evaluate(n.Second, m, stackStart)

	case *ir.BinaryOpExp:
		return evalBinaryOp(n, m, stackStart)

	case *ir.UnaryOpExp:
		a, err := Evaluate(n.A, m, stackStart)
		if err != nil {
			return values.V{}, err
		}
		v, err := values.Unary(n.Op, a.Value())
		if err != nil {
			return values.V{}, err
		}
		return values.OwnedV(v), nil

	case *ir.LetExp:
		m.Push(values.UnitPointer)
		return values.OwnedV(values.Unit), nil

	case *ir.AssignExp:
		return evalAssign(n, m, stackStart)

	case *ir.BlockExp:
		base := m.Len()
		v, err := Evaluate(n.Body, m, stackStart)
		m.Truncate(base)
		return v, err

	case *ir.IfExp:
		cond, err := Evaluate(n.Cond, m, stackStart)
		if err != nil {
			return values.V{}, err
		}
		if values.AsBool(cond.Value()) {
			return Evaluate(n.Then, m, stackStart)
		}
		if n.Else == nil {
			return values.OwnedV(values.Unit), nil
		}
		return Evaluate(n.Else, m, stackStart)

	case *ir.WhileExp:
		for {
			guard, err := Evaluate(n.Guard, m, stackStart)
			if err != nil {
				return values.V{}, err
			}
			if !values.AsBool(guard.Value()) {
				return values.OwnedV(values.Unit), nil
			}
			if _, err := Evaluate(n.Body, m, stackStart); err != nil {
				return values.V{}, err
			}
		}

	case *ir.ListExp:
		elems := make([]*values.Pointer, len(n.Elements))
		for i, el := range n.Elements {
			v, err := Evaluate(el, m, stackStart)
			if err != nil {
				return values.V{}, err
			}
			elems[i] = v.ToPointer()
		}
		return values.OwnedV(values.NewList(elems)), nil

	case *ir.SubscriptExp:
		elem, err := Evaluate(n.Element, m, stackStart)
		if err != nil {
			return values.V{}, err
		}
		idx, err := Evaluate(n.Index, m, stackStart)
		if err != nil {
			return values.V{}, err
		}
		list, i, err := values.Subscript(elem.Value(), idx.Value())
		if err != nil {
			return values.V{}, err
		}
		return values.BorrowedV(list.Elements[i]), nil

	case *ir.NamedFunctionExp:
		fnPtr := values.NewPointer(values.Unit)
		fn := &values.Function{
			NumArgs: n.Fn.NumArgs,
			HasSelf: true,
			Body:    n.Fn.Body,
		}
		fn.Captured = append([]*values.Pointer{fnPtr}, captureVars(n.Fn, m, stackStart)...)
		fnPtr.Set(fn)
		m.Push(fnPtr)
		return values.BorrowedV(fnPtr), nil

	case *ir.ClosureExp:
		fn := buildClosure(n.Fn, m, stackStart)
		return values.OwnedV(fn), nil

	case *ir.CallExp:
		return evalCall(n, m, stackStart)

	case *ir.ClassDefExp:
		return evalClassDef(n, m, stackStart)

	case *ir.PropertyAccessExp:
		return evalPropertyAccess(n, m, stackStart)
	}
	panic("machine: unhandled Exp node")
}

func fromConstant(c ir.Constant) values.Value {
	switch c.Kind {
	case ir.ConstInt:
		return values.Int(c.Int)
	case ir.ConstFloat:
		return values.Float(c.Float)
	case ir.ConstString:
		return values.String(c.Str)
	case ir.ConstBool:
		return values.Bool(c.Bool)
	default:
		return values.Unit
	}
}

// evalBinaryOp handles And/Or short-circuiting outside the typed operator
// table: a short-circuited operand is returned as-is (its own V, Owned or
// Borrowed), not rewrapped as a fresh Bool.
func evalBinaryOp(n *ir.BinaryOpExp, m *Module, stackStart int) (values.V, error) {
	a, err := Evaluate(n.A, m, stackStart)
	if err != nil {
		return values.V{}, err
	}
	switch n.Op {
	case ir.And:
		if !values.AsBool(a.Value()) {
			return a, nil
		}
		return Evaluate(n.B, m, stackStart)
	case ir.Or:
		if values.AsBool(a.Value()) {
			return a, nil
		}
		return Evaluate(n.B, m, stackStart)
	}
	b, err := Evaluate(n.B, m, stackStart)
	if err != nil {
		return values.V{}, err
	}
	v, err := values.Binary(n.Op, a.Value(), b.Value())
	if err != nil {
		return values.V{}, err
	}
	return values.OwnedV(v), nil
}

func evalAssign(n *ir.AssignExp, m *Module, stackStart int) (values.V, error) {
	rhs, err := Evaluate(n.Right, m, stackStart)
	if err != nil {
		return values.V{}, err
	}
	ptr := rhs.ToPointer()

	switch lhs := n.Left.(type) {
	case *ir.VariableExp:
		m.Variables[stackStart+lhs.Scope] = ptr
		return values.OwnedV(values.Unit), nil

	case *ir.SubscriptExp:
		elem, err := Evaluate(lhs.Element, m, stackStart)
		if err != nil {
			return values.V{}, err
		}
		idx, err := Evaluate(lhs.Index, m, stackStart)
		if err != nil {
			return values.V{}, err
		}
		list, i, err := values.Subscript(elem.Value(), idx.Value())
		if err != nil {
			return values.V{}, err
		}
		list.Elements[i] = ptr
		return values.OwnedV(values.Unit), nil

	case *ir.PropertyAccessExp:
		target, err := Evaluate(lhs.Exp, m, stackStart)
		if err != nil {
			return values.V{}, err
		}
		obj, ok := target.Value().(*values.Object)
		if !ok {
			return values.V{}, &values.NoSuchFieldError{Name: lhs.Name}
		}
		if !obj.SetField(lhs.Name, ptr) {
			return values.V{}, &values.NoSuchFieldError{Name: lhs.Name}
		}
		return values.OwnedV(values.Unit), nil
	}
	panic("machine: invalid assignment target, compiler invariant violated")
}

// captureVars reads the pointers named by fe.ExternalVars out of the
// currently executing frame (stackStart), in order, for a fresh
// Function/Closure's Captured tail.
func captureVars(fe ir.FunctionExp, m *Module, stackStart int) []*values.Pointer {
	if len(fe.ExternalVars) == 0 {
		return nil
	}
	captured := make([]*values.Pointer, len(fe.ExternalVars))
	for i, scope := range fe.ExternalVars {
		captured[i] = m.Variables[stackStart+scope]
	}
	return captured
}

// buildClosure materializes fe with no self-reference: used for Closure
// nodes and for class methods/constructors alike, so a method body captures
// an enclosing variable the same way an ordinary closure literal does.
func buildClosure(fe ir.FunctionExp, m *Module, stackStart int) *values.Function {
	return &values.Function{
		NumArgs:  fe.NumArgs,
		HasSelf:  false,
		Captured: captureVars(fe, m, stackStart),
		Body:     fe.Body,
	}
}
