package machine

import (
	"github.com/epieffe/epilang/lang/ir"
	"github.com/epieffe/epilang/lang/values"
)

func evalCall(n *ir.CallExp, m *Module, stackStart int) (values.V, error) {
	funV, err := Evaluate(n.Fun, m, stackStart)
	if err != nil {
		return values.V{}, err
	}
	args, err := evalArgs(n.Args, m, stackStart)
	if err != nil {
		return values.V{}, err
	}

	switch fn := funV.Value().(type) {
	case *values.Function:
		if len(args) != fn.NumArgs {
			return values.V{}, &values.WrongArgumentsNumberError{Expected: fn.NumArgs, Got: len(args)}
		}
		return callFunction(fn, args, m)

	case *values.Method:
		underlying, ok := fn.Function.Get().(*values.Function)
		if !ok {
			panic("machine: method function pointer holds a non-function, compiler invariant violated")
		}
		full := append([]*values.Pointer{fn.Self}, args...)
		if len(full) != underlying.NumArgs {
			return values.V{}, &values.WrongArgumentsNumberError{Expected: underlying.NumArgs, Got: len(full)}
		}
		return callFunction(underlying, full, m)

	case *values.Class:
		return constructObject(fn, args, m)

	case *values.BuiltInFunction:
		if len(args) != fn.NumArgs {
			return values.V{}, &values.WrongArgumentsNumberError{Expected: fn.NumArgs, Got: len(args)}
		}
		v, err := fn.Call(args)
		if err != nil {
			return values.V{}, err
		}
		return values.OwnedV(v), nil

	default:
		return values.V{}, &values.ValueNotCallableError{T: funV.Value().Type()}
	}
}

func evalArgs(exprs []ir.Exp, m *Module, stackStart int) ([]*values.Pointer, error) {
	args := make([]*values.Pointer, len(exprs))
	for i, a := range exprs {
		v, err := Evaluate(a, m, stackStart)
		if err != nil {
			return nil, err
		}
		args[i] = v.ToPointer()
	}
	return args, nil
}

// callFunction implements the Function arm of FunctionCall: base is the new
// call frame's stack_start; captured pointers (including a leading
// self-reference for named/recursive functions) and argument pointers are
// pushed filling exactly the slot layout the compiler assigned — self, then
// parameters, then captured externals.
func callFunction(fn *values.Function, args []*values.Pointer, m *Module) (values.V, error) {
	base := m.Len()

	var selfCapture []*values.Pointer
	extCaptures := fn.Captured
	if fn.HasSelf {
		selfCapture = fn.Captured[:1]
		extCaptures = fn.Captured[1:]
	}
	for _, p := range selfCapture {
		m.Push(p)
	}
	for _, p := range args {
		m.Push(p)
	}
	for _, p := range extCaptures {
		m.Push(p)
	}

	result, err := Evaluate(fn.Body, m, base)
	m.Truncate(base)
	return result, err
}

// constructObject implements the Class arm of FunctionCall: allocate an
// Object with fields defaulted to Unit, invoke the constructor as a method
// bound to the new object, discard its return value, and yield the object.
func constructObject(c *values.Class, args []*values.Pointer, m *Module) (values.V, error) {
	obj := values.NewObject(c.Def)
	selfPtr := values.NewPointer(obj)
	full := append([]*values.Pointer{selfPtr}, args...)
	if len(full) != c.Def.Ctor.NumArgs {
		return values.V{}, &values.WrongArgumentsNumberError{Expected: c.Def.Ctor.NumArgs - 1, Got: len(args)}
	}
	if _, err := callFunction(c.Def.Ctor, full, m); err != nil {
		return values.V{}, err
	}
	return values.OwnedV(obj), nil
}

// evalClassDef materializes a ClassDefExp into a values.ClassDef and
// installs it under its compile-time id. Constructor and methods are
// compiled as closures over the defining scope (see buildClosure), so a
// method referencing an enclosing variable captures it the same way an
// ordinary closure literal would.
func evalClassDef(n *ir.ClassDefExp, m *Module, stackStart int) (values.V, error) {
	ctor := buildClosure(n.Ctor, m, stackStart)
	ctor.HasSelf = false

	methods := make(map[string]*values.Pointer, len(n.Methods))
	for name, fe := range n.Methods {
		fn := buildClosure(fe, m, stackStart)
		methods[name] = values.NewPointer(fn)
	}

	def := &values.ClassDef{
		ID:      n.ID,
		Name:    n.Name,
		Fields:  n.Fields,
		Ctor:    ctor,
		Methods: methods,
	}
	m.InstallClass(n.ID, def)
	return values.OwnedV(values.Unit), nil
}

func evalPropertyAccess(n *ir.PropertyAccessExp, m *Module, stackStart int) (values.V, error) {
	target, err := Evaluate(n.Exp, m, stackStart)
	if err != nil {
		return values.V{}, err
	}
	obj, ok := target.Value().(*values.Object)
	if !ok {
		return values.V{}, &values.NoSuchFieldOrMethodError{Name: n.Name}
	}
	if field, ok := obj.Field(n.Name); ok {
		return values.BorrowedV(field), nil
	}
	if method, ok := obj.Method(n.Name); ok {
		return values.OwnedV(method), nil
	}
	return values.V{}, &values.NoSuchFieldOrMethodError{Name: n.Name}
}
