package machine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epieffe/epilang/lang/ast"
	"github.com/epieffe/epilang/lang/compiler"
	"github.com/epieffe/epilang/lang/machine"
	"github.com/epieffe/epilang/lang/values"
)

// run compiles e against a fresh compiler/module pair and evaluates it,
// mimicking one REPL submission (no predeclared built-ins, for tests that
// don't need them).
func run(t *testing.T, e ast.Expr) (values.Value, error) {
	t.Helper()
	ctx := compiler.NewContext(nil)
	m := machine.NewModule(nil)
	exp, err := compiler.Compile(e, ctx)
	require.NoError(t, err)
	v, err := machine.Evaluate(exp, m, 0)
	if err != nil {
		return nil, err
	}
	return v.Value(), nil
}

func ident(name string) *ast.Ident { return &ast.Ident{Name: name} }
func block(exprs ...ast.Expr) *ast.Block { return &ast.Block{Exprs: exprs} }
func num(n int32) *ast.IntLit { return &ast.IntLit{Value: n} }

func TestEvaluateConstants(t *testing.T) {
	v, err := run(t, num(42))
	require.NoError(t, err)
	assert.Equal(t, values.Int(42), v)
}

func TestEvaluateLetAndAssign(t *testing.T) {
	ctx := compiler.NewContext(nil)
	m := machine.NewModule(nil)

	e1, err := compiler.Compile(&ast.Assign{Left: &ast.Definition{Name: "x"}, Right: num(5)}, ctx)
	require.NoError(t, err)
	_, err = machine.Evaluate(e1, m, 0)
	require.NoError(t, err)

	e2, err := compiler.Compile(ident("x"), ctx)
	require.NoError(t, err)
	v, err := machine.Evaluate(e2, m, 0)
	require.NoError(t, err)
	assert.Equal(t, values.Int(5), v.Value())

	// REPL persistence: x is still visible in a later submission sharing ctx/m
	e3, err := compiler.Compile(&ast.Assign{Left: ident("x"), Right: num(9)}, ctx)
	require.NoError(t, err)
	_, err = machine.Evaluate(e3, m, 0)
	require.NoError(t, err)
	v2, err := machine.Evaluate(e2, m, 0)
	require.NoError(t, err)
	assert.Equal(t, values.Int(9), v2.Value())
}

func TestEvaluateBlockTruncatesOnError(t *testing.T) {
	ctx := compiler.NewContext(nil)
	m := machine.NewModule(nil)
	base := m.Len()

	// { let y = 1; y[0] } -- subscripting an Int is an error, but the block's
	// locally declared y must still be popped off the stack afterward.
	b := block(
		&ast.Assign{Left: &ast.Definition{Name: "y"}, Right: num(1)},
		&ast.Subscript{Element: ident("y"), Index: num(0)},
	)
	exp, err := compiler.Compile(b, ctx)
	require.NoError(t, err)
	_, err = machine.Evaluate(exp, m, 0)
	require.Error(t, err)
	assert.Equal(t, base, m.Len())
}

func TestEvaluateIfWhile(t *testing.T) {
	v, err := run(t, &ast.If{
		Cond: &ast.BoolLit{Value: true},
		Then: block(num(1)),
		Else: block(num(2)),
	})
	require.NoError(t, err)
	assert.Equal(t, values.Int(1), v)

	v, err = run(t, &ast.If{
		Cond: &ast.BoolLit{Value: false},
		Then: block(num(1)),
		Else: block(num(2)),
	})
	require.NoError(t, err)
	assert.Equal(t, values.Int(2), v)
}

func TestEvaluateWhileLoop(t *testing.T) {
	ctx := compiler.NewContext(nil)
	m := machine.NewModule(nil)

	prog := block(
		&ast.Assign{Left: &ast.Definition{Name: "i"}, Right: num(0)},
		&ast.Assign{Left: &ast.Definition{Name: "sum"}, Right: num(0)},
		&ast.While{
			Guard: &ast.BinaryOp{Op: "<", Left: ident("i"), Right: num(5)},
			Body: block(
				&ast.Assign{Left: ident("sum"), Right: &ast.BinaryOp{Op: "+", Left: ident("sum"), Right: ident("i")}},
				&ast.Assign{Left: ident("i"), Right: &ast.BinaryOp{Op: "+", Left: ident("i"), Right: num(1)}},
			),
		},
		ident("sum"),
	)
	exp, err := compiler.Compile(prog, ctx)
	require.NoError(t, err)
	v, err := machine.Evaluate(exp, m, 0)
	require.NoError(t, err)
	assert.Equal(t, values.Int(10), v.Value())
}

func TestEvaluateListAndSubscript(t *testing.T) {
	v, err := run(t, &ast.Subscript{
		Element: &ast.ListLit{Elements: []ast.Expr{num(10), num(20), num(30)}},
		Index:   num(1),
	})
	require.NoError(t, err)
	assert.Equal(t, values.Int(20), v)
}

func TestEvaluateNamedRecursiveFunction(t *testing.T) {
	ctx := compiler.NewContext(nil)
	m := machine.NewModule(nil)

	// let fact = fn(n) { if n <= 1 { 1 } else { n * fact(n - 1) } }; fact(5)
	fn := &ast.FuncLit{
		Params: []string{"n"},
		Body: block(&ast.If{
			Cond: &ast.BinaryOp{Op: "<=", Left: ident("n"), Right: num(1)},
			Then: block(num(1)),
			Else: block(&ast.BinaryOp{
				Op:   "*",
				Left: ident("n"),
				Right: &ast.Call{
					Fun:  ident("fact"),
					Args: []ast.Expr{&ast.BinaryOp{Op: "-", Left: ident("n"), Right: num(1)}},
				},
			}),
		}),
	}
	prog := block(
		&ast.Assign{Left: &ast.Definition{Name: "fact"}, Right: fn},
		&ast.Call{Fun: ident("fact"), Args: []ast.Expr{num(5)}},
	)
	exp, err := compiler.Compile(prog, ctx)
	require.NoError(t, err)
	v, err := machine.Evaluate(exp, m, 0)
	require.NoError(t, err)
	assert.Equal(t, values.Int(120), v.Value())
}

func TestEvaluateClosureCapture(t *testing.T) {
	ctx := compiler.NewContext(nil)
	m := machine.NewModule(nil)

	// let make = fn(x) { fn(y) { x + y } }; let add5 = make(5); add5(3)
	adder := &ast.FuncLit{Params: []string{"y"}, Body: block(
		&ast.BinaryOp{Op: "+", Left: ident("x"), Right: ident("y")},
	)}
	maker := &ast.FuncLit{Params: []string{"x"}, Body: block(adder)}
	prog := block(
		&ast.Assign{Left: &ast.Definition{Name: "make"}, Right: maker},
		&ast.Assign{Left: &ast.Definition{Name: "add5"}, Right: &ast.Call{Fun: ident("make"), Args: []ast.Expr{num(5)}}},
		&ast.Call{Fun: ident("add5"), Args: []ast.Expr{num(3)}},
	)
	exp, err := compiler.Compile(prog, ctx)
	require.NoError(t, err)
	v, err := machine.Evaluate(exp, m, 0)
	require.NoError(t, err)
	assert.Equal(t, values.Int(8), v.Value())
}

func TestEvaluateClassInstantiationAndMethodCall(t *testing.T) {
	ctx := compiler.NewContext(nil)
	m := machine.NewModule(nil)

	initMethod := &ast.Method{
		Name:   "init",
		Params: []string{"n"},
		Body: block(&ast.Assign{
			Left:  &ast.PropertyAccess{Expr: ident("self"), Name: "count"},
			Right: ident("n"),
		}),
	}
	bump := &ast.Method{Name: "bump", Body: block(
		&ast.Assign{
			Left: &ast.PropertyAccess{Expr: ident("self"), Name: "count"},
			Right: &ast.BinaryOp{
				Op:   "+",
				Left: &ast.PropertyAccess{Expr: ident("self"), Name: "count"},
				Right: num(1),
			},
		},
		&ast.PropertyAccess{Expr: ident("self"), Name: "count"},
	)}
	classDef := &ast.ClassDef{Name: "Counter", Methods: []*ast.Method{initMethod, bump}}

	prog := block(
		classDef,
		&ast.Assign{Left: &ast.Definition{Name: "c"}, Right: &ast.Call{Fun: ident("Counter"), Args: []ast.Expr{num(10)}}},
		&ast.Call{Fun: &ast.PropertyAccess{Expr: ident("c"), Name: "bump"}},
	)
	exp, err := compiler.Compile(prog, ctx)
	require.NoError(t, err)
	v, err := machine.Evaluate(exp, m, 0)
	require.NoError(t, err)
	assert.Equal(t, values.Int(11), v.Value())
}

func TestEvaluateBuiltinCall(t *testing.T) {
	ctx := compiler.NewContext([]string{"double"})
	called := make([]*values.Pointer, 0)
	double := values.NewPointer(&values.BuiltInFunction{
		Name:    "double",
		NumArgs: 1,
		Call: func(args []*values.Pointer) (values.Value, error) {
			called = append(called, args...)
			i := args[0].Get().(values.Int)
			return i * 2, nil
		},
	})
	m := machine.NewModule([]*values.Pointer{double})

	exp, err := compiler.Compile(&ast.Call{Fun: ident("double"), Args: []ast.Expr{num(21)}}, ctx)
	require.NoError(t, err)
	v, err := machine.Evaluate(exp, m, 0)
	require.NoError(t, err)
	assert.Equal(t, values.Int(42), v.Value())
	assert.Len(t, called, 1)
}

func TestEvaluateValueNotCallable(t *testing.T) {
	_, err := run(t, &ast.Call{Fun: num(1), Args: nil})
	require.Error(t, err)
	var notCallable *values.ValueNotCallableError
	assert.ErrorAs(t, err, &notCallable)
}

func TestEvaluateWrongArgumentsNumber(t *testing.T) {
	ctx := compiler.NewContext(nil)
	m := machine.NewModule(nil)
	fn := &ast.FuncLit{Params: []string{"a", "b"}, Body: block(ident("a"))}
	prog := block(
		&ast.Assign{Left: &ast.Definition{Name: "f"}, Right: fn},
		&ast.Call{Fun: ident("f"), Args: []ast.Expr{num(1)}},
	)
	exp, err := compiler.Compile(prog, ctx)
	require.NoError(t, err)
	_, err = machine.Evaluate(exp, m, 0)
	require.Error(t, err)
	var wrongArgs *values.WrongArgumentsNumberError
	assert.ErrorAs(t, err, &wrongArgs)
}
