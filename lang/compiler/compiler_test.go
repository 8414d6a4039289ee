package compiler

import (
	"testing"

	"github.com/epieffe/epilang/lang/ast"
	"github.com/epieffe/epilang/lang/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ident(name string) *ast.Ident { return &ast.Ident{Name: name} }

func block(exprs ...ast.Expr) *ast.Block { return &ast.Block{Exprs: exprs} }

func TestCompileBinaryOp(t *testing.T) {
	ctx := NewContext(nil)
	e, err := Compile(&ast.BinaryOp{Op: "+", Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 2}}, ctx)
	require.NoError(t, err)
	bin, ok := e.(*ir.BinaryOpExp)
	require.True(t, ok)
	assert.Equal(t, ir.Add, bin.Op)
}

func TestCompileLetAssignDesugars(t *testing.T) {
	ctx := NewContext(nil)
	e, err := Compile(&ast.Assign{Left: &ast.Definition{Name: "x"}, Right: &ast.IntLit{Value: 5}}, ctx)
	require.NoError(t, err)
	concat, ok := e.(*ir.ConcatExp)
	require.True(t, ok)
	let, ok := concat.First.(*ir.LetExp)
	require.True(t, ok)
	assign, ok := concat.Second.(*ir.AssignExp)
	require.True(t, ok)
	v, ok := assign.Left.(*ir.VariableExp)
	require.True(t, ok)
	assert.Equal(t, let.Scope, v.Scope)

	// subsequent reference to x resolves to the same scope
	ref, err := Compile(ident("x"), ctx)
	require.NoError(t, err)
	varExp, ok := ref.(*ir.VariableExp)
	require.True(t, ok)
	assert.Equal(t, let.Scope, varExp.Scope)
}

func TestCompileUnknownIdentifier(t *testing.T) {
	ctx := NewContext(nil)
	_, err := Compile(ident("nope"), ctx)
	require.Error(t, err)
	var unkErr *UnknownIdentifierError
	assert.ErrorAs(t, err, &unkErr)
}

func TestCompileInvalidLeftSide(t *testing.T) {
	ctx := NewContext(nil)
	_, err := Compile(&ast.Assign{Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 2}}, ctx)
	require.Error(t, err)
	var invErr *InvalidLeftSideAssignmentError
	assert.ErrorAs(t, err, &invErr)
}

func TestCompileEmptyBlockYieldsUnit(t *testing.T) {
	ctx := NewContext(nil)
	e, err := Compile(block(), ctx)
	require.NoError(t, err)
	b, ok := e.(*ir.BlockExp)
	require.True(t, ok)
	c, ok := b.Body.(*ir.ConstantExp)
	require.True(t, ok)
	assert.Equal(t, ir.ConstUnit, c.Value.Kind)
}

func TestCompileNamedFunctionSelfRecursion(t *testing.T) {
	ctx := NewContext(nil)
	// let fact = fn(n) { fact(n) }
	fn := &ast.FuncLit{Params: []string{"n"}, Body: block(
		&ast.Call{Fun: ident("fact"), Args: []ast.Expr{ident("n")}},
	)}
	e, err := Compile(&ast.Assign{Left: &ast.Definition{Name: "fact"}, Right: fn}, ctx)
	require.NoError(t, err)
	concat, ok := e.(*ir.ConcatExp)
	require.True(t, ok)
	_, ok = concat.First.(*ir.LetExp)
	require.True(t, ok)
	named, ok := concat.Second.(*ir.NamedFunctionExp)
	require.True(t, ok)
	assert.Equal(t, 1, named.Fn.NumArgs)
	// self is bound at slot 0 inside the function's own isolated frame, so the
	// recursive call's Fun resolves to scope 0 with no external captures.
	call, ok := named.Fn.Body.(*ir.CallExp)
	require.True(t, ok)
	selfRef, ok := call.Fun.(*ir.VariableExp)
	require.True(t, ok)
	assert.Equal(t, 0, selfRef.Scope)
	assert.Empty(t, named.Fn.ExternalVars)
}

func TestCompileNestedClosureCapture(t *testing.T) {
	ctx := NewContext(nil)
	// let make = fn(x) { fn(y) { fn(z) { x } } }
	inner := &ast.FuncLit{Params: []string{"z"}, Body: block(ident("x"))}
	middle := &ast.FuncLit{Params: []string{"y"}, Body: block(inner)}
	outer := &ast.FuncLit{Params: []string{"x"}, Body: block(middle)}

	e, err := Compile(&ast.Assign{Left: &ast.Definition{Name: "make"}, Right: outer}, ctx)
	require.NoError(t, err)
	concat := e.(*ir.ConcatExp)
	named := concat.Second.(*ir.NamedFunctionExp)
	// outer's single-expression body compiles directly to the middle closure
	middleClosure := named.Fn.Body.(*ir.ClosureExp)
	// middle captures x from outer (one boundary crossed)
	require.Len(t, middleClosure.Fn.ExternalVars, 1)
	innerClosure := middleClosure.Fn.Body.(*ir.ClosureExp)
	// inner also ends up capturing (threaded through middle)
	require.Len(t, innerClosure.Fn.ExternalVars, 1)
}

func TestCompileClassWithFieldInference(t *testing.T) {
	ctx := NewContext(nil)
	initMethod := &ast.Method{
		Name:   "init",
		Params: []string{"n"},
		Body: block(
			&ast.Assign{
				Left:  &ast.PropertyAccess{Expr: ident("self"), Name: "name"},
				Right: ident("n"),
			},
			&ast.Assign{
				Left:  &ast.PropertyAccess{Expr: ident("self"), Name: "count"},
				Right: &ast.IntLit{Value: 0},
			},
		),
	}
	greet := &ast.Method{Name: "greet", Body: block(
		&ast.PropertyAccess{Expr: ident("self"), Name: "name"},
	)}
	def := &ast.ClassDef{Name: "Person", Methods: []*ast.Method{initMethod, greet}}

	e, err := Compile(def, ctx)
	require.NoError(t, err)
	cd, ok := e.(*ir.ClassDefExp)
	require.True(t, ok)
	assert.Equal(t, "Person", cd.Name)
	assert.Equal(t, []string{"name", "count"}, cd.Fields)
	assert.Equal(t, 2, cd.Ctor.NumArgs) // self + n
	m, ok := cd.Methods["greet"]
	require.True(t, ok)
	assert.Equal(t, 1, m.NumArgs) // self only

	// a second class with the same name in the same scope is rejected
	_, err = Compile(&ast.ClassDef{Name: "Person"}, ctx)
	require.Error(t, err)
	var dupErr *ClassNameAlreadyDeclaredError
	assert.ErrorAs(t, err, &dupErr)
}

func TestCompileClassDefaultConstructor(t *testing.T) {
	ctx := NewContext(nil)
	def := &ast.ClassDef{Name: "Empty", Methods: nil}
	e, err := Compile(def, ctx)
	require.NoError(t, err)
	cd := e.(*ir.ClassDefExp)
	assert.Equal(t, 1, cd.Ctor.NumArgs)
	assert.Empty(t, cd.Fields)
}

func TestNewContextPredeclared(t *testing.T) {
	ctx := NewContext([]string{"print", "println"})
	e, err := Compile(ident("print"), ctx)
	require.NoError(t, err)
	v, ok := e.(*ir.VariableExp)
	require.True(t, ok)
	assert.Equal(t, 0, v.Scope)

	e2, err := Compile(ident("println"), ctx)
	require.NoError(t, err)
	v2 := e2.(*ir.VariableExp)
	assert.Equal(t, 1, v2.Scope)
}
