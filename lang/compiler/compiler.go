// Package compiler translates a parsed AST (lang/ast) into the scope-indexed
// intermediate form Exp (lang/ir) in a single pass: name resolution and
// translation happen together rather than as a separate resolver stage.
package compiler

import (
	"github.com/epieffe/epilang/lang/ast"
	"github.com/epieffe/epilang/lang/ir"
)

const selfParam = "self"

// Compile translates a single expression into an Exp, using and mutating
// ctx. A `let` compiled directly by Compile stays bound in ctx's current
// frame for later calls sharing ctx; a Block expression pushes and pops its
// own frame. Whole files and REPL submissions go through CompileProgram.
func Compile(e ast.Expr, ctx *Context) (ir.Exp, error) {
	return compileExpr(e, ctx)
}

// CompileProgram compiles a whole parsed chunk (a file or one REPL
// submission) directly into ctx's current (root) frame: unlike Block, a
// Program never pushes its own frame, so any `let` it declares remains
// resolvable — and remains on the Module's variable stack — in whatever
// frame ctx was already in. REPL input that declares top-level variables
// therefore leaves them on the stack permanently.
func CompileProgram(p *ast.Program, ctx *Context) (ir.Exp, error) {
	if len(p.Exprs) == 0 {
		return &ir.ConstantExp{Value: ir.Constant{Kind: ir.ConstUnit}}, nil
	}
	var body ir.Exp
	for _, e := range p.Exprs {
		ce, err := compileExpr(e, ctx)
		if err != nil {
			return nil, err
		}
		if body == nil {
			body = ce
		} else {
			body = &ir.ConcatExp{First: body, Second: ce}
		}
	}
	return body, nil
}

func compileExpr(e ast.Expr, ctx *Context) (ir.Exp, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return &ir.ConstantExp{Value: ir.Constant{Kind: ir.ConstInt, Int: n.Value}}, nil
	case *ast.FloatLit:
		return &ir.ConstantExp{Value: ir.Constant{Kind: ir.ConstFloat, Float: n.Value}}, nil
	case *ast.StringLit:
		return &ir.ConstantExp{Value: ir.Constant{Kind: ir.ConstString, Str: n.Value}}, nil
	case *ast.BoolLit:
		return &ir.ConstantExp{Value: ir.Constant{Kind: ir.ConstBool, Bool: n.Value}}, nil
	case *ast.UnitLit:
		return &ir.ConstantExp{Value: ir.Constant{Kind: ir.ConstUnit}}, nil

	case *ast.Ident:
		if scope, ok := ctx.Resolve(n.Name); ok {
			return &ir.VariableExp{Scope: scope}, nil
		}
		if id, ok := ctx.ClassID(n.Name); ok {
			return &ir.ClassRefExp{ID: id}, nil
		}
		return nil, &UnknownIdentifierError{Name: n.Name}

	case *ast.Definition:
		scope := ctx.DefineVariable(n.Name)
		return &ir.LetExp{Scope: scope}, nil

	case *ast.Assign:
		return compileAssign(n, ctx)

	case *ast.Concat:
		first, err := compileExpr(n.First, ctx)
		if err != nil {
			return nil, err
		}
		second, err := compileExpr(n.Second, ctx)
		if err != nil {
			return nil, err
		}
		return &ir.ConcatExp{First: first, Second: second}, nil

	case *ast.BinaryOp:
		return compileBinaryOp(n, ctx)

	case *ast.UnaryOp:
		a, err := compileExpr(n.Operand, ctx)
		if err != nil {
			return nil, err
		}
		return &ir.UnaryOpExp{Op: ir.Not, A: a}, nil

	case *ast.Block:
		return compileBlock(n, ctx)

	case *ast.If:
		cond, err := compileExpr(n.Cond, ctx)
		if err != nil {
			return nil, err
		}
		then, err := compileBlock(n.Then, ctx)
		if err != nil {
			return nil, err
		}
		var elseExp ir.Exp
		if n.Else != nil {
			elseExp, err = compileExpr(n.Else, ctx)
			if err != nil {
				return nil, err
			}
		}
		return &ir.IfExp{Cond: cond, Then: then, Else: elseExp}, nil

	case *ast.While:
		guard, err := compileExpr(n.Guard, ctx)
		if err != nil {
			return nil, err
		}
		body, err := compileBlock(n.Body, ctx)
		if err != nil {
			return nil, err
		}
		return &ir.WhileExp{Guard: guard, Body: body}, nil

	case *ast.ListLit:
		elems := make([]ir.Exp, len(n.Elements))
		for i, el := range n.Elements {
			ce, err := compileExpr(el, ctx)
			if err != nil {
				return nil, err
			}
			elems[i] = ce
		}
		return &ir.ListExp{Elements: elems}, nil

	case *ast.Subscript:
		elem, err := compileExpr(n.Element, ctx)
		if err != nil {
			return nil, err
		}
		idx, err := compileExpr(n.Index, ctx)
		if err != nil {
			return nil, err
		}
		return &ir.SubscriptExp{Element: elem, Index: idx}, nil

	case *ast.FuncLit:
		return compileFuncLit(n, ctx, false)

	case *ast.Call:
		fun, err := compileExpr(n.Fun, ctx)
		if err != nil {
			return nil, err
		}
		args := make([]ir.Exp, len(n.Args))
		for i, a := range n.Args {
			ce, err := compileExpr(a, ctx)
			if err != nil {
				return nil, err
			}
			args[i] = ce
		}
		return &ir.CallExp{Fun: fun, Args: args}, nil

	case *ast.PropertyAccess:
		inner, err := compileExpr(n.Expr, ctx)
		if err != nil {
			return nil, err
		}
		return &ir.PropertyAccessExp{Exp: inner, Name: n.Name}, nil

	case *ast.ClassDef:
		return compileClassDef(n, ctx)
	}
	panic("compiler: unhandled AST node")
}

// compileAssign implements the assignment-compilation rule: compile both
// sides; a Definition lhs desugars to declare-then-assign; Variable/
// Subscript/PropertyAccess lhs compile to a plain Assign; anything else is
// rejected.
func compileAssign(n *ast.Assign, ctx *Context) (ir.Exp, error) {
	// A bare function literal assigned to a simple identifier gets the
	// named/self-capturing compilation path; this must be special-cased
	// here, before the generic lhs/rhs compile, because the function's own
	// name needs to be visible inside its own body.
	if fn, ok := n.Right.(*ast.FuncLit); ok {
		var name string
		switch lhs := n.Left.(type) {
		case *ast.Definition:
			name = lhs.Name
		case *ast.Ident:
			name = lhs.Name
		}
		if name != "" {
			namedFn := *fn
			namedFn.Name = name
			fnExp, err := compileFuncLit(&namedFn, ctx, true)
			if err != nil {
				return nil, err
			}
			if def, ok := n.Left.(*ast.Definition); ok {
				scope := ctx.DefineVariable(def.Name)
				return &ir.ConcatExp{First: &ir.LetExp{Scope: scope}, Second: fnExp}, nil
			}
			// plain re-assignment `f = fn(...) {...}` to an existing binding:
			// the function still self-binds by name inside its own body, but
			// the outer slot is an ordinary existing Variable, not a new Let.
			scope, ok := ctx.Resolve(name)
			if !ok {
				return nil, &UnknownIdentifierError{Name: name}
			}
			return &ir.AssignExp{Left: &ir.VariableExp{Scope: scope}, Right: fnExp}, nil
		}
	}

	left, err := compileExpr(n.Left, ctx)
	if err != nil {
		return nil, err
	}
	right, err := compileExpr(n.Right, ctx)
	if err != nil {
		return nil, err
	}
	if let, ok := left.(*ir.LetExp); ok {
		return &ir.ConcatExp{
			First:  let,
			Second: &ir.AssignExp{Left: &ir.VariableExp{Scope: let.Scope}, Right: right},
		}, nil
	}
	switch left.(type) {
	case *ir.VariableExp, *ir.SubscriptExp, *ir.PropertyAccessExp:
		return &ir.AssignExp{Left: left, Right: right}, nil
	}
	return nil, &InvalidLeftSideAssignmentError{}
}

func compileBinaryOp(n *ast.BinaryOp, ctx *Context) (ir.Exp, error) {
	a, err := compileExpr(n.Left, ctx)
	if err != nil {
		return nil, err
	}
	b, err := compileExpr(n.Right, ctx)
	if err != nil {
		return nil, err
	}
	op, ok := binaryOps[n.Op]
	if !ok {
		panic("compiler: unknown binary operator " + n.Op)
	}
	return &ir.BinaryOpExp{Op: op, A: a, B: b}, nil
}

var binaryOps = map[string]ir.BinaryOp{
	"+":  ir.Add,
	"-":  ir.Sub,
	"*":  ir.Mul,
	"/":  ir.Div,
	"==": ir.Eq,
	"!=": ir.Neq,
	"<":  ir.Lt,
	"<=": ir.Le,
	">":  ir.Gt,
	">=": ir.Ge,
	"&&": ir.And,
	"||": ir.Or,
}

// compileBlock pushes a non-isolated frame (block scoping, not a function
// boundary), compiles each statement of the block in sequence (folded into
// nested ConcatExp), and pops the frame. An empty block compiles to a Unit
// constant.
func compileBlock(b *ast.Block, ctx *Context) (ir.Exp, error) {
	ctx.PushFrame(false)
	defer ctx.PopFrame()

	if len(b.Exprs) == 0 {
		return &ir.BlockExp{Body: &ir.ConstantExp{Value: ir.Constant{Kind: ir.ConstUnit}}}, nil
	}

	var body ir.Exp
	for _, e := range b.Exprs {
		ce, err := compileExpr(e, ctx)
		if err != nil {
			return nil, err
		}
		if body == nil {
			body = ce
		} else {
			body = &ir.ConcatExp{First: body, Second: ce}
		}
	}
	return &ir.BlockExp{Body: body}, nil
}

// compileFuncLit compiles a function literal's parameter list and body
// inside a fresh isolated frame. When named is true, the function's own
// name (fn.Name) is bound first, at slot 0, ahead of its parameters, so the
// body can reference itself for recursion: a named function references
// itself via slot 0.
func compileFuncLit(fn *ast.FuncLit, ctx *Context, named bool) (ir.Exp, error) {
	ctx.PushFrame(true)
	if named {
		ctx.DefineVariable(fn.Name)
	}
	for _, p := range fn.Params {
		ctx.DefineVariable(p)
	}
	body, err := compileFuncBody(fn.Body, ctx)
	if err != nil {
		ctx.PopFrame()
		return nil, err
	}
	ext := ctx.ExternalVars()
	ctx.PopFrame()

	fe := ir.FunctionExp{NumArgs: len(fn.Params), ExternalVars: ext, Body: body}
	if named {
		return &ir.NamedFunctionExp{Fn: fe}, nil
	}
	return &ir.ClosureExp{Fn: fe}, nil
}

// compileFuncBody compiles a function/method body block without the extra
// block-scope frame compileBlock would push: the isolated frame pushed by
// the caller already serves as the body's own scope, and stack truncation
// at the end of a call is handled by the evaluator popping back to the call
// base, not by a nested BlockExp.
func compileFuncBody(b *ast.Block, ctx *Context) (ir.Exp, error) {
	if len(b.Exprs) == 0 {
		return &ir.ConstantExp{Value: ir.Constant{Kind: ir.ConstUnit}}, nil
	}
	var body ir.Exp
	for _, e := range b.Exprs {
		ce, err := compileExpr(e, ctx)
		if err != nil {
			return nil, err
		}
		if body == nil {
			body = ce
		} else {
			body = &ir.ConcatExp{First: body, Second: ce}
		}
	}
	return body, nil
}

// compileClassDef implements the class-compilation rule: every
// method (including the constructor) is compiled with an implicit leading
// self parameter, using the ordinary isolated-frame function protocol; the
// class gets a fresh module-unique id and is registered in the current
// frame's class map.
func compileClassDef(n *ast.ClassDef, ctx *Context) (ir.Exp, error) {
	id, err := ctx.DefineClass(n.Name)
	if err != nil {
		return nil, err
	}

	methods := make(map[string]ir.FunctionExp)
	var ctor *ir.FunctionExp
	for _, m := range n.Methods {
		fe, err := compileMethod(m, ctx)
		if err != nil {
			return nil, err
		}
		if m.Name == "init" {
			c := fe
			ctor = &c
			continue
		}
		methods[m.Name] = fe
	}
	if ctor == nil {
		def := defaultConstructor()
		ctor = &def
	}

	return &ir.ClassDefExp{
		ID:      id,
		Name:    n.Name,
		Fields:  inferFields(n),
		Ctor:    *ctor,
		Methods: methods,
	}, nil
}

func compileMethod(m *ast.Method, ctx *Context) (ir.FunctionExp, error) {
	ctx.PushFrame(true)
	ctx.DefineVariable(selfParam)
	for _, p := range m.Params {
		ctx.DefineVariable(p)
	}
	body, err := compileFuncBody(m.Body, ctx)
	if err != nil {
		ctx.PopFrame()
		return ir.FunctionExp{}, err
	}
	ext := ctx.ExternalVars()
	ctx.PopFrame()
	// NumArgs counts the implicit self.
	return ir.FunctionExp{NumArgs: len(m.Params) + 1, ExternalVars: ext, Body: body}, nil
}

func defaultConstructor() ir.FunctionExp {
	return ir.FunctionExp{
		NumArgs: 1,
		Body:    &ir.ConstantExp{Value: ir.Constant{Kind: ir.ConstUnit}},
	}
}

// inferFields statically scans a class's constructor body for top-level-
// reachable `self.NAME = ...` assignments, in first-appearance order, and
// takes those names as the class's field list: the grammar has no explicit
// field-declaration syntax.
func inferFields(n *ast.ClassDef) []string {
	var ctor *ast.Method
	for _, m := range n.Methods {
		if m.Name == "init" {
			ctor = m
			break
		}
	}
	if ctor == nil {
		return nil
	}
	var fields []string
	seen := make(map[string]bool)
	var walk func(ast.Expr)
	walk = func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.Assign:
			if pa, ok := n.Left.(*ast.PropertyAccess); ok {
				if id, ok := pa.Expr.(*ast.Ident); ok && id.Name == selfParam {
					if !seen[pa.Name] {
						seen[pa.Name] = true
						fields = append(fields, pa.Name)
					}
				}
			}
			walk(n.Right)
		case *ast.Concat:
			walk(n.First)
			walk(n.Second)
		case *ast.Block:
			for _, s := range n.Exprs {
				walk(s)
			}
		case *ast.If:
			walk(n.Cond)
			walk(n.Then)
			if n.Else != nil {
				walk(n.Else)
			}
		case *ast.While:
			walk(n.Guard)
			walk(n.Body)
		}
	}
	for _, s := range ctor.Body.Exprs {
		walk(s)
	}
	return fields
}
