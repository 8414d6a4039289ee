// Package ast defines the parsed abstract syntax tree of an epilang program.
// Unlike the intermediate Exp form in lang/ir, AST nodes carry textual
// identifiers and source positions rather than resolved scope indices; the
// compiler (lang/compiler) is what turns one into the other.
package ast

import "github.com/epieffe/epilang/lang/token"

// Node is any node of the AST. There is no visitor interface: callers that
// need to traverse the tree do so with an ordinary type switch, as is done
// throughout lang/compiler.
type Node interface {
	Pos() token.Pos
}

// Expr is an expression node: something that produces a value.
type Expr interface {
	Node
	expr()
}

type (
	// IntLit is an integer literal, e.g. 123.
	IntLit struct {
		Position token.Pos
		Value    int32
	}

	// FloatLit is a floating point literal, e.g. 1.5.
	FloatLit struct {
		Position token.Pos
		Value    float32
	}

	// StringLit is a string literal with escapes already resolved by the
	// scanner.
	StringLit struct {
		Position token.Pos
		Value    string
	}

	// BoolLit is the true/false literal.
	BoolLit struct {
		Position token.Pos
		Value    bool
	}

	// UnitLit is the unit literal.
	UnitLit struct {
		Position token.Pos
	}

	// Ident is a bare identifier reference, e.g. x.
	Ident struct {
		Position token.Pos
		Name     string
	}

	// Definition is a `let name` binding occurrence, distinct from Ident so
	// the compiler can tell a use from a declaration.
	Definition struct {
		Position token.Pos
		Name     string
	}

	// Assign is `left = right`. Left must compile to one of Definition,
	// Ident, Subscript or PropertyAccess; anything else is rejected by the
	// compiler, not the parser.
	Assign struct {
		Position token.Pos
		Left      Expr
		Right     Expr
	}

	// Concat is the `;` sequencing operator: evaluate First, discard, then
	// evaluate Second and yield it.
	Concat struct {
		Position    token.Pos
		First, Second Expr
	}

	// BinaryOp is a binary arithmetic/relational/logical operator.
	BinaryOp struct {
		Position token.Pos
		Op       string
		Left, Right Expr
	}

	// UnaryOp is a prefix unary operator (only `!` in this grammar).
	UnaryOp struct {
		Position token.Pos
		Op       string
		Operand  Expr
	}

	// Block is `{ ... }`, a sequence of expressions whose value is the value
	// of the last one (or Unit if empty).
	Block struct {
		Position token.Pos
		Exprs    []Expr
	}

	// If is `if cond thenBlock else elseBlock`. Else may be nil. `elif` is
	// parser sugar that desugars to a nested If stored in Else.
	If struct {
		Position  token.Pos
		Cond      Expr
		Then      *Block
		Else      Expr // *Block or *If, or nil
	}

	// While is `while guard body`.
	While struct {
		Position token.Pos
		Guard    Expr
		Body     *Block
	}

	// ListLit is a list literal, e.g. [1, 2, 3].
	ListLit struct {
		Position token.Pos
		Elements []Expr
	}

	// Subscript is `element[index]`.
	Subscript struct {
		Position   token.Pos
		Element    Expr
		Index      Expr
	}

	// FuncLit is a function literal, `fn(params) { body }`. Name is always
	// empty coming out of the parser: it is never part of the function
	// literal's own grammar. The compiler fills it in when the literal is the
	// direct right-hand side of a `let`/plain assignment to a bare
	// identifier, binding the function under its own name to support
	// self-recursion.
	FuncLit struct {
		Position token.Pos
		Name     string
		Params   []string
		Body     *Block
	}

	// Call is `fun(args...)`.
	Call struct {
		Position token.Pos
		Fun      Expr
		Args     []Expr
	}

	// PropertyAccess is `expr.name`.
	PropertyAccess struct {
		Position token.Pos
		Expr     Expr
		Name     string
	}

	// Method is one `fn name(params) { body }` declaration inside a class
	// body, including the constructor (named "init").
	Method struct {
		Position token.Pos
		Name     string
		Params   []string
		Body     *Block
	}

	// ClassDef is a full `class Name { method* }` declaration.
	ClassDef struct {
		Position token.Pos
		Name     string
		Methods  []*Method
	}

	// Program is one parsed chunk — a whole file, or one REPL submission — as
	// a bare sequence of expressions. Unlike Block, a Program is not itself an
	// Expr and never introduces a scope: its statements compile directly into
	// the enclosing (root) compiler frame, which is what lets a REPL's
	// top-level `let` bindings stay on the Module's variable stack across
	// submissions.
	Program struct {
		Position token.Pos
		Exprs    []Expr
	}
)

func (n *IntLit) Pos() token.Pos         { return n.Position }
func (n *FloatLit) Pos() token.Pos       { return n.Position }
func (n *StringLit) Pos() token.Pos      { return n.Position }
func (n *BoolLit) Pos() token.Pos        { return n.Position }
func (n *UnitLit) Pos() token.Pos        { return n.Position }
func (n *Ident) Pos() token.Pos          { return n.Position }
func (n *Definition) Pos() token.Pos     { return n.Position }
func (n *Assign) Pos() token.Pos         { return n.Position }
func (n *Concat) Pos() token.Pos         { return n.Position }
func (n *BinaryOp) Pos() token.Pos       { return n.Position }
func (n *UnaryOp) Pos() token.Pos        { return n.Position }
func (n *Block) Pos() token.Pos          { return n.Position }
func (n *If) Pos() token.Pos             { return n.Position }
func (n *While) Pos() token.Pos          { return n.Position }
func (n *ListLit) Pos() token.Pos        { return n.Position }
func (n *Subscript) Pos() token.Pos      { return n.Position }
func (n *FuncLit) Pos() token.Pos        { return n.Position }
func (n *Call) Pos() token.Pos           { return n.Position }
func (n *PropertyAccess) Pos() token.Pos { return n.Position }
func (n *Method) Pos() token.Pos         { return n.Position }
func (n *ClassDef) Pos() token.Pos       { return n.Position }
func (n *Program) Pos() token.Pos        { return n.Position }

func (*IntLit) expr()         {}
func (*FloatLit) expr()       {}
func (*StringLit) expr()      {}
func (*BoolLit) expr()        {}
func (*UnitLit) expr()        {}
func (*Ident) expr()          {}
func (*Definition) expr()     {}
func (*Assign) expr()         {}
func (*Concat) expr()         {}
func (*BinaryOp) expr()       {}
func (*UnaryOp) expr()        {}
func (*Block) expr()          {}
func (*If) expr()             {}
func (*While) expr()          {}
func (*ListLit) expr()        {}
func (*Subscript) expr()      {}
func (*FuncLit) expr()        {}
func (*Call) expr()           {}
func (*PropertyAccess) expr() {}
func (*ClassDef) expr()       {}
