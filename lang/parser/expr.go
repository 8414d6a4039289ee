package parser

import (
	"github.com/epieffe/epilang/lang/ast"
	"github.com/epieffe/epilang/lang/token"
)

// binaryPriority gives each binary operator's precedence for precedence
// climbing; higher binds tighter. All of these operators are left-
// associative.
var binaryPriority = map[token.Token]int{
	token.PIPEPIPE: 1,
	token.AMPAMP:   2,
	token.EQL:      3, token.NEQ: 3,
	token.LT: 4, token.LE: 4, token.GT: 4, token.GE: 4,
	token.PLUS: 5, token.MINUS: 5,
	token.STAR: 6, token.SLASH: 6,
}

var tokenOp = map[token.Token]string{
	token.PIPEPIPE: "||", token.AMPAMP: "&&",
	token.EQL: "==", token.NEQ: "!=",
	token.LT: "<", token.LE: "<=", token.GT: ">", token.GE: ">=",
	token.PLUS: "+", token.MINUS: "-",
	token.STAR: "*", token.SLASH: "/",
}

// parseAssignExpr parses `lhs = rhs`, right-associative and the lowest
// precedence of all epilang's operators.
func (p *parser) parseAssignExpr() ast.Expr {
	left := p.parseBinaryExpr(0)
	if p.at(token.EQ) {
		pos := p.pos()
		p.advance()
		right := p.parseAssignExpr()
		return &ast.Assign{Position: pos, Left: left, Right: right}
	}
	return left
}

// parseBinaryExpr implements precedence climbing over binaryPriority;
// minPriority is the lowest-priority operator this call is allowed to
// consume.
func (p *parser) parseBinaryExpr(minPriority int) ast.Expr {
	left := p.parseUnaryExpr()
	for {
		prio, ok := binaryPriority[p.tok]
		if !ok || prio <= minPriority {
			return left
		}
		op := tokenOp[p.tok]
		pos := p.pos()
		p.advance()
		right := p.parseBinaryExpr(prio)
		left = &ast.BinaryOp{Position: pos, Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseUnaryExpr() ast.Expr {
	if p.at(token.BANG) {
		pos := p.pos()
		p.advance()
		operand := p.parseUnaryExpr()
		return &ast.UnaryOp{Position: pos, Op: "!", Operand: operand}
	}
	return p.parsePostfixExpr()
}

// parsePostfixExpr parses a primary expression followed by any chain of
// `(args)`, `[index]` or `.name` suffixes.
func (p *parser) parsePostfixExpr() ast.Expr {
	e := p.parsePrimaryExpr()
	for {
		switch {
		case p.at(token.LPAREN):
			pos := p.pos()
			p.advance()
			var args []ast.Expr
			for !p.at(token.RPAREN) {
				args = append(args, p.parseAssignExpr())
				if p.at(token.COMMA) {
					p.advance()
					continue
				}
				break
			}
			p.expect(token.RPAREN)
			e = &ast.Call{Position: pos, Fun: e, Args: args}

		case p.at(token.LBRACK):
			pos := p.pos()
			p.advance()
			idx := p.parseAssignExpr()
			p.expect(token.RBRACK)
			e = &ast.Subscript{Position: pos, Element: e, Index: idx}

		case p.at(token.DOT):
			pos := p.pos()
			p.advance()
			name := p.expectIdent()
			e = &ast.PropertyAccess{Position: pos, Expr: e, Name: name}

		default:
			return e
		}
	}
}

func (p *parser) expectIdent() string {
	if p.tok != token.IDENT {
		p.fail("expected identifier, found %s", p.tok.GoString())
	}
	name := p.val.Raw
	p.advance()
	return name
}

func (p *parser) parsePrimaryExpr() ast.Expr {
	pos := p.pos()
	switch p.tok {
	case token.INT:
		v := p.val.Int
		p.advance()
		return &ast.IntLit{Position: pos, Value: v}

	case token.FLOAT:
		v := p.val.Float
		p.advance()
		return &ast.FloatLit{Position: pos, Value: v}

	case token.STRING:
		v := p.val.String
		p.advance()
		return &ast.StringLit{Position: pos, Value: v}

	case token.TRUE:
		p.advance()
		return &ast.BoolLit{Position: pos, Value: true}

	case token.FALSE:
		p.advance()
		return &ast.BoolLit{Position: pos, Value: false}

	case token.UNIT:
		p.advance()
		return &ast.UnitLit{Position: pos}

	case token.IDENT:
		name := p.val.Raw
		p.advance()
		return &ast.Ident{Position: pos, Name: name}

	case token.LET:
		p.advance()
		name := p.expectIdent()
		return &ast.Definition{Position: pos, Name: name}

	case token.LPAREN:
		p.advance()
		e := p.parseAssignExpr()
		p.expect(token.RPAREN)
		return e

	case token.LBRACK:
		return p.parseListLit()

	case token.LBRACE:
		return p.parseBlock()

	case token.IF:
		return p.parseIf()

	case token.WHILE:
		return p.parseWhile()

	case token.FN:
		return p.parseFuncLit()

	case token.CLASS:
		return p.parseClassDef()
	}
	p.fail("unexpected token %s", p.tok.GoString())
	panic("unreachable")
}

func (p *parser) parseListLit() ast.Expr {
	pos := p.expect(token.LBRACK)
	var elems []ast.Expr
	for !p.at(token.RBRACK) {
		elems = append(elems, p.parseAssignExpr())
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACK)
	return &ast.ListLit{Position: pos, Elements: elems}
}

// parseIf parses `if cond { ... } (elif cond { ... })* (else { ... })?`.
// `elif` is pure parser sugar over nested `If` AST nodes stored in Else: it
// never reaches lang/ir.
func (p *parser) parseIf() ast.Expr {
	pos := p.expect(token.IF)
	cond := p.parseBinaryExpr(0)
	then := p.parseBlock()
	n := &ast.If{Position: pos, Cond: cond, Then: then}

	switch {
	case p.at(token.ELIF):
		elifPos := p.pos()
		p.tok = token.IF // reinterpret `elif` as `if` for the recursive call
		p.val.Pos = elifPos
		n.Else = p.parseIf()
	case p.at(token.ELSE):
		p.advance()
		n.Else = p.parseBlock()
	}
	return n
}

func (p *parser) parseWhile() ast.Expr {
	pos := p.expect(token.WHILE)
	guard := p.parseBinaryExpr(0)
	body := p.parseBlock()
	return &ast.While{Position: pos, Guard: guard, Body: body}
}

func (p *parser) parseFuncLit() ast.Expr {
	pos := p.expect(token.FN)
	params := p.parseParams()
	body := p.parseBlock()
	return &ast.FuncLit{Position: pos, Params: params, Body: body}
}

func (p *parser) parseParams() []string {
	p.expect(token.LPAREN)
	var params []string
	for !p.at(token.RPAREN) {
		params = append(params, p.expectIdent())
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return params
}

// parseClassDef parses `class Name { (fn name(params) { body })* }`.
func (p *parser) parseClassDef() ast.Expr {
	pos := p.expect(token.CLASS)
	name := p.expectIdent()
	p.expect(token.LBRACE)

	var methods []*ast.Method
	for !p.at(token.RBRACE) {
		mpos := p.expect(token.FN)
		mname := p.expectIdent()
		params := p.parseParams()
		body := p.parseBlock()
		methods = append(methods, &ast.Method{Position: mpos, Name: mname, Params: params, Body: body})
	}
	p.expect(token.RBRACE)
	return &ast.ClassDef{Position: pos, Name: name, Methods: methods}
}
