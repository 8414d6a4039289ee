// Package parser implements a precedence-climbing recursive-descent parser
// that turns scanned epilang source into a lang/ast tree: no block comments,
// no multi-file chunk plumbing — one Parse call handles one file or one REPL
// submission.
package parser

import (
	"fmt"

	"github.com/epieffe/epilang/lang/ast"
	"github.com/epieffe/epilang/lang/scanner"
	"github.com/epieffe/epilang/lang/token"
)

// SyntaxError is the parser's single error variant: a message together with
// the source position it was detected at.
type SyntaxError struct {
	Pos token.Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	line, col := e.Pos.LineCol()
	return fmt.Sprintf("%d:%d: syntax error: %s", line, col, e.Msg)
}

// Parse scans and parses one whole chunk of source — a file or one REPL
// submission — into a Program: a bare top-level sequence of `;`-separated
// expressions (see ast.Program's doc comment for why this isn't a Block).
func Parse(src []byte) (prog *ast.Program, err error) {
	var p parser
	p.init(src)
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(panicError); ok {
				prog, err = nil, p.err
				return
			}
			panic(r)
		}
	}()
	prog = p.parseProgram()
	if p.err != nil {
		return nil, p.err
	}
	return prog, nil
}

// panicError is the sentinel recovered by Parse: on the first syntax error
// the parser panics to unwind straight out of the recursive descent, rather
// than threading an error return through every production.
type panicError struct{}

type parser struct {
	scanner scanner.Scanner
	tok     token.Token
	val     scanner.Value
	err     error
}

func (p *parser) init(src []byte) {
	p.scanner.Init(src, func(pos token.Pos, msg string) {
		if p.err == nil {
			p.err = &SyntaxError{Pos: pos, Msg: msg}
		}
	})
	p.advance()
}

func (p *parser) advance() {
	p.tok = p.scanner.Scan(&p.val)
}

func (p *parser) pos() token.Pos { return p.val.Pos }

func (p *parser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = &SyntaxError{Pos: p.pos(), Msg: fmt.Sprintf(format, args...)}
	}
	panic(panicError{})
}

// expect consumes the current token if it matches tok, else records a
// syntax error and unwinds the parse via panic.
func (p *parser) expect(tok token.Token) token.Pos {
	if p.tok != tok {
		p.fail("expected %s, found %s", tok.GoString(), p.tok.GoString())
	}
	pos := p.pos()
	p.advance()
	return pos
}

func (p *parser) at(tok token.Token) bool { return p.tok == tok }

// parseProgram parses a top-level chunk: a `;`-separated expression
// sequence until EOF.
func (p *parser) parseProgram() *ast.Program {
	pos := p.pos()
	prog := &ast.Program{Position: pos}
	prog.Exprs = p.parseExprList(token.EOF)
	p.expect(token.EOF)
	return prog
}

// parseExprList parses a `;`-separated sequence of expressions, stopping
// when the current token is end. A trailing `;` before end is permitted.
func (p *parser) parseExprList(end token.Token) []ast.Expr {
	var exprs []ast.Expr
	for !p.at(end) {
		exprs = append(exprs, p.parseAssignExpr())
		if p.at(token.SEMI) {
			p.advance()
			continue
		}
		break
	}
	return exprs
}

func (p *parser) parseBlock() *ast.Block {
	pos := p.expect(token.LBRACE)
	b := &ast.Block{Position: pos}
	b.Exprs = p.parseExprList(token.RBRACE)
	p.expect(token.RBRACE)
	return b
}
