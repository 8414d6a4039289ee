// Package scanner implements epilang's lexer: source bytes in, a stream of
// lang/token.Token + literal values out. A character-at-a-time Scanner in
// the spirit of go/scanner, trimmed to this grammar and to a single
// in-memory source chunk: epilang has no multi-file FileSet, so positions
// are tracked as plain line/column counters rather than through a
// token.File.
package scanner

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/epieffe/epilang/lang/token"
)

// Value carries everything a Scan call produces for one token beyond its
// kind: the raw source text and, for literals, the decoded value.
type Value struct {
	Raw    string
	Pos    token.Pos
	Int    int32
	Float  float32
	String string
}

// Scanner tokenizes one chunk of source (one REPL submission or one whole
// file).
type Scanner struct {
	src  []byte
	err  func(pos token.Pos, msg string)
	cur  rune
	off  int // byte offset of cur
	roff int // byte offset just past cur
	line int
	col  int
}

// Init resets s to scan src from the beginning, reporting lexical errors to
// errHandler.
func (s *Scanner) Init(src []byte, errHandler func(token.Pos, string)) {
	s.src = src
	s.err = errHandler
	s.off = 0
	s.roff = 0
	s.line = 1
	s.col = 0
	s.advance()
}

func (s *Scanner) pos() token.Pos { return token.MakePos(s.line, s.col) }

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

// advance reads the next rune into s.cur; s.cur == -1 means end of input.
func (s *Scanner) advance() {
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
	}
	s.roff += w
	s.cur = r
	s.col++
}

func (s *Scanner) advanceIf(b byte) bool {
	if s.cur == rune(b) {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) error(pos token.Pos, format string, args ...any) {
	if s.err != nil {
		s.err(pos, fmt.Sprintf(format, args...))
	}
}

// Scan returns the next token, filling val with its literal payload.
func (s *Scanner) Scan(val *Value) token.Token {
	s.skipWhitespaceAndComments()
	pos := s.pos()

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		*val = Value{Raw: lit, Pos: pos}
		if tok, ok := token.Keywords[lit]; ok {
			return tok
		}
		return token.IDENT

	case isDigit(cur) || (cur == '.' && isDigit(rune(s.peek()))):
		return s.number(val, pos)

	case cur == '"':
		return s.stringLit(val, pos)
	}

	start := s.off
	cur := s.cur
	s.advance()

	switch cur {
	case -1:
		*val = Value{Pos: pos}
		return token.EOF
	case '+':
		*val = Value{Raw: "+", Pos: pos}
		return token.PLUS
	case '-':
		*val = Value{Raw: "-", Pos: pos}
		return token.MINUS
	case '*':
		*val = Value{Raw: "*", Pos: pos}
		return token.STAR
	case '/':
		*val = Value{Raw: "/", Pos: pos}
		return token.SLASH
	case '.':
		*val = Value{Raw: ".", Pos: pos}
		return token.DOT
	case ',':
		*val = Value{Raw: ",", Pos: pos}
		return token.COMMA
	case ';':
		*val = Value{Raw: ";", Pos: pos}
		return token.SEMI
	case '(':
		*val = Value{Raw: "(", Pos: pos}
		return token.LPAREN
	case ')':
		*val = Value{Raw: ")", Pos: pos}
		return token.RPAREN
	case '[':
		*val = Value{Raw: "[", Pos: pos}
		return token.LBRACK
	case ']':
		*val = Value{Raw: "]", Pos: pos}
		return token.RBRACK
	case '{':
		*val = Value{Raw: "{", Pos: pos}
		return token.LBRACE
	case '}':
		*val = Value{Raw: "}", Pos: pos}
		return token.RBRACE
	case '!':
		if s.advanceIf('=') {
			*val = Value{Raw: "!=", Pos: pos}
			return token.NEQ
		}
		*val = Value{Raw: "!", Pos: pos}
		return token.BANG
	case '=':
		if s.advanceIf('=') {
			*val = Value{Raw: "==", Pos: pos}
			return token.EQL
		}
		*val = Value{Raw: "=", Pos: pos}
		return token.EQ
	case '<':
		if s.advanceIf('=') {
			*val = Value{Raw: "<=", Pos: pos}
			return token.LE
		}
		*val = Value{Raw: "<", Pos: pos}
		return token.LT
	case '>':
		if s.advanceIf('=') {
			*val = Value{Raw: ">=", Pos: pos}
			return token.GE
		}
		*val = Value{Raw: ">", Pos: pos}
		return token.GT
	case '&':
		if s.advanceIf('&') {
			*val = Value{Raw: "&&", Pos: pos}
			return token.AMPAMP
		}
		s.error(pos, "illegal character '&'")
		*val = Value{Raw: string(s.src[start:s.off]), Pos: pos}
		return token.ILLEGAL
	case '|':
		if s.advanceIf('|') {
			*val = Value{Raw: "||", Pos: pos}
			return token.PIPEPIPE
		}
		s.error(pos, "illegal character '|'")
		*val = Value{Raw: string(s.src[start:s.off]), Pos: pos}
		return token.ILLEGAL
	default:
		s.error(pos, "illegal character %#U", cur)
		*val = Value{Raw: string(cur), Pos: pos}
		return token.ILLEGAL
	}
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) number(val *Value, pos token.Pos) token.Token {
	start := s.off
	isFloat := false
	for isDigit(s.cur) {
		s.advance()
	}
	if s.cur == '.' && isDigit(rune(s.peek())) {
		isFloat = true
		s.advance()
		for isDigit(s.cur) {
			s.advance()
		}
	}
	lit := string(s.src[start:s.off])
	if isFloat {
		f, err := strconv.ParseFloat(lit, 32)
		if err != nil {
			s.error(pos, "invalid float literal %q", lit)
		}
		*val = Value{Raw: lit, Pos: pos, Float: float32(f)}
		return token.FLOAT
	}
	i, err := strconv.ParseInt(lit, 10, 32)
	if err != nil {
		s.error(pos, "invalid int literal %q", lit)
	}
	*val = Value{Raw: lit, Pos: pos, Int: int32(i)}
	return token.INT
}

// stringLit scans a double-quoted string literal, resolving escape
// sequences: \n, \t, \\, \".
func (s *Scanner) stringLit(val *Value, pos token.Pos) token.Token {
	start := s.off
	s.advance() // consume opening quote
	var sb []byte
	for {
		switch s.cur {
		case -1, '\n':
			s.error(pos, "unterminated string literal")
			lit := string(s.src[start:s.off])
			*val = Value{Raw: lit, Pos: pos, String: string(sb)}
			return token.STRING
		case '"':
			s.advance()
			lit := string(s.src[start:s.off])
			*val = Value{Raw: lit, Pos: pos, String: string(sb)}
			return token.STRING
		case '\\':
			s.advance()
			switch s.cur {
			case 'n':
				sb = append(sb, '\n')
			case 't':
				sb = append(sb, '\t')
			case '\\':
				sb = append(sb, '\\')
			case '"':
				sb = append(sb, '"')
			default:
				s.error(pos, "invalid escape sequence '\\%c'", s.cur)
				sb = append(sb, byte(s.cur))
			}
			s.advance()
		default:
			var buf [utf8.UTFMax]byte
			n := utf8.EncodeRune(buf[:], s.cur)
			sb = append(sb, buf[:n]...)
			s.advance()
		}
	}
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(s.cur):
			s.advance()
		case s.cur == '/' && s.peek() == '/':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		default:
			return
		}
	}
}

func isWhitespace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_' ||
		r >= utf8.RuneSelf && unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
