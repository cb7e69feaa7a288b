// Package lexer tokenizes Yul source code.
package lexer

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/yulpack/internal/token"
)

// Lexer produces tokens from Yul source. Comments and whitespace are
// skipped.
type Lexer struct {
	input     string
	pos       int
	line      int
	lineStart int
}

// New returns a Lexer over input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Error is a lexing error with the position it occurred at.
type Error struct {
	Position token.Position
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Position.LineNumber(), e.Position.ColumnNumber(), e.Message)
}

// Next returns the next token. Once the input is exhausted it keeps
// returning EOF tokens. On error the returned token has type ILLEGAL.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipIgnored(); err != nil {
		return l.illegal(err.Position), err
	}
	start := l.position()
	if l.pos >= len(l.input) {
		return l.emit(token.EOF, start), nil
	}
	c := l.input[l.pos]
	switch {
	case c == '{':
		return l.single(token.LBRACE, start), nil
	case c == '}':
		return l.single(token.RBRACE, start), nil
	case c == '(':
		return l.single(token.LPAREN, start), nil
	case c == ')':
		return l.single(token.RPAREN, start), nil
	case c == ',':
		return l.single(token.COMMA, start), nil
	case c == ':':
		l.advance()
		if l.peek(0) == '=' {
			l.advance()
			return l.emit(token.ASSIGN, start), nil
		}
		return l.emit(token.COLON, start), nil
	case c == '-' && l.peek(1) == '>':
		l.advance()
		l.advance()
		return l.emit(token.ARROW, start), nil
	case c == '"' || c == '\'':
		return l.readString(start, token.STRING)
	case strings.HasPrefix(l.input[l.pos:], `hex"`) || strings.HasPrefix(l.input[l.pos:], "hex'"):
		l.pos += len("hex")
		return l.readString(start, token.HEX_STRING)
	case isIdentStart(c):
		for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
			l.advance()
		}
		tok := l.emit(token.IDENT, start)
		tok.Type = token.LookupIdentifier(tok.Literal)
		return tok, nil
	case isDigit(c):
		return l.readNumber(start)
	default:
		l.advance()
		err := &Error{Position: start, Message: fmt.Sprintf("unexpected character %q", c)}
		return l.emit(token.ILLEGAL, start), err
	}
}

// Tokens lexes the whole input, excluding the final EOF.
func (l *Lexer) Tokens() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return toks, err
		}
		if tok.Type == token.EOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func (l *Lexer) position() token.Position {
	return token.Position{
		Char:      l.pos,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.pos - l.lineStart,
	}
}

func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.lineStart = l.pos + 1
	}
	l.pos++
}

func (l *Lexer) peek(offset int) byte {
	if i := l.pos + offset; i < len(l.input) {
		return l.input[i]
	}
	return 0
}

func (l *Lexer) emit(typ token.Type, start token.Position) token.Token {
	return token.Token{
		Type:          typ,
		Literal:       l.input[start.Char:l.pos],
		StartPosition: start,
		EndPosition:   l.position(),
	}
}

func (l *Lexer) single(typ token.Type, start token.Position) token.Token {
	l.advance()
	return l.emit(typ, start)
}

func (l *Lexer) illegal(pos token.Position) token.Token {
	return token.Token{Type: token.ILLEGAL, StartPosition: pos, EndPosition: l.position()}
}

func (l *Lexer) skipIgnored() *Error {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.advance()
		case c == '/' && l.peek(1) == '/':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance()
			}
		case c == '/' && l.peek(1) == '*':
			start := l.position()
			l.advance()
			l.advance()
			for {
				if l.pos >= len(l.input) {
					return &Error{Position: start, Message: "unterminated comment"}
				}
				if l.input[l.pos] == '*' && l.peek(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

// readString reads a quoted literal. The token literal is the raw content
// between the quotes; escape sequences are kept as written.
func (l *Lexer) readString(start token.Position, typ token.Type) (token.Token, error) {
	quote := l.input[l.pos]
	l.advance()
	contentStart := l.pos
	for {
		if l.pos >= len(l.input) || l.input[l.pos] == '\n' {
			return l.illegal(start), &Error{Position: start, Message: "unterminated string"}
		}
		c := l.input[l.pos]
		if c == quote {
			break
		}
		l.advance()
		if c == '\\' && l.pos < len(l.input) {
			l.advance()
		}
	}
	content := l.input[contentStart:l.pos]
	l.advance()
	tok := l.emit(typ, start)
	tok.Literal = content
	return tok, nil
}

func (l *Lexer) readNumber(start token.Position) (token.Token, error) {
	if l.input[l.pos] == '0' && l.peek(1) == 'x' {
		l.advance()
		l.advance()
		digits := l.pos
		for l.pos < len(l.input) && isHexDigit(l.input[l.pos]) {
			l.advance()
		}
		if l.pos == digits {
			return l.illegal(start), &Error{Position: start, Message: "hex number without digits"}
		}
		return l.checkNumberEnd(l.emit(token.HEX_NUMBER, start), start)
	}
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.advance()
	}
	return l.checkNumberEnd(l.emit(token.NUMBER, start), start)
}

func (l *Lexer) checkNumberEnd(tok token.Token, start token.Position) (token.Token, error) {
	if l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		return l.illegal(start), &Error{Position: start, Message: fmt.Sprintf("invalid number %s%c", tok.Literal, l.input[l.pos])}
	}
	return tok, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.'
}
