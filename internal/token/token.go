// Package token defines the tokens of Yul source code.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int // byte offset within the input
	LineStart int // byte offset of the start of the current line
	Line      int // 0-indexed line number
	Column    int // 0-indexed column number
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	ARROW      Type = "->"
	ASSIGN     Type = ":="
	BREAK      Type = "BREAK"
	CASE       Type = "CASE"
	CODE       Type = "CODE"
	COLON      Type = ":"
	COMMA      Type = ","
	CONTINUE   Type = "CONTINUE"
	DATA       Type = "DATA"
	DEFAULT    Type = "DEFAULT"
	EOF        Type = "EOF"
	FALSE      Type = "FALSE"
	FOR        Type = "FOR"
	FUNCTION   Type = "FUNCTION"
	HEX_NUMBER Type = "HEX_NUMBER"
	HEX_STRING Type = "HEX_STRING"
	IDENT      Type = "IDENT"
	IF         Type = "IF"
	ILLEGAL    Type = "ILLEGAL"
	LBRACE     Type = "{"
	LEAVE      Type = "LEAVE"
	LET        Type = "LET"
	LPAREN     Type = "("
	NUMBER     Type = "NUMBER"
	OBJECT     Type = "OBJECT"
	RBRACE     Type = "}"
	RPAREN     Type = ")"
	STRING     Type = "STRING"
	SWITCH     Type = "SWITCH"
	TRUE       Type = "TRUE"
)

// Reserved keywords
var keywords = map[string]Type{
	"break":    BREAK,
	"case":     CASE,
	"code":     CODE,
	"continue": CONTINUE,
	"data":     DATA,
	"default":  DEFAULT,
	"false":    FALSE,
	"for":      FOR,
	"function": FUNCTION,
	"if":       IF,
	"leave":    LEAVE,
	"let":      LET,
	"object":   OBJECT,
	"switch":   SWITCH,
	"true":     TRUE,
}

// LookupIdentifier returns the keyword type of identifier, or IDENT.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}
