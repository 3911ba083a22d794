package token

import "fmt"

// Type identifies the category of a token.
type Type string

// Token carries the lexical item along with its source position.
// Value holds the decoded literal: float64 for numbers, string for strings
// and identifiers, nil otherwise.
type Token struct {
	Type    Type
	Literal string
	Value   any
	Pos     Position
}

// Position describes a byte offset and 1-based line/column inside a named file.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span represents an inclusive start and end position for a node.
type Span struct {
	Start Position
	End   Position
}

const (
	Illegal Type = "ILLEGAL"
	EOF     Type = "EOF"
	Newline Type = "NEWLINE"

	// identifiers and literals
	Ident  Type = "IDENT"
	Number Type = "NUMBER"
	String Type = "STRING"

	// keywords
	For     Type = "FOR"
	If      Type = "IF"
	Else    Type = "ELSE"
	While   Type = "WHILE"
	Fn      Type = "FN"
	End     Type = "END"
	Return  Type = "RETURN"
	True    Type = "TRUE"
	False   Type = "FALSE"
	And     Type = "AND"
	Or      Type = "OR"
	Class   Type = "CLASS"
	Let     Type = "LET"
	Block   Type = "BLOCK"
	Delete  Type = "DELETE"
	None    Type = "NONE"
	Include Type = "INCLUDE"

	// operators
	Assign       Type = "ASSIGN"       // =
	Define       Type = "DEFINE"       // :=
	Plus         Type = "PLUS"         // +
	Minus        Type = "MINUS"        // -
	Star         Type = "STAR"         // *
	Slash        Type = "SLASH"        // /
	Caret        Type = "CARET"        // ^
	Percent      Type = "PERCENT"      // %
	Bang         Type = "BANG"         // !
	Equal        Type = "EQUAL"        // ==
	NotEqual     Type = "NOTEQUAL"     // !=
	Less         Type = "LESS"         // <
	LessEqual    Type = "LESSEQUAL"    // <=
	Greater      Type = "GREATER"      // >
	GreaterEqual Type = "GREATEREQUAL" // >=

	// delimiters
	Comma  Type = "COMMA"
	Colon  Type = "COLON"
	Dot    Type = "DOT"
	LParen Type = "LPAREN"
	RParen Type = "RPAREN"
)

var keywords = map[string]Type{
	"for":     For,
	"if":      If,
	"else":    Else,
	"while":   While,
	"fn":      Fn,
	"end":     End,
	"return":  Return,
	"true":    True,
	"false":   False,
	"and":     And,
	"or":      Or,
	"class":   Class,
	"let":     Let,
	"block":   Block,
	"delete":  Delete,
	"none":    None,
	"include": Include,
}

// LookupIdent returns the keyword token type or Ident.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return Ident
}

// IsKeyword reports whether the word is reserved.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}
