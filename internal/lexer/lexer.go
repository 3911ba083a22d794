package lexer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xirelogy/go-nova/internal/token"
)

// Lexer converts source text into a stream of tokens.
type Lexer struct {
	input   string
	file    string
	pos     int  // current position in bytes
	readPos int  // next read position
	ch      byte // current char
	line    int
	column  int
}

// ScanError reports a lexical failure at a source position.
type ScanError struct {
	Pos     token.Position
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// New creates a lexer for the provided source text.
func New(input string) *Lexer {
	return NewFile("", input)
}

// NewFile creates a lexer whose positions are attributed to file.
func NewFile(file, input string) *Lexer {
	l := &Lexer{
		input: input,
		file:  file,
		line:  1,
	}
	l.readChar()
	return l
}

// Scan tokenizes the whole input. The returned slice always ends with EOF
// unless an error is reported.
func Scan(file, input string) ([]token.Token, error) {
	l := NewFile(file, input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.Illegal {
			msg, _ := tok.Value.(string)
			return toks, &ScanError{Pos: tok.Pos, Message: msg}
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

// NextToken returns the next token from the input. Lexical errors are
// reported as Illegal tokens whose Value holds the message.
func (l *Lexer) NextToken() token.Token {
	if tok, ok := l.skipWhitespace(); ok {
		return tok
	}

	if l.ch == 0 && l.pos >= len(l.input) {
		return l.makeToken(token.EOF, "")
	}

	switch l.ch {
	case '=':
		return l.twoCharToken('=', token.Assign, token.Equal)
	case ':':
		return l.twoCharToken('=', token.Colon, token.Define)
	case '!':
		return l.twoCharToken('=', token.Bang, token.NotEqual)
	case '<':
		return l.twoCharToken('=', token.Less, token.LessEqual)
	case '>':
		return l.twoCharToken('=', token.Greater, token.GreaterEqual)
	case '&':
		if l.peekChar() == '&' {
			return l.twoCharToken('&', token.Illegal, token.And)
		}
		return l.illegal(string(l.ch), "unknown token '&'")
	case '|':
		if l.peekChar() == '|' {
			return l.twoCharToken('|', token.Illegal, token.Or)
		}
		return l.illegal(string(l.ch), "unknown token '|'")
	case '+':
		return l.singleCharToken(token.Plus)
	case '-':
		return l.singleCharToken(token.Minus)
	case '*':
		return l.singleCharToken(token.Star)
	case '/':
		return l.singleCharToken(token.Slash)
	case '^':
		return l.singleCharToken(token.Caret)
	case '%':
		return l.singleCharToken(token.Percent)
	case '.':
		return l.singleCharToken(token.Dot)
	case ',':
		return l.singleCharToken(token.Comma)
	case '(':
		return l.singleCharToken(token.LParen)
	case ')':
		return l.singleCharToken(token.RParen)
	case '"':
		return l.readString()
	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		}
		if isDigit(l.ch) {
			return l.readNumber()
		}
		return l.illegal(string(l.ch), fmt.Sprintf("undefined character %q", l.ch))
	}
}

func (l *Lexer) makeToken(t token.Type, lit string) token.Token {
	return token.Token{
		Type:    t,
		Literal: lit,
		Pos: token.Position{
			File:   l.file,
			Offset: l.pos,
			Line:   l.line,
			Column: l.column,
		},
	}
}

func (l *Lexer) illegal(lit, msg string) token.Token {
	tok := l.makeToken(token.Illegal, lit)
	tok.Value = msg
	l.readChar()
	return tok
}

func (l *Lexer) singleCharToken(t token.Type) token.Token {
	tok := l.makeToken(t, string(l.ch))
	l.readChar()
	return tok
}

// twoCharToken emits double when the next char is second, single otherwise.
func (l *Lexer) twoCharToken(second byte, single, double token.Type) token.Token {
	if l.peekChar() == second {
		tok := l.makeToken(double, string(l.ch)+string(second))
		l.readChar()
		l.readChar()
		return tok
	}
	return l.singleCharToken(single)
}

// skipWhitespace consumes a run of blanks, newlines and comments. A run that
// contains at least one '\n' yields a single Newline token.
func (l *Lexer) skipWhitespace() (token.Token, bool) {
	var nl token.Token
	sawNewline := false
	for {
		switch l.ch {
		case ' ', '\t', '\r':
			l.readChar()
		case '\n':
			if !sawNewline {
				nl = l.makeToken(token.Newline, "\n")
				sawNewline = true
			}
			l.readChar()
		case '#':
			l.skipLineComment()
		default:
			return nl, sawNewline
		}
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != 0 && l.ch != '\n' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.makeToken(token.Ident, "")
	begin := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	lit := l.input[begin:l.pos]
	start.Type = token.LookupIdent(lit)
	start.Literal = lit
	if start.Type == token.Ident {
		start.Value = lit
	}
	return start
}

func (l *Lexer) readNumber() token.Token {
	start := l.makeToken(token.Number, "")
	begin := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	mantissa, err := strconv.ParseFloat(l.input[begin:l.pos], 64)
	if err != nil {
		return l.numberError(start, begin, "could not parse number")
	}

	exponent := 0.0
	if l.ch == 'E' {
		l.readChar()
		sign := 1.0
		if l.ch == '-' {
			sign = -1
			l.readChar()
		}
		expBegin := l.pos
		for isDigit(l.ch) {
			l.readChar()
		}
		exp, err := strconv.ParseFloat(l.input[expBegin:l.pos], 64)
		if err != nil || expBegin == l.pos {
			return l.numberError(start, begin, "could not parse exponent value")
		}
		exponent = sign * exp
	}
	if isLetter(l.ch) {
		return l.numberError(start, begin, "malformed number")
	}

	start.Literal = l.input[begin:l.pos]
	start.Value = mantissa * math.Pow(10, exponent)
	return start
}

func (l *Lexer) numberError(start token.Token, begin int, msg string) token.Token {
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	start.Type = token.Illegal
	start.Literal = l.input[begin:l.pos]
	start.Value = fmt.Sprintf("%s %q", msg, start.Literal)
	return start
}

func (l *Lexer) readString() token.Token {
	start := l.makeToken(token.String, "")
	l.readChar() // opening quote
	begin := l.pos
	for l.ch != '"' {
		if l.ch == 0 && l.pos >= len(l.input) {
			start.Type = token.Illegal
			start.Literal = l.input[begin-1:]
			start.Value = "expect '\"' at end of string"
			return start
		}
		l.readChar()
	}
	text := l.input[begin:l.pos]
	l.readChar() // closing quote
	start.Literal = text
	start.Value = text
	return start
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPos >= len(l.input) {
		l.pos = len(l.input)
		l.readPos = len(l.input) + 1
		l.ch = 0
		return
	}

	l.ch = l.input[l.readPos]
	l.pos = l.readPos
	l.readPos++
	l.column++
}
