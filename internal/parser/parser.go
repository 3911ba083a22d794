package parser

import (
	"fmt"
	"strings"

	"github.com/xirelogy/go-nova/internal/ast"
	"github.com/xirelogy/go-nova/internal/lexer"
	"github.com/xirelogy/go-nova/internal/token"
)

// maxParameters caps both parameter and argument lists.
const maxParameters = 8

type Parser struct {
	tokens    []token.Token
	next      int
	curToken  token.Token
	peekToken token.Token
	prevToken token.Token
	errors    []string
}

// ParseError aggregates every syntax error found in one parse.
type ParseError struct {
	Errors []string
}

func (e *ParseError) Error() string {
	if len(e.Errors) == 1 {
		return "parse error: " + e.Errors[0]
	}
	return fmt.Sprintf("%d parse errors: %s", len(e.Errors), strings.Join(e.Errors, "; "))
}

func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		var pos token.Position
		if len(tokens) > 0 {
			pos = tokens[len(tokens)-1].Pos
		}
		tokens = append(tokens, token.Token{Type: token.EOF, Pos: pos})
	}
	p := &Parser{
		tokens: tokens,
		errors: []string{},
	}
	// Read two tokens, so curToken and peekToken are set
	p.nextToken()
	p.nextToken()
	return p
}

// Parse scans and parses a whole source file. The returned program holds
// every statement that could be recovered even when err is a *ParseError.
func Parse(file, src string) (*ast.Program, error) {
	toks, err := lexer.Scan(file, src)
	if err != nil {
		return nil, err
	}
	p := New(toks)
	prog := p.ParseProgram()
	prog.File = file
	return prog, p.Err()
}

// ParseExpression parses source holding exactly one expression.
func ParseExpression(file, src string) (ast.Expression, error) {
	toks, err := lexer.Scan(file, src)
	if err != nil {
		return nil, err
	}
	p := New(toks)
	p.skipNewlines()
	expr := p.parseExpression(lowest)
	if expr != nil {
		p.nextToken()
		p.skipNewlines()
		if p.curToken.Type != token.EOF {
			p.errorf(p.curToken.Pos, "unexpected %s after expression", describe(p.curToken))
		}
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) Errors() []string {
	return p.errors
}

// Err returns the aggregate error, or nil when parsing succeeded.
func (p *Parser) Err() error {
	if len(p.errors) == 0 {
		return nil
	}
	return &ParseError{Errors: append([]string(nil), p.errors...)}
}

func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	if p.next < len(p.tokens) {
		p.peekToken = p.tokens[p.next]
		p.next++
	}
}

func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{File: p.curToken.Pos.File}

	for {
		p.skipNewlines()
		if p.curToken.Type == token.EOF {
			break
		}
		prog.Statements = append(prog.Statements, p.declaration())
	}
	if len(prog.Statements) > 0 {
		prog.NodeSpan = token.Span{Start: prog.Statements[0].Span().Start, End: prog.Statements[len(prog.Statements)-1].Span().End}
	}
	return prog
}

// declaration parses one statement. A statement that fails is replaced by a
// BadStmt after skipping ahead to the next statement boundary.
func (p *Parser) declaration() ast.Statement {
	start := p.curToken.Pos
	mark := len(p.errors)
	stmt := p.parseStatement()
	if stmt != nil {
		return stmt
	}
	if len(p.errors) == mark {
		p.errorf(start, "invalid statement")
	}
	p.synchronize()
	return &ast.BadStmt{From: start, To: p.prevToken.Pos}
}

func (p *Parser) synchronize() {
	for p.curToken.Type != token.EOF {
		if p.curToken.Type == token.Newline {
			p.nextToken()
			return
		}
		switch p.peekToken.Type {
		case token.Class, token.Fn, token.Let, token.For, token.If, token.While, token.Return:
			p.nextToken()
			return
		}
		p.nextToken()
	}
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.Class:
		return p.parseClass()
	case token.Fn:
		if fn := p.parseFuncDecl(); fn != nil {
			return fn
		}
		return nil
	case token.Let:
		return p.parseLet()
	case token.For:
		p.errorf(p.curToken.Pos, "for loops are not supported")
		return nil
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.Return:
		return p.parseReturn()
	case token.Include:
		return p.parseInclude()
	case token.Delete:
		return p.parseDelete()
	case token.Block:
		return p.parseBlockStmt()
	case token.Ident:
		if p.peekToken.Type == token.Define {
			return p.parseDefine()
		}
		return p.parseExprStatement()
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseClass() ast.Statement {
	decl := &ast.ClassDecl{ClassPos: p.curToken.Pos}
	if !p.expectPeek(token.Ident) {
		return nil
	}
	decl.Name = p.curToken.Literal
	if p.peekToken.Type == token.Colon {
		p.nextToken()
		if !p.expectPeek(token.Ident) {
			return nil
		}
		decl.Superclass = &ast.Variable{Name: p.curToken.Literal, PosT: p.curToken.Pos, Sp: token.Span{Start: p.curToken.Pos, End: p.curToken.Pos}}
	}
	if !p.expectPeek(token.Newline) {
		return nil
	}
	p.nextToken()
	for p.curToken.Type != token.End {
		switch p.curToken.Type {
		case token.EOF:
			p.errorf(p.curToken.Pos, "expected end after class body")
			return nil
		case token.Fn:
			method := p.parseFuncDecl()
			if method == nil {
				return nil
			}
			decl.Methods = append(decl.Methods, method)
		default:
			p.errorf(p.curToken.Pos, "expected method declaration in class %s, got %s", decl.Name, describe(p.curToken))
			return nil
		}
	}
	decl.NodeSpan = token.Span{Start: decl.ClassPos, End: p.curToken.Pos}
	if !p.expectEnd() {
		return nil
	}
	return decl
}

func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	decl := &ast.FuncDecl{FuncPos: p.curToken.Pos}
	if !p.expectPeek(token.Ident) {
		return nil
	}
	decl.Name = p.curToken.Literal
	decl.NamePos = p.curToken.Pos
	if !p.expectPeek(token.LParen) {
		return nil
	}
	params, ok := p.parseParamList()
	if !ok {
		return nil
	}
	decl.Params = params
	body := p.parseBlockBody(token.End)
	if body == nil {
		return nil
	}
	decl.Body = body
	decl.NodeSpan = token.Span{Start: decl.FuncPos, End: p.curToken.Pos}
	if !p.expectEnd() {
		return nil
	}
	return decl
}

// parseParamList expects curToken on '(' and leaves it on ')'.
func (p *Parser) parseParamList() ([]ast.Param, bool) {
	params := []ast.Param{}
	if p.peekToken.Type == token.RParen {
		p.nextToken()
		return params, true
	}
	for {
		if !p.expectPeek(token.Ident) {
			return nil, false
		}
		if len(params) >= maxParameters {
			p.errorf(p.curToken.Pos, "cannot have more than %d parameters", maxParameters)
			return nil, false
		}
		params = append(params, ast.Param{Name: p.curToken.Literal, Pos: p.curToken.Pos, Sp: token.Span{Start: p.curToken.Pos, End: p.curToken.Pos}})
		if p.peekToken.Type != token.Comma {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RParen) {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseLet() ast.Statement {
	stmt := &ast.LetStmt{LetPos: p.curToken.Pos}
	if !p.expectPeek(token.Ident) {
		return nil
	}
	stmt.Name = p.curToken.Literal
	stmt.NamePos = p.curToken.Pos
	if p.peekToken.Type == token.Assign {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseExpression(lowest)
		if stmt.Value == nil {
			return nil
		}
	}
	stmt.NodeSpan = token.Span{Start: stmt.LetPos, End: p.curToken.Pos}
	if !p.endStatement() {
		return nil
	}
	return stmt
}

// parseDefine handles `name := value`, shorthand for `let name = value`.
func (p *Parser) parseDefine() ast.Statement {
	stmt := &ast.LetStmt{LetPos: p.curToken.Pos, Name: p.curToken.Literal, NamePos: p.curToken.Pos}
	p.nextToken() // move to ':='
	p.nextToken() // move to value start
	stmt.Value = p.parseExpression(lowest)
	if stmt.Value == nil {
		return nil
	}
	stmt.NodeSpan = token.Span{Start: stmt.LetPos, End: p.curToken.Pos}
	if !p.endStatement() {
		return nil
	}
	return stmt
}

func (p *Parser) parseIf() ast.Statement {
	stmt := &ast.IfStmt{IfPos: p.curToken.Pos}
	p.nextToken()
	stmt.Condition = p.parseExpression(lowest)
	if stmt.Condition == nil {
		return nil
	}
	stmt.Conseq = p.parseBlockBody(token.End, token.Else)
	if stmt.Conseq == nil {
		return nil
	}
	if p.curToken.Type == token.Else {
		if p.peekToken.Type == token.If {
			p.nextToken()
			alt := p.parseIf()
			if alt == nil {
				return nil
			}
			stmt.Alt = alt
			stmt.IfSpan = token.Span{Start: stmt.IfPos, End: alt.Span().End}
			return stmt
		}
		alt := p.parseBlockBody(token.End)
		if alt == nil {
			return nil
		}
		stmt.Alt = alt
	}
	stmt.IfSpan = token.Span{Start: stmt.IfPos, End: p.curToken.Pos}
	if !p.expectEnd() {
		return nil
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	stmt := &ast.WhileStmt{WhilePos: p.curToken.Pos}
	p.nextToken()
	stmt.Condition = p.parseExpression(lowest)
	if stmt.Condition == nil {
		return nil
	}
	stmt.Body = p.parseBlockBody(token.End)
	if stmt.Body == nil {
		return nil
	}
	stmt.NodeSpan = token.Span{Start: stmt.WhilePos, End: p.curToken.Pos}
	if !p.expectEnd() {
		return nil
	}
	return stmt
}

func (p *Parser) parseBlockStmt() ast.Statement {
	start := p.curToken.Pos
	block := p.parseBlockBody(token.End)
	if block == nil {
		return nil
	}
	block.Start = start
	block.BlockSpan = token.Span{Start: start, End: p.curToken.Pos}
	if !p.expectEnd() {
		return nil
	}
	return block
}

// parseBlockBody consumes the mandatory newline after a block header and the
// statements that follow, stopping with curToken on one of the terminators.
func (p *Parser) parseBlockBody(terminators ...token.Type) *ast.BlockStmt {
	if !p.expectPeek(token.Newline) {
		return nil
	}
	block := &ast.BlockStmt{Start: p.curToken.Pos}
	p.nextToken()
	for !p.curIsAny(terminators) {
		if p.curToken.Type == token.EOF {
			p.errorf(p.curToken.Pos, "expected end of block before end of input")
			return nil
		}
		block.Statements = append(block.Statements, p.declaration())
		p.skipNewlines()
	}
	block.BlockSpan = token.Span{Start: block.Start, End: p.curToken.Pos}
	return block
}

func (p *Parser) parseReturn() ast.Statement {
	ret := &ast.ReturnStmt{Return: p.curToken.Pos}
	if !p.isEndOfStatement(p.peekToken.Type) {
		p.nextToken()
		ret.Value = p.parseExpression(lowest)
		if ret.Value == nil {
			return nil
		}
	}
	ret.StmtSpan = token.Span{Start: ret.Return, End: p.curToken.Pos}
	if !p.endStatement() {
		return nil
	}
	return ret
}

func (p *Parser) parseInclude() ast.Statement {
	stmt := &ast.IncludeStmt{IncludePos: p.curToken.Pos}
	for {
		p.nextToken()
		file := p.parseExpression(lowest)
		if file == nil {
			return nil
		}
		stmt.Files = append(stmt.Files, file)
		if p.peekToken.Type != token.Comma {
			break
		}
		p.nextToken()
	}
	stmt.NodeSpan = token.Span{Start: stmt.IncludePos, End: p.curToken.Pos}
	if !p.endStatement() {
		return nil
	}
	return stmt
}

func (p *Parser) parseDelete() ast.Statement {
	stmt := &ast.DeleteStmt{DeletePos: p.curToken.Pos}
	if !p.expectPeek(token.Ident) {
		return nil
	}
	stmt.Name = p.curToken.Literal
	stmt.NodeSpan = token.Span{Start: stmt.DeletePos, End: p.curToken.Pos}
	if !p.endStatement() {
		return nil
	}
	return stmt
}

func (p *Parser) parseExprStatement() ast.Statement {
	stmt := &ast.ExprStmt{Start: p.curToken.Pos}
	stmt.Expression = p.parseExpression(lowest)
	if stmt.Expression == nil {
		return nil
	}
	stmt.StmtSpan = token.Span{Start: stmt.Start, End: stmt.Expression.Span().End}
	if !p.endStatement() {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		p.nextToken()
		switch p.curToken.Type {
		case token.Assign:
			left = p.parseAssignExpression(left)
		case token.LParen:
			left = p.parseCallExpression(left)
		case token.Dot:
			left = p.parseGetExpression(left)
		default:
			left = p.parseInfixExpression(left)
		}
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	tok := p.curToken
	sp := token.Span{Start: tok.Pos, End: tok.Pos}
	switch tok.Type {
	case token.Ident:
		return &ast.Variable{Name: tok.Literal, PosT: tok.Pos, Sp: sp}
	case token.Number:
		n, _ := tok.Value.(float64)
		return &ast.NumberLiteral{Value: n, Raw: tok.Literal, PosT: tok.Pos, Sp: sp}
	case token.String:
		s, _ := tok.Value.(string)
		return &ast.StringLiteral{Value: s, PosT: tok.Pos, Sp: sp}
	case token.True, token.False:
		return &ast.BoolLiteral{Value: tok.Type == token.True, PosT: tok.Pos, Sp: sp}
	case token.None:
		return &ast.NoneLiteral{PosT: tok.Pos, Sp: sp}
	case token.LParen:
		p.nextToken()
		inner := p.parseExpression(lowest)
		if inner == nil {
			return nil
		}
		if !p.expectPeek(token.RParen) {
			return nil
		}
		return &ast.GroupingExpr{Inner: inner, PosT: tok.Pos, Sp: token.Span{Start: tok.Pos, End: p.curToken.Pos}}
	case token.Minus, token.Bang:
		return p.parsePrefixExpression()
	default:
		p.errorf(tok.Pos, "expected expression, got %s", describe(tok))
		return nil
	}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.UnaryExpr{
		Operator: p.curToken.Type,
		PosT:     p.curToken.Pos,
	}
	p.nextToken()
	expr.Right = p.parseExpression(prefixPrecedence)
	if expr.Right == nil {
		return nil
	}
	expr.Sp = token.Span{Start: expr.PosT, End: expr.Right.Span().End}
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpr{
		Left:     left,
		Operator: p.curToken.Type,
		PosT:     p.curToken.Pos,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	expr.Sp = token.Span{Start: left.Span().Start, End: expr.Right.Span().End}
	return expr
}

// parseAssignExpression is right-associative and only accepts a variable or
// a property access as its target.
func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	pos := p.curToken.Pos
	p.nextToken()
	value := p.parseExpression(assignPrecedence - 1)
	if value == nil {
		return nil
	}
	sp := token.Span{Start: left.Span().Start, End: value.Span().End}
	switch target := left.(type) {
	case *ast.Variable:
		return &ast.AssignExpr{Name: target.Name, Value: value, PosT: pos, Sp: sp}
	case *ast.GetExpr:
		return &ast.SetExpr{Object: target.Object, Name: target.Name, Value: value, PosT: pos, Sp: sp}
	default:
		p.errorf(pos, "invalid assignment target")
		return nil
	}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	expr := &ast.CallExpr{
		Callee: callee,
		PosT:   p.curToken.Pos,
	}
	if p.peekToken.Type == token.RParen {
		p.nextToken()
	} else {
		for {
			p.nextToken()
			if len(expr.Arguments) >= maxParameters {
				p.errorf(p.curToken.Pos, "cannot have more than %d arguments", maxParameters)
				return nil
			}
			arg := p.parseExpression(lowest)
			if arg == nil {
				return nil
			}
			expr.Arguments = append(expr.Arguments, arg)
			if p.peekToken.Type != token.Comma {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek(token.RParen) {
			return nil
		}
	}
	expr.Sp = token.Span{Start: callee.Span().Start, End: p.curToken.Pos}
	return expr
}

func (p *Parser) parseGetExpression(left ast.Expression) ast.Expression {
	pos := p.curToken.Pos
	if !p.expectPeek(token.Ident) {
		return nil
	}
	return &ast.GetExpr{
		Object: left,
		Name:   p.curToken.Literal,
		PosT:   pos,
		Sp:     token.Span{Start: left.Span().Start, End: p.curToken.Pos},
	}
}

// expectPeek advances when the next token has type t and records an error otherwise.
func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekToken.Type == t {
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken.Pos, "expected %s, got %s", typeName(t), describe(p.peekToken))
	return false
}

// expectEnd consumes the `end` keyword under curToken plus its terminator.
func (p *Parser) expectEnd() bool {
	if p.curToken.Type != token.End {
		p.errorf(p.curToken.Pos, "expected end, got %s", describe(p.curToken))
		return false
	}
	return p.endStatement()
}

// endStatement checks that the statement ending at curToken is followed by a
// newline or the end of input, and moves past the terminator.
func (p *Parser) endStatement() bool {
	switch p.peekToken.Type {
	case token.Newline:
		p.nextToken()
		p.nextToken()
		return true
	case token.EOF:
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken.Pos, "expected newline after statement, got %s", describe(p.peekToken))
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return lowest
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return lowest
}

func (p *Parser) curIsAny(types []token.Type) bool {
	for _, t := range types {
		if p.curToken.Type == t {
			return true
		}
	}
	return false
}

func (p *Parser) skipNewlines() {
	for p.curToken.Type == token.Newline {
		p.nextToken()
	}
}

func (p *Parser) isEndOfStatement(t token.Type) bool {
	return t == token.Newline || t == token.EOF
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("%s: %s", pos, msg))
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.Newline:
		return "newline"
	case token.EOF:
		return "end of input"
	default:
		return fmt.Sprintf("%q", tok.Literal)
	}
}

func typeName(t token.Type) string {
	switch t {
	case token.Ident:
		return "identifier"
	case token.Newline:
		return "newline"
	case token.LParen:
		return "'('"
	case token.RParen:
		return "')'"
	default:
		return strings.ToLower(string(t))
	}
}

const (
	lowest = iota + 1
	assignPrecedence
	orPrecedence
	andPrecedence
	equalPrecedence
	lessGreaterPrecedence
	sumPrecedence
	productPrecedence
	powerPrecedence
	prefixPrecedence
	callPrecedence
)

var precedences = map[token.Type]int{
	token.Assign:       assignPrecedence,
	token.Or:           orPrecedence,
	token.And:          andPrecedence,
	token.Equal:        equalPrecedence,
	token.NotEqual:     equalPrecedence,
	token.Less:         lessGreaterPrecedence,
	token.LessEqual:    lessGreaterPrecedence,
	token.Greater:      lessGreaterPrecedence,
	token.GreaterEqual: lessGreaterPrecedence,
	token.Plus:         sumPrecedence,
	token.Minus:        sumPrecedence,
	token.Star:         productPrecedence,
	token.Slash:        productPrecedence,
	token.Percent:      productPrecedence,
	token.Caret:        powerPrecedence,
	token.LParen:       callPrecedence,
	token.Dot:          callPrecedence,
}
