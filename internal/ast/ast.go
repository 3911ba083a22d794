package ast

import "github.com/xirelogy/go-nova/internal/token"

// Node represents any AST node.
type Node interface {
	Pos() token.Position
	Span() token.Span
}

// Statement is an executable node.
type Statement interface {
	Node
	stmtNode()
}

// Expression produces a value.
type Expression interface {
	Node
	exprNode()
}

// Program is the root node.
type Program struct {
	File       string
	Statements []Statement
	NodeSpan   token.Span
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) == 0 {
		return token.Position{File: p.File}
	}
	return p.Statements[0].Pos()
}
func (p *Program) Span() token.Span { return p.NodeSpan }

// Statements

type BlockStmt struct {
	Start      token.Position
	Statements []Statement
	BlockSpan  token.Span
}

func (b *BlockStmt) Pos() token.Position { return b.Start }
func (b *BlockStmt) Span() token.Span    { return b.BlockSpan }
func (b *BlockStmt) stmtNode()           {}

type ExprStmt struct {
	Expression Expression
	Start      token.Position
	StmtSpan   token.Span
}

func (e *ExprStmt) Pos() token.Position { return e.Start }
func (e *ExprStmt) Span() token.Span    { return e.StmtSpan }
func (e *ExprStmt) stmtNode()           {}

type ReturnStmt struct {
	Return   token.Position
	Value    Expression // nil for a bare return
	StmtSpan token.Span
}

func (r *ReturnStmt) Pos() token.Position { return r.Return }
func (r *ReturnStmt) Span() token.Span    { return r.StmtSpan }
func (r *ReturnStmt) stmtNode()           {}

// IfStmt holds an optional Alt that is either a *BlockStmt or a chained *IfStmt.
type IfStmt struct {
	IfPos     token.Position
	Condition Expression
	Conseq    *BlockStmt
	Alt       Statement
	IfSpan    token.Span
}

func (i *IfStmt) Pos() token.Position { return i.IfPos }
func (i *IfStmt) Span() token.Span    { return i.IfSpan }
func (i *IfStmt) stmtNode()           {}

type WhileStmt struct {
	WhilePos  token.Position
	Condition Expression
	Body      *BlockStmt
	NodeSpan  token.Span
}

func (w *WhileStmt) Pos() token.Position { return w.WhilePos }
func (w *WhileStmt) Span() token.Span    { return w.NodeSpan }
func (w *WhileStmt) stmtNode()           {}

type FuncDecl struct {
	FuncPos  token.Position
	Name     string
	NamePos  token.Position
	Params   []Param
	Body     *BlockStmt
	NodeSpan token.Span
}

func (f *FuncDecl) Pos() token.Position { return f.FuncPos }
func (f *FuncDecl) Span() token.Span    { return f.NodeSpan }
func (f *FuncDecl) stmtNode()           {}

// LetStmt declares a variable in the current scope. Value is nil when the
// declaration has no initializer.
type LetStmt struct {
	LetPos   token.Position
	Name     string
	NamePos  token.Position
	Value    Expression
	NodeSpan token.Span
}

func (l *LetStmt) Pos() token.Position { return l.LetPos }
func (l *LetStmt) Span() token.Span    { return l.NodeSpan }
func (l *LetStmt) stmtNode()           {}

type ClassDecl struct {
	ClassPos   token.Position
	Name       string
	Superclass *Variable
	Methods    []*FuncDecl
	NodeSpan   token.Span
}

func (c *ClassDecl) Pos() token.Position { return c.ClassPos }
func (c *ClassDecl) Span() token.Span    { return c.NodeSpan }
func (c *ClassDecl) stmtNode()           {}

type IncludeStmt struct {
	IncludePos token.Position
	Files      []Expression
	NodeSpan   token.Span
}

func (i *IncludeStmt) Pos() token.Position { return i.IncludePos }
func (i *IncludeStmt) Span() token.Span    { return i.NodeSpan }
func (i *IncludeStmt) stmtNode()           {}

type DeleteStmt struct {
	DeletePos token.Position
	Name      string
	NodeSpan  token.Span
}

func (d *DeleteStmt) Pos() token.Position { return d.DeletePos }
func (d *DeleteStmt) Span() token.Span    { return d.NodeSpan }
func (d *DeleteStmt) stmtNode()           {}

// BadStmt is a placeholder for a statement that failed to parse.
type BadStmt struct {
	From token.Position
	To   token.Position
}

func (b *BadStmt) Pos() token.Position { return b.From }
func (b *BadStmt) Span() token.Span    { return token.Span{Start: b.From, End: b.To} }
func (b *BadStmt) stmtNode()           {}

// Expressions

type Variable struct {
	Name string
	PosT token.Position
	Sp   token.Span
}

func (v *Variable) Pos() token.Position { return v.PosT }
func (v *Variable) Span() token.Span    { return v.Sp }
func (v *Variable) exprNode()           {}

type NumberLiteral struct {
	Value float64
	Raw   string
	PosT  token.Position
	Sp    token.Span
}

func (n *NumberLiteral) Pos() token.Position { return n.PosT }
func (n *NumberLiteral) Span() token.Span    { return n.Sp }
func (n *NumberLiteral) exprNode()           {}

type StringLiteral struct {
	Value string
	PosT  token.Position
	Sp    token.Span
}

func (s *StringLiteral) Pos() token.Position { return s.PosT }
func (s *StringLiteral) Span() token.Span    { return s.Sp }
func (s *StringLiteral) exprNode()           {}

type BoolLiteral struct {
	Value bool
	PosT  token.Position
	Sp    token.Span
}

func (b *BoolLiteral) Pos() token.Position { return b.PosT }
func (b *BoolLiteral) Span() token.Span    { return b.Sp }
func (b *BoolLiteral) exprNode()           {}

type NoneLiteral struct {
	PosT token.Position
	Sp   token.Span
}

func (n *NoneLiteral) Pos() token.Position { return n.PosT }
func (n *NoneLiteral) Span() token.Span    { return n.Sp }
func (n *NoneLiteral) exprNode()           {}

type GroupingExpr struct {
	Inner Expression
	PosT  token.Position
	Sp    token.Span
}

func (g *GroupingExpr) Pos() token.Position { return g.PosT }
func (g *GroupingExpr) Span() token.Span    { return g.Sp }
func (g *GroupingExpr) exprNode()           {}

// GetExpr reads a property: Object.Name.
type GetExpr struct {
	Object Expression
	Name   string
	PosT   token.Position
	Sp     token.Span
}

func (g *GetExpr) Pos() token.Position { return g.PosT }
func (g *GetExpr) Span() token.Span    { return g.Sp }
func (g *GetExpr) exprNode()           {}

// SetExpr writes a property: Object.Name = Value.
type SetExpr struct {
	Object Expression
	Name   string
	Value  Expression
	PosT   token.Position
	Sp     token.Span
}

func (s *SetExpr) Pos() token.Position { return s.PosT }
func (s *SetExpr) Span() token.Span    { return s.Sp }
func (s *SetExpr) exprNode()           {}

type CallExpr struct {
	Callee    Expression
	Arguments []Expression
	PosT      token.Position
	Sp        token.Span
}

func (c *CallExpr) Pos() token.Position { return c.PosT }
func (c *CallExpr) Span() token.Span    { return c.Sp }
func (c *CallExpr) exprNode()           {}

// AssignExpr rebinds an existing variable.
type AssignExpr struct {
	Name  string
	Value Expression
	PosT  token.Position
	Sp    token.Span
}

func (a *AssignExpr) Pos() token.Position { return a.PosT }
func (a *AssignExpr) Span() token.Span    { return a.Sp }
func (a *AssignExpr) exprNode()           {}

type BinaryExpr struct {
	Left     Expression
	Operator token.Type
	Right    Expression
	PosT     token.Position
	Sp       token.Span
}

func (b *BinaryExpr) Pos() token.Position { return b.PosT }
func (b *BinaryExpr) Span() token.Span    { return b.Sp }
func (b *BinaryExpr) exprNode()           {}

type UnaryExpr struct {
	Operator token.Type
	Right    Expression
	PosT     token.Position
	Sp       token.Span
}

func (u *UnaryExpr) Pos() token.Position { return u.PosT }
func (u *UnaryExpr) Span() token.Span    { return u.Sp }
func (u *UnaryExpr) exprNode()           {}

type Param struct {
	Name string
	Pos  token.Position
	Sp   token.Span
}
