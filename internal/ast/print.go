package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xirelogy/go-nova/internal/token"
)

var operatorText = map[token.Type]string{
	token.Plus:         "+",
	token.Minus:        "-",
	token.Star:         "*",
	token.Slash:        "/",
	token.Caret:        "^",
	token.Percent:      "%",
	token.Bang:         "!",
	token.Equal:        "==",
	token.NotEqual:     "!=",
	token.Less:         "<",
	token.LessEqual:    "<=",
	token.Greater:      ">",
	token.GreaterEqual: ">=",
	token.And:          "and",
	token.Or:           "or",
}

// OperatorText returns the source spelling of an operator token type.
func OperatorText(t token.Type) string {
	if s, ok := operatorText[t]; ok {
		return s
	}
	return string(t)
}

// String renders a node as a parenthesized S-expression.
func String(n Node) string {
	var sb strings.Builder
	Fprint(&sb, n)
	return sb.String()
}

// Fprint writes the S-expression form of n to w, one statement per line.
func Fprint(w io.Writer, n Node) {
	p := &printer{w: w}
	p.node(n)
}

type printer struct {
	w     io.Writer
	depth int
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) line() {
	p.printf("\n%s", strings.Repeat("  ", p.depth))
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case nil:
		p.printf("<nil>")
	case *Program:
		for i, s := range n.Statements {
			if i > 0 {
				p.printf("\n")
			}
			p.node(s)
		}
	case *BlockStmt:
		if n == nil {
			p.printf("<nil>")
			return
		}
		p.printf("(block")
		p.stmts(n.Statements)
		p.printf(")")
	case *ExprStmt:
		p.node(n.Expression)
	case *ReturnStmt:
		if n.Value == nil {
			p.printf("(return)")
			return
		}
		p.printf("(return ")
		p.node(n.Value)
		p.printf(")")
	case *IfStmt:
		p.printf("(if ")
		p.node(n.Condition)
		p.depth++
		p.line()
		p.node(n.Conseq)
		if n.Alt != nil {
			p.line()
			p.node(n.Alt)
		}
		p.depth--
		p.printf(")")
	case *WhileStmt:
		p.printf("(while ")
		p.node(n.Condition)
		p.depth++
		p.line()
		p.node(n.Body)
		p.depth--
		p.printf(")")
	case *FuncDecl:
		names := make([]string, len(n.Params))
		for i, prm := range n.Params {
			names[i] = prm.Name
		}
		p.printf("(fn %s (%s)", n.Name, strings.Join(names, " "))
		if n.Body != nil {
			p.stmts(n.Body.Statements)
		}
		p.printf(")")
	case *LetStmt:
		if n.Value == nil {
			p.printf("(let %s)", n.Name)
			return
		}
		p.printf("(let %s ", n.Name)
		p.node(n.Value)
		p.printf(")")
	case *ClassDecl:
		p.printf("(class %s", n.Name)
		if n.Superclass != nil {
			p.printf(" : %s", n.Superclass.Name)
		}
		p.depth++
		for _, m := range n.Methods {
			p.line()
			p.node(m)
		}
		p.depth--
		p.printf(")")
	case *IncludeStmt:
		p.printf("(include")
		for _, f := range n.Files {
			p.printf(" ")
			p.node(f)
		}
		p.printf(")")
	case *DeleteStmt:
		p.printf("(delete %s)", n.Name)
	case *BadStmt:
		p.printf("(bad)")
	case *Variable:
		p.printf("%s", n.Name)
	case *NumberLiteral:
		p.printf("%s", strconv.FormatFloat(n.Value, 'f', -1, 64))
	case *StringLiteral:
		p.printf("%q", n.Value)
	case *BoolLiteral:
		p.printf("%t", n.Value)
	case *NoneLiteral:
		p.printf("none")
	case *GroupingExpr:
		p.printf("(group ")
		p.node(n.Inner)
		p.printf(")")
	case *GetExpr:
		p.printf("(. ")
		p.node(n.Object)
		p.printf(" %s)", n.Name)
	case *SetExpr:
		p.printf("(.= ")
		p.node(n.Object)
		p.printf(" %s ", n.Name)
		p.node(n.Value)
		p.printf(")")
	case *CallExpr:
		p.printf("(call ")
		p.node(n.Callee)
		for _, a := range n.Arguments {
			p.printf(" ")
			p.node(a)
		}
		p.printf(")")
	case *AssignExpr:
		p.printf("(= %s ", n.Name)
		p.node(n.Value)
		p.printf(")")
	case *BinaryExpr:
		p.printf("(%s ", OperatorText(n.Operator))
		p.node(n.Left)
		p.printf(" ")
		p.node(n.Right)
		p.printf(")")
	case *UnaryExpr:
		p.printf("(%s ", OperatorText(n.Operator))
		p.node(n.Right)
		p.printf(")")
	default:
		p.printf("<%T>", n)
	}
}

func (p *printer) stmts(list []Statement) {
	p.depth++
	for _, s := range list {
		p.line()
		p.node(s)
	}
	p.depth--
}
