package compiler

import (
	"fmt"

	"github.com/xirelogy/go-nova/internal/ast"
	"github.com/xirelogy/go-nova/internal/bytecode"
	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/token"
)

// Error reports an expression the bytecode backend cannot lower.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Compile lowers a pure arithmetic expression into a chunk ending in
// OP_RETURN. Variables, calls and logic are rejected.
func Compile(expr ast.Expression) (*bytecode.Chunk, error) {
	if expr == nil {
		return nil, &Error{Message: "nothing to compile"}
	}
	chunk, err := compileExpr(expr)
	if err != nil {
		return nil, err
	}
	chunk.Source = expr.Pos().File
	chunk.Write(bytecode.OP_RETURN, expr.Span().End.Line)
	return chunk, nil
}

// compileExpr returns a fresh chunk per node; binary operators concatenate
// the operand chunks, which renumbers the right operand's constants.
func compileExpr(expr ast.Expression) (*bytecode.Chunk, error) {
	line := expr.Pos().Line
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return constant(object.Number(e.Value), line)
	case *ast.StringLiteral:
		return constant(object.String(e.Value), line)
	case *ast.BoolLiteral:
		return constant(object.Bool(e.Value), line)
	case *ast.NoneLiteral:
		return constant(object.None(), line)
	case *ast.GroupingExpr:
		return compileExpr(e.Inner)

	case *ast.UnaryExpr:
		if e.Operator != token.Minus {
			return nil, unsupported(e, "operator '%s'", ast.OperatorText(e.Operator))
		}
		chunk, err := compileExpr(e.Right)
		if err != nil {
			return nil, err
		}
		chunk.Write(bytecode.OP_NEG, line)
		return chunk, nil

	case *ast.BinaryExpr:
		op, ok := binaryOps[e.Operator]
		if !ok {
			return nil, unsupported(e, "operator '%s'", ast.OperatorText(e.Operator))
		}
		left, err := compileExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := compileExpr(e.Right)
		if err != nil {
			return nil, err
		}
		if err := left.Append(right); err != nil {
			return nil, &Error{Pos: e.Pos(), Message: err.Error()}
		}
		left.Write(op, line)
		return left, nil

	case *ast.Variable, *ast.AssignExpr:
		return nil, unsupported(expr, "variables")
	case *ast.CallExpr:
		return nil, unsupported(expr, "calls")
	case *ast.GetExpr, *ast.SetExpr:
		return nil, unsupported(expr, "property access")
	default:
		return nil, unsupported(expr, "expression %T", expr)
	}
}

var binaryOps = map[token.Type]bytecode.OpCode{
	token.Plus:  bytecode.OP_ADD,
	token.Minus: bytecode.OP_SUB,
	token.Star:  bytecode.OP_MUL,
	token.Slash: bytecode.OP_DIV,
}

func constant(v object.Value, line int) (*bytecode.Chunk, error) {
	chunk := bytecode.NewChunk("")
	if err := chunk.AddConstant(v, line); err != nil {
		return nil, err
	}
	return chunk, nil
}

func unsupported(expr ast.Expression, format string, args ...any) error {
	return &Error{
		Pos:     expr.Pos(),
		Message: fmt.Sprintf(format, args...) + " not supported by the bytecode compiler",
	}
}
