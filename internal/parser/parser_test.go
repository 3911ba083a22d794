package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"github.com/xirelogy/go-nova/internal/ast"
	"github.com/xirelogy/go-nova/internal/lexer"
)

func parseSource(t *testing.T, input string) (*ast.Program, *Parser) {
	t.Helper()
	toks, err := lexer.Scan("test.nv", input)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	p := New(toks)
	return p.ParseProgram(), p
}

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, p := parseSource(t, input)
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors: %v", p.Errors())
	}
	return prog
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1+2/3", "(+ 1 (/ 2 3))"},
		{"(1+1)*(5-3)", "(* (group (+ 1 1)) (group (- 5 3)))"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"2 ^ 3 ^ 2", "(^ (^ 2 3) 2)"},
		{"-a * b", "(* (- a) b)"},
		{"!done or a < b and b <= c", "(or (! done) (and (< a b) (<= b c)))"},
		{"a == b != c", "(!= (== a b) c)"},
		{"a && b || c", "(or (and a b) c)"},
		{"x % 2 + 1", "(+ (% x 2) 1)"},
		{"a.b.c(1, 2)", "(call (. (. a b) c) 1 2)"},
		{"a = b = 3", "(= a (= b 3))"},
		{"p.x = 1 + 2", "(.= p x (+ 1 2))"},
		{`"a" + 2.5E2`, `(+ "a" 250)`},
		{"f()()", "(call (call f))"},
	}

	for _, tt := range tests {
		prog := mustParse(t, tt.input)
		if len(prog.Statements) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", tt.input, len(prog.Statements))
		}
		if got := ast.String(prog.Statements[0]); got != tt.expected {
			t.Fatalf("%q: expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestParseStatements(t *testing.T) {
	input := `let a
let b = 2
c := b * 3
# comment line

delete a
return
return c
include "lib.nv", "other.nv"
`
	prog := mustParse(t, input)
	var got []string
	for _, s := range prog.Statements {
		got = append(got, ast.String(s))
	}
	expected := []string{
		"(let a)",
		"(let b 2)",
		"(let c (* b 3))",
		"(delete a)",
		"(return)",
		"(return c)",
		`(include "lib.nv" "other.nv")`,
	}
	if diff := pretty.Diff(expected, got); len(diff) != 0 {
		t.Fatalf("statement mismatch: %v", diff)
	}
}

func TestParseFunctionDecl(t *testing.T) {
	input := `fn f(x)
  return x + 1
end
f(5)`
	prog := mustParse(t, input)
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	fn, ok := prog.Statements[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", prog.Statements[0])
	}
	if fn.Name != "f" || len(fn.Params) != 1 || fn.Params[0].Name != "x" {
		t.Fatalf("unexpected declaration %s", ast.String(fn))
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Statements))
	}
	if fn.Pos().Line != 1 || fn.Pos().File != "test.nv" {
		t.Fatalf("unexpected position %s", fn.Pos())
	}
	call := prog.Statements[1].(*ast.ExprStmt)
	if call.Pos().Line != 4 {
		t.Fatalf("expected call on line 4, got %d", call.Pos().Line)
	}
}

func TestParseIfElse(t *testing.T) {
	input := `if a < 1
  x = 1
else if a < 2
  x = 2
else
  x = 3
end
while x > 0
  x = x - 1
end
block
  let y = x
end`
	prog := mustParse(t, input)
	if len(prog.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Statements))
	}
	ifStmt, ok := prog.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", prog.Statements[0])
	}
	chained, ok := ifStmt.Alt.(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected chained IfStmt, got %T", ifStmt.Alt)
	}
	if _, ok := chained.Alt.(*ast.BlockStmt); !ok {
		t.Fatalf("expected else block, got %T", chained.Alt)
	}
	if _, ok := prog.Statements[1].(*ast.WhileStmt); !ok {
		t.Fatalf("expected WhileStmt, got %T", prog.Statements[1])
	}
	if _, ok := prog.Statements[2].(*ast.BlockStmt); !ok {
		t.Fatalf("expected BlockStmt, got %T", prog.Statements[2])
	}
}

func TestParseClass(t *testing.T) {
	input := `class A
  fn init(v)
    self.v = v
  end

  fn get()
    return self.v
  end
end
class B : A
end`
	prog := mustParse(t, input)
	a, ok := prog.Statements[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected ClassDecl, got %T", prog.Statements[0])
	}
	if a.Name != "A" || a.Superclass != nil || len(a.Methods) != 2 {
		t.Fatalf("unexpected class %s", ast.String(a))
	}
	if a.Methods[0].Name != "init" || a.Methods[1].Name != "get" {
		t.Fatalf("unexpected methods %s", ast.String(a))
	}
	b := prog.Statements[1].(*ast.ClassDecl)
	if b.Superclass == nil || b.Superclass.Name != "A" {
		t.Fatalf("expected superclass A, got %s", ast.String(b))
	}
}

func TestParseParameterLimits(t *testing.T) {
	params := make([]string, 9)
	for i := range params {
		params[i] = fmt.Sprintf("p%d", i)
	}
	eight := strings.Join(params[:8], ", ")
	nine := strings.Join(params, ", ")

	tests := []struct {
		input string
		err   string
	}{
		{"fn f(" + eight + ")\nend", ""},
		{"fn f(" + nine + ")\nend", "more than 8 parameters"},
		{"f(" + eight + ")", ""},
		{"f(" + nine + ")", "more than 8 arguments"},
	}
	for _, tt := range tests {
		_, p := parseSource(t, tt.input)
		if tt.err == "" {
			if len(p.Errors()) != 0 {
				t.Fatalf("%q: unexpected errors %v", tt.input, p.Errors())
			}
			continue
		}
		if len(p.Errors()) == 0 || !strings.Contains(p.Errors()[0], tt.err) {
			t.Fatalf("%q: expected error containing %q, got %v", tt.input, tt.err, p.Errors())
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		err   string
	}{
		{"1 + 2 = 3", "invalid assignment target"},
		{"f() = 3", "invalid assignment target"},
		{"for x\nend", "for loops are not supported"},
		{"let = 3", "expected identifier"},
		{"x := ", "expected expression"},
		{"if x\n  y", "expected end of block"},
		{"fn f(a b)\nend", "expected ')'"},
		{"class A\n  let x = 1\nend", "expected method declaration"},
		{"a b", "expected newline after statement"},
		{"block end", "expected newline"},
	}
	for _, tt := range tests {
		_, p := parseSource(t, tt.input)
		if len(p.Errors()) == 0 {
			t.Fatalf("%q: expected error", tt.input)
		}
		if !strings.Contains(p.Errors()[0], tt.err) {
			t.Fatalf("%q: expected error containing %q, got %v", tt.input, tt.err, p.Errors())
		}
	}
}

func TestParseRecovery(t *testing.T) {
	input := `let a = 1
let b = (2 +
let c = 3
for x
print(c)`
	prog, p := parseSource(t, input)
	if p.Err() == nil {
		t.Fatalf("expected parse failure")
	}
	var perr *ParseError
	if !errors.As(p.Err(), &perr) || len(perr.Errors) != 2 {
		t.Fatalf("expected 2 aggregated errors, got %v", p.Err())
	}
	var got []string
	for _, s := range prog.Statements {
		got = append(got, ast.String(s))
	}
	expected := []string{
		"(let a 1)",
		"(bad)",
		"(let c 3)",
		"(bad)",
		"(call print c)",
	}
	if diff := pretty.Diff(expected, got); len(diff) != 0 {
		t.Fatalf("recovered statements mismatch: %v", diff)
	}
}

func TestParseRecoveryInsideBlock(t *testing.T) {
	input := `fn f()
  let = 1
  return 2
end
let after = f()`
	prog, p := parseSource(t, input)
	if len(p.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %v", p.Errors())
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	fn := prog.Statements[0].(*ast.FuncDecl)
	if _, ok := fn.Body.Statements[0].(*ast.BadStmt); !ok {
		t.Fatalf("expected BadStmt, got %T", fn.Body.Statements[0])
	}
	if _, ok := fn.Body.Statements[1].(*ast.ReturnStmt); !ok {
		t.Fatalf("expected ReturnStmt, got %T", fn.Body.Statements[1])
	}
}

func TestParseHelpers(t *testing.T) {
	prog, err := Parse("main.nv", "let x = 1\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.File != "main.nv" || len(prog.Statements) != 1 {
		t.Fatalf("unexpected program %#v", prog)
	}

	expr, err := ParseExpression("expr", "\n-(1 + 2) * 3\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ast.String(expr); got != "(* (- (group (+ 1 2))) 3)" {
		t.Fatalf("unexpected expression %s", got)
	}

	if _, err := ParseExpression("expr", "1 2"); err == nil {
		t.Fatalf("expected trailing token error")
	}

	_, err = Parse("bad.nv", "let x = \"open")
	var scanErr *lexer.ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("expected ScanError, got %v", err)
	}
}
