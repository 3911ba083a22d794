package builtins

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xirelogy/go-nova/internal/interpreter"
	"github.com/xirelogy/go-nova/internal/parser"
)

func run(t *testing.T, src string) (string, interpreter.Outcome, error) {
	t.Helper()
	prog, err := parser.Parse("builtins.nv", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var out bytes.Buffer
	in := interpreter.New(interpreter.WithOutput(&out))
	res, err := in.Interpret(prog)
	return out.String(), res, err
}

func TestBuiltinOutput(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{`print("a", 1, true)`, "a 1 true"},
		{`println()`, "\n"},
		{`println(none, 2.5)`, "none 2.5\n"},
		{`println(typeof(1), typeof("s"), typeof(none), typeof(println))`, "number string none function\n"},
		{"class P\nend\nprintln(typeof(P), typeof(P()))", "class P\n"},
		{`println(str(1) + str(2))`, "12\n"},
		{`println(num(" 4.5 ") * 2)`, "9\n"},
		{`println(len("héllo"))`, "5\n"},
		{`println(upper("abc"), lower("ÀB"), title("hello world"))`, "ABC àb Hello World\n"},
		{`println(sqrt(16), abs(-2), floor(1.7), ceil(1.2), round(2.5))`, "4 2 1 2 3\n"},
		{`println(pow(2, 10), min(3, 4), max(3, 4), ln(1), log10(1), exp(0))`, "1024 3 4 0 0 1\n"},
		{"let x = none\nprintln(defined(\"x\"), defined(\"y\"))", "true false\n"},
		{"class P\n  fn init()\n    self.a = 1\n  end\nend\nlet p = P()\nprintln(hasField(p, \"a\"), hasField(p, \"b\"), hasField(1, \"a\"))", "true false false\n"},
		{"class P\n  fn init()\n    self.a = 1\n  end\nend\nlet p = P()\nprintln(getField(p, \"a\", 0), getField(p, \"b\", 7))", "1 7\n"},
	}
	for _, tt := range tests {
		got, _, err := run(t, tt.src)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.src, err)
		}
		if got != tt.expected {
			t.Fatalf("%q: expected %q, got %q", tt.src, tt.expected, got)
		}
	}
}

func TestBuiltinClock(t *testing.T) {
	got, _, err := run(t, `let t = clock()
print(t > 1000000000)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "true" {
		t.Fatalf("expected true, got %q", got)
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		src string
		err string
	}{
		{`error("boom")`, "boom"},
		{`error(1)`, "error expects string"},
		{`num("abc")`, "cannot convert"},
		{`sqrt("x")`, "sqrt expects numbers"},
		{`len(1)`, "len expects a string"},
		{`upper(none)`, "upper expects a string"},
		{`exit(1, 2)`, "at most 1 argument"},
		{`typeof()`, "typeof expects 1 arguments, got 0"},
	}
	for _, tt := range tests {
		_, _, err := run(t, tt.src)
		if err == nil {
			t.Fatalf("%q: expected error", tt.src)
		}
		var rerr *interpreter.RuntimeError
		if !errors.As(err, &rerr) {
			t.Fatalf("%q: expected RuntimeError, got %T", tt.src, err)
		}
		if !strings.Contains(err.Error(), tt.err) {
			t.Fatalf("%q: expected error containing %q, got %v", tt.src, tt.err, err)
		}
		if rerr.Frame.Source != "builtins.nv" || rerr.Frame.Line != 1 {
			t.Fatalf("%q: unexpected location %+v", tt.src, rerr.Frame)
		}
	}
}

func TestBuiltinExit(t *testing.T) {
	got, res, err := run(t, `println("before")
fn stop()
  exit(3)
end
stop()
println("after")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != interpreter.Exit || res.Code != 3 {
		t.Fatalf("expected exit 3, got %+v", res)
	}
	if got != "before\n" {
		t.Fatalf("expected only output before exit, got %q", got)
	}
}
