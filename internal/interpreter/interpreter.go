package interpreter

import (
	"io"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"

	"github.com/xirelogy/go-nova/internal/ast"
	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/runtime"
	"github.com/xirelogy/go-nova/internal/token"
)

// DefaultMaxDepth bounds nested script calls.
const DefaultMaxDepth = 512

type OutcomeKind int

const (
	Normal OutcomeKind = iota
	Return
	Exit
)

// Outcome is the control-flow result of executing a statement.
type Outcome struct {
	Kind  OutcomeKind
	Value object.Value
	Code  int
}

type Option func(*Interpreter)

func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithFilesystem sets where include statements read from.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(in *Interpreter) { in.fs = fs }
}

func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) {
		if l != nil {
			in.logger = l
		}
	}
}

func WithMaxDepth(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxDepth = n
		}
	}
}

// Interpreter walks the AST against a chain of environments. It is not safe
// for concurrent use.
type Interpreter struct {
	globals  *object.Environment
	env      *object.Environment
	out      io.Writer
	fs       billy.Filesystem
	logger   *slog.Logger
	maxDepth int

	nextID   uint64
	frames   []callFrame
	site     token.Position
	file     string
	included map[string]bool
}

// New creates an interpreter whose global scope holds every registered builtin.
func New(opts ...Option) *Interpreter {
	globals := object.NewEnvironment(nil)
	in := &Interpreter{
		globals:  globals,
		env:      globals,
		out:      io.Discard,
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxDepth,
		included: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(in)
	}
	for _, spec := range runtime.All() {
		globals.Declare(spec.Name, object.NewRef(object.FromCallable(spec.Native())))
	}
	return in
}

func (in *Interpreter) Globals() *object.Environment { return in.globals }

// Define binds name in the global scope.
func (in *Interpreter) Define(name string, v object.Value) {
	in.globals.Declare(name, object.NewRef(v))
}

func (in *Interpreter) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	in.out = w
}

// SetFilesystem replaces the filesystem used by include.
func (in *Interpreter) SetFilesystem(fs billy.Filesystem) { in.fs = fs }

func (in *Interpreter) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	in.logger = l
}

// SetMaxDepth changes the call depth limit; n <= 0 restores the default.
func (in *Interpreter) SetMaxDepth(n int) {
	if n <= 0 {
		n = DefaultMaxDepth
	}
	in.maxDepth = n
}

// Output implements object.Runtime.
func (in *Interpreter) Output() io.Writer { return in.out }

// Lookup implements object.Runtime.
func (in *Interpreter) Lookup(name string) (*object.Ref, bool) {
	return in.env.Lookup(name)
}

// Call implements object.Runtime, letting natives call back into script code.
func (in *Interpreter) Call(callee object.Value, args []*object.Ref) (*object.Ref, error) {
	return in.call(callee, args, in.site)
}

// CallGlobal invokes the global function name with args.
func (in *Interpreter) CallGlobal(name string, args []object.Value) (object.Value, error) {
	ref, ok := in.globals.Lookup(name)
	if !ok {
		return object.None(), errors.Wrapf(object.ErrUndefined, "function '%s'", name)
	}
	refs := make([]*object.Ref, len(args))
	for i, a := range args {
		refs[i] = object.NewRef(a)
	}
	out, err := in.call(ref.Get(), refs, token.Position{File: in.file})
	if err != nil {
		return object.None(), err
	}
	return out.Get(), nil
}

// Interpret runs prog statement by statement. The first error aborts the
// remaining statements; an exit request ends the run with an Exit outcome.
func (in *Interpreter) Interpret(prog *ast.Program) (Outcome, error) {
	out, err := in.runProgram(prog)
	if err != nil {
		in.logger.Debug("interpretation aborted", "file", prog.File, "error", err)
	}
	return out, err
}

// Evaluate evaluates a single expression in the current scope.
func (in *Interpreter) Evaluate(expr ast.Expression) (object.Value, error) {
	ref, err := in.eval(expr)
	if err != nil {
		return object.None(), err
	}
	return ref.Get(), nil
}

func (in *Interpreter) runProgram(prog *ast.Program) (Outcome, error) {
	prevFile := in.file
	in.file = prog.File
	defer func() { in.file = prevFile }()

	for _, stmt := range prog.Statements {
		out, err := in.exec(stmt)
		if err != nil {
			return Outcome{}, err
		}
		switch out.Kind {
		case Return:
			return Outcome{}, in.errorf(stmt.Pos(), "cannot return from top-level code")
		case Exit:
			in.logger.Debug("exit requested", "file", prog.File, "code", out.Code)
			return out, nil
		}
	}
	return Outcome{Kind: Normal}, nil
}

func isExit(err error) bool {
	var exit *object.ExitSignal
	return errors.As(err, &exit)
}

// settle turns an exit request raised inside an expression into an Exit outcome.
func settle(err error) (Outcome, error) {
	var exit *object.ExitSignal
	if errors.As(err, &exit) {
		return Outcome{Kind: Exit, Code: exit.Code}, nil
	}
	return Outcome{}, err
}
