package nova

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"

	_ "github.com/xirelogy/go-nova/internal/builtins"
	"github.com/xirelogy/go-nova/internal/bytecode"
	"github.com/xirelogy/go-nova/internal/compiler"
	"github.com/xirelogy/go-nova/internal/interpreter"
	"github.com/xirelogy/go-nova/internal/llvmgen"
	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/parser"
	"github.com/xirelogy/go-nova/internal/vm"
)

var (
	errorType = reflect.TypeOf((*error)(nil)).Elem()

	// ErrBusy is returned when a second run starts while one is in flight.
	ErrBusy = errors.New("interpreter is busy")
)

// Value is a script value handed across the embedding boundary.
type Value struct {
	v object.Value
}

// ArgError represents a typed argument validation error for host functions.
type ArgError struct {
	Name string
	Want string
	Got  string
}

func (e ArgError) Error() string {
	switch {
	case e.Name != "" && e.Want != "" && e.Got != "":
		return fmt.Sprintf("argument %q: want %s, got %s", e.Name, e.Want, e.Got)
	case e.Name != "" && e.Want != "":
		return fmt.Sprintf("argument %q: want %s", e.Name, e.Want)
	default:
		return "argument error"
	}
}

// Marshaler allows custom control over Go to script conversion.
type Marshaler interface {
	MarshalNova() (Value, error)
}

// Unmarshaler allows custom control over script to Go conversion in Unmarshal.
type Unmarshaler interface {
	UnmarshalNova(Value) error
}

// ValueKind mirrors the runtime kinds for convenient inspection.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueBool
	ValueNumber
	ValueString
	ValueFunction
	ValueClass
	ValueInstance
)

// FrameTrace describes a single frame in a runtime error.
type FrameTrace struct {
	Function string
	Source   string
	Line     int
	Column   int
}

// RuntimeError is a script failure from either execution engine.
type RuntimeError struct {
	Message string
	Frame   FrameTrace
	Stack   []FrameTrace
	Cause   error
}

func (e *RuntimeError) Error() string {
	locParts := []string{}
	if e.Frame.Source != "" {
		if e.Frame.Line > 0 {
			locParts = append(locParts, fmt.Sprintf("%s:%d", e.Frame.Source, e.Frame.Line))
		} else {
			locParts = append(locParts, e.Frame.Source)
		}
	} else if e.Frame.Line > 0 {
		locParts = append(locParts, fmt.Sprintf("line %d", e.Frame.Line))
	}
	if e.Frame.Function != "" {
		locParts = append(locParts, fmt.Sprintf("in %s", e.Frame.Function))
	}
	loc := strings.Join(locParts, " ")
	if loc != "" {
		return fmt.Sprintf("%s: %s", loc, e.Message)
	}
	return e.Message
}

// Unwrap exposes the original error, if any.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// Trace renders the call stack, innermost frame first.
func (e *RuntimeError) Trace() string {
	var sb strings.Builder
	for _, fr := range e.Stack {
		fmt.Fprintf(&sb, "  at %s:%d", fr.Source, fr.Line)
		if fr.Function != "" {
			fmt.Fprintf(&sb, " in %s", fr.Function)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ExitError reports a script that called exit from inside a host call.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("script exited with code %d", e.Code)
}

// TraceInfo describes one bytecode instruction dispatch.
type TraceInfo struct {
	Op     string
	Source string
	Line   int
	IP     int
	Depth  int
}

// TraceHook observes bytecode dispatch in EvalBytecode.
type TraceHook func(TraceInfo)

func convertRuntimeError(err error) error {
	if err == nil {
		return nil
	}
	var exit *object.ExitSignal
	if errors.As(err, &exit) {
		return &ExitError{Code: exit.Code}
	}
	var ierr *interpreter.RuntimeError
	if errors.As(err, &ierr) {
		out := &RuntimeError{
			Message: ierr.Message,
			Frame:   frameTrace(ierr.Frame),
			Cause:   ierr.Cause,
		}
		for _, fr := range ierr.Stack {
			out.Stack = append(out.Stack, frameTrace(fr))
		}
		return out
	}
	var verr *vm.RuntimeError
	if errors.As(err, &verr) {
		return &RuntimeError{
			Message: verr.Message,
			Frame:   FrameTrace{Source: verr.Frame.Source, Line: verr.Frame.Line},
			Cause:   verr.Cause,
		}
	}
	return err
}

func frameTrace(info interpreter.FrameInfo) FrameTrace {
	return FrameTrace{
		Function: info.Function,
		Source:   info.Source,
		Line:     info.Line,
		Column:   info.Column,
	}
}

// HostArgs is a helper for typed extraction of host function arguments.
type HostArgs struct {
	values map[string]Value
}

// NewHostArgs wraps a raw argument map.
func NewHostArgs(args map[string]Value) HostArgs {
	return HostArgs{values: args}
}

// Value returns the raw argument or an ArgError if missing.
func (a HostArgs) Value(name string) (Value, error) {
	v, ok := a.values[name]
	if !ok {
		return Value{}, ArgError{Name: name, Want: "present"}
	}
	return v, nil
}

// Number extracts a numeric argument.
func (a HostArgs) Number(name string) (float64, error) {
	v, err := a.Value(name)
	if err != nil {
		return 0, err
	}
	n, ok := v.Number()
	if !ok {
		return 0, ArgError{Name: name, Want: "number", Got: v.TypeName()}
	}
	return n, nil
}

// String extracts a string argument.
func (a HostArgs) String(name string) (string, error) {
	v, err := a.Value(name)
	if err != nil {
		return "", err
	}
	s, ok := v.String()
	if !ok {
		return "", ArgError{Name: name, Want: "string", Got: v.TypeName()}
	}
	return s, nil
}

// Bool extracts a boolean argument.
func (a HostArgs) Bool(name string) (bool, error) {
	v, err := a.Value(name)
	if err != nil {
		return false, err
	}
	b, ok := v.Bool()
	if !ok {
		return false, ArgError{Name: name, Want: "bool", Got: v.TypeName()}
	}
	return b, nil
}

// NewValue marshals a Go value into a script value.
func NewValue(val any) (Value, error) {
	v, err := marshalGoValue(val)
	if err != nil {
		return Value{}, err
	}
	return Value{v: v}, nil
}

// MustValue is like NewValue but panics on error.
func MustValue(val any) Value {
	v, err := NewValue(val)
	if err != nil {
		panic(err)
	}
	return v
}

// Raw converts the value into plain Go data: nil, bool, float64, string,
// or map[string]any for instances. Functions and classes cannot be
// converted.
func (v Value) Raw() (any, error) {
	return unmarshalToGo(v.v)
}

// MustRaw is like Raw but panics on error.
func (v Value) MustRaw() any {
	out, err := v.Raw()
	if err != nil {
		panic(err)
	}
	return out
}

func (v Value) Kind() ValueKind {
	switch v.v.Kind {
	case object.KindBool:
		return ValueBool
	case object.KindNumber:
		return ValueNumber
	case object.KindString:
		return ValueString
	case object.KindCallable:
		if _, ok := v.v.Call.(*object.Class); ok {
			return ValueClass
		}
		return ValueFunction
	case object.KindInstance:
		return ValueInstance
	default:
		return ValueNone
	}
}

// TypeName is the script-level type name, as typeof() would report it.
func (v Value) TypeName() string {
	return object.TypeName(v.v)
}

func (v Value) IsNone() bool {
	return v.v.Kind == object.KindNone
}

func (v Value) Bool() (bool, bool) {
	if v.v.Kind != object.KindBool {
		return false, false
	}
	return v.v.B, true
}

func (v Value) Number() (float64, bool) {
	if v.v.Kind != object.KindNumber {
		return 0, false
	}
	return v.v.Num, true
}

func (v Value) String() (string, bool) {
	if v.v.Kind != object.KindString {
		return "", false
	}
	return v.v.Str, true
}

// Text renders the value the way print does.
func (v Value) Text() string {
	return object.Text(v.v)
}

// Field returns an instance field; ok is false for non-instances and
// missing fields.
func (v Value) Field(name string) (Value, bool) {
	if v.v.Kind != object.KindInstance {
		return Value{}, false
	}
	ref, ok := v.v.Inst.Field(name)
	if !ok {
		return Value{}, false
	}
	return Value{v: ref.Get()}, true
}

// Context is the execution context provided to host functions.
type Context struct {
	rt object.Runtime
}

// Output is the writer print and println write to.
func (c *Context) Output() io.Writer {
	if c == nil || c.rt == nil {
		return io.Discard
	}
	return c.rt.Output()
}

// Call invokes a script function or class value from inside a host function.
func (c *Context) Call(fn Value, args ...Value) (Value, error) {
	if c == nil || c.rt == nil {
		return Value{}, errors.New("host context has no runtime")
	}
	refs := make([]*object.Ref, len(args))
	for i, a := range args {
		refs[i] = object.NewRef(a.v)
	}
	out, err := c.rt.Call(fn.v, refs)
	if err != nil {
		return Value{}, err
	}
	return Value{v: out.Get()}, nil
}

// FunctionHandler is the Go-side implementation of a script function.
// Arguments are provided by name after validation against the declared parameter list.
type FunctionHandler func(ctx *Context, args map[string]Value) (Value, error)

// Function describes a host-provided function, including its parameter list and handler.
type Function struct {
	Params  []string
	Handler FunctionHandler
}

// NewFunction creates a host function from a parameter list and handler.
func NewFunction(params []string, handler FunctionHandler) *Function {
	return &Function{
		Params:  params,
		Handler: handler,
	}
}

func (fn *Function) native(name string) *object.NativeCall {
	return object.NewNative(name, len(fn.Params), func(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
		if fn.Handler == nil {
			return nil, errors.New("nil function handler")
		}
		argMap := make(map[string]Value, len(fn.Params))
		for i, p := range fn.Params {
			argMap[p] = Value{v: args[i].Get()}
		}
		res, err := fn.Handler(&Context{rt: rt}, argMap)
		if err != nil {
			return nil, err
		}
		return object.NewRef(res.v), nil
	})
}

func functionFromFunc(name string, fn any) (*Function, error) {
	if fn == nil {
		return nil, errors.New("nil function")
	}
	rv := reflect.ValueOf(fn)
	rt := rv.Type()
	if rt.Kind() != reflect.Func {
		return nil, errors.Errorf("value of %s is not a function", name)
	}
	if rt.IsVariadic() {
		return nil, errors.Errorf("function %s is variadic", name)
	}
	if rt.NumOut() > 2 {
		return nil, errors.Errorf("function %s has too many return values (max 2)", name)
	}
	retValIndex := -1
	retErrIndex := -1
	switch rt.NumOut() {
	case 0:
	case 1:
		if rt.Out(0) == errorType {
			retErrIndex = 0
		} else {
			retValIndex = 0
		}
	case 2:
		if rt.Out(1) != errorType {
			return nil, errors.Errorf("function %s second return value must be error", name)
		}
		retValIndex = 0
		retErrIndex = 1
	}

	paramNames := make([]string, rt.NumIn())
	for i := range paramNames {
		paramNames[i] = fmt.Sprintf("arg%d", i)
	}

	handler := func(_ *Context, args map[string]Value) (Value, error) {
		inputs := make([]reflect.Value, rt.NumIn())
		for i := 0; i < rt.NumIn(); i++ {
			arg, ok := args[paramNames[i]]
			if !ok {
				return Value{}, ArgError{Name: paramNames[i], Want: "present"}
			}
			val, err := convertValue(arg.v, rt.In(i))
			if err != nil {
				return Value{}, errors.Wrapf(err, "argument %s", paramNames[i])
			}
			inputs[i] = val
		}
		results := rv.Call(inputs)
		if retErrIndex >= 0 && !results[retErrIndex].IsNil() {
			return Value{}, results[retErrIndex].Interface().(error)
		}
		if retValIndex >= 0 {
			return NewValue(results[retValIndex].Interface())
		}
		return Value{}, nil
	}

	return &Function{
		Params:  paramNames,
		Handler: handler,
	}, nil
}

// Result summarizes a completed script run.
type Result struct {
	Exited   bool
	ExitCode int
}

// Interpreter is the configurator/executor for nova scripts. Globals
// persist across runs; runs must not overlap.
type Interpreter struct {
	core  *interpreter.Interpreter
	cfg   Config
	fs    billy.Filesystem
	incl  billy.Filesystem
	trace TraceHook
	mu    sync.Mutex
	busy  bool
}

// NewInterpreter constructs an interpreter with DefaultConfig and every
// builtin installed.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		core: interpreter.New(),
		cfg:  DefaultConfig(),
	}
}

// ApplyConfig validates cfg and applies its limits. A non-empty
// IncludeRoot makes include statements read from the OS directory it names;
// RunFile keeps reading the entry script from the filesystem set with
// SetFilesystem.
func (i *Interpreter) ApplyConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	i.cfg = cfg
	i.core.SetMaxDepth(cfg.MaxCallDepth)
	i.incl = nil
	if cfg.IncludeRoot != "" {
		i.incl = osfs.New(cfg.IncludeRoot)
	}
	i.core.SetFilesystem(i.includeFilesystem())
	return nil
}

// Config returns the active configuration.
func (i *Interpreter) Config() Config { return i.cfg }

func (i *Interpreter) SetOutput(w io.Writer) { i.core.SetOutput(w) }

// SetFilesystem sets where RunFile reads scripts from. Includes read from
// it too unless the config names an IncludeRoot.
func (i *Interpreter) SetFilesystem(fs billy.Filesystem) {
	i.fs = fs
	i.core.SetFilesystem(i.includeFilesystem())
}

func (i *Interpreter) includeFilesystem() billy.Filesystem {
	if i.incl != nil {
		return i.incl
	}
	return i.fs
}

func (i *Interpreter) SetLogger(l *slog.Logger) { i.core.SetLogger(l) }

// SetTraceHook attaches a debug hook that observes bytecode dispatch.
func (i *Interpreter) SetTraceHook(h TraceHook) { i.trace = h }

// SetGlobalFunction binds a host function to a global name.
func (i *Interpreter) SetGlobalFunction(name string, fn *Function) error {
	if fn == nil {
		return errors.New("nil function")
	}
	i.core.Define(name, object.FromCallable(fn.native(name)))
	return nil
}

// RegisterFunc binds an ordinary Go function, converting arguments and
// results by reflection.
func (i *Interpreter) RegisterFunc(name string, fn any) error {
	f, err := functionFromFunc(name, fn)
	if err != nil {
		return err
	}
	return i.SetGlobalFunction(name, f)
}

// HasFunction reports whether a global callable exists with the given name.
func (i *Interpreter) HasFunction(name string) bool {
	ref, ok := i.core.Globals().Lookup(name)
	return ok && ref.Get().Kind == object.KindCallable
}

// Global returns the value bound to a global name.
func (i *Interpreter) Global(name string) (Value, bool) {
	ref, ok := i.core.Globals().Lookup(name)
	if !ok {
		return Value{}, false
	}
	return Value{v: ref.Get()}, true
}

func (i *Interpreter) acquire() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.busy {
		return ErrBusy
	}
	i.busy = true
	return nil
}

func (i *Interpreter) release() {
	i.mu.Lock()
	i.busy = false
	i.mu.Unlock()
}

// RunSource parses and runs src. The name is used in diagnostics and as
// the base for relative includes.
func (i *Interpreter) RunSource(name, src string) (Result, error) {
	prog, err := parser.Parse(name, src)
	if err != nil {
		return Result{}, err
	}
	if err := i.acquire(); err != nil {
		return Result{}, err
	}
	defer i.release()

	out, err := i.core.Interpret(prog)
	if err != nil {
		return Result{}, convertRuntimeError(err)
	}
	return Result{Exited: out.Kind == interpreter.Exit, ExitCode: out.Code}, nil
}

// RunFile reads path from the configured filesystem (the working directory
// when none is set) and runs it.
func (i *Interpreter) RunFile(path string) (Result, error) {
	fs := i.filesystem()
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return Result{}, errors.Wrapf(err, "read %s", path)
	}
	if i.incl == nil {
		i.core.MarkIncluded(path)
	}
	return i.RunSource(path, string(data))
}

func (i *Interpreter) filesystem() billy.Filesystem {
	if i.fs == nil {
		i.SetFilesystem(osfs.New("."))
	}
	return i.fs
}

// Eval evaluates a single expression in the global scope.
func (i *Interpreter) Eval(src string) (Value, error) {
	expr, err := parser.ParseExpression("eval", src)
	if err != nil {
		return Value{}, err
	}
	if err := i.acquire(); err != nil {
		return Value{}, err
	}
	defer i.release()

	v, err := i.core.Evaluate(expr)
	if err != nil {
		return Value{}, convertRuntimeError(err)
	}
	return Value{v: v}, nil
}

// CallFuture represents an in-flight call.
type CallFuture struct {
	ch <-chan CallResult
}

// CallResult is the outcome of a call.
type CallResult struct {
	Value Value
	Err   error
}

// Await waits for completion or context cancellation.
func (f CallFuture) Await(ctx context.Context) (Value, error) {
	select {
	case <-ctx.Done():
		return Value{}, ctx.Err()
	case res := <-f.ch:
		return res.Value, res.Err
	}
}

// CallAsync resolves a global function by name and calls it on a separate
// goroutine.
func (i *Interpreter) CallAsync(ctx context.Context, name string, args []Value) CallFuture {
	ch := make(chan CallResult, 1)
	if err := i.acquire(); err != nil {
		ch <- CallResult{Err: errors.Wrap(err, "concurrent CallAsync not allowed")}
		close(ch)
		return CallFuture{ch: ch}
	}

	go func() {
		defer close(ch)
		defer i.release()
		select {
		case <-ctx.Done():
			ch <- CallResult{Err: ctx.Err()}
			return
		default:
		}
		argVals := make([]object.Value, len(args))
		for n, a := range args {
			argVals[n] = a.v
		}
		res, err := i.core.CallGlobal(name, argVals)
		if err != nil {
			ch <- CallResult{Err: convertRuntimeError(err)}
			return
		}
		ch <- CallResult{Value: Value{v: res}}
	}()
	return CallFuture{ch: ch}
}

// Chunk is an arithmetic expression compiled to bytecode.
type Chunk struct {
	c *bytecode.Chunk
}

// CompileExpression compiles src with the arithmetic-only bytecode compiler.
func CompileExpression(name, src string) (*Chunk, error) {
	expr, err := parser.ParseExpression(name, src)
	if err != nil {
		return nil, err
	}
	c, err := compiler.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Chunk{c: c}, nil
}

// Disassemble writes a human-readable listing of the chunk.
func (c *Chunk) Disassemble(w io.Writer) error {
	return bytecode.NewDisassembler(w).DisassembleChunk(c.c.Source, c.c)
}

// EmitLLVM lowers the chunk to textual LLVM IR with a single function fn.
func (c *Chunk) EmitLLVM(fn string) (string, error) {
	m, err := llvmgen.Lower(fn, c.c)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// Run executes the chunk on a VM configured from cfg.
func (c *Chunk) Run(cfg Config, hook TraceHook) (Value, error) {
	machine := vm.New()
	machine.SetStackSize(cfg.StackSize)
	machine.SetInstructionLimit(cfg.InstructionLimit)
	if hook != nil {
		machine.SetTraceHook(func(info vm.TraceInfo) {
			hook(TraceInfo{
				Op:     info.Op.String(),
				Source: info.Source,
				Line:   info.Line,
				IP:     info.IP,
				Depth:  info.Depth,
			})
		})
	}
	v, err := machine.Run(c.c)
	if err != nil {
		return Value{}, convertRuntimeError(err)
	}
	return Value{v: v}, nil
}

// EvalBytecode compiles src and runs it on the VM with this interpreter's
// limits and trace hook.
func (i *Interpreter) EvalBytecode(src string) (Value, error) {
	c, err := CompileExpression("eval", src)
	if err != nil {
		return Value{}, err
	}
	return c.Run(i.cfg, i.trace)
}

func convertValue(src object.Value, targetType reflect.Type) (reflect.Value, error) {
	ptr := reflect.New(targetType)
	if err := assignValue(src, ptr.Elem()); err != nil {
		return reflect.Value{}, err
	}
	return ptr.Elem(), nil
}

func marshalGoValue(val any) (object.Value, error) {
	if m, ok := val.(Marshaler); ok {
		custom, err := m.MarshalNova()
		if err != nil {
			return object.Value{}, err
		}
		return custom.v, nil
	}
	switch v := val.(type) {
	case Value:
		return v.v, nil
	case nil:
		return object.None(), nil
	case bool:
		return object.Bool(v), nil
	case int:
		return object.Number(float64(v)), nil
	case int64:
		return object.Number(float64(v)), nil
	case float64:
		return object.Number(v), nil
	case string:
		return object.String(v), nil
	case *Function:
		return object.FromCallable(v.native("")), nil
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return object.None(), nil
		}
		return marshalGoValue(rv.Elem().Interface())
	case reflect.Bool:
		return object.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return object.Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return object.Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return object.Number(rv.Float()), nil
	case reflect.String:
		return object.String(rv.String()), nil
	}
	return object.Value{}, errors.Errorf("unsupported value type %T", val)
}

func unmarshalToGo(v object.Value) (any, error) {
	switch v.Kind {
	case object.KindNone:
		return nil, nil
	case object.KindBool:
		return v.B, nil
	case object.KindNumber:
		return v.Num, nil
	case object.KindString:
		return v.Str, nil
	case object.KindInstance:
		out := make(map[string]any)
		for _, name := range v.Inst.FieldNames() {
			ref, _ := v.Inst.Field(name)
			val, err := unmarshalToGo(ref.Get())
			if err != nil {
				return nil, errors.Wrapf(err, "field %s", name)
			}
			out[name] = val
		}
		return out, nil
	}
	return nil, errors.Errorf("cannot convert %s to a Go value", object.TypeName(v))
}

// Unmarshal stores val into the value pointed to by target.
func Unmarshal(val Value, target any) error {
	if u, ok := target.(Unmarshaler); ok {
		return u.UnmarshalNova(val)
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("unmarshal target must be a non-nil pointer")
	}
	return assignValue(val.v, rv.Elem())
}

func assignValue(src object.Value, dst reflect.Value) error {
	if dst.CanAddr() {
		if u, ok := dst.Addr().Interface().(Unmarshaler); ok {
			return u.UnmarshalNova(Value{v: src})
		}
	}
	if dst.Type() == reflect.TypeOf(Value{}) {
		dst.Set(reflect.ValueOf(Value{v: src}))
		return nil
	}

	switch dst.Kind() {
	case reflect.Interface:
		raw, err := unmarshalToGo(src)
		if err != nil {
			return err
		}
		if raw == nil {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		rv := reflect.ValueOf(raw)
		if !rv.Type().AssignableTo(dst.Type()) {
			return errors.Errorf("cannot assign %s to %s", object.TypeName(src), dst.Type())
		}
		dst.Set(rv)
		return nil
	case reflect.Pointer:
		if src.Kind == object.KindNone {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		ptr := reflect.New(dst.Type().Elem())
		if err := assignValue(src, ptr.Elem()); err != nil {
			return err
		}
		dst.Set(ptr)
		return nil
	case reflect.Bool:
		if src.Kind != object.KindBool {
			return ArgError{Want: "bool", Got: object.TypeName(src)}
		}
		dst.SetBool(src.B)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if src.Kind != object.KindNumber {
			return ArgError{Want: "number", Got: object.TypeName(src)}
		}
		dst.SetInt(int64(src.Num))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if src.Kind != object.KindNumber || src.Num < 0 {
			return ArgError{Want: "non-negative number", Got: object.TypeName(src)}
		}
		dst.SetUint(uint64(src.Num))
		return nil
	case reflect.Float32, reflect.Float64:
		if src.Kind != object.KindNumber {
			return ArgError{Want: "number", Got: object.TypeName(src)}
		}
		dst.SetFloat(src.Num)
		return nil
	case reflect.String:
		if src.Kind != object.KindString {
			return ArgError{Want: "string", Got: object.TypeName(src)}
		}
		dst.SetString(src.Str)
		return nil
	case reflect.Struct:
		if src.Kind != object.KindInstance {
			return ArgError{Want: "instance", Got: object.TypeName(src)}
		}
		rt := dst.Type()
		for n := 0; n < rt.NumField(); n++ {
			field := rt.Field(n)
			if field.PkgPath != "" {
				continue
			}
			name := field.Name
			if tag := field.Tag.Get("nova"); tag != "" {
				name = tag
			}
			ref, ok := src.Inst.Field(name)
			if !ok {
				continue
			}
			if err := assignValue(ref.Get(), dst.Field(n)); err != nil {
				return errors.Wrapf(err, "field %s", name)
			}
		}
		return nil
	}
	return errors.Errorf("unsupported target type %s", dst.Type())
}
