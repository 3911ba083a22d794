package interpreter

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/xirelogy/go-nova/internal/token"
)

var (
	// ErrStackOverflow is the cause of errors raised when the call depth limit is hit.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrUnparsed is the cause of errors raised for statements that failed to parse.
	ErrUnparsed = errors.New("statement failed to parse")
)

// FrameInfo locates one script frame at the time of an error.
type FrameInfo struct {
	Function string
	Source   string
	Line     int
	Column   int
}

func (f FrameInfo) String() string {
	loc := fmt.Sprintf("%s:%d", f.Source, f.Line)
	if f.Source == "" {
		loc = fmt.Sprintf("line %d", f.Line)
	}
	if f.Function == "" {
		return loc
	}
	return fmt.Sprintf("%s in %s", loc, f.Function)
}

// RuntimeError carries source and call stack information for script failures.
type RuntimeError struct {
	Message string
	Frame   FrameInfo
	Stack   []FrameInfo
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

// Trace renders the script call stack, innermost frame first.
func (e *RuntimeError) Trace() string {
	var sb strings.Builder
	for _, fr := range e.Stack {
		sb.WriteString("  at ")
		sb.WriteString(fr.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

type callFrame struct {
	function string
	site     token.Position
}

func (in *Interpreter) errorf(pos token.Position, format string, args ...any) error {
	return in.newRuntimeError(pos, fmt.Sprintf(format, args...), nil)
}

func (in *Interpreter) wrapf(pos token.Position, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return in.newRuntimeError(pos, fmt.Sprintf("%s: %v", msg, cause), cause)
}

// wrapError passes runtime errors and exit requests through and attaches
// the current location to anything else.
func (in *Interpreter) wrapError(pos token.Position, err error) error {
	if err == nil {
		return nil
	}
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return err
	}
	if isExit(err) {
		return err
	}
	return in.newRuntimeError(pos, err.Error(), err)
}

func (in *Interpreter) newRuntimeError(pos token.Position, msg string, cause error) *RuntimeError {
	frame := FrameInfo{
		Function: in.currentFunction(),
		Source:   pos.File,
		Line:     pos.Line,
		Column:   pos.Column,
	}
	return &RuntimeError{
		Message: msg,
		Frame:   frame,
		Stack:   in.stackTrace(frame),
		Cause:   cause,
	}
}

func (in *Interpreter) currentFunction() string {
	if len(in.frames) == 0 {
		return ""
	}
	return in.frames[len(in.frames)-1].function
}

func (in *Interpreter) stackTrace(current FrameInfo) []FrameInfo {
	trace := make([]FrameInfo, 0, len(in.frames)+1)
	trace = append(trace, current)
	for i := len(in.frames) - 1; i >= 0; i-- {
		caller := ""
		if i > 0 {
			caller = in.frames[i-1].function
		}
		site := in.frames[i].site
		trace = append(trace, FrameInfo{
			Function: caller,
			Source:   site.File,
			Line:     site.Line,
			Column:   site.Column,
		})
	}
	return trace
}
