package vm

import (
	"fmt"
	"strings"

	"github.com/xirelogy/go-nova/internal/bytecode"
	"github.com/xirelogy/go-nova/internal/object"
)

// TraceInfo describes a single instruction dispatch for debugging/tracing.
type TraceInfo struct {
	Op     bytecode.OpCode
	Source string
	Line   int
	IP     int
	Depth  int
}

// TraceHook observes instruction dispatch for debugging/profiling.
type TraceHook func(TraceInfo)

// FrameInfo captures the execution point at the time of an error.
type FrameInfo struct {
	Source string
	Line   int
	IP     int
}

// RuntimeError carries source information for VM failures.
type RuntimeError struct {
	Message string
	Frame   FrameInfo
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
	if e.Frame.IP >= 0 {
		locParts = append(locParts, fmt.Sprintf("at %04d", e.Frame.IP))
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

func (vm *VM) errorf(format string, args ...interface{}) (object.Value, error) {
	msg := fmt.Sprintf(format, args...)
	return object.None(), vm.newRuntimeError(msg, nil)
}

func (vm *VM) wrapError(err error) (object.Value, error) {
	if err == nil {
		return object.None(), nil
	}
	if _, ok := err.(*RuntimeError); !ok {
		err = vm.newRuntimeError(err.Error(), err)
	}
	return object.None(), err
}

func (vm *VM) newRuntimeError(msg string, cause error) *RuntimeError {
	return &RuntimeError{
		Message: msg,
		Frame:   vm.frameInfo(),
		Cause:   cause,
	}
}

func (vm *VM) trace(op bytecode.OpCode) {
	if vm.traceHook == nil {
		return
	}
	info := vm.frameInfo()
	vm.traceHook(TraceInfo{
		Op:     op,
		Source: info.Source,
		Line:   info.Line,
		IP:     info.IP,
		Depth:  vm.sp,
	})
}

func (vm *VM) frameInfo() FrameInfo {
	if vm.chunk == nil {
		return FrameInfo{IP: -1}
	}
	return FrameInfo{
		Source: vm.chunk.Source,
		Line:   vm.chunk.LineAt(vm.lastOp),
		IP:     vm.lastOp,
	}
}
