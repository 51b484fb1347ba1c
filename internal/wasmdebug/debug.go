// Package wasmdebug reconstructs a readable Wasm call-stack trace from a
// recovered panic, without requiring the interpreter to carry stack-trace
// bookkeeping on the hot path of every call.
package wasmdebug

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/corewasm/corewasm/api"
	"github.com/corewasm/corewasm/internal/wasmruntime"
)

// FuncName renders a function's debug name as "module.function", falling
// back to "$index" when the function has no name (common for functions that
// only ever appear in a name-less host module or a binary with no name
// section).
func FuncName(moduleName, funcName string, funcIdx uint32) string {
	name := funcName
	if name == "" {
		name = fmt.Sprintf("$%d", funcIdx)
	}
	return moduleName + "." + name
}

// signature appends a function's parameter and result types to name,
// rendered the way the Wasm text format would: "name(p1,p2)" with no result
// suffix, "name(p1,p2) r1" for a single result, "name(p1,p2) (r1,r2)" for
// more than one.
func signature(name string, paramTypes, resultTypes []api.ValueType) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, p := range paramTypes {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(api.ValueTypeName(p))
	}
	sb.WriteByte(')')
	switch len(resultTypes) {
	case 0:
	case 1:
		sb.WriteByte(' ')
		sb.WriteString(api.ValueTypeName(resultTypes[0]))
	default:
		sb.WriteString(" (")
		for i, r := range resultTypes {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(api.ValueTypeName(r))
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// ErrorBuilder accumulates call frames, innermost first, while a panic
// unwinds through the interpreter's call stack, then formats them into a
// single error once the panic reaches the boundary that recovers it.
type ErrorBuilder interface {
	// AddFrame records one call frame. Call in unwind order: the function
	// where the trap originated first, its caller next, and so on.
	AddFrame(name string, paramTypes, resultTypes []api.ValueType)

	// FromRecovered builds the final error from a value obtained via
	// recover(). The returned error's Unwrap() returns recovered itself
	// (or, when recovered isn't an error, a wrapped fmt error) so callers
	// can still errors.Is/As against known trap reasons.
	FromRecovered(recovered interface{}) error
}

type errorBuilder struct {
	frames []string
}

// NewErrorBuilder returns an empty ErrorBuilder.
func NewErrorBuilder() ErrorBuilder {
	return &errorBuilder{}
}

func (b *errorBuilder) AddFrame(name string, paramTypes, resultTypes []api.ValueType) {
	b.frames = append(b.frames, signature(name, paramTypes, resultTypes))
}

func (b *errorBuilder) FromRecovered(recovered interface{}) error {
	var cause error
	var message string
	switch v := recovered.(type) {
	case wasmruntime.Error:
		cause = v
		message = string(v)
	case runtime.Error:
		cause = v
		message = fmt.Sprintf("%s (recovered)", v.Error())
	case error:
		cause = v
		message = fmt.Sprintf("%s (recovered)", v.Error())
	default:
		cause = fmt.Errorf("%v", v)
		message = fmt.Sprintf("%v (recovered)", v)
	}

	var sb strings.Builder
	sb.WriteString(message)
	if len(b.frames) > 0 {
		sb.WriteString("\nwasm stack trace:")
		for _, f := range b.frames {
			sb.WriteString("\n\t")
			sb.WriteString(f)
		}
	}
	return &tracedError{msg: sb.String(), cause: cause}
}

type tracedError struct {
	msg   string
	cause error
}

func (e *tracedError) Error() string { return e.msg }
func (e *tracedError) Unwrap() error { return e.cause }
