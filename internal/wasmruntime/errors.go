// Package wasmruntime defines the runtime-trap error type and the sentinel
// reasons the interpreter panics with. Traps are modeled as panics recovered
// at the exported-function call boundary so the hot path of normal
// execution never pays an error-return check per instruction, mirroring how
// production Wasm interpreters treat traps as truly exceptional control
// transfer rather than a regular error value threaded through every step.
package wasmruntime

// Error is a Wasm trap reason, already formatted with the "wasm error: "
// prefix so wasmdebug.ErrorBuilder can tell a trap from an arbitrary
// recovered panic value and skip appending its "(recovered)" annotation,
// which only applies to non-trap panics.
type Error string

func (e Error) Error() string { return string(e) }

// Sentinel trap reasons, grounded on the condition each check in the
// interpreter guards against.
const (
	ErrRuntimeIntegerDivideByZero        Error = "wasm error: integer divide by zero"
	ErrRuntimeIntegerOverflow            Error = "wasm error: integer overflow"
	ErrRuntimeInvalidConversionToInteger Error = "wasm error: invalid conversion to integer"
	ErrRuntimeOutOfBoundsMemoryAccess    Error = "wasm error: out of bounds memory access"
	ErrRuntimeInvalidTableAccess         Error = "wasm error: out of bounds table access"
	ErrRuntimeInvalidArgument            Error = "wasm error: invalid argument"
	ErrRuntimeCallStackOverflow          Error = "wasm error: callstack overflow"
	ErrRuntimeIndirectCallTypeMismatch   Error = "wasm error: indirect call type mismatch"
	ErrRuntimeUnreachable                Error = "wasm error: unreachable"
	ErrRuntimeUninitializedElement       Error = "wasm error: uninitialized element"
)
