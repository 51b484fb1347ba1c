package wasm

import "fmt"

// MalformedModuleError is returned when the binary stream itself cannot be
// parsed: bad magic/version, truncated LEB128, an unknown section id, a
// section whose declared length doesn't match what was consumed, or any
// other failure detected before the module's structure is known well enough
// to validate.
type MalformedModuleError struct {
	Reason string
}

func (e *MalformedModuleError) Error() string {
	return fmt.Sprintf("malformed module: %s", e.Reason)
}

// NewMalformedModuleError builds a MalformedModuleError with a formatted reason.
func NewMalformedModuleError(format string, args ...interface{}) *MalformedModuleError {
	return &MalformedModuleError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidModuleError is returned when a structurally well-formed module
// fails validation: a type mismatch, an out-of-range index, an invalid
// constant expression, a duplicate export name, and so on.
type InvalidModuleError struct {
	Reason string
}

func (e *InvalidModuleError) Error() string {
	return fmt.Sprintf("invalid module: %s", e.Reason)
}

// NewInvalidModuleError builds an InvalidModuleError with a formatted reason.
func NewInvalidModuleError(format string, args ...interface{}) *InvalidModuleError {
	return &InvalidModuleError{Reason: fmt.Sprintf(format, args...)}
}
