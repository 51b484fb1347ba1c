// Package binary implements the WebAssembly binary format: decoding a
// module's byte stream into an internal/wasm.Module, section by section and
// instruction by instruction.
package binary

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"github.com/corewasm/corewasm/internal/leb128"
	"github.com/corewasm/corewasm/internal/wasm"
)

// Reader is a bounds-checked cursor over a module's raw bytes. It
// implements io.ByteReader so internal/leb128's reader-based Decode*
// functions can read varints directly off it without an intermediate
// bytes.Reader allocation.
type Reader struct {
	b   []byte
	pos int
}

// NewReader wraps b for sequential decoding starting at offset 0.
func NewReader(b []byte) *Reader {
	return &Reader{b: b}
}

// Pos returns the current byte offset.
func (r *Reader) Pos() int { return r.pos }

// Len returns the total number of bytes in the underlying slice.
func (r *Reader) Len() int { return len(r.b) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.b) - r.pos }

// ReadByte implements io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	c := r.b[r.pos]
	r.pos++
	return c, nil
}

// PeekByte returns the next byte without advancing, or false at EOF.
func (r *Reader) PeekByte() (byte, bool) {
	if r.pos >= len(r.b) {
		return 0, false
	}
	return r.b[r.pos], true
}

// ReadBytes reads exactly n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.b) {
		return nil, io.ErrUnexpectedEOF
	}
	out := r.b[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// U32 reads an unsigned 32-bit LEB128.
func (r *Reader) U32() (uint32, error) {
	v, _, err := leb128.DecodeUint32(r)
	return v, err
}

// U64 reads an unsigned 64-bit LEB128.
func (r *Reader) U64() (uint64, error) {
	v, _, err := leb128.DecodeUint64(r)
	return v, err
}

// I32 reads a signed 32-bit LEB128.
func (r *Reader) I32() (int32, error) {
	v, _, err := leb128.DecodeInt32(r)
	return v, err
}

// I64 reads a signed 64-bit LEB128.
func (r *Reader) I64() (int64, error) {
	v, _, err := leb128.DecodeInt64(r)
	return v, err
}

// I33AsI64 reads a signed 33-bit LEB128, the encoding width Wasm specifies
// for block type immediates, sign-extended into an int64.
func (r *Reader) I33AsI64() (int64, error) {
	v, _, err := leb128.DecodeInt33AsInt64(r)
	return v, err
}

// F32 reads 4 raw little-endian bytes as an IEEE-754 bit pattern.
func (r *Reader) F32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// F64 reads 8 raw little-endian bytes as an IEEE-754 bit pattern.
func (r *Reader) F64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Name reads a length-prefixed UTF-8 string, the encoding Wasm uses for
// import/export/function names and the custom "name" section's subsections.
// Per spec.md's Stream Reader contract, a non-UTF-8 payload is malformed.
func (r *Reader) Name() (string, error) {
	n, err := r.U32()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", malformed("invalid UTF-8 encoding")
	}
	return string(b), nil
}

// V128 reads 16 raw bytes, the encoding of a v128.const immediate.
func (r *Reader) V128() ([16]byte, error) {
	var v [16]byte
	b, err := r.ReadBytes(16)
	if err != nil {
		return v, err
	}
	copy(v[:], b)
	return v, nil
}

// F32Value decodes bits as a float32, for code outside this package that only
// has the raw bit pattern on hand (e.g. formatting a const instruction).
func F32Value(bits uint32) float32 { return math.Float32frombits(bits) }

// F64Value decodes bits as a float64.
func F64Value(bits uint64) float64 { return math.Float64frombits(bits) }

// malformed is a tiny adapter so this package can build a
// *wasm.MalformedModuleError without importing fmt at every call site.
func malformed(format string, args ...interface{}) error {
	return wasm.NewMalformedModuleError(format, args...)
}
