// Package leb128 decodes and encodes the variable-length integer encoding
// used throughout the WebAssembly binary format.
//
// Two decoding families are provided: Load* operates on an in-memory byte
// slice (the hot path used by the module decoder, which already holds the
// whole section in memory) and Decode* operates on an io.Reader (used where
// the source is streamed one byte at a time). Both report the number of
// bytes consumed as a uint64, matching the bytecode offsets tracked
// elsewhere in the decoder.
package leb128

import (
	"fmt"
	"io"
)

const (
	maxVarintLen32 = 5
	maxVarintLen33 = 5
	maxVarintLen64 = 10
)

// LoadUint32 decodes an unsigned 32-bit LEB128 from the head of b.
func LoadUint32(b []byte) (v uint32, n uint64, err error) {
	var shift int
	for {
		if int(n) >= len(b) || n >= maxVarintLen32 {
			return 0, 0, fmt.Errorf("unexpected EOF decoding uint32")
		}
		c := b[n]
		n++
		if shift == 28 && c&0xf0 != 0 {
			return 0, 0, fmt.Errorf("overflows a 32-bit integer")
		}
		v |= uint32(c&0x7f) << shift
		if c&0x80 == 0 {
			return v, n, nil
		}
		shift += 7
	}
}

// LoadInt32 decodes a signed 32-bit LEB128 from the head of b.
func LoadInt32(b []byte) (v int32, n uint64, err error) {
	iv, n, err := loadSigned(b, 32)
	return int32(iv), n, err
}

// LoadInt64 decodes a signed 64-bit LEB128 from the head of b.
func LoadInt64(b []byte) (v int64, n uint64, err error) {
	return loadSigned(b, 64)
}

// LoadUint64 decodes an unsigned 64-bit LEB128 from the head of b.
func LoadUint64(b []byte) (v uint64, n uint64, err error) {
	var shift uint
	for {
		if int(n) >= len(b) || n >= maxVarintLen64 {
			return 0, 0, fmt.Errorf("unexpected EOF decoding uint64")
		}
		c := b[n]
		n++
		if shift == 63 && c > 1 {
			return 0, 0, fmt.Errorf("overflows a 64-bit integer")
		}
		v |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return v, n, nil
		}
		shift += 7
	}
}

// loadSigned implements the signed LEB128 contract shared by the 32 and
// 64-bit Load callers.
func loadSigned(b []byte, size uint) (v int64, n uint64, err error) {
	var shift uint
	var c byte
	max := uint64(maxVarintLen64)
	if size == 32 {
		max = maxVarintLen32
	}
	for {
		if int(n) >= len(b) || n >= max {
			return 0, 0, fmt.Errorf("unexpected EOF decoding signed integer")
		}
		c = b[n]
		n++
		v |= int64(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			break
		}
	}
	if shift < 64 && c&0x40 != 0 {
		v |= -1 << shift
	}
	if shift >= size {
		hi := v >> (size - 1)
		if hi != 0 && hi != -1 {
			return 0, 0, fmt.Errorf("overflows a %d-bit integer", size)
		}
	}
	return v, n, nil
}

// DecodeUint32 reads an unsigned 32-bit LEB128 one byte at a time from r.
func DecodeUint32(r io.ByteReader) (v uint32, n uint64, err error) {
	u64, n, err := decodeUnsignedReader(r, 32)
	return uint32(u64), n, err
}

// DecodeInt32 reads a signed 32-bit LEB128 one byte at a time from r.
func DecodeInt32(r io.ByteReader) (v int32, n uint64, err error) {
	iv, n, err := decodeSignedReader(r, 32)
	return int32(iv), n, err
}

// DecodeInt33AsInt64 reads a signed 33-bit LEB128 (used for block type
// immediates, which are signed 33-bit values) one byte at a time from r,
// sign-extended to int64.
func DecodeInt33AsInt64(r io.ByteReader) (v int64, n uint64, err error) {
	return decodeSignedReader(r, 33)
}

// DecodeInt64 reads a signed 64-bit LEB128 one byte at a time from r.
func DecodeInt64(r io.ByteReader) (v int64, n uint64, err error) {
	return decodeSignedReader(r, 64)
}

// DecodeUint64 reads an unsigned 64-bit LEB128 one byte at a time from r.
func DecodeUint64(r io.ByteReader) (v uint64, n uint64, err error) {
	return decodeUnsignedReader(r, 64)
}

func decodeUnsignedReader(r io.ByteReader, size uint) (v uint64, n uint64, err error) {
	var shift uint
	for {
		c, err := r.ReadByte()
		if err != nil {
			return 0, 0, fmt.Errorf("unexpected EOF decoding unsigned integer: %w", err)
		}
		n++
		if shift+7 >= size+7 && c&0x80 != 0 {
			return 0, 0, fmt.Errorf("overflows a %d-bit integer", size)
		}
		v |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return v, n, nil
		}
		shift += 7
	}
}

func decodeSignedReader(r io.ByteReader, size uint) (v int64, n uint64, err error) {
	var shift uint
	var c byte
	for {
		var rErr error
		c, rErr = r.ReadByte()
		if rErr != nil {
			return 0, 0, fmt.Errorf("unexpected EOF decoding signed integer: %w", rErr)
		}
		n++
		v |= int64(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			break
		}
	}
	if shift < 64 && c&0x40 != 0 {
		v |= -1 << shift
	}
	if shift >= size {
		hi := v >> (size - 1)
		if hi != 0 && hi != -1 {
			return 0, 0, fmt.Errorf("overflows a %d-bit integer", size)
		}
	}
	return v, n, nil
}

// EncodeInt32 encodes v as signed LEB128.
func EncodeInt32(v int32) []byte {
	return EncodeInt64(int64(v))
}

// EncodeUint32 encodes v as unsigned LEB128.
func EncodeUint32(v uint32) []byte {
	return EncodeUint64(uint64(v))
}

// EncodeInt64 encodes v as signed LEB128.
func EncodeInt64(v int64) (ret []byte) {
	for {
		c := uint8(v & 0x7f)
		v >>= 7
		signBitSet := c&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			ret = append(ret, c)
			return
		}
		ret = append(ret, c|0x80)
	}
}

// EncodeUint64 encodes v as unsigned LEB128.
func EncodeUint64(v uint64) (ret []byte) {
	for {
		c := uint8(v & 0x7f)
		v >>= 7
		if v == 0 {
			ret = append(ret, c)
			return
		}
		ret = append(ret, c|0x80)
	}
}
