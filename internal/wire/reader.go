// Package wire provides the little-endian primitives shared by the resource
// codecs: a position-tracked reader over an immutable byte buffer and a
// buffered writer. Readers report absolute offsets so framing errors point
// into the original input even inside length-prefixed sub-regions.
package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/mercurytools/actordef/errors"
)

// Reader decodes fixed-width little-endian values from a byte buffer while
// tracking the byte offset for error reporting. The buffer must not be
// mutated while the Reader is in use; returned byte slices alias it.
type Reader struct {
	data []byte
	pos  int
	base int
}

// NewReader creates a Reader over data, reporting offsets from zero.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the absolute byte offset of the next unread byte.
func (r *Reader) Offset() int {
	return r.base + r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) truncated(what string) error {
	return errors.FormatViolation(errors.PhaseDecode, r.base+r.pos,
		"unexpected end of input reading %s", what)
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, r.truncated("byte")
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes. The returned slice aliases the input.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, r.truncated("bytes")
	}
	buf := r.data[r.pos : r.pos+n]
	r.pos += n
	return buf, nil
}

// ReadBool reads a single byte that must be 0 or 1. Other values are a
// framing violation: tolerating them would break the byte-identity of a
// decode/encode round trip.
func (r *Reader) ReadBool() (bool, error) {
	at := r.base + r.pos
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	if b > 1 {
		return false, errors.FormatViolation(errors.PhaseDecode, at,
			"boolean byte 0x%02x, want 0 or 1", b)
	}
	return b == 1, nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadI32 reads a little-endian int32.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadF32 reads a little-endian IEEE 754 float32.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadCString reads bytes up to a 0x00 terminator and returns them as a
// string. The terminator is consumed but not included. Errors report the
// offset where the string starts.
func (r *Reader) ReadCString() (string, error) {
	start := r.base + r.pos
	i := bytes.IndexByte(r.data[r.pos:], 0)
	if i < 0 {
		return "", errors.FormatViolation(errors.PhaseDecode, start, "unterminated string")
	}
	s := r.data[r.pos : r.pos+i]
	if !utf8.Valid(s) {
		return "", errors.FormatViolation(errors.PhaseDecode, start, "invalid UTF-8 in string")
	}
	r.pos += i + 1
	return string(s), nil
}

// ReadCount reads a uint32 element count and bounds it against the
// remaining input, so hostile counts cannot drive huge allocations. Every
// element of every collection in the format occupies at least one byte.
func (r *Reader) ReadCount() (int, error) {
	at := r.base + r.pos
	n, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	if int64(n) > int64(r.Remaining()) {
		return 0, errors.FormatViolation(errors.PhaseDecode, at,
			"element count %d exceeds %d remaining bytes", n, r.Remaining())
	}
	return int(n), nil
}

// Sub consumes the next n bytes and returns a Reader bounded to them. The
// sub-reader reports offsets relative to the original buffer.
func (r *Reader) Sub(n int) (*Reader, error) {
	if n < 0 || r.Remaining() < n {
		return nil, r.truncated("length-prefixed region")
	}
	sub := &Reader{data: r.data[r.pos : r.pos+n], base: r.base + r.pos}
	r.pos += n
	return sub, nil
}
