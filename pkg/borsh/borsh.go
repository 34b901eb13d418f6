// Package borsh implements the canonical little-endian binary encoding used for
// transaction sections, keys and signatures.
//
// Every value has exactly one encoding. Decoders built on Reader must call
// Finish so that trailing bytes are rejected.
package borsh

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

var (
	// ErrShortRead is returned when the input ends before a value is complete
	ErrShortRead = errors.New("unexpected end of input")

	// ErrTrailingBytes is returned by Finish when input remains after decoding
	ErrTrailingBytes = errors.New("trailing bytes after value")

	// ErrInvalidTag is returned for an unknown enum or option tag
	ErrInvalidTag = errors.New("invalid tag")
)

// Writer accumulates an encoding. The zero value is ready to use.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates an empty writer
func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) WriteU8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
		return
	}
	w.buf.WriteByte(0)
}

func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteFixed writes b without a length prefix
func (w *Writer) WriteFixed(b []byte) {
	w.buf.Write(b)
}

// WriteBytes writes a length-prefixed byte vector
func (w *Writer) WriteBytes(b []byte) {
	w.WriteLen(len(b))
	w.buf.Write(b)
}

func (w *Writer) WriteString(s string) {
	w.WriteBytes([]byte(s))
}

// WriteLen writes a collection length prefix
func (w *Writer) WriteLen(n int) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		panic(fmt.Sprintf("borsh: collection length %d does not fit in u32", n))
	}
	w.WriteU32(uint32(n))
}

// WriteOption writes the option tag and, if present, the value via fn
func (w *Writer) WriteOption(present bool, fn func(*Writer)) {
	w.WriteBool(present)
	if present {
		fn(w)
	}
}

// Bytes returns the encoding accumulated so far
func (w *Writer) Bytes() []byte {
	return bytes.Clone(w.buf.Bytes())
}

// Reader decodes values from a byte slice
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a reader over data. data is not copied.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, fmt.Errorf("need %d bytes at offset %d, have %d: %w", n, r.pos, r.Remaining(), ErrShortRead)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("bool byte %d: %w", v, ErrInvalidTag)
	}
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadFixed reads exactly n bytes and returns a copy
func (r *Reader) ReadFixed(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(b), nil
}

// ReadLen reads a collection length prefix. The length is checked against the
// remaining input assuming each element takes at least minElemSize bytes.
func (r *Reader) ReadLen(minElemSize int) (int, error) {
	n, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	if minElemSize > 0 && uint64(n)*uint64(minElemSize) > uint64(r.Remaining()) {
		return 0, fmt.Errorf("length %d exceeds remaining %d bytes: %w", n, r.Remaining(), ErrShortRead)
	}
	return int(n), nil
}

// ReadBytes reads a length-prefixed byte vector
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadLen(1)
	if err != nil {
		return nil, err
	}
	return r.ReadFixed(n)
}

func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("string is not valid utf-8")
	}
	return string(b), nil
}

// ReadOption reads the option tag. When it returns true the caller reads the value.
func (r *Reader) ReadOption() (bool, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	switch tag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("option tag %d: %w", tag, ErrInvalidTag)
	}
}

// Finish fails if any input is left unread
func (r *Reader) Finish() error {
	if n := r.Remaining(); n != 0 {
		return fmt.Errorf("%d bytes left: %w", n, ErrTrailingBytes)
	}
	return nil
}
