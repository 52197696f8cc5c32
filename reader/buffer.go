package reader

import (
	"encoding/binary"
)

// BufferReader is a Reader over a byte slice. The slice may be owned or
// borrowed; BufferReader never modifies it.
type BufferReader struct {
	data []byte
	pos  int
}

// NewBufferReader returns a new BufferReader over data.
func NewBufferReader(data []byte) *BufferReader {
	return &BufferReader{data: data}
}

// take returns the next n bytes and advances the cursor.
func (r *BufferReader) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	if len(r.data)-r.pos < n {
		return nil, ShortReadError{Want: int64(n), Have: int64(len(r.data) - r.pos)}
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *BufferReader) Uint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *BufferReader) Uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *BufferReader) Uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *BufferReader) Uint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *BufferReader) Int32() (int32, error) {
	x, err := r.Uint32()
	return int32(x), err
}

func (r *BufferReader) Int64() (int64, error) {
	x, err := r.Uint64()
	return int64(x), err
}

func (r *BufferReader) Bool() (bool, error) {
	x, err := r.Uint8()
	return x != 0, err
}

// Bytes returns the next n bytes without copying.
func (r *BufferReader) Bytes(n int) ([]byte, error) {
	return r.take(n)
}

func (r *BufferReader) ReadFull(dst []byte) error {
	b, err := r.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

func (r *BufferReader) String(width int) (string, error) {
	n, err := readLength(r, width)
	if err != nil {
		return "", err
	}
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *BufferReader) Skip(n int64) error {
	if n < 0 {
		return ErrNegativeLength
	}
	if r.Remaining() < n {
		return ShortReadError{Want: n, Have: r.Remaining()}
	}
	r.pos += int(n)
	return nil
}

func (r *BufferReader) Position() int64 {
	return int64(r.pos)
}

func (r *BufferReader) Len() int64 {
	return int64(len(r.data))
}

func (r *BufferReader) Remaining() int64 {
	return int64(len(r.data) - r.pos)
}

// Tail returns the unread portion of the buffer without advancing.
func (r *BufferReader) Tail() []byte {
	return r.data[r.pos:]
}

// readLength reads a string length prefix of the given width.
func readLength(r Reader, width int) (int, error) {
	switch width {
	case 1:
		n, err := r.Uint8()
		return int(n), err
	case 2:
		n, err := r.Uint16()
		return int(n), err
	default:
		return 0, ErrInvalidWidth
	}
}
