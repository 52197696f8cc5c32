package reader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

/*
StreamReader reads from an io.ReadSeeker. It is intended for the outer
container of a usmap file, where only the header is read in place and the
payload is either decompressed into memory or consumed strictly forward. The
total length is discovered once at construction by seeking to the end.
*/

////////////////////////////////////////////////////////////////////////////////

// StreamReader is a Reader over an io.ReadSeeker.
type StreamReader struct {
	rs     io.ReadSeeker
	pos    int64
	length int64
	buf    [8]byte
}

// NewStreamReader returns a new StreamReader positioned at the current offset
// of rs.
func NewStreamReader(rs io.ReadSeeker) (*StreamReader, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream position: %w", err)
	}
	length, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream length: %w", err)
	}
	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to restore stream position: %w", err)
	}
	return &StreamReader{rs: rs, pos: pos, length: length}, nil
}

func (r *StreamReader) fill(dst []byte) error {
	if int64(len(dst)) > r.Remaining() {
		return ShortReadError{Want: int64(len(dst)), Have: r.Remaining()}
	}
	n, err := io.ReadFull(r.rs, dst)
	r.pos += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ShortReadError{Want: int64(len(dst)), Have: int64(n)}
		}
		return fmt.Errorf("stream read failure: %w", err)
	}
	return nil
}

func (r *StreamReader) Uint8() (uint8, error) {
	if err := r.fill(r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

func (r *StreamReader) Uint16() (uint16, error) {
	if err := r.fill(r.buf[:2]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.buf[:2]), nil
}

func (r *StreamReader) Uint32() (uint32, error) {
	if err := r.fill(r.buf[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.buf[:4]), nil
}

func (r *StreamReader) Uint64() (uint64, error) {
	if err := r.fill(r.buf[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(r.buf[:8]), nil
}

func (r *StreamReader) Int32() (int32, error) {
	x, err := r.Uint32()
	return int32(x), err
}

func (r *StreamReader) Int64() (int64, error) {
	x, err := r.Uint64()
	return int64(x), err
}

func (r *StreamReader) Bool() (bool, error) {
	x, err := r.Uint8()
	return x != 0, err
}

// Bytes reads n bytes into a newly allocated slice.
func (r *StreamReader) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	if int64(n) > r.Remaining() {
		return nil, ShortReadError{Want: int64(n), Have: r.Remaining()}
	}
	b := make([]byte, n)
	if err := r.fill(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *StreamReader) ReadFull(dst []byte) error {
	return r.fill(dst)
}

func (r *StreamReader) String(width int) (string, error) {
	n, err := readLength(r, width)
	if err != nil {
		return "", err
	}
	b, err := r.Bytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *StreamReader) Skip(n int64) error {
	if n < 0 {
		return ErrNegativeLength
	}
	if n > r.Remaining() {
		return ShortReadError{Want: n, Have: r.Remaining()}
	}
	if _, err := r.rs.Seek(n, io.SeekCurrent); err != nil {
		return fmt.Errorf("seek failure: %w", err)
	}
	r.pos += n
	return nil
}

func (r *StreamReader) Position() int64 {
	return r.pos
}

func (r *StreamReader) Len() int64 {
	return r.length
}

func (r *StreamReader) Remaining() int64 {
	return r.length - r.pos
}
