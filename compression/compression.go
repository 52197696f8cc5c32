package compression

import (
	"errors"
	"fmt"
	"sync"
)

/*
Decompression backends for usmap payloads. Each backend implements
Decompressor, which decodes one complete compressed block into a caller
supplied buffer sized to the expected output. Backends report the number of
bytes they wrote; verifying that count against the expected size is the
caller's job, so a backend that stops early is not an error here.
*/

////////////////////////////////////////////////////////////////////////////////

// Method identifies the compression algorithm of a usmap payload. The values
// are wire constants.
type Method uint8

const (
	MethodNone Method = iota
	MethodOodle
	MethodBrotli
	MethodZstd

	methodCount
)

// String returns the human-readable name of a method.
func (m Method) String() string {
	switch m {
	case MethodNone:
		return "none"
	case MethodOodle:
		return "oodle"
	case MethodBrotli:
		return "brotli"
	case MethodZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// MarshalText renders the method by name.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	return m < methodCount
}

// ParseMethod parses a method from its string representation.
func ParseMethod(name string) (Method, error) {
	for m := MethodNone; m < methodCount; m++ {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown compression method: %q", name)
}

// Decompressor decodes a single compressed block.
type Decompressor interface {
	// Decompress decodes src into dst and returns the number of bytes
	// written. len(dst) is the expected decompressed size.
	Decompress(dst, src []byte) (int, error)
}

// ErrOutputOverflow is returned when a compressed stream decodes to more
// bytes than the destination holds.
var ErrOutputOverflow = errors.New("decompressed output exceeds expected size")

// ErrEmptyInput is returned when a nonempty output is requested from an
// empty compressed block.
var ErrEmptyInput = errors.New("empty compressed input")

type serialized struct {
	mtx *sync.Mutex
	d   Decompressor
}

// Serialize wraps d so that at most one Decompress call runs at a time. It is
// intended for backends that are not reentrant.
func Serialize(d Decompressor) Decompressor {
	return &serialized{mtx: &sync.Mutex{}, d: d}
}

func (s *serialized) Decompress(dst, src []byte) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.d.Decompress(dst, src)
}

// Func adapts an ordinary function to the Decompressor interface.
type Func func(dst, src []byte) (int, error)

func (f Func) Decompress(dst, src []byte) (int, error) {
	return f(dst, src)
}
