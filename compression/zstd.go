package compression

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// DefaultZstdMaxMemory bounds the memory the shared zstd decoder may allocate
// for a single frame.
const DefaultZstdMaxMemory = 1 << 30

// Zstd decompresses zstandard frames. A Zstd is safe for concurrent use.
type Zstd struct {
	dec *zstd.Decoder
}

// NewZstd returns a Zstd whose decoder refuses frames requiring more than
// maxMemory bytes.
func NewZstd(maxMemory uint64) (*Zstd, error) {
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(maxMemory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Zstd{dec: dec}, nil
}

var sharedZstd struct { // nolint:gochecknoglobals
	once sync.Once
	z    *Zstd
	err  error
}

// SharedZstd returns a process-wide Zstd, creating it on first use.
func SharedZstd() (*Zstd, error) {
	sharedZstd.once.Do(func() {
		sharedZstd.z, sharedZstd.err = NewZstd(DefaultZstdMaxMemory)
	})
	return sharedZstd.z, sharedZstd.err
}

func (z *Zstd) Decompress(dst, src []byte) (int, error) {
	if len(src) == 0 && len(dst) > 0 {
		return 0, ErrEmptyInput
	}
	out, err := z.dec.DecodeAll(src, dst[:0:len(dst)])
	if err != nil {
		return 0, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(out) > len(dst) {
		return len(dst), ErrOutputOverflow
	}
	return len(out), nil
}

// Close releases the decoder's resources.
func (z *Zstd) Close() {
	z.dec.Close()
}
