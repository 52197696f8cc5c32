package bufpool

import (
	"github.com/valyala/bytebufferpool"
)

/*
Scratch buffer pooling for decompression staging. Callers check a buffer out,
use it for the duration of one decode and return it with a deferred call so
that error paths give the buffer back as well.

The default pool is backed by bytebufferpool, which calibrates the size of
buffers it retains; a single hostile input that requests a very large buffer
does not keep that allocation alive indefinitely.
*/

////////////////////////////////////////////////////////////////////////////////

// Pool hands out byte slices of a requested length.
type Pool interface {
	// Checkout returns a slice of exactly size bytes. Contents are
	// unspecified.
	Checkout(size int) []byte

	// Return gives a slice obtained from Checkout back to the pool. The
	// caller must not use it afterwards.
	Return(buf []byte)
}

type bytePool struct {
	pool *bytebufferpool.Pool
}

// New returns a Pool backed by a fresh bytebufferpool.Pool.
func New() Pool {
	return &bytePool{pool: &bytebufferpool.Pool{}}
}

// Default is the process-wide pool used when no pool is configured.
var Default = New() // nolint:gochecknoglobals

func (p *bytePool) Checkout(size int) []byte {
	bb := p.pool.Get()
	if cap(bb.B) < size {
		bb.B = make([]byte, size)
	}
	return bb.B[:size]
}

func (p *bytePool) Return(buf []byte) {
	if buf == nil {
		return
	}
	p.pool.Put(&bytebufferpool.ByteBuffer{B: buf[:0]})
}

// Unpooled is a Pool that allocates on every checkout and discards returned
// buffers.
type Unpooled struct{}

func (Unpooled) Checkout(size int) []byte {
	return make([]byte, size)
}

func (Unpooled) Return([]byte) {}
