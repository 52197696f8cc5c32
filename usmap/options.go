package usmap

/*
Options for decoding.
*/

////////////////////////////////////////////////////////////////////////////////

import (
	"github.com/wkalt/usmap/compression"
	"github.com/wkalt/usmap/util/bufpool"
)

const (
	// DefaultMaxUncompressedSize is the default ceiling on the declared
	// uncompressed payload size.
	DefaultMaxUncompressedSize = 256 << 20

	// DefaultMaxDepth is the default limit on property type nesting.
	DefaultMaxDepth = 64
)

type config struct {
	retainNames         bool
	lossyNames          bool
	maxUncompressedSize int
	maxDepth            int
	pool                bufpool.Pool

	decompressors map[compression.Method]compression.Decompressor
}

// Option is a function that modifies the decoder configuration.
type Option func(*config)

func newConfig(opts ...Option) *config {
	conf := &config{
		retainNames:         true,
		maxUncompressedSize: DefaultMaxUncompressedSize,
		maxDepth:            DefaultMaxDepth,
		pool:                bufpool.Default,
		decompressors:       map[compression.Method]compression.Decompressor{},
	}
	for _, opt := range opts {
		opt(conf)
	}
	return conf
}

// WithOodle supplies the decompressor used for Oodle payloads. Without it,
// Oodle payloads fail with ErrMissingOodleCapability.
func WithOodle(d compression.Decompressor) Option {
	return WithDecompressor(compression.MethodOodle, d)
}

// WithDecompressor overrides the decompressor used for a method.
func WithDecompressor(method compression.Method, d compression.Decompressor) Option {
	return func(c *config) {
		c.decompressors[method] = d
	}
}

// WithRetainNames controls whether the raw name table is kept in the result.
// Names resolved into enums and schemas are populated either way.
func WithRetainNames(retain bool) Option {
	return func(c *config) {
		c.retainNames = retain
	}
}

// WithLossyNames replaces invalid UTF-8 in names with U+FFFD instead of
// failing the decode.
func WithLossyNames() Option {
	return func(c *config) {
		c.lossyNames = true
	}
}

// WithMaxUncompressedSize sets the largest uncompressed payload size, in
// bytes, that will be allocated for decompression.
func WithMaxUncompressedSize(size int) Option {
	return func(c *config) {
		c.maxUncompressedSize = size
	}
}

// WithMaxDepth sets the deepest permitted property type nesting.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// WithBufferPool sets the pool decompression scratch buffers are drawn from.
func WithBufferPool(pool bufpool.Pool) Option {
	return func(c *config) {
		c.pool = pool
	}
}

// decompressor returns the backend for a compressed method.
func (c *config) decompressor(method compression.Method) (compression.Decompressor, error) {
	if d, ok := c.decompressors[method]; ok && d != nil {
		return d, nil
	}
	switch method {
	case compression.MethodOodle:
		return nil, ErrMissingOodleCapability
	case compression.MethodBrotli:
		return compression.Brotli{}, nil
	case compression.MethodZstd:
		return compression.SharedZstd()
	default:
		return nil, UnsupportedCompressionError{Method: uint8(method)}
	}
}
