package compression

import (
	"errors"
	"fmt"
	"sync"
)

/*
Oodle support. The Oodle decompressor is a proprietary native library; we
never ship or locate it. Callers load it from a path they supply and pass the
resulting *Oodle to the decoder as a Decompressor. OodleLZ_Decompress is
reentrant, but calls can be serialized with WithSerializedCalls for builds
that are not.
*/

////////////////////////////////////////////////////////////////////////////////

const (
	oodleDecompressSymbol = "OodleLZ_Decompress"

	oodleFuzzSafe    = 1
	oodleCheckCRC    = 0
	oodleVerbosity   = 0
	oodleThreadPhase = 3
)

// ErrOodleUnsupported is returned when native libraries cannot be loaded on
// the current platform.
var ErrOodleUnsupported = errors.New("oodle: native library loading unsupported on this platform")

// ErrOodleClosed is returned by Decompress after Close.
var ErrOodleClosed = errors.New("oodle: library closed")

// oodleLibrary is the platform-specific binding to OodleLZ_Decompress.
type oodleLibrary interface {
	decompress(dst, src []byte) int64
	close() error
}

type oodleConfig struct {
	serialize bool
}

// OodleOption configures LoadOodle.
type OodleOption func(*oodleConfig)

// WithSerializedCalls makes the loaded library accept one call at a time.
func WithSerializedCalls() OodleOption {
	return func(c *oodleConfig) {
		c.serialize = true
	}
}

// Oodle is a Decompressor backed by a natively loaded Oodle library.
type Oodle struct {
	lib       oodleLibrary
	serialize bool
	callMtx   *sync.Mutex
	lifeMtx   *sync.RWMutex
	closed    bool
}

// LoadOodle loads the Oodle shared library at path.
func LoadOodle(path string, opts ...OodleOption) (*Oodle, error) {
	conf := oodleConfig{}
	for _, opt := range opts {
		opt(&conf)
	}
	lib, err := openOodle(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load oodle from %s: %w", path, err)
	}
	return newOodle(lib, conf), nil
}

func newOodle(lib oodleLibrary, conf oodleConfig) *Oodle {
	return &Oodle{
		lib:       lib,
		serialize: conf.serialize,
		callMtx:   &sync.Mutex{},
		lifeMtx:   &sync.RWMutex{},
	}
}

// Decompress runs OodleLZ_Decompress over src. A native failure is reported
// as zero bytes written.
func (o *Oodle) Decompress(dst, src []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(src) == 0 {
		return 0, ErrEmptyInput
	}
	o.lifeMtx.RLock()
	defer o.lifeMtx.RUnlock()
	if o.closed {
		return 0, ErrOodleClosed
	}
	if o.serialize {
		o.callMtx.Lock()
		defer o.callMtx.Unlock()
	}
	n := o.lib.decompress(dst, src)
	if n < 0 {
		return 0, fmt.Errorf("oodle: native call returned %d", n)
	}
	if n > int64(len(dst)) {
		return len(dst), ErrOutputOverflow
	}
	return int(n), nil
}

// Close unloads the library. In-flight calls complete first.
func (o *Oodle) Close() error {
	o.lifeMtx.Lock()
	defer o.lifeMtx.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	if err := o.lib.close(); err != nil {
		return fmt.Errorf("failed to unload oodle: %w", err)
	}
	return nil
}
