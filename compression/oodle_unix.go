//go:build darwin || freebsd || linux

package compression

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

type unixOodle struct {
	handle uintptr
	fn     func(
		comp *byte, compLen int64,
		raw *byte, rawLen int64,
		fuzzSafe, checkCRC, verbosity int32,
		decBufBase uintptr, decBufSize int64,
		callback, callbackData uintptr,
		decoderMemory uintptr, decoderMemorySize int64,
		threadPhase int32,
	) int64
}

func openOodle(path string) (oodleLibrary, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("dlopen: %w", err)
	}
	sym, err := purego.Dlsym(handle, oodleDecompressSymbol)
	if err != nil {
		_ = purego.Dlclose(handle)
		return nil, fmt.Errorf("missing symbol %s: %w", oodleDecompressSymbol, err)
	}
	lib := &unixOodle{handle: handle}
	purego.RegisterFunc(&lib.fn, sym)
	return lib, nil
}

func (l *unixOodle) decompress(dst, src []byte) int64 {
	return l.fn(
		unsafe.SliceData(src), int64(len(src)),
		unsafe.SliceData(dst), int64(len(dst)),
		oodleFuzzSafe, oodleCheckCRC, oodleVerbosity,
		0, 0,
		0, 0,
		0, 0,
		oodleThreadPhase,
	)
}

func (l *unixOodle) close() error {
	if err := purego.Dlclose(l.handle); err != nil {
		return fmt.Errorf("dlclose: %w", err)
	}
	return nil
}
