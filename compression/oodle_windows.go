//go:build windows

package compression

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

type windowsOodle struct {
	dll  *windows.DLL
	proc *windows.Proc
}

func openOodle(path string) (oodleLibrary, error) {
	dll, err := windows.LoadDLL(path)
	if err != nil {
		return nil, fmt.Errorf("LoadDLL: %w", err)
	}
	proc, err := dll.FindProc(oodleDecompressSymbol)
	if err != nil {
		_ = dll.Release()
		return nil, fmt.Errorf("missing symbol %s: %w", oodleDecompressSymbol, err)
	}
	return &windowsOodle{dll: dll, proc: proc}, nil
}

func (l *windowsOodle) decompress(dst, src []byte) int64 {
	r, _, _ := l.proc.Call(
		uintptr(unsafe.Pointer(unsafe.SliceData(src))), uintptr(len(src)),
		uintptr(unsafe.Pointer(unsafe.SliceData(dst))), uintptr(len(dst)),
		oodleFuzzSafe, oodleCheckCRC, oodleVerbosity,
		0, 0,
		0, 0,
		0, 0,
		oodleThreadPhase,
	)
	return int64(r)
}

func (l *windowsOodle) close() error {
	if err := l.dll.Release(); err != nil {
		return fmt.Errorf("FreeLibrary: %w", err)
	}
	return nil
}
