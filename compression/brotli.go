package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// Brotli decompresses brotli streams. The stream must end exactly at the
// expected output size.
type Brotli struct{}

func (Brotli) Decompress(dst, src []byte) (int, error) {
	if len(src) == 0 && len(dst) > 0 {
		return 0, ErrEmptyInput
	}
	br := brotli.NewReader(bytes.NewReader(src))
	n, err := io.ReadFull(br, dst)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			// Stream ended early. The short count is reported to the
			// caller.
			return n, nil
		}
		return n, fmt.Errorf("brotli decompress: %w", err)
	}

	var probe [1]byte
	extra, err := io.ReadFull(br, probe[:])
	if extra > 0 {
		return n, ErrOutputOverflow
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("brotli decompress: %w", err)
	}
	return n, nil
}
