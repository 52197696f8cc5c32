package storage

import (
	"context"
	"errors"
	"io"
)

/*
Byte-source providers for usmap files. A provider resolves keys to seekable
readers; the decoder reads the container header in place and pulls the
payload from the same reader. Keys are slash-separated paths relative to the
provider root.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrObjectNotFound is returned when a key does not exist in the provider.
var ErrObjectNotFound = errors.New("object not found")

// Provider is a source of usmap files.
type Provider interface {
	// Get opens the object at key. The caller must close the result.
	Get(ctx context.Context, key string) (io.ReadSeekCloser, error)

	// List returns the keys under prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}
