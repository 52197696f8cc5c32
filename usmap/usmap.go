package usmap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/wkalt/usmap/reader"
	"github.com/wkalt/usmap/util/log"
)

/*
Package usmap decodes usmap files: versioned, optionally compressed containers
of reflected type metadata. A file holds a name table, a table of enums and a
table of class and struct schemas whose properties carry recursive type
descriptors. All names in the file are stored once in the name table and
referenced by index elsewhere; the decoder resolves these references so that
the returned model holds plain strings.

Decoding is synchronous and allocates only what the input proves it needs.
Every size, count and index read from the input is validated before use.
*/

////////////////////////////////////////////////////////////////////////////////

// Decode reads a complete usmap file from r.
func Decode(ctx context.Context, r reader.Reader, opts ...Option) (*Usmap, error) {
	conf := newConfig(opts...)
	header, err := ReadHeader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	payload, release, err := openPayload(r, header, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open payload: %w", err)
	}
	defer release()

	d := newDecoder(payload, header.Version, conf)
	if err := d.readNames(); err != nil {
		return nil, fmt.Errorf("failed to decode names: %w", err)
	}
	enums, err := d.readEnums()
	if err != nil {
		return nil, fmt.Errorf("failed to decode enums: %w", err)
	}
	schemas, err := d.readSchemas()
	if err != nil {
		return nil, fmt.Errorf("failed to decode schemas: %w", err)
	}

	u := &Usmap{
		Version:     header.Version,
		Compression: header.Compression,
		Names:       d.names,
		Enums:       enums,
		Schemas:     schemas,
	}
	if !conf.retainNames {
		u.Names = []string{}
	}
	u.buildIndexes()

	log.Debugw(ctx, "decoded usmap",
		"version", header.Version.String(),
		"compression", header.Compression.String(),
		"compressed", header.CompressedSize,
		"uncompressed", header.UncompressedSize,
		"names", len(d.names),
		"enums", len(enums),
		"schemas", len(schemas),
	)
	return u, nil
}

// FromBytes decodes a usmap file held in memory. data is not retained.
func FromBytes(ctx context.Context, data []byte, opts ...Option) (*Usmap, error) {
	return Decode(ctx, reader.NewBufferReader(data), opts...)
}

// FromReader decodes a usmap file from r. Seekable readers are read in
// place; anything else is buffered in full first.
func FromReader(ctx context.Context, r io.Reader, opts ...Option) (*Usmap, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		sr, err := reader.NewStreamReader(rs)
		if err != nil {
			return nil, fmt.Errorf("failed to open stream: %w", err)
		}
		return Decode(ctx, sr, opts...)
	}
	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, r); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return FromBytes(ctx, buf.Bytes(), opts...)
}

// Open decodes the usmap file at path.
func Open(ctx context.Context, path string, opts ...Option) (*Usmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	ctx = log.AddTags(ctx, "path", path)
	return FromReader(ctx, f, opts...)
}
