package usmap

import (
	"errors"
	"fmt"

	"github.com/wkalt/usmap/compression"
	"github.com/wkalt/usmap/reader"
)

const (
	// Magic is the first two bytes of every usmap file.
	Magic = uint16(0x30C4)

	packageFileVersionSize = 8
	customVersionSize      = 20
)

// Header is the fixed prefix of a usmap file.
type Header struct {
	Version            Version
	HasVersioning      bool
	CustomVersionCount uint32
	Compression        compression.Method
	CompressedSize     uint32
	UncompressedSize   uint32
}

// truncated converts short reads into TruncatedInputError. Other errors are
// returned unchanged.
func truncated(err error) error {
	var short reader.ShortReadError
	if errors.As(err, &short) {
		return TruncatedInputError{Need: short.Want, Have: short.Have}
	}
	return err
}

// ReadHeader reads and validates the header from r, leaving r positioned at
// the start of the (possibly compressed) payload. The package versioning
// block, if present, is skipped.
func ReadHeader(r reader.Reader) (*Header, error) {
	magic, err := r.Uint16()
	if err != nil {
		return nil, truncated(err)
	}
	if magic != Magic {
		return nil, InvalidMagicError{Magic: magic}
	}
	version, err := r.Uint8()
	if err != nil {
		return nil, truncated(err)
	}
	if Version(version) > VersionLatest {
		return nil, UnsupportedVersionError{Version: version}
	}
	h := &Header{Version: Version(version)}
	if newFeatures(h.Version).packageVersioning {
		if err := readVersioning(r, h); err != nil {
			return nil, err
		}
	}
	method, err := r.Uint8()
	if err != nil {
		return nil, truncated(err)
	}
	h.Compression = compression.Method(method)
	if !h.Compression.Valid() {
		return nil, UnsupportedCompressionError{Method: method}
	}
	if h.CompressedSize, err = r.Uint32(); err != nil {
		return nil, truncated(err)
	}
	if h.UncompressedSize, err = r.Uint32(); err != nil {
		return nil, truncated(err)
	}
	return h, nil
}

func readVersioning(r reader.Reader, h *Header) error {
	var err error
	if h.HasVersioning, err = r.Bool(); err != nil {
		return truncated(err)
	}
	if !h.HasVersioning {
		return nil
	}
	if err := r.Skip(packageFileVersionSize); err != nil {
		return truncated(err)
	}
	if h.CustomVersionCount, err = r.Uint32(); err != nil {
		return truncated(err)
	}
	size := int64(h.CustomVersionCount) * customVersionSize
	if size > r.Remaining() {
		return TruncatedInputError{Need: size, Have: r.Remaining()}
	}
	return truncated(r.Skip(size))
}

// openPayload returns a reader over the uncompressed payload described by h.
// The release function must be called once the payload reader is no longer
// needed; it is a no-op when nothing was checked out.
func openPayload(
	r reader.Reader,
	h *Header,
	conf *config,
) (payload reader.Reader, release func(), err error) {
	release = func() {}
	compressed := int64(h.CompressedSize)
	if r.Remaining() < compressed {
		return nil, release, TruncatedInputError{Need: compressed, Have: r.Remaining()}
	}
	if h.Compression == compression.MethodNone {
		if h.CompressedSize != h.UncompressedSize {
			return nil, release, InconsistentSizesError{
				Compressed:   h.CompressedSize,
				Uncompressed: h.UncompressedSize,
			}
		}
		return r, release, nil
	}

	if int64(h.UncompressedSize) > int64(conf.maxUncompressedSize) {
		return nil, release, OversizedAllocationError{
			Field: "uncompressed size",
			Size:  int64(h.UncompressedSize),
			Limit: int64(conf.maxUncompressedSize),
		}
	}
	decompressor, err := conf.decompressor(h.Compression)
	if err != nil {
		return nil, release, err
	}

	c := int(h.CompressedSize)
	u := int(h.UncompressedSize)
	scratch := conf.pool.Checkout(c + u)
	defer func() {
		if err != nil {
			conf.pool.Return(scratch)
		}
	}()
	src := scratch[:c:c]
	dst := scratch[c : c+u : c+u]
	if err := r.ReadFull(src); err != nil {
		return nil, release, truncated(err)
	}
	n, err := decompressor.Decompress(dst, src)
	if err != nil {
		return nil, release, DecompressionFailedError{
			Method:   h.Compression,
			Expected: u,
			Actual:   n,
			Err:      err,
		}
	}
	if n != u {
		return nil, release, DecompressionFailedError{
			Method:   h.Compression,
			Expected: u,
			Actual:   n,
		}
	}
	return reader.NewBufferReader(dst), func() { conf.pool.Return(scratch) }, nil
}

func (h *Header) String() string {
	return fmt.Sprintf("usmap %s (%s, %d -> %d bytes)",
		h.Version, h.Compression, h.CompressedSize, h.UncompressedSize)
}
