package usmap

import (
	"errors"
	"fmt"

	"github.com/wkalt/usmap/compression"
)

// InvalidMagicError is returned when the file does not start with the usmap
// magic number.
type InvalidMagicError struct {
	Magic uint16
}

func (e InvalidMagicError) Error() string {
	return fmt.Sprintf("invalid magic 0x%04X (expected 0x%04X)", e.Magic, Magic)
}

func (e InvalidMagicError) Is(target error) bool {
	_, ok := target.(InvalidMagicError)
	return ok
}

// UnsupportedVersionError is returned for version bytes newer than
// VersionLatest.
type UnsupportedVersionError struct {
	Version uint8
}

func (e UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported version: %d (latest: %d)", e.Version, VersionLatest)
}

func (e UnsupportedVersionError) Is(target error) bool {
	_, ok := target.(UnsupportedVersionError)
	return ok
}

// UnsupportedCompressionError is returned for unknown compression methods.
type UnsupportedCompressionError struct {
	Method uint8
}

func (e UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("unsupported compression method: %d", e.Method)
}

func (e UnsupportedCompressionError) Is(target error) bool {
	_, ok := target.(UnsupportedCompressionError)
	return ok
}

// TruncatedInputError is returned when the input ends before a required
// field or block.
type TruncatedInputError struct {
	Need int64
	Have int64
}

func (e TruncatedInputError) Error() string {
	return fmt.Sprintf("truncated input: need %d bytes, have %d", e.Need, e.Have)
}

func (e TruncatedInputError) Is(target error) bool {
	_, ok := target.(TruncatedInputError)
	return ok
}

// InconsistentSizesError is returned when an uncompressed payload declares
// different compressed and uncompressed sizes.
type InconsistentSizesError struct {
	Compressed   uint32
	Uncompressed uint32
}

func (e InconsistentSizesError) Error() string {
	return fmt.Sprintf("uncompressed payload has compressed size %d but uncompressed size %d",
		e.Compressed, e.Uncompressed)
}

func (e InconsistentSizesError) Is(target error) bool {
	_, ok := target.(InconsistentSizesError)
	return ok
}

// DecompressionFailedError is returned when a backend fails or produces a
// different number of bytes than the header declares.
type DecompressionFailedError struct {
	Method   compression.Method
	Expected int
	Actual   int
	Err      error
}

func (e DecompressionFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s decompression failed: %s", e.Method, e.Err)
	}
	return fmt.Sprintf("%s decompression produced %d bytes, expected %d", e.Method, e.Actual, e.Expected)
}

func (e DecompressionFailedError) Is(target error) bool {
	_, ok := target.(DecompressionFailedError)
	return ok
}

func (e DecompressionFailedError) Unwrap() error {
	return e.Err
}

// ErrMissingOodleCapability is returned for Oodle-compressed payloads when no
// Oodle decompressor has been configured.
var ErrMissingOodleCapability = errors.New("oodle compressed payload but no oodle decompressor configured")

// NameIndexOutOfRangeError is returned when a name index does not refer to an
// entry of the name table.
type NameIndexOutOfRangeError struct {
	Index uint32
	Count int
}

func (e NameIndexOutOfRangeError) Error() string {
	return fmt.Sprintf("name index %d out of range (%d names)", e.Index, e.Count)
}

func (e NameIndexOutOfRangeError) Is(target error) bool {
	_, ok := target.(NameIndexOutOfRangeError)
	return ok
}

// InvalidEncodingError is returned when a name table entry is not valid UTF-8
// and lossy decoding is not enabled.
type InvalidEncodingError struct {
	Index int
}

func (e InvalidEncodingError) Error() string {
	return fmt.Sprintf("name %d is not valid UTF-8", e.Index)
}

func (e InvalidEncodingError) Is(target error) bool {
	_, ok := target.(InvalidEncodingError)
	return ok
}

// OversizedAllocationError is returned when a count or size field asks for
// more than the input could possibly hold or more than the configured limit.
type OversizedAllocationError struct {
	Field string
	Size  int64
	Limit int64
}

func (e OversizedAllocationError) Error() string {
	return fmt.Sprintf("%s of %d exceeds limit %d", e.Field, e.Size, e.Limit)
}

func (e OversizedAllocationError) Is(target error) bool {
	_, ok := target.(OversizedAllocationError)
	return ok
}

// NestingTooDeepError is returned when a property type descriptor nests
// deeper than the configured limit.
type NestingTooDeepError struct {
	Limit int
}

func (e NestingTooDeepError) Error() string {
	return fmt.Sprintf("property type nesting exceeds %d levels", e.Limit)
}

func (e NestingTooDeepError) Is(target error) bool {
	_, ok := target.(NestingTooDeepError)
	return ok
}
