package reader

/*
The reader package provides bounded, little-endian cursors over the bytes of a
usmap container. Two implementations exist: BufferReader, over a contiguous
byte slice, and StreamReader, over an io.ReadSeeker. Both fail every read that
would run past the end of the data with a ShortReadError rather than returning
partial values.
*/

////////////////////////////////////////////////////////////////////////////////

// Reader is a sequential cursor over a bounded byte source.
type Reader interface { // nolint: interfacebloat
	Uint8() (uint8, error)
	Uint16() (uint16, error)
	Uint32() (uint32, error)
	Uint64() (uint64, error)
	Int32() (int32, error)
	Int64() (int64, error)
	Bool() (bool, error)

	// Bytes returns exactly n bytes. Buffer-backed readers return a
	// subslice of the underlying buffer that must not be retained past the
	// lifetime of that buffer.
	Bytes(n int) ([]byte, error)

	// ReadFull fills dst completely.
	ReadFull(dst []byte) error

	// String reads a length-prefixed byte string. Width is the size of the
	// length prefix in bytes and must be 1 or 2. The returned string is a
	// copy; no validation of the contents is performed.
	String(width int) (string, error)

	// Skip advances the cursor by n bytes.
	Skip(n int64) error

	// Position returns the current offset from the start of the source.
	Position() int64

	// Len returns the total length of the source.
	Len() int64

	// Remaining returns the number of unread bytes.
	Remaining() int64
}
