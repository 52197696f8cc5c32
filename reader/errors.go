package reader

import (
	"errors"
	"fmt"
)

// ShortReadError is returned when a read requires more bytes than remain in
// the source.
type ShortReadError struct {
	Want int64
	Have int64
}

func (e ShortReadError) Error() string {
	return fmt.Sprintf("short read: need %d bytes, have %d", e.Want, e.Have)
}

// Is returns true if the target error is a ShortReadError.
func (e ShortReadError) Is(target error) bool {
	_, ok := target.(ShortReadError)
	return ok
}

// ErrInvalidWidth is returned when a string length prefix width other than 1
// or 2 is requested.
var ErrInvalidWidth = errors.New("invalid length prefix width")

// ErrNegativeLength is returned for negative read or skip lengths.
var ErrNegativeLength = errors.New("negative length")
