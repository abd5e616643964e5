package text

import (
	"errors"
	"fmt"
)

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrReservedFont is returned when registering over the default font.
	ErrReservedFont = errors.New("text: font handle 0 is reserved for the default font")
)

// FontError is returned when font data cannot be parsed.
type FontError struct {
	Handle uint64
	Err    error
}

func (e *FontError) Error() string {
	return fmt.Sprintf("text: parse font %d: %v", e.Handle, e.Err)
}

func (e *FontError) Unwrap() error { return e.Err }
