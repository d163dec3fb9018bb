package gfx

import (
	"errors"
	"fmt"
)

var (
	// ErrInitialization reports that no rendering context could be
	// established.
	ErrInitialization = errors.New("gfx: rendering context unavailable")

	// ErrPaletteIndexOutOfRange reports a pixel referencing a palette entry
	// beyond the palette's bounds.
	ErrPaletteIndexOutOfRange = errors.New("gfx: palette index out of range")

	// ErrResourceAllocation reports that a backend could not allocate a
	// native resource.
	ErrResourceAllocation = errors.New("gfx: render resource allocation failed")

	// ErrImageBounds reports an image whose dimensions do not agree with
	// its pixel buffer.
	ErrImageBounds = errors.New("gfx: image dimensions do not match pixel data")
)

// IndexError provides the context of a palette lookup failure.
type IndexError struct {
	Pos         int   // linear pixel position
	Index       uint8 // offending index
	PaletteSize int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("gfx: pixel %d references palette entry %d, palette has %d entries", e.Pos, e.Index, e.PaletteSize)
}

// Unwrap makes errors.Is(err, ErrPaletteIndexOutOfRange) hold.
func (e *IndexError) Unwrap() error {
	return ErrPaletteIndexOutOfRange
}
