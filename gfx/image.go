package gfx

import "image/color"

// TransparencyKey is the packed colour treated as "do not draw".
const TransparencyKey uint32 = 0x000000FF

// Image is an indexed pixel buffer. It borrows Pixels and performs no
// validation; indices are checked against a Palette when a Sprite is built.
// A non-zero PaletteSize must equal the Size of that Palette; zero means
// the image does not declare one.
type Image struct {
	Pixels      []uint8 // one palette index per pixel, row-major
	Width       int
	Height      int
	PaletteSize int // declared palette capacity, 0 if unknown
}

// Palette maps an index to a packed 0xRRGGBBAA colour.
type Palette struct {
	Colors []uint32
}

// Size returns the number of entries in the palette.
func (p Palette) Size() int {
	return len(p.Colors)
}

// Decode unpacks a 0xRRGGBBAA colour.
func Decode(packed uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(packed >> 24),
		G: uint8(packed >> 16),
		B: uint8(packed >> 8),
		A: uint8(packed),
	}
}

// Pack is the inverse of Decode.
func Pack(c color.NRGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}
