/*
Package assets turns ordinary images into the indexed Image and Palette
pairs the renderer consumes.

Palettes are packed as 0xRRGGBBAA. Pixels with less than half coverage map
to gfx.TransparencyKey; an opaque colour that would pack to the key is
nudged to the nearest distinct value so it stays visible.
*/
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register decoders for Load
	_ "image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"

	"oddstream.games/sprites/gfx"
)

const (
	// MaxColors is the largest palette an 8-bit index can address.
	MaxColors = 256

	opaqueThreshold = 0x80
)

var (
	errEmpty      = errors.New("assets: empty image")
	errColors     = errors.New("assets: palette size out of range")
	errBigPalette = errors.New("assets: paletted image has more than 256 colours")
)

// pack converts c to 0xRRGGBBAA, mapping low coverage to the key.
func pack(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < opaqueThreshold {
		return gfx.TransparencyKey
	}
	p := gfx.Pack(n)
	if p == gfx.TransparencyKey {
		p = gfx.TransparencyKey + 0x100 // 0x000001FF
	}
	return p
}

func transparent(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a>>8 < opaqueThreshold
}

// FromPaletted converts an already indexed image without requantizing.
func FromPaletted(m *image.Paletted) (gfx.Image, gfx.Palette, error) {
	b := m.Bounds()
	if b.Empty() {
		return gfx.Image{}, gfx.Palette{}, errEmpty
	}
	if len(m.Palette) > MaxColors {
		return gfx.Image{}, gfx.Palette{}, errBigPalette
	}

	pal := gfx.Palette{Colors: make([]uint32, len(m.Palette))}
	for i, c := range m.Palette {
		pal.Colors[i] = pack(c)
	}

	w, h := b.Dx(), b.Dy()
	pixels := make([]uint8, 0, w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		o := m.PixOffset(b.Min.X, y)
		pixels = append(pixels, m.Pix[o:o+w]...)
	}

	return gfx.Image{Pixels: pixels, Width: w, Height: h, PaletteSize: pal.Size()}, pal, nil
}

// opaqueCopy returns m with every transparent pixel painted in the first
// opaque colour found, so transparency does not claim a palette slot.
func opaqueCopy(m image.Image) (*image.NRGBA, bool) {
	b := m.Bounds()
	dup := image.NewNRGBA(b)
	var fill color.NRGBA
	found := false
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := m.At(x, y); !transparent(c) {
				fill = color.NRGBAModel.Convert(c).(color.NRGBA)
				found = true
				break
			}
		}
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.At(x, y)
			if transparent(c) {
				dup.SetNRGBA(x, y, fill)
				continue
			}
			n := color.NRGBAModel.Convert(c).(color.NRGBA)
			n.A = 0xff
			dup.SetNRGBA(x, y, n)
		}
	}
	return dup, found
}

// Convert quantizes m to at most maxColors entries using median cut.
// Index 0 is always the transparency key.
func Convert(m image.Image, maxColors int) (gfx.Image, gfx.Palette, error) {
	if maxColors < 2 || maxColors > MaxColors {
		return gfx.Image{}, gfx.Palette{}, fmt.Errorf("%w: %d", errColors, maxColors)
	}
	b := m.Bounds()
	if b.Empty() {
		return gfx.Image{}, gfx.Palette{}, errEmpty
	}

	src, anyOpaque := opaqueCopy(m)
	var opaque color.Palette
	if anyOpaque {
		q := quantize.MedianCutQuantizer{}
		opaque = q.Quantize(make(color.Palette, 0, maxColors-1), src)
	}

	pal := gfx.Palette{Colors: make([]uint32, 0, len(opaque)+1)}
	pal.Colors = append(pal.Colors, gfx.TransparencyKey)
	for _, c := range opaque {
		pal.Colors = append(pal.Colors, pack(c))
	}

	w, h := b.Dx(), b.Dy()
	pixels := make([]uint8, 0, w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if transparent(m.At(x, y)) || len(opaque) == 0 {
				pixels = append(pixels, 0)
				continue
			}
			pixels = append(pixels, uint8(opaque.Index(src.At(x, y))+1))
		}
	}

	return gfx.Image{Pixels: pixels, Width: w, Height: h, PaletteSize: pal.Size()}, pal, nil
}

// Load decodes a PNG or GIF. Paletted images that already fit in
// maxColors keep their palette, anything else is quantized.
func Load(r io.Reader, maxColors int) (gfx.Image, gfx.Palette, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return gfx.Image{}, gfx.Palette{}, fmt.Errorf("assets: %w", err)
	}
	if pm, ok := m.(*image.Paletted); ok && len(pm.Palette) <= maxColors {
		return FromPaletted(pm)
	}
	return Convert(m, maxColors)
}
