package raster

import (
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// coverage at or above this is drawn, anything below is skipped
const glyphThreshold = 0x80

// NewFace parses a TrueType font and returns a face of the given size in
// points at 72 DPI.
func NewFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// DefaultFace returns Go Regular at 10 points, or the 7x13 bitmap face if
// the embedded font cannot be parsed.
func DefaultFace() font.Face {
	face, err := NewFace(goregular.TTF, 10)
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// DrawText draws s with its top-left corner at (x, y). Glyph coverage is
// thresholded so every pixel is either fully replaced with col or left
// untouched.
func (f *Framebuffer) DrawText(face font.Face, s string, x, y int, col color.NRGBA) {
	if face == nil || s == "" {
		return
	}
	m := face.Metrics()
	d := &font.Drawer{Face: face}
	w := d.MeasureString(s).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	if w <= 0 || h <= 0 {
		return
	}

	cov := image.NewAlpha(image.Rect(0, 0, w, h))
	d.Dst = cov
	d.Src = image.Opaque
	d.Dot = fixed.Point26_6{Y: m.Ascent}
	d.DrawString(s)

	dst := f.img
	r := image.Rect(x, y, x+w, y+h).Intersect(dst.Rect)
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			if cov.Pix[cov.PixOffset(px-x, py-y)] < glyphThreshold {
				continue
			}
			dst.SetNRGBA(px, py, col)
		}
	}
}
