package raster

import (
	"fmt"
	"image"
	"image/color"

	"oddstream.games/sprites/gfx"
)

// Framebuffer is the surface a frame is composed on.
type Framebuffer struct {
	img        *image.NRGBA
	background color.NRGBA
}

// NewFramebuffer allocates a width by height surface cleared to background.
func NewFramebuffer(width, height int, background color.NRGBA) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: framebuffer %dx%d: %w", width, height, gfx.ErrInitialization)
	}
	f := &Framebuffer{
		img:        image.NewNRGBA(image.Rect(0, 0, width, height)),
		background: background,
	}
	f.Clear()
	return f, nil
}

// Image returns the composed frame. The caller must not keep it across
// frames.
func (f *Framebuffer) Image() *image.NRGBA {
	return f.img
}

// Bounds returns the framebuffer rectangle.
func (f *Framebuffer) Bounds() image.Rectangle {
	return f.img.Rect
}

// Clear fills the framebuffer with the background colour.
func (f *Framebuffer) Clear() {
	pix := f.img.Pix
	if len(pix) < 4 {
		return
	}
	pix[0], pix[1], pix[2], pix[3] = f.background.R, f.background.G, f.background.B, f.background.A
	for filled := 4; filled < len(pix); filled *= 2 {
		copy(pix[filled:], pix[:filled])
	}
}

// Blit copies the drawable texels of t to (x, y), clipped to the
// framebuffer. Keyed texels leave the destination untouched.
func (f *Framebuffer) Blit(x, y int, t *Texture) {
	if t == nil || t.Released() {
		return
	}
	dst := f.img
	r := image.Rect(x, y, x+t.Width(), y+t.Height()).Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	for py := r.Min.Y; py < r.Max.Y; py++ {
		sy := py - y
		mo := t.mask.PixOffset(r.Min.X-x, sy)
		so := t.pix.PixOffset(r.Min.X-x, sy)
		do := dst.PixOffset(r.Min.X, py)
		for px := r.Min.X; px < r.Max.X; px++ {
			if t.mask.Pix[mo] != 0 {
				copy(dst.Pix[do:do+4], t.pix.Pix[so:so+4])
			}
			mo++
			so += 4
			do += 4
		}
	}
}

// PremultipliedTo writes the frame into dst as premultiplied RGBA, the
// layout ebiten.Image.WritePixels expects. dst must hold 4*w*h bytes.
func (f *Framebuffer) PremultipliedTo(dst []byte) {
	src := f.img.Pix
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		a := uint32(src[i+3])
		if a == 0xff {
			copy(dst[i:i+4], src[i:i+4])
			continue
		}
		dst[i+0] = uint8(uint32(src[i+0]) * a / 0xff)
		dst[i+1] = uint8(uint32(src[i+1]) * a / 0xff)
		dst[i+2] = uint8(uint32(src[i+2]) * a / 0xff)
		dst[i+3] = uint8(a)
	}
}
