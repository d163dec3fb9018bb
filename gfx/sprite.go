package gfx

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// Sprite is an Image and Palette pair converted into a Texture. It is
// immutable once built and owns its Texture until Release.
type Sprite struct {
	width, height int
	tex           Texture
}

// NewSprite validates img against pal, decodes every pixel and allocates
// the texture through ctx. On failure nothing allocated here is left
// outstanding. The sprite keeps no reference to img.Pixels or pal.Colors.
func NewSprite(ctx Context, img Image, pal Palette) (*Sprite, error) {
	if ctx == nil {
		return nil, fmt.Errorf("sprite: %w", ErrInitialization)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("sprite: %dx%d: %w", img.Width, img.Height, ErrImageBounds)
	}
	if img.Width > math.MaxInt/img.Height {
		return nil, fmt.Errorf("sprite: %dx%d overflows: %w", img.Width, img.Height, ErrImageBounds)
	}
	n := img.Width * img.Height
	if len(img.Pixels) < n {
		return nil, fmt.Errorf("sprite: %dx%d needs %d pixels, have %d: %w", img.Width, img.Height, n, len(img.Pixels), ErrImageBounds)
	}

	size := pal.Size()
	if img.PaletteSize != 0 && img.PaletteSize != size {
		return nil, fmt.Errorf("sprite: image declares %d palette entries, palette has %d: %w", img.PaletteSize, size, ErrImageBounds)
	}
	for i, idx := range img.Pixels[:n] {
		if int(idx) >= size {
			return nil, &IndexError{Pos: i, Index: idx, PaletteSize: size}
		}
	}

	r := image.Rect(0, 0, img.Width, img.Height)
	pix := image.NewNRGBA(r)
	mask := image.NewAlpha(r)
	for i, idx := range img.Pixels[:n] {
		packed := pal.Colors[idx]
		if packed == TransparencyKey {
			continue
		}
		c := Decode(packed)
		o := i * 4
		pix.Pix[o+0] = c.R
		pix.Pix[o+1] = c.G
		pix.Pix[o+2] = c.B
		pix.Pix[o+3] = c.A
		mask.Pix[i] = 0xff
	}

	tex, err := ctx.NewTexture(pix, mask)
	if err != nil {
		if !errors.Is(err, ErrResourceAllocation) {
			err = fmt.Errorf("%w: %w", ErrResourceAllocation, err)
		}
		return nil, fmt.Errorf("sprite: %w", err)
	}
	if tex == nil {
		return nil, fmt.Errorf("sprite: nil texture: %w", ErrResourceAllocation)
	}
	if tex.Width() != img.Width || tex.Height() != img.Height {
		tex.Release()
		return nil, fmt.Errorf("sprite: texture is %dx%d, want %dx%d: %w", tex.Width(), tex.Height(), img.Width, img.Height, ErrResourceAllocation)
	}

	return &Sprite{width: img.Width, height: img.Height, tex: tex}, nil
}

// Width returns the source image width.
func (s *Sprite) Width() int {
	return s.width
}

// Height returns the source image height.
func (s *Sprite) Height() int {
	return s.height
}

// Texture returns the renderable handle, or nil after Release.
func (s *Sprite) Texture() Texture {
	return s.tex
}

// Release frees the texture.
func (s *Sprite) Release() {
	if s.tex == nil {
		return
	}
	s.tex.Release()
	s.tex = nil
}
