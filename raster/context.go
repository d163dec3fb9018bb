package raster

import (
	"fmt"
	"image"

	"oddstream.games/sprites/gfx"
)

var _ gfx.Context = (*Context)(nil)
var _ gfx.Texture = (*Texture)(nil)

// Context allocates textures. A zero limit means no byte budget.
type Context struct {
	limit    int
	bytes    int
	textures map[*Texture]struct{}
	closed   bool
}

// Texture is a decoded sprite image plus its drawable mask.
type Texture struct {
	ctx  *Context
	pix  *image.NRGBA
	mask *image.Alpha
}

// NewContext creates a context that refuses allocations beyond limit bytes.
func NewContext(limit int) *Context {
	return &Context{
		limit:    limit,
		textures: make(map[*Texture]struct{}),
	}
}

func textureBytes(pix *image.NRGBA, mask *image.Alpha) int {
	return len(pix.Pix) + len(mask.Pix)
}

// NewTexture implements gfx.Context.
func (c *Context) NewTexture(pix *image.NRGBA, mask *image.Alpha) (gfx.Texture, error) {
	if c.closed {
		return nil, fmt.Errorf("raster: context closed: %w", gfx.ErrResourceAllocation)
	}
	if pix == nil || mask == nil || pix.Rect != mask.Rect || pix.Rect.Min != (image.Point{}) {
		return nil, fmt.Errorf("raster: texture and mask disagree: %w", gfx.ErrResourceAllocation)
	}
	n := textureBytes(pix, mask)
	if c.limit > 0 && c.bytes+n > c.limit {
		return nil, fmt.Errorf("raster: %d bytes requested, %d of %d in use: %w", n, c.bytes, c.limit, gfx.ErrResourceAllocation)
	}
	t := &Texture{ctx: c, pix: pix, mask: mask}
	c.textures[t] = struct{}{}
	c.bytes += n
	return t, nil
}

// Live returns the number of textures not yet released.
func (c *Context) Live() int {
	return len(c.textures)
}

// Bytes returns the memory held by live textures.
func (c *Context) Bytes() int {
	return c.bytes
}

// Close releases every outstanding texture and refuses further
// allocations. It may be called more than once.
func (c *Context) Close() {
	for t := range c.textures {
		t.Release()
	}
	c.closed = true
}

// Width returns the texture width.
func (t *Texture) Width() int {
	return t.pix.Rect.Dx()
}

// Height returns the texture height.
func (t *Texture) Height() int {
	return t.pix.Rect.Dy()
}

// Release implements gfx.Texture. Releasing twice is harmless.
func (t *Texture) Release() {
	if t.ctx == nil {
		return
	}
	delete(t.ctx.textures, t)
	t.ctx.bytes -= textureBytes(t.pix, t.mask)
	t.ctx = nil
}

// Released reports whether the texture has been returned to its context.
func (t *Texture) Released() bool {
	return t.ctx == nil
}
