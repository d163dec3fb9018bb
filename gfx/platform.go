package gfx

import (
	"image"
	"time"
)

// Texture is a renderable resource owned by a Sprite.
type Texture interface {
	Width() int
	Height() int
	// Release returns the resource to the Context that allocated it.
	Release()
}

// Context is the rendering context created by Platform.Init. It is the
// only way to allocate a Texture.
//
// NewTexture takes ownership of pix and mask. A zero mask alpha marks a
// keyed texel that must never be drawn.
type Context interface {
	NewTexture(pix *image.NRGBA, mask *image.Alpha) (Texture, error)
}

// Platform is the capability set a display backend provides. Exactly one
// implementation is active at a time.
type Platform interface {
	// Init establishes the rendering context. On error nothing is left
	// acquired and FreeResources need not be called.
	Init() (Context, error)
	ClearScreen()
	DrawSprite(x, y int, s *Sprite)
	// DrawText is best effort; a backend without text support may ignore it.
	DrawText(text string, x, y int)
	Present()
	Delay(d time.Duration)
	// FreeResources is idempotent.
	FreeResources()
}
