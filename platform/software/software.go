// Package software is a headless gfx.Platform that composes frames in
// memory and can write them out as PNG snapshots.
package software

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"time"

	"golang.org/x/image/font"

	"oddstream.games/sprites/gfx"
	"oddstream.games/sprites/raster"
	"oddstream.games/sprites/util"
)

var _ gfx.Platform = (*Platform)(nil)

// Default screen, the original handheld resolution.
const (
	DefaultWidth  = 240
	DefaultHeight = 160
)

// Background is the colour ClearScreen fills with.
var Background = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// TextColor is used by DrawText.
var TextColor = color.NRGBA{A: 0xff}

// Platform renders into a raster.Framebuffer.
type Platform struct {
	width, height int
	background    color.NRGBA
	face          font.Face
	textureLimit  int
	snapshotDir   string
	snapshotEvery uint64
	logger        *slog.Logger

	ctx    *raster.Context
	fb     *raster.Framebuffer
	frames uint64
}

// Option configures a Platform.
type Option func(*Platform)

// WithSize sets the screen size in pixels.
func WithSize(width, height int) Option {
	return func(p *Platform) {
		p.width, p.height = width, height
	}
}

// WithBackground sets the clear colour.
func WithBackground(c color.NRGBA) Option {
	return func(p *Platform) {
		p.background = c
	}
}

// WithFace sets the face used by DrawText; nil disables text.
func WithFace(face font.Face) Option {
	return func(p *Platform) {
		p.face = face
	}
}

// WithTextureLimit caps the bytes held by live textures.
func WithTextureLimit(bytes int) Option {
	return func(p *Platform) {
		p.textureLimit = bytes
	}
}

// WithSnapshots writes every nth presented frame to dir.
func WithSnapshots(dir string, every int) Option {
	return func(p *Platform) {
		p.snapshotDir = dir
		if every > 0 {
			p.snapshotEvery = uint64(every)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Platform) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates an uninitialized Platform.
func New(opts ...Option) *Platform {
	p := &Platform{
		width:      DefaultWidth,
		height:     DefaultHeight,
		background: Background,
		face:       raster.DefaultFace(),
		logger:     util.NopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Init implements gfx.Platform.
func (p *Platform) Init() (gfx.Context, error) {
	if p.ctx != nil {
		return p.ctx, nil
	}
	if p.snapshotDir != "" {
		if err := os.MkdirAll(p.snapshotDir, 0o755); err != nil {
			return nil, fmt.Errorf("software: snapshot dir: %w: %w", gfx.ErrInitialization, err)
		}
	}
	fb, err := raster.NewFramebuffer(p.width, p.height, p.background)
	if err != nil {
		return nil, fmt.Errorf("software: %w", err)
	}
	p.fb = fb
	p.ctx = raster.NewContext(p.textureLimit)
	p.frames = 0
	p.logger.Info("software platform ready", "width", p.width, "height", p.height)
	return p.ctx, nil
}

// ClearScreen implements gfx.Platform.
func (p *Platform) ClearScreen() {
	if p.fb == nil {
		return
	}
	p.fb.Clear()
}

// DrawSprite implements gfx.Platform.
func (p *Platform) DrawSprite(x, y int, s *gfx.Sprite) {
	if p.fb == nil || s == nil {
		return
	}
	tex, ok := s.Texture().(*raster.Texture)
	if !ok {
		p.logger.Warn("sprite texture not from this platform", "x", x, "y", y)
		return
	}
	p.fb.Blit(x, y, tex)
}

// DrawText implements gfx.Platform.
func (p *Platform) DrawText(text string, x, y int) {
	if p.fb == nil {
		return
	}
	p.fb.DrawText(p.face, text, x, y, TextColor)
}

// Present implements gfx.Platform.
func (p *Platform) Present() {
	if p.fb == nil {
		return
	}
	p.frames++
	if p.snapshotDir == "" || p.snapshotEvery == 0 || p.frames%p.snapshotEvery != 0 {
		return
	}
	path := raster.SnapshotPath(p.snapshotDir, p.frames)
	if err := p.fb.Snapshot(path); err != nil {
		p.logger.Warn("snapshot failed", "path", path, "err", err)
		return
	}
	p.logger.Debug("snapshot written", "path", path)
}

// Delay implements gfx.Platform.
func (p *Platform) Delay(d time.Duration) {
	time.Sleep(d)
}

// FreeResources implements gfx.Platform.
func (p *Platform) FreeResources() {
	if p.ctx == nil && p.fb == nil {
		return
	}
	if p.ctx != nil {
		if n := p.ctx.Live(); n > 0 {
			p.logger.Warn("releasing outstanding textures", "count", n)
		}
		p.ctx.Close()
		p.ctx = nil
	}
	p.fb = nil
	p.logger.Info("software platform resources freed", "frames", p.frames)
}

// Frames returns the number of frames presented since Init.
func (p *Platform) Frames() uint64 {
	return p.frames
}

// Framebuffer returns the surface being composed, nil before Init.
func (p *Platform) Framebuffer() *raster.Framebuffer {
	return p.fb
}
