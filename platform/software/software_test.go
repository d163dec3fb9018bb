package software

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oddstream.games/sprites/gfx"
	"oddstream.games/sprites/raster"
)

func initPlatform(t *testing.T, opts ...Option) (*Platform, *raster.Context) {
	t.Helper()
	p := New(opts...)
	ctx, err := p.Init()
	require.NoError(t, err)
	t.Cleanup(p.FreeResources)
	return p, ctx.(*raster.Context)
}

func TestPlatform_ClearScreen(t *testing.T) {
	p, _ := initPlatform(t, WithSize(8, 4))
	p.Framebuffer().Image().SetNRGBA(1, 1, color.NRGBA{R: 9, A: 0xff})
	p.ClearScreen()
	assert.Equal(t, Background, p.Framebuffer().Image().NRGBAAt(1, 1))
}

func TestPlatform_DrawSpriteDecodedColor(t *testing.T) {
	p, ctx := initPlatform(t, WithSize(8, 8))
	s, err := gfx.NewSprite(ctx, gfx.Image{Pixels: []uint8{0}, Width: 1, Height: 1, PaletteSize: 1}, gfx.Palette{Colors: []uint32{0xAABBCCDD}})
	require.NoError(t, err)

	p.ClearScreen()
	p.DrawSprite(3, 2, s)
	assert.Equal(t, color.NRGBA{R: 0xAA, G: 0xBB, B: 0xCC, A: 0xDD}, p.Framebuffer().Image().NRGBAAt(3, 2))
}

func TestPlatform_DrawSpriteTransparencyKey(t *testing.T) {
	p, ctx := initPlatform(t, WithSize(4, 4))
	img := gfx.Image{Pixels: []uint8{0, 1, 1, 0}, Width: 2, Height: 2, PaletteSize: 2}
	pal := gfx.Palette{Colors: []uint32{0x102030FF, gfx.TransparencyKey}}
	s, err := gfx.NewSprite(ctx, img, pal)
	require.NoError(t, err)

	under := color.NRGBA{R: 0x55, G: 0x66, B: 0x77, A: 0xff}
	fb := p.Framebuffer().Image()
	p.ClearScreen()
	fb.SetNRGBA(2, 1, under)
	fb.SetNRGBA(1, 2, under)

	p.DrawSprite(1, 1, s)
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, fb.NRGBAAt(1, 1))
	assert.Equal(t, under, fb.NRGBAAt(2, 1))
	assert.Equal(t, under, fb.NRGBAAt(1, 2))
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, fb.NRGBAAt(2, 2))
}

func TestPlatform_SpriteFailureLeavesNothingAllocated(t *testing.T) {
	_, ctx := initPlatform(t)
	before := ctx.Live()
	_, err := gfx.NewSprite(ctx, gfx.Image{Pixels: []uint8{0, 3}, Width: 2, Height: 1, PaletteSize: 2}, gfx.Palette{Colors: []uint32{1, 2}})
	assert.ErrorIs(t, err, gfx.ErrPaletteIndexOutOfRange)
	assert.Equal(t, before, ctx.Live())
}

func TestPlatform_TextureLimit(t *testing.T) {
	_, ctx := initPlatform(t, WithTextureLimit(8))
	_, err := gfx.NewSprite(ctx, gfx.Image{Pixels: []uint8{0, 0}, Width: 2, Height: 1}, gfx.Palette{Colors: []uint32{0xFFFFFFFF}})
	assert.ErrorIs(t, err, gfx.ErrResourceAllocation)
	assert.Equal(t, 0, ctx.Live())
}

func TestPlatform_InitFailure(t *testing.T) {
	p := New(WithSize(0, 0))
	ctx, err := p.Init()
	assert.Nil(t, ctx)
	assert.ErrorIs(t, err, gfx.ErrInitialization)
	assert.Nil(t, p.Framebuffer())

	assert.NotPanics(t, p.FreeResources)
}

func TestPlatform_FreeResourcesIdempotent(t *testing.T) {
	p := New(WithSize(4, 4))
	assert.NotPanics(t, p.FreeResources)

	ctx, err := p.Init()
	require.NoError(t, err)
	_, err = gfx.NewSprite(ctx, gfx.Image{Pixels: []uint8{0}, Width: 1, Height: 1}, gfx.Palette{Colors: []uint32{0xFFFFFFFF}})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		p.FreeResources()
		p.FreeResources()
	})
	assert.Equal(t, 0, ctx.(*raster.Context).Live())

	// drawing after teardown is ignored
	assert.NotPanics(t, func() {
		p.ClearScreen()
		p.DrawText("late", 0, 0)
		p.Present()
	})
}

func TestPlatform_PresentSnapshots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	p, _ := initPlatform(t, WithSize(4, 4), WithSnapshots(dir, 2))
	for i := 0; i < 5; i++ {
		p.ClearScreen()
		p.Present()
	}
	assert.Equal(t, uint64(5), p.Frames())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.FileExists(t, raster.SnapshotPath(dir, 2))
	assert.FileExists(t, raster.SnapshotPath(dir, 4))
}

func TestPlatform_DrawText(t *testing.T) {
	p, _ := initPlatform(t, WithSize(64, 16))
	p.ClearScreen()
	p.DrawText("frame 1", 0, 0)

	found := false
	img := p.Framebuffer().Image()
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] == TextColor.R && img.Pix[i+3] == TextColor.A {
			found = true
			break
		}
	}
	assert.True(t, found)

	quiet, _ := initPlatform(t, WithSize(8, 8), WithFace(nil))
	quiet.ClearScreen()
	quiet.DrawText("nothing", 0, 0)
	assert.Equal(t, Background, quiet.Framebuffer().Image().NRGBAAt(0, 0))
}

func TestPlatform_Delay(t *testing.T) {
	p := New()
	start := time.Now()
	p.Delay(5 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}
