package game

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oddstream.games/sprites/gfx"
	"oddstream.games/sprites/raster"
)

// recorder is a gfx.Platform that logs every call.
type recorder struct {
	initErr error
	ctx     *raster.Context
	calls   []string
	counts  map[string]int
	delays  []time.Duration
	ctxLive []int // live textures seen at each FreeResources
}

func newRecorder(initErr error) *recorder {
	return &recorder{initErr: initErr, counts: make(map[string]int)}
}

func (r *recorder) record(name string) {
	r.calls = append(r.calls, name)
	r.counts[name]++
}

func (r *recorder) Init() (gfx.Context, error) {
	r.record("Init")
	if r.initErr != nil {
		return nil, r.initErr
	}
	r.ctx = raster.NewContext(0)
	return r.ctx, nil
}

func (r *recorder) ClearScreen() { r.record("ClearScreen") }
func (r *recorder) DrawSprite(x, y int, s *gfx.Sprite) {
	r.record(fmt.Sprintf("DrawSprite(%d,%d)", x, y))
	r.counts["DrawSprite"]++
}
func (r *recorder) DrawText(text string, x, y int) { r.record("DrawText") }
func (r *recorder) Present()                       { r.record("Present") }
func (r *recorder) Delay(d time.Duration) {
	r.record("Delay")
	r.delays = append(r.delays, d)
}
func (r *recorder) FreeResources() {
	r.record("FreeResources")
	if r.ctx != nil {
		r.ctxLive = append(r.ctxLive, r.ctx.Live())
	}
}

var (
	testImage   = gfx.Image{Pixels: []uint8{0, 1, 1, 0}, Width: 2, Height: 2, PaletteSize: 2}
	testPalette = gfx.Palette{Colors: []uint32{0xFF0000FF, gfx.TransparencyKey}}
)

func TestRun_InitFailureSkipsEverything(t *testing.T) {
	r := newRecorder(errors.New("no display"))
	built := false
	g := New(r, func(gfx.Context) (*Scene, error) {
		built = true
		return NewScene(), nil
	})

	err := g.Run()
	assert.ErrorIs(t, err, gfx.ErrInitialization)
	assert.Equal(t, []string{"Init"}, r.calls)
	assert.False(t, built, "no sprite may be built before a successful Init")
	assert.Equal(t, Terminated, g.State())
	assert.Equal(t, uint64(0), g.Frames())
}

func TestRun_FullLoop(t *testing.T) {
	r := newRecorder(nil)
	g := New(r, Demo(testImage, testPalette))
	assert.Equal(t, Uninitialized, g.State())

	require.NoError(t, g.Run())
	assert.Equal(t, Terminated, g.State())
	assert.Equal(t, uint64(FrameLimit), g.Frames())

	assert.Equal(t, 1, r.counts["Init"])
	assert.Equal(t, FrameLimit, r.counts["ClearScreen"])
	assert.Equal(t, 2*FrameLimit, r.counts["DrawSprite"])
	assert.Equal(t, FrameLimit, r.counts["Present"])
	assert.Equal(t, FrameLimit, r.counts["Delay"])
	assert.Equal(t, 1, r.counts["FreeResources"])
	assert.Equal(t, 0, r.counts["DrawText"])

	assert.Equal(t, "FreeResources", r.calls[len(r.calls)-1])
	for _, d := range r.delays {
		assert.Equal(t, 16*time.Millisecond, d)
	}
	// sprites are released before the platform goes away
	assert.Equal(t, []int{0}, r.ctxLive)
}

func TestRun_FrameOrder(t *testing.T) {
	r := newRecorder(nil)
	require.NoError(t, New(r, Demo(testImage, testPalette)).Run())

	want := []string{"Init", "ClearScreen", "DrawSprite(10,10)", "DrawSprite(30,30)", "Present", "Delay", "ClearScreen"}
	assert.Equal(t, want, r.calls[:len(want)])

	lastPresent := -1
	for i, c := range r.calls {
		if c == "Present" {
			lastPresent = i
		}
	}
	assert.Less(t, lastPresent, len(r.calls)-1)
}

func TestRun_SceneFailureFreesOnce(t *testing.T) {
	r := newRecorder(nil)
	bad := gfx.Image{Pixels: []uint8{7}, Width: 1, Height: 1, PaletteSize: 2}
	g := New(r, Demo(bad, testPalette))

	err := g.Run()
	assert.ErrorIs(t, err, gfx.ErrPaletteIndexOutOfRange)
	assert.Equal(t, []string{"Init", "FreeResources"}, r.calls)
	assert.Equal(t, []int{0}, r.ctxLive)
	assert.Equal(t, Terminated, g.State())
}

func TestRun_Twice(t *testing.T) {
	r := newRecorder(nil)
	g := New(r, func(gfx.Context) (*Scene, error) { return nil, nil })
	require.NoError(t, g.Run())
	assert.ErrorIs(t, g.Run(), ErrTerminated)
	assert.Equal(t, 1, r.counts["Init"])
	assert.Equal(t, 1, r.counts["FreeResources"])
}

func TestRun_DebugOverlayAndLabels(t *testing.T) {
	r := newRecorder(nil)
	g := New(r, func(ctx gfx.Context) (*Scene, error) {
		s := NewScene()
		s.Label("hello", 0, 0)
		return s, nil
	}, WithDebug(true))
	require.NoError(t, g.Run())
	assert.Equal(t, 2*FrameLimit, r.counts["DrawText"])
	assert.Equal(t, FrameLimit, r.counts["Present"])
}

func TestScene_PlacementOrderAndRelease(t *testing.T) {
	ctx := raster.NewContext(0)
	s := NewScene()
	sp, err := s.Add(ctx, testImage, testPalette)
	require.NoError(t, err)
	s.Place(sp, 5, 6)
	s.Place(sp, 1, 2)

	assert.Equal(t, []Placement{{Sprite: sp, X: 5, Y: 6}, {Sprite: sp, X: 1, Y: 2}}, s.Placements())
	assert.Equal(t, 1, ctx.Live())

	s.Release()
	s.Release()
	assert.Equal(t, 0, ctx.Live())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "terminated", Terminated.String())
	assert.Equal(t, "State(9)", State(9).String())
}
