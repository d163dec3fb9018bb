// Package window is a gfx.Platform that shows frames in an ebiten window.
//
// Frames are composed on the CPU by the embedded software platform and
// handed to ebiten on Present, so sprite output is identical to the
// headless backend.
package window

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"oddstream.games/sprites/gfx"
	"oddstream.games/sprites/platform/software"
	"oddstream.games/sprites/util"
)

var (
	_ gfx.Platform = (*Platform)(nil)
	_ ebiten.Game  = (*Platform)(nil)
)

const (
	DefaultScale = 4
	MaxScale     = 8
	DefaultTitle = "Sprites"

	// how long FreeResources waits for ebiten to wind down
	shutdownTimeout = 2 * time.Second
)

// Platform composes with a software.Platform and presents through ebiten.
type Platform struct {
	*software.Platform

	scale   int
	title   string
	logger  *slog.Logger
	compose []software.Option

	width, height int

	mu     sync.Mutex
	frame  []byte // premultiplied copy of the last presented frame
	screen *ebiten.Image

	firstDraw chan struct{}
	drawOnce  sync.Once
	done      chan struct{}
	runErr    error

	started  bool
	finished bool
	closing  atomic.Bool
	closed   atomic.Bool
	reported bool
}

// Option configures a Platform.
type Option func(*Platform)

// WithScale sets the integer window scale.
func WithScale(scale int) Option {
	return func(p *Platform) {
		p.scale = util.ClampInt(scale, 1, MaxScale)
	}
}

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(p *Platform) {
		p.title = title
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

// WithSoftware passes options through to the embedded software platform,
// which composes each frame before it is handed to ebiten.
func WithSoftware(opts ...software.Option) Option {
	return func(p *Platform) {
		p.compose = append(p.compose, opts...)
	}
}

// New creates an uninitialized Platform.
func New(opts ...Option) *Platform {
	p := &Platform{
		scale:  DefaultScale,
		title:  DefaultTitle,
		logger: util.NopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Platform = software.New(append([]software.Option{software.WithLogger(p.logger)}, p.compose...)...)
	return p
}

// Init implements gfx.Platform. It returns once ebiten has drawn its first
// frame, or fails and rolls back if ebiten cannot start.
func (p *Platform) Init() (gfx.Context, error) {
	if p.started {
		return p.Platform.Init()
	}
	if p.finished {
		return nil, fmt.Errorf("window: ebiten cannot be restarted: %w", gfx.ErrInitialization)
	}

	ctx, err := p.Platform.Init()
	if err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}
	fb := p.Framebuffer()
	p.width, p.height = fb.Bounds().Dx(), fb.Bounds().Dy()
	p.frame = make([]byte, 4*p.width*p.height)
	fb.PremultipliedTo(p.frame)

	p.firstDraw = make(chan struct{})
	p.done = make(chan struct{})

	ebiten.SetWindowSize(p.width*p.scale, p.height*p.scale)
	ebiten.SetWindowTitle(p.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)

	go func() {
		defer close(p.done)
		if err := ebiten.RunGame(p); err != nil {
			p.mu.Lock()
			p.runErr = err
			p.mu.Unlock()
		}
	}()

	select {
	case <-p.firstDraw:
	case <-p.done:
		p.mu.Lock()
		err := p.runErr
		p.mu.Unlock()
		if err == nil {
			err = errors.New("window closed before the first frame")
		}
		p.Platform.FreeResources()
		p.frame = nil
		p.finished = true
		return nil, fmt.Errorf("window: %w: %w", gfx.ErrInitialization, err)
	}

	p.started = true
	p.logger.Info("window platform ready", "width", p.width*p.scale, "height", p.height*p.scale)
	return ctx, nil
}

// Present implements gfx.Platform. The frame is copied for ebiten's next
// Draw; if the user has closed the window the frame is dropped.
func (p *Platform) Present() {
	fb := p.Framebuffer()
	if fb == nil {
		return
	}
	p.Platform.Present()
	if p.closed.Load() {
		if !p.reported {
			p.reported = true
			p.logger.Info("window closed, frames are no longer shown")
		}
		return
	}
	p.mu.Lock()
	fb.PremultipliedTo(p.frame)
	p.mu.Unlock()
}

// FreeResources implements gfx.Platform.
func (p *Platform) FreeResources() {
	if p.started {
		p.closing.Store(true)
		select {
		case <-p.done:
		case <-time.After(shutdownTimeout):
			p.logger.Warn("ebiten did not stop in time")
		}
		p.mu.Lock()
		p.screen = nil
		p.frame = nil
		p.mu.Unlock()
		p.started = false
		p.finished = true
		p.logger.Info("window platform resources freed")
	}
	p.Platform.FreeResources()
}

// Update implements ebiten.Game.
func (p *Platform) Update() error {
	if p.closing.Load() {
		return ebiten.Termination
	}
	if ebiten.IsWindowBeingClosed() {
		p.closed.Store(true)
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (p *Platform) Draw(screen *ebiten.Image) {
	p.mu.Lock()
	if p.frame != nil {
		if p.screen == nil {
			p.screen = ebiten.NewImage(p.width, p.height)
		}
		p.screen.WritePixels(p.frame)
	}
	img := p.screen
	p.mu.Unlock()

	if img != nil {
		screen.DrawImage(img, nil)
	}
	p.drawOnce.Do(func() {
		close(p.firstDraw)
	})
}

// Layout implements ebiten.Game.
func (p *Platform) Layout(_, _ int) (int, int) {
	return p.width, p.height
}
