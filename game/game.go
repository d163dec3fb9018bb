// Package game runs a fixed number of frames against a gfx.Platform.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"oddstream.games/sprites/gfx"
	"oddstream.games/sprites/util"
)

const (
	// FrameLimit is the number of frames a run presents.
	FrameLimit = 300
	// FrameInterval is the delay after each frame, about 60 FPS.
	FrameInterval = 16 * time.Millisecond
)

// ErrTerminated is returned by Run on a game that has already finished.
var ErrTerminated = errors.New("game: already terminated")

// State is a step in the game's lifecycle.
type State int

const (
	Uninitialized State = iota
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Game drives a Platform through init, FrameLimit frames and teardown.
type Game struct {
	platform     gfx.Platform
	build        SceneFunc
	logger       *slog.Logger
	debug        bool
	state        State
	frameCounter uint64
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithDebug draws a frame counter in the top-left corner.
func WithDebug(debug bool) Option {
	return func(g *Game) {
		g.debug = debug
	}
}

// New creates a game. The platform is not owned by the game.
func New(p gfx.Platform, build SceneFunc, opts ...Option) *Game {
	g := &Game{
		platform: p,
		build:    build,
		logger:   util.NopLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns the current lifecycle state.
func (g *Game) State() State {
	return g.state
}

// Frames returns the number of frames completed.
func (g *Game) Frames() uint64 {
	return g.frameCounter
}

func (g *Game) setState(s State) {
	g.logger.Debug("game state", "from", g.state, "to", s)
	g.state = s
}

// Run initializes the platform, builds the scene, runs FrameLimit frames
// and frees the platform. If Init fails nothing else is called on the
// platform. Any other failure after Init still frees the platform once.
func (g *Game) Run() error {
	if g.state != Uninitialized {
		return ErrTerminated
	}
	defer util.Duration(g.logger, time.Now(), "game.Run")

	ctx, err := g.platform.Init()
	if err != nil {
		g.setState(Terminated)
		if !errors.Is(err, gfx.ErrInitialization) {
			err = fmt.Errorf("%w: %w", gfx.ErrInitialization, err)
		}
		return fmt.Errorf("game: %w", err)
	}
	g.setState(Running)

	scene, err := g.build(ctx)
	if err != nil {
		g.platform.FreeResources()
		g.setState(Terminated)
		return fmt.Errorf("game: building scene: %w", err)
	}
	if scene == nil {
		scene = NewScene()
	}

	for g.frameCounter < FrameLimit {
		g.platform.ClearScreen()
		scene.Draw(g.platform)
		if g.debug {
			g.platform.DrawText(fmt.Sprintf("frame %d", g.frameCounter+1), 2, 2)
		}
		g.platform.Present()
		g.platform.Delay(FrameInterval)
		g.frameCounter++
	}

	scene.Release()
	g.platform.FreeResources()
	g.setState(Terminated)
	g.logger.Info("game finished", "frames", g.frameCounter)
	return nil
}
