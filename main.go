package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/image/font"

	"oddstream.games/sprites/assets"
	"oddstream.games/sprites/game"
	"oddstream.games/sprites/gfx"
	"oddstream.games/sprites/platform/software"
	"oddstream.games/sprites/platform/window"
	"oddstream.games/sprites/raster"
	"oddstream.games/sprites/util"
)

const (
	backendWindow   = "window"
	backendSoftware = "software"
)

var backends = []string{backendWindow, backendSoftware}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadSprite(c *cli.Context) (gfx.Image, gfx.Palette, error) {
	path := c.String("sprite")
	if path == "" {
		return assets.Demo()
	}
	f, err := os.Open(path)
	if err != nil {
		return gfx.Image{}, gfx.Palette{}, err
	}
	defer f.Close()
	return assets.Load(f, util.ClampInt(c.Int("colors"), 2, assets.MaxColors))
}

func loadFace(path string) (font.Face, error) {
	if path == "" {
		return raster.DefaultFace(), nil
	}
	ttf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return raster.NewFace(ttf, 10)
}

// newPlatform expects a backend name already checked against backends.
func newPlatform(c *cli.Context, logger *slog.Logger) (gfx.Platform, error) {
	face, err := loadFace(c.String("font"))
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	compose := []software.Option{
		software.WithFace(face),
		software.WithLogger(logger),
		software.WithSnapshots(c.String("snapshot-dir"), c.Int("snapshot-every")),
	}

	if c.String("backend") == backendSoftware {
		return software.New(compose...), nil
	}
	return window.New(
		window.WithScale(c.Int("scale")),
		window.WithTitle("Sprites"),
		window.WithLogger(logger),
		window.WithSoftware(compose...),
	), nil
}

func run(c *cli.Context) error {
	logger := newLogger(c.Bool("debug"))

	if !util.Contains(backends, c.String("backend")) {
		return cli.Exit(fmt.Sprintf("unknown backend %q, want one of %v", c.String("backend"), backends), 1)
	}

	// Decoding happens before Init; the sprite itself is only built from
	// the context Init returns.
	img, pal, err := loadSprite(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	p, err := newPlatform(c, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}

	g := game.New(p, game.Demo(img, pal), game.WithLogger(logger), game.WithDebug(c.Bool("debug")))
	if err := g.Run(); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "sprites"
	app.Usage = "draw an indexed-colour sprite for a fixed number of frames"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "backend",
			EnvVars: []string{"SPRITES_BACKEND"},
			Value:   backendWindow,
			Usage:   "display backend: window or software",
		},
		&cli.IntFlag{
			Name:    "scale",
			EnvVars: []string{"SPRITES_SCALE"},
			Value:   window.DefaultScale,
			Usage:   "window scale factor",
		},
		&cli.StringFlag{
			Name:  "sprite",
			Usage: "PNG or GIF to draw instead of the built-in sprite",
		},
		&cli.IntFlag{
			Name:  "colors",
			Value: 16,
			Usage: "palette size used when quantizing --sprite",
		},
		&cli.StringFlag{
			Name:  "font",
			Usage: "TrueType font for text",
		},
		&cli.StringFlag{
			Name:    "snapshot-dir",
			EnvVars: []string{"SPRITES_SNAPSHOT_DIR"},
			Usage:   "write presented frames as PNG files to this directory",
		},
		&cli.IntFlag{
			Name:  "snapshot-every",
			Value: 60,
			Usage: "write every nth frame when --snapshot-dir is set",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			EnvVars: []string{"SPRITES_DEBUG"},
			Usage:   "debug logging and frame counter overlay",
		},
	}
	app.Action = run
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
