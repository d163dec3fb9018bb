package game

import (
	"oddstream.games/sprites/gfx"
)

// Placement puts a sprite at a screen position.
type Placement struct {
	Sprite *gfx.Sprite
	X, Y   int
}

// Label is a line of text drawn each frame.
type Label struct {
	Text string
	X, Y int
}

// Scene is what gets drawn every frame. It owns the sprites added to it.
type Scene struct {
	sprites    []*gfx.Sprite
	placements []Placement
	labels     []Label
}

// SceneFunc builds a scene from the context of an initialized platform.
// It is the only point where sprites are created.
type SceneFunc func(ctx gfx.Context) (*Scene, error)

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Add builds a sprite from img and pal, hands ownership to the scene and
// returns it for placing.
func (s *Scene) Add(ctx gfx.Context, img gfx.Image, pal gfx.Palette) (*gfx.Sprite, error) {
	sp, err := gfx.NewSprite(ctx, img, pal)
	if err != nil {
		return nil, err
	}
	s.sprites = append(s.sprites, sp)
	return sp, nil
}

// Place draws sp at (x, y) every frame. Placements are drawn in the order
// they were added.
func (s *Scene) Place(sp *gfx.Sprite, x, y int) {
	s.placements = append(s.placements, Placement{Sprite: sp, X: x, Y: y})
}

// Label draws text at (x, y) every frame.
func (s *Scene) Label(text string, x, y int) {
	s.labels = append(s.labels, Label{Text: text, X: x, Y: y})
}

// Placements returns the placements in draw order.
func (s *Scene) Placements() []Placement {
	return s.placements
}

// Draw issues one DrawSprite per placement, then the labels.
func (s *Scene) Draw(p gfx.Platform) {
	for _, pl := range s.placements {
		p.DrawSprite(pl.X, pl.Y, pl.Sprite)
	}
	for _, l := range s.labels {
		p.DrawText(l.Text, l.X, l.Y)
	}
}

// Release frees every sprite the scene owns.
func (s *Scene) Release() {
	for _, sp := range s.sprites {
		sp.Release()
	}
	s.sprites = nil
}

// Demo places one sprite twice, at (10,10) and (30,30).
func Demo(img gfx.Image, pal gfx.Palette) SceneFunc {
	return func(ctx gfx.Context) (*Scene, error) {
		s := NewScene()
		sp, err := s.Add(ctx, img, pal)
		if err != nil {
			return nil, err
		}
		s.Place(sp, 10, 10)
		s.Place(sp, 30, 30)
		return s, nil
	}
}
