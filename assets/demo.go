package assets

import (
	"image/color"

	"github.com/fogleman/gg"

	"oddstream.games/sprites/gfx"
)

// DemoSize is the edge length of the built-in sprite.
const DemoSize = 24

// demoColors is the palette budget for the built-in sprite.
const demoColors = 16

// Demo draws the built-in sprite, a rounded tile with a face, and returns
// it as an indexed image.
func Demo() (gfx.Image, gfx.Palette, error) {
	dc := gg.NewContext(DemoSize, DemoSize)

	dc.SetColor(color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff})
	dc.DrawRoundedRectangle(0, 4, DemoSize, DemoSize-4, 5)
	dc.Fill()

	dc.SetColor(color.RGBA{R: 0x2c, G: 0x8b, B: 0xff, A: 0xff})
	dc.DrawRoundedRectangle(0, 0, DemoSize, DemoSize-4, 5)
	dc.Fill()

	dc.SetColor(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	dc.DrawCircle(8, 8, 3)
	dc.DrawCircle(16, 8, 3)
	dc.Fill()

	dc.SetColor(color.RGBA{R: 0xff, G: 0x24, B: 0x24, A: 0xff})
	dc.DrawRectangle(7, 14, 10, 2)
	dc.Fill()

	return Convert(dc.Image(), demoColors)
}
