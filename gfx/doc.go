/*
Package gfx holds the data records and contracts shared by the renderer.

An Image is a row-major buffer of 8-bit palette indices and a Palette is a
table of packed 32-bit colours read as 0xRRGGBBAA. A Sprite converts one
Image and Palette pair into a renderable Texture exactly once, using the
Context handed out by a successful Platform.Init. Pixels resolving to
TransparencyKey are never drawn.
*/
package gfx
