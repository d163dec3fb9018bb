/*
Package raster is a CPU rendering context shared by the display backends.

A Context allocates keyed textures and tracks how many are outstanding. A
Framebuffer is an NRGBA surface that textures are blitted onto with hard
chroma keying: drawable texels replace the destination byte for byte and
keyed texels leave it alone. Nothing in this package alpha blends.
*/
package raster
