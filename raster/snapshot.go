package raster

import (
	"fmt"
	"path/filepath"

	"github.com/fogleman/gg"
)

// SnapshotPath names the PNG written for frame n in dir.
func SnapshotPath(dir string, n uint64) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%04d.png", n))
}

// Snapshot writes the current frame to path as a PNG.
func (f *Framebuffer) Snapshot(path string) error {
	return gg.SavePNG(path, f.img)
}
