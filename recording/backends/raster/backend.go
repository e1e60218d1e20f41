// Package raster registers the software raster playback backend.
//
//	import _ "github.com/gogpu/canvas/recording/backends/raster"
//
//	backend, _ := recording.NewBackend("raster", 800, 600, 96)
//	_ = rec.Playback(backend)
//	img := backend.Snapshot()
package raster

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"

	canvasraster "github.com/gogpu/canvas/raster"
	"github.com/gogpu/canvas/recording"
)

func init() {
	recording.Register("raster", func(w, h int, dpi float32) recording.Backend {
		return NewBackend(w, h, dpi)
	})
}

// Backend renders playback into an image.
type Backend struct {
	*canvasraster.Context
}

// Ensure Backend implements all required interfaces.
var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
)

// NewBackend returns a backend with a transparent w x h target at dpi.
func NewBackend(w, h int, dpi float32) *Backend {
	return &Backend{Context: canvasraster.NewContext(w, h, dpi)}
}

// Snapshot implements recording.Backend.
func (b *Backend) Snapshot() image.Image { return b.Image() }

// WriteTo writes the image as PNG.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, b.Image()); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// SaveToFile saves the image as a PNG file.
func (b *Backend) SaveToFile(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	_, err = b.WriteTo(f)
	return err
}
