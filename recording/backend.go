package recording

import (
	"image"
	"io"

	"github.com/gogpu/canvas"
)

// Backend is a playback target: a device context whose result can be read
// back as an image.
//
// Backends are created via the registry using NewBackend(name, ...) and
// registered via Register() in their init() functions:
//
//	func init() {
//	    recording.Register("raster", func(w, h int, dpi float32) recording.Backend {
//	        return NewBackend(w, h, dpi)
//	    })
//	}
type Backend interface {
	canvas.DeviceContext

	// Snapshot returns the rendered pixels.
	Snapshot() image.Image
}

// WriterBackend is implemented by backends that can encode their output.
type WriterBackend interface {
	Backend

	// WriteTo writes the output in the backend's native format.
	WriteTo(w io.Writer) (int64, error)
}

// FileBackend is implemented by backends that can save their output.
type FileBackend interface {
	Backend

	// SaveToFile saves the output to the given path.
	SaveToFile(path string) error
}
