// Package recording provides a canvas.DeviceContext that records calls
// instead of rendering them.
//
// The Recorder captures each DeviceContext call as a typed command struct
// (Cairo style, rather than a binary stream), so drawing can be inspected,
// counted, and replayed onto any other DeviceContext with Playback.
// Failures can be injected per command type with FailOn, which makes the
// recorder the standard collaborator for testing drawing sessions.
//
// # Basic Usage
//
//	rec := recording.NewRecorder(96)
//	ds := canvas.NewDrawingSession(rec, canvas.WithAdapter(canvas.NewSimpleAdapter(rec)))
//	_ = ds.DrawImageAt(img, canvas.Vec2(10, 10))
//	_ = ds.Close()
//
//	fmt.Println(rec.Count(recording.CmdDrawBitmap))
//
// # Playback to Backends
//
// Playback targets are registered by name, following the database/sql
// driver pattern:
//
//	import _ "github.com/gogpu/canvas/recording/backends/raster"
//
//	backend, err := recording.NewBackend("raster", 800, 600, 96)
//	if err != nil {
//		return err
//	}
//	if err := rec.Playback(backend); err != nil {
//		return err
//	}
//	img := backend.Snapshot()
package recording
