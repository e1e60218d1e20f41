// Package canvas provides an immediate mode drawing session on top of a
// pluggable native 2D device context.
//
// # Overview
//
// A [DrawingSession] exclusively drives a [DeviceContext] between its
// creation and [DrawingSession.Close]. It translates high level calls (draw
// an image with opacity into a rectangle, open a clipped layer, draw ink)
// into the primitives the context offers, and keeps the bookkeeping the
// context does not: which layers are open, the session offset, cached
// brushes and the ink renderer.
//
// # Quick Start
//
//	target := raster.NewTarget(640, 480, 96)
//	ds, err := target.CreateDrawingSession()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ds.Clear(colornames.White)
//
//	layer, _ := ds.CreateLayer(0.5)
//	ds.DrawImageAt(canvas.WrapBitmap(bmp), canvas.Vec2(10, 10))
//	layer.Close()
//
//	if err := ds.Close(); err != nil {
//	    log.Fatal(err)
//	}
//	target.SavePNG("out.png")
//
// # Image Drawing
//
// Bitmaps drawn with a primitive blend and interpolation that the bitmap
// blit reproduces exactly take the blit. Everything else goes through the
// context's image composite primitive, with opacity applied by a color
// matrix effect and source rectangles wrapped in a border effect so edge
// pixels are sampled the same way on both paths.
//
// # Layers
//
// Layers are closed in reverse order of creation. Closing a layer out of
// order fails with [ErrPoppedWrongLayer]; closing a session with layers
// still open reports [ErrDidNotPopLayer] but still ends drawing.
//
// # Units
//
// Coordinates are in device independent pixels (1/96 inch) by default, or
// physical pixels after [DrawingSession.SetUnits]. [PixelsToDips] and
// [DipsToPixels] convert between them.
//
// # Backends
//
// Sub-packages provide device contexts:
//   - raster: software rendering into an *image.RGBA
//   - recording: records every primitive call for inspection and playback
//
// # Logging
//
// canvas logs nothing by default. See [SetLogger].
package canvas
