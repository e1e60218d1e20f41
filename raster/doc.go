// Package raster is a software implementation of canvas.DeviceContext that
// renders into an *image.RGBA.
//
// Images are resampled with golang.org/x/image/draw and combined with the
// Porter-Duff operators of internal/composite. Layers are offscreen buffers
// composited back on pop; axis aligned clips are snapped to whole pixels.
//
// Usage:
//
//	target := raster.NewTarget(256, 256, 96)
//	ds, err := target.CreateDrawingSession()
//	if err != nil {
//		return err
//	}
//	_ = ds.Clear(color.White)
//	_ = ds.DrawImageAt(canvas.WrapBitmap(bmp), canvas.Vec2(10, 10))
//	if err := ds.Close(); err != nil {
//		return err
//	}
//	img := target.Image()
package raster
