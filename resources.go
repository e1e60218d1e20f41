package canvas

// CanvasImage is anything a session can draw: it realizes itself as a
// native image for a given device and context.
type CanvasImage interface {
	NativeImage(device Device, dc DeviceContext) (Image, error)
}

// CanvasBitmap is a CanvasImage backed by an already realized bitmap. Images
// implementing it are eligible for the bitmap blit fast path.
type CanvasBitmap interface {
	CanvasImage
	NativeBitmap() Bitmap
}

// CanvasBrush realizes a native brush for a context.
type CanvasBrush interface {
	NativeBrush(dc DeviceContext) (Brush, error)
}

// CanvasGeometry realizes a native geometry.
type CanvasGeometry interface {
	NativeGeometry() Geometry
}

type imageResource struct{ img Image }

func (r imageResource) NativeImage(Device, DeviceContext) (Image, error) { return r.img, nil }

type bitmapResource struct{ bmp Bitmap }

func (r bitmapResource) NativeImage(Device, DeviceContext) (Image, error) { return r.bmp, nil }
func (r bitmapResource) NativeBitmap() Bitmap                            { return r.bmp }

type brushResource struct{ brush Brush }

func (r brushResource) NativeBrush(DeviceContext) (Brush, error) { return r.brush, nil }

type geometryResource struct{ geom Geometry }

func (r geometryResource) NativeGeometry() Geometry { return r.geom }

// WrapImage returns a CanvasImage for an already realized native image.
// If img is a Bitmap the result is a CanvasBitmap.
func WrapImage(img Image) CanvasImage {
	if b, ok := img.(Bitmap); ok {
		return bitmapResource{bmp: b}
	}
	return imageResource{img: img}
}

// WrapBitmap returns a CanvasBitmap for a realized native bitmap.
func WrapBitmap(b Bitmap) CanvasBitmap {
	return bitmapResource{bmp: b}
}

// WrapBrush returns a CanvasBrush for a realized native brush.
func WrapBrush(b Brush) CanvasBrush {
	return brushResource{brush: b}
}

// WrapGeometry returns a CanvasGeometry for a realized native geometry.
func WrapGeometry(g Geometry) CanvasGeometry {
	return geometryResource{geom: g}
}
