package raster

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/canvas"
)

// DefaultMaximumBitmapSize is the largest bitmap edge accepted by a Device
// created with NewDevice(0).
const DefaultMaximumBitmapSize = 16384

// Device creates bitmaps. Contexts created from the same device can draw
// each other's bitmaps.
type Device struct {
	maxBitmapSize int
}

var defaultDevice = NewDevice(0)

// NewDevice returns a device limiting bitmaps to maxBitmapSize pixels per
// edge. Zero selects DefaultMaximumBitmapSize.
func NewDevice(maxBitmapSize int) *Device {
	if maxBitmapSize <= 0 {
		maxBitmapSize = DefaultMaximumBitmapSize
	}
	return &Device{maxBitmapSize: maxBitmapSize}
}

// MaximumBitmapSize implements canvas.Device.
func (d *Device) MaximumBitmapSize() int { return d.maxBitmapSize }

// Bitmap is premultiplied RGBA pixel storage with a DPI.
type Bitmap struct {
	pix *image.RGBA
	dpi float32
}

var _ canvas.Bitmap = (*Bitmap)(nil)

// NewBitmap copies img into a bitmap at dpi.
func NewBitmap(img image.Image, dpi float32) *Bitmap {
	pix := clone.AsRGBA(img)
	b := pix.Bounds()
	if b.Min != (image.Point{}) {
		pix.Rect = image.Rect(0, 0, b.Dx(), b.Dy())
	}
	return &Bitmap{pix: pix, dpi: dpi}
}

// NewBitmapFilled returns a w x h bitmap filled with c.
func NewBitmapFilled(w, h int, dpi float32, c color.Color) *Bitmap {
	pix := image.NewRGBA(image.Rect(0, 0, w, h))
	r, g, bl, a := c.RGBA()
	px := [4]byte{byte(r >> 8), byte(g >> 8), byte(bl >> 8), byte(a >> 8)}
	for i := 0; i < len(pix.Pix); i += 4 {
		copy(pix.Pix[i:i+4], px[:])
	}
	return &Bitmap{pix: pix, dpi: dpi}
}

// PixelSize implements canvas.Bitmap.
func (b *Bitmap) PixelSize() (width, height int) {
	return b.pix.Rect.Dx(), b.pix.Rect.Dy()
}

// Size implements canvas.Bitmap.
func (b *Bitmap) Size() canvas.Size {
	w, h := b.PixelSize()
	return canvas.Size{
		Width:  canvas.PixelsToDips(w, b.dpi),
		Height: canvas.PixelsToDips(h, b.dpi),
	}
}

// Dpi implements canvas.Bitmap.
func (b *Bitmap) Dpi() float32 { return b.dpi }

// Format implements canvas.Bitmap. Storage is always premultiplied RGBA8.
func (b *Bitmap) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }

// Image returns the bitmap pixels. The image is shared, not copied.
func (b *Bitmap) Image() *image.RGBA { return b.pix }

// SolidBrush is a single color brush. As a layer opacity brush only its
// alpha is used.
type SolidBrush struct {
	color gputypes.Color
}

var _ canvas.SolidColorBrush = (*SolidBrush)(nil)

// NewSolidBrush returns a brush of color c.
func NewSolidBrush(c gputypes.Color) *SolidBrush { return &SolidBrush{color: c} }

// Color implements canvas.SolidColorBrush.
func (b *SolidBrush) Color() gputypes.Color { return b.color }

// SetColor implements canvas.SolidColorBrush.
func (b *SolidBrush) SetColor(c gputypes.Color) { b.color = c }

// Polygon is a closed polygon geometry, filled with the nonzero rule.
type Polygon struct {
	Points []canvas.Vector2
}

// NewPolygon returns a polygon through pts.
func NewPolygon(pts ...canvas.Vector2) *Polygon {
	return &Polygon{Points: pts}
}

// RectGeometry returns the polygon covering r.
func RectGeometry(r canvas.Rect) *Polygon {
	b := r.Bounds()
	return NewPolygon(
		canvas.Vec2(b.Left, b.Top),
		canvas.Vec2(b.Right, b.Top),
		canvas.Vec2(b.Right, b.Bottom),
		canvas.Vec2(b.Left, b.Bottom),
	)
}
