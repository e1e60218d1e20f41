package recording

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/canvas"
)

// Device is the recorder's device.
type Device struct {
	MaxBitmapSize int
}

// MaximumBitmapSize implements canvas.Device.
func (d *Device) MaximumBitmapSize() int { return d.MaxBitmapSize }

// Bitmap is a recorded bitmap. Img may be nil for a blank bitmap of the
// given pixel size.
type Bitmap struct {
	Img           image.Image
	Width, Height int
	DpiValue      float32
}

var _ canvas.Bitmap = (*Bitmap)(nil)

// NewBitmap returns a blank w x h bitmap at dpi.
func NewBitmap(w, h int, dpi float32) *Bitmap {
	return &Bitmap{Width: w, Height: h, DpiValue: dpi}
}

// PixelSize implements canvas.Bitmap.
func (b *Bitmap) PixelSize() (width, height int) { return b.Width, b.Height }

// Size implements canvas.Bitmap.
func (b *Bitmap) Size() canvas.Size {
	return canvas.Size{
		Width:  canvas.PixelsToDips(b.Width, b.DpiValue),
		Height: canvas.PixelsToDips(b.Height, b.DpiValue),
	}
}

// Dpi implements canvas.Bitmap.
func (b *Bitmap) Dpi() float32 { return b.DpiValue }

// Format implements canvas.Bitmap.
func (b *Bitmap) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }

// image returns the pixels to realize the bitmap with on playback.
func (b *Bitmap) image() image.Image {
	if b.Img != nil {
		return b.Img
	}
	return image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
}

// EffectInput is one bound effect input.
type EffectInput struct {
	Image canvas.Image

	// DpiCompensated is set for inputs bound with
	// SetDpiCompensatedEffectInput.
	DpiCompensated bool
}

// Effect is a recorded effect. Its inputs and matrix are state on the
// effect itself, as on a native effect; they are replayed when the effect
// is first used on playback.
type Effect struct {
	kind   canvas.EffectKind
	Inputs []EffectInput
	Matrix canvas.ColorMatrix

	// matrixSet is true once SetColorMatrix has been called.
	matrixSet bool
}

var _ canvas.Effect = (*Effect)(nil)

// Kind implements canvas.Effect.
func (e *Effect) Kind() canvas.EffectKind { return e.kind }

// SetInput implements canvas.Effect.
func (e *Effect) SetInput(index int, img canvas.Image) {
	e.setInput(index, EffectInput{Image: img})
}

func (e *Effect) setInput(index int, in EffectInput) {
	for len(e.Inputs) <= index {
		e.Inputs = append(e.Inputs, EffectInput{})
	}
	e.Inputs[index] = in
}

// SetColorMatrix implements canvas.Effect.
func (e *Effect) SetColorMatrix(m canvas.ColorMatrix) error {
	if e.kind != canvas.EffectColorMatrix {
		return fmt.Errorf("recording: %v effect has no color matrix", e.kind)
	}
	e.Matrix = m
	e.matrixSet = true
	return nil
}

// Output implements canvas.Effect. The effect is its own output.
func (e *Effect) Output() canvas.Image { return e }

// SolidBrush is a recorded solid color brush.
type SolidBrush struct {
	color gputypes.Color
}

var _ canvas.SolidColorBrush = (*SolidBrush)(nil)

// Color implements canvas.SolidColorBrush.
func (b *SolidBrush) Color() gputypes.Color { return b.color }

// SetColor implements canvas.SolidColorBrush.
func (b *SolidBrush) SetColor(c gputypes.Color) { b.color = c }

// stateBlock is a recorded drawing state block.
type stateBlock struct {
	saved     bool
	transform canvas.Matrix3x2
	units     canvas.Units
	antialias canvas.AntialiasMode
	textAA    canvas.TextAntialiasMode
	blend     canvas.PrimitiveBlend
}
