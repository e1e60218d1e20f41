package raster

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/canvas"
)

var (
	errNotDrawing      = errors.New("raster: EndDraw without BeginDraw")
	errAlreadyDrawing  = errors.New("raster: BeginDraw while already drawing")
	errUnbalancedStack = errors.New("raster: EndDraw with layers or clips still pushed")
)

// Context renders into an *image.RGBA. It is not safe for concurrent use.
type Context struct {
	device *Device
	dpi    float32
	base   *image.RGBA

	// surface is the innermost layer's buffer, or base.
	surface *image.RGBA
	// clip is the current clip in device pixels.
	clip  image.Rectangle
	stack []stackEntry

	transform   canvas.Matrix3x2
	units       canvas.Units
	antialias   canvas.AntialiasMode
	textAA      canvas.TextAntialiasMode
	blend       canvas.PrimitiveBlend
	controls    canvas.RenderingControls
	drawing     bool
	pendingErrs []error
}

var _ canvas.DeviceContext = (*Context)(nil)

// NewContext returns a context drawing into a new transparent w x h image
// at dpi, using the shared default device.
func NewContext(w, h int, dpi float32) *Context {
	return defaultDevice.NewContext(w, h, dpi)
}

// NewContext returns a context drawing into a new transparent w x h image
// at dpi.
func (d *Device) NewContext(w, h int, dpi float32) *Context {
	if dpi <= 0 {
		dpi = canvas.DefaultDpi
	}
	base := image.NewRGBA(image.Rect(0, 0, w, h))
	return &Context{
		device:    d,
		dpi:       dpi,
		base:      base,
		surface:   base,
		clip:      base.Rect,
		transform: canvas.Identity(),
		controls:  canvas.RenderingControls{TileWidth: 256, TileHeight: 256},
	}
}

// Image returns the rendered pixels. The image is shared, not copied.
func (c *Context) Image() *image.RGBA { return c.base }

// BeginDraw implements canvas.DeviceContext.
func (c *Context) BeginDraw() {
	if c.drawing {
		c.pendingErrs = append(c.pendingErrs, errAlreadyDrawing)
	}
	c.drawing = true
}

// EndDraw implements canvas.DeviceContext. Like a native context, it also
// reports failures of the state calls made since BeginDraw.
func (c *Context) EndDraw() error {
	errs := c.pendingErrs
	c.pendingErrs = nil
	if !c.drawing {
		errs = append(errs, errNotDrawing)
	}
	if len(c.stack) != 0 {
		errs = append(errs, fmt.Errorf("%w (%d)", errUnbalancedStack, len(c.stack)))
	}
	c.drawing = false
	return errors.Join(errs...)
}

// Flush implements canvas.DeviceContext. Drawing is immediate, so only
// pending state errors are reported.
func (c *Context) Flush() error {
	errs := c.pendingErrs
	c.pendingErrs = nil
	return errors.Join(errs...)
}

// Clear fills the current clip of the current surface with col. The
// transform is ignored.
func (c *Context) Clear(col gputypes.Color) {
	px := premultiply(col)
	for y := c.clip.Min.Y; y < c.clip.Max.Y; y++ {
		for x := c.clip.Min.X; x < c.clip.Max.X; x++ {
			i := c.surface.PixOffset(x, y)
			copy(c.surface.Pix[i:i+4], px[:])
		}
	}
}

func premultiply(col gputypes.Color) [4]byte {
	a := clamp01(col.A)
	return [4]byte{
		unitByte(clamp01(col.R) * a),
		unitByte(clamp01(col.G) * a),
		unitByte(clamp01(col.B) * a),
		unitByte(a),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func unitByte(v float64) byte { return byte(v*255 + 0.5) }

// Transform implements canvas.DeviceContext.
func (c *Context) Transform() canvas.Matrix3x2 { return c.transform }

// SetTransform implements canvas.DeviceContext.
func (c *Context) SetTransform(m canvas.Matrix3x2) { c.transform = m }

// UnitMode implements canvas.DeviceContext.
func (c *Context) UnitMode() canvas.Units { return c.units }

// SetUnitMode implements canvas.DeviceContext.
func (c *Context) SetUnitMode(u canvas.Units) { c.units = u }

// AntialiasMode implements canvas.DeviceContext.
func (c *Context) AntialiasMode() canvas.AntialiasMode { return c.antialias }

// SetAntialiasMode implements canvas.DeviceContext.
func (c *Context) SetAntialiasMode(aa canvas.AntialiasMode) { c.antialias = aa }

// TextAntialiasMode implements canvas.DeviceContext.
func (c *Context) TextAntialiasMode() canvas.TextAntialiasMode { return c.textAA }

// SetTextAntialiasMode implements canvas.DeviceContext. Text is not drawn
// by this backend; the mode is only stored.
func (c *Context) SetTextAntialiasMode(aa canvas.TextAntialiasMode) { c.textAA = aa }

// PrimitiveBlend implements canvas.DeviceContext.
func (c *Context) PrimitiveBlend() canvas.PrimitiveBlend { return c.blend }

// SetPrimitiveBlend implements canvas.DeviceContext.
func (c *Context) SetPrimitiveBlend(b canvas.PrimitiveBlend) { c.blend = b }

// RenderingControls implements canvas.DeviceContext.
func (c *Context) RenderingControls() canvas.RenderingControls { return c.controls }

// SetRenderingControls implements canvas.DeviceContext.
func (c *Context) SetRenderingControls(rc canvas.RenderingControls) { c.controls = rc }

// Dpi implements canvas.DeviceContext.
func (c *Context) Dpi() float32 { return c.dpi }

// Device implements canvas.DeviceContext.
func (c *Context) Device() canvas.Device { return c.device }

// worldTransform maps user coordinates to device pixels.
func (c *Context) worldTransform() canvas.Matrix3x2 {
	if c.units == canvas.UnitsPixels {
		return c.transform
	}
	k := c.dpi / canvas.DefaultDpi
	return c.transform.Multiply(canvas.Scaling(k, k))
}

// unitsPerPixel returns how many user units one pixel of an image at dpi
// spans.
func (c *Context) unitsPerPixel(dpi float32) float32 {
	if c.units == canvas.UnitsPixels {
		return 1
	}
	return canvas.DefaultDpi / dpi
}

// ImageLocalBounds implements canvas.DeviceContext.
func (c *Context) ImageLocalBounds(img canvas.Image) (canvas.RectF, error) {
	r, err := realize(img, c.dpi)
	if err != nil {
		return canvas.RectF{}, err
	}
	k := c.unitsPerPixel(r.dpi)
	b := r.pix.Rect
	return canvas.RectF{
		Left:   float32(b.Min.X-r.origin.X) * k,
		Top:    float32(b.Min.Y-r.origin.Y) * k,
		Right:  float32(b.Max.X-r.origin.X) * k,
		Bottom: float32(b.Max.Y-r.origin.Y) * k,
	}, nil
}

// CreateEffect implements canvas.DeviceContext.
func (c *Context) CreateEffect(kind canvas.EffectKind) (canvas.Effect, error) {
	return newEffect(kind)
}

// SetDpiCompensatedEffectInput implements canvas.DeviceContext.
func (c *Context) SetDpiCompensatedEffectInput(e canvas.Effect, index int, b canvas.Bitmap) error {
	fx, ok := e.(*effect)
	if !ok {
		return fmt.Errorf("raster: unsupported effect type %T", e)
	}
	bmp, ok := b.(*Bitmap)
	if !ok {
		return fmt.Errorf("raster: unsupported bitmap type %T", b)
	}
	fx.setInput(index, effectInput{img: bmp, compensated: true})
	return nil
}

// CreateSolidColorBrush implements canvas.DeviceContext.
func (c *Context) CreateSolidColorBrush(col gputypes.Color) (canvas.SolidColorBrush, error) {
	return NewSolidBrush(col), nil
}

// CreateBitmap implements canvas.DeviceContext.
func (c *Context) CreateBitmap(img image.Image, dpi float32) (canvas.Bitmap, error) {
	b := img.Bounds()
	if limit := c.device.maxBitmapSize; b.Dx() > limit || b.Dy() > limit {
		return nil, fmt.Errorf("raster: bitmap %dx%d exceeds maximum size %d", b.Dx(), b.Dy(), limit)
	}
	return NewBitmap(img, dpi), nil
}

type stateBlock struct {
	saved     bool
	transform canvas.Matrix3x2
	units     canvas.Units
	antialias canvas.AntialiasMode
	textAA    canvas.TextAntialiasMode
	blend     canvas.PrimitiveBlend
}

// CreateDrawingStateBlock implements canvas.DeviceContext.
func (c *Context) CreateDrawingStateBlock() (canvas.DrawingStateBlock, error) {
	return &stateBlock{}, nil
}

// SaveDrawingState implements canvas.DeviceContext.
func (c *Context) SaveDrawingState(b canvas.DrawingStateBlock) {
	sb, ok := b.(*stateBlock)
	if !ok {
		c.pendingErrs = append(c.pendingErrs, fmt.Errorf("raster: unsupported state block type %T", b))
		return
	}
	*sb = stateBlock{
		saved:     true,
		transform: c.transform,
		units:     c.units,
		antialias: c.antialias,
		textAA:    c.textAA,
		blend:     c.blend,
	}
}

// RestoreDrawingState implements canvas.DeviceContext. Restoring a block
// that was never saved does nothing.
func (c *Context) RestoreDrawingState(b canvas.DrawingStateBlock) {
	sb, ok := b.(*stateBlock)
	if !ok {
		c.pendingErrs = append(c.pendingErrs, fmt.Errorf("raster: unsupported state block type %T", b))
		return
	}
	if !sb.saved {
		return
	}
	c.transform = sb.transform
	c.units = sb.units
	c.antialias = sb.antialias
	c.textAA = sb.textAA
	c.blend = sb.blend
}
