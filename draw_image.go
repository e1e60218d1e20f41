package canvas

import (
	"fmt"

	"github.com/chewxy/math32"
)

// DefaultDrawImageOpacity and DefaultDrawImageInterpolation are used by the
// short DrawImage forms. The default composite mode follows the primitive
// blend.
const (
	DefaultDrawImageOpacity       float32 = 1
	DefaultDrawImageInterpolation         = InterpolationLinear
)

// DrawImageOptions specifies one image draw.
type DrawImageOptions struct {
	// Offset is where the image's origin lands. Ignored if DestRect is set.
	Offset Vector2

	// DestRect, when set, stretches the source rectangle to fill it.
	DestRect *Rect

	// SourceRect selects part of the image. Nil draws all of it.
	SourceRect *Rect

	// Opacity multiplies the image alpha. Values >= 1 are opaque.
	Opacity float32

	// Interpolation selects how the image is sampled.
	Interpolation Interpolation

	// Composite overrides the mode implied by the primitive blend.
	Composite *CompositeMode
}

// DefaultDrawImageOptions returns options drawing the whole image at the
// origin, opaque, with linear interpolation.
func DefaultDrawImageOptions() DrawImageOptions {
	return DrawImageOptions{
		Opacity:       DefaultDrawImageOpacity,
		Interpolation: DefaultDrawImageInterpolation,
	}
}

// DrawBitmapOptions specifies one bitmap blit. Bitmap blits always use the
// primitive blend and support a perspective transform.
type DrawBitmapOptions struct {
	Offset        Vector2
	DestRect      *Rect
	SourceRect    *Rect
	Opacity       float32
	Interpolation Interpolation
	Perspective   *Matrix4x4
}

// DefaultDrawBitmapOptions mirrors DefaultDrawImageOptions.
func DefaultDrawBitmapOptions() DrawBitmapOptions {
	return DrawBitmapOptions{
		Opacity:       DefaultDrawImageOpacity,
		Interpolation: DefaultDrawImageInterpolation,
	}
}

// Composite returns a pointer to mode, for DrawImageOptions.Composite.
func Composite(mode CompositeMode) *CompositeMode { return &mode }

// DrawImage draws img at the origin.
func (s *DrawingSession) DrawImage(img CanvasImage) error {
	return s.DrawImageEx(img, DefaultDrawImageOptions())
}

// DrawImageAt draws img with its origin at offset.
func (s *DrawingSession) DrawImageAt(img CanvasImage, offset Vector2) error {
	opts := DefaultDrawImageOptions()
	opts.Offset = offset
	return s.DrawImageEx(img, opts)
}

// DrawImageToRect stretches bitmap to fill dest.
func (s *DrawingSession) DrawImageToRect(bitmap CanvasBitmap, dest Rect) error {
	opts := DefaultDrawBitmapOptions()
	opts.DestRect = &dest
	return s.DrawBitmapEx(bitmap, opts)
}

// DrawImageEx draws img as described by opts. Bitmaps drawn with options the
// bitmap blit reproduces exactly take the blit; everything else goes through
// the image composite primitive, with opacity and edge handling done by
// effects.
func (s *DrawingSession) DrawImageEx(img CanvasImage, opts DrawImageOptions) error {
	return boundary("DrawImage", func() error {
		dc, err := s.resource()
		if err != nil {
			return err
		}
		if img == nil {
			return fmt.Errorf("%w: image is nil", ErrInvalidArgument)
		}
		w := newDrawImageWorker(s.device(dc), dc, opts.Offset, opts.DestRect, opts.SourceRect, opts.Opacity, opts.Interpolation)
		return w.drawImage(img, opts.Composite)
	})
}

// DrawBitmapEx blits bitmap as described by opts.
func (s *DrawingSession) DrawBitmapEx(bitmap CanvasBitmap, opts DrawBitmapOptions) error {
	return boundary("DrawBitmap", func() error {
		dc, err := s.resource()
		if err != nil {
			return err
		}
		if bitmap == nil || bitmap.NativeBitmap() == nil {
			return fmt.Errorf("%w: bitmap is nil", ErrInvalidArgument)
		}
		w := newDrawImageWorker(s.device(dc), dc, opts.Offset, opts.DestRect, opts.SourceRect, opts.Opacity, opts.Interpolation)
		return w.drawBitmap(bitmap.NativeBitmap(), opts.Perspective)
	})
}

// drawImageWorker carries the state of a single draw. Effects it creates
// live only for that draw.
type drawImageWorker struct {
	device     Device
	dc         DeviceContext
	offset     Vector2
	destRect   *Rect
	sourceRect *Rect
	source     RectF // sourceRect in edge form, possibly clamped
	opacity    float32
	interp     Interpolation
}

func newDrawImageWorker(device Device, dc DeviceContext, offset Vector2, dest, src *Rect, opacity float32, interp Interpolation) *drawImageWorker {
	w := &drawImageWorker{
		device:     device,
		dc:         dc,
		offset:     offset,
		destRect:   dest,
		sourceRect: src,
		opacity:    opacity,
		interp:     interp,
	}
	if src != nil {
		w.source = src.Bounds()
	}
	return w
}

func (w *drawImageWorker) sourcePtr() *RectF {
	if w.sourceRect == nil {
		return nil
	}
	return &w.source
}

func (w *drawImageWorker) drawImage(img CanvasImage, composite *CompositeMode) error {
	if cb, ok := img.(CanvasBitmap); ok {
		if bmp := cb.NativeBitmap(); bmp != nil && canUseBitmapPath(w.dc.PrimitiveBlend(), composite, w.interp) {
			Logger().Debug("canvas: draw image via bitmap blit", "interpolation", w.interp)
			return w.drawBitmap(bmp, nil)
		}
	}

	mode, err := resolveCompositeMode(w.dc.PrimitiveBlend(), composite)
	if err != nil {
		return err
	}

	native, err := img.NativeImage(w.device, w.dc)
	if err != nil {
		return backendErr("NativeImage", err)
	}
	if native == nil {
		return fmt.Errorf("%w: image realized to nil", ErrInvalidArgument)
	}

	Logger().Debug("canvas: draw image via composite", "composite", mode, "interpolation", w.interp)
	if w.destRect == nil {
		return w.drawImageAtOffset(native, mode)
	}
	return w.drawImageToRect(native, *w.destRect, mode)
}

func (w *drawImageWorker) drawBitmap(bmp Bitmap, perspective *Matrix4x4) error {
	if w.destRect != nil && w.sourceRect != nil && (w.sourceRect.Width == 0 || w.sourceRect.Height == 0) {
		return nil
	}
	dest := w.calculateDestRect(bmp)
	return backendErr("DrawBitmap", w.dc.DrawBitmap(bmp, dest, w.opacity, w.interp, w.sourcePtr(), perspective))
}

// calculateDestRect repeats the sizing the image primitive does implicitly:
// explicit dest rect, else offset plus source rect size, else offset plus
// bitmap size in current units.
func (w *drawImageWorker) calculateDestRect(bmp Bitmap) RectF {
	if w.destRect != nil {
		return w.destRect.Bounds()
	}
	var size Size
	if w.sourceRect != nil {
		size = Size{Width: w.sourceRect.Width, Height: w.sourceRect.Height}
	} else {
		size = bitmapSize(w.dc.UnitMode(), bmp)
	}
	return RectF{
		Left:   w.offset.X,
		Top:    w.offset.Y,
		Right:  w.offset.X + size.Width,
		Bottom: w.offset.Y + size.Height,
	}
}

func (w *drawImageWorker) drawImageAtOffset(native Image, mode CompositeMode) error {
	native, err := w.maybeClampSource(native)
	if err != nil {
		return err
	}
	native, err = w.maybeApplyOpacity(native)
	if err != nil {
		return err
	}
	return backendErr("DrawImage", w.dc.DrawImage(native, w.offset, w.sourcePtr(), w.interp, mode))
}

func (w *drawImageWorker) drawImageToRect(native Image, dest Rect, mode CompositeMode) error {
	if w.sourceRect == nil {
		bounds, err := w.dc.ImageLocalBounds(native)
		if err != nil {
			return backendErr("ImageLocalBounds", err)
		}
		w.source = bounds
	} else if bmp, ok := native.(Bitmap); ok {
		w.source = clampSourceRect(w.source, bitmapSize(w.dc.UnitMode(), bmp))
	}

	sourceWidth := w.source.Width()
	sourceHeight := w.source.Height()
	if sourceWidth == 0 || sourceHeight == 0 {
		// No scale maps an empty source onto dest; the blit draws nothing
		// here either.
		return nil
	}

	native, err := w.maybeApplyBorder(native)
	if err != nil {
		return err
	}
	native, err = w.maybeApplyOpacity(native)
	if err != nil {
		return err
	}

	offset := Vector2{X: dest.X, Y: dest.Y}
	scale := Vector2{X: dest.Width / sourceWidth, Y: dest.Height / sourceHeight}

	restore := temporaryTransform(w.dc, offset, scale)
	defer restore()

	return backendErr("DrawImage", w.dc.DrawImage(native, Vector2{}, &w.source, w.interp, mode))
}

// clampSourceRect keeps a source rect inside a bitmap of the given size,
// as the blit does.
func clampSourceRect(r RectF, size Size) RectF {
	return RectF{
		Left:   math32.Max(r.Left, 0),
		Top:    math32.Max(r.Top, 0),
		Right:  math32.Min(r.Right, size.Width),
		Bottom: math32.Min(r.Bottom, size.Height),
	}
}

// maybeClampSource clamps an explicit source rect on a bitmap and inserts
// the border effect.
func (w *drawImageWorker) maybeClampSource(native Image) (Image, error) {
	bmp, ok := native.(Bitmap)
	if !ok || w.sourceRect == nil {
		return native, nil
	}
	w.source = clampSourceRect(w.source, bitmapSize(w.dc.UnitMode(), bmp))
	return w.maybeApplyBorder(native)
}

// maybeApplyBorder wraps a bitmap drawn with an explicit source rect in a
// border effect. The blit and image primitives sample past the edge
// differently; without the border the image path fades the edges. The
// effect is added whenever a source rect is given, even where the sampling
// would never leave the bitmap.
func (w *drawImageWorker) maybeApplyBorder(native Image) (Image, error) {
	bmp, ok := native.(Bitmap)
	if !ok || w.sourceRect == nil {
		return native, nil
	}
	border, err := w.dc.CreateEffect(EffectBorder)
	if err != nil {
		return nil, backendErr("CreateEffect", err)
	}
	if err := w.dc.SetDpiCompensatedEffectInput(border, 0, bmp); err != nil {
		return nil, backendErr("SetDpiCompensatedEffectInput", err)
	}
	return border.Output(), nil
}

// maybeApplyOpacity wraps native in a color matrix scaling alpha by the
// requested opacity. Bitmaps are bound through DPI compensation because
// effect inputs otherwise ignore a bitmap's DPI.
func (w *drawImageWorker) maybeApplyOpacity(native Image) (Image, error) {
	if w.opacity >= 1 {
		return native, nil
	}
	effect, err := w.dc.CreateEffect(EffectColorMatrix)
	if err != nil {
		return nil, backendErr("CreateEffect", err)
	}
	if bmp, ok := native.(Bitmap); ok {
		if err := w.dc.SetDpiCompensatedEffectInput(effect, 0, bmp); err != nil {
			return nil, backendErr("SetDpiCompensatedEffectInput", err)
		}
	} else {
		effect.SetInput(0, native)
	}
	if err := effect.SetColorMatrix(OpacityColorMatrix(w.opacity)); err != nil {
		return nil, backendErr("SetColorMatrix", err)
	}
	return effect.Output(), nil
}
