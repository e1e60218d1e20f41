package raster

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/composite"
)

// DrawBitmap implements canvas.DeviceContext. src is clamped to the bitmap
// and the primitive blend combines the result with the surface. Only an
// identity perspective is supported.
func (c *Context) DrawBitmap(b canvas.Bitmap, dest canvas.RectF, opacity float32, interp canvas.Interpolation, src *canvas.RectF, perspective *canvas.Matrix4x4) error {
	bmp, ok := b.(*Bitmap)
	if !ok {
		return fmt.Errorf("raster: unsupported bitmap type %T", b)
	}
	if perspective != nil && *perspective != canvas.Identity4x4() {
		return fmt.Errorf("raster: perspective transforms: %w", canvas.ErrUnsupported)
	}

	sr := bmp.pix.Rect
	if src != nil {
		k := c.unitsPerPixel(bmp.dpi)
		sr = image.Rect(
			int(math.Floor(float64(src.Left/k))),
			int(math.Floor(float64(src.Top/k))),
			int(math.Ceil(float64(src.Right/k))),
			int(math.Ceil(float64(src.Bottom/k))),
		).Intersect(bmp.pix.Rect)
	}
	if sr.Empty() || dest.Width() == 0 || dest.Height() == 0 {
		return nil
	}

	sx := dest.Width() / float32(sr.Dx())
	sy := dest.Height() / float32(sr.Dy())
	m := canvas.Translation(float32(-sr.Min.X), float32(-sr.Min.Y)).
		Multiply(canvas.Scaling(sx, sy)).
		Multiply(canvas.Translation(dest.Left, dest.Top)).
		Multiply(c.worldTransform())

	c.render(bmp.pix, sr, m, interp, opacity, blendOp(c.blend))
	return nil
}

// DrawImage implements canvas.DeviceContext. The top-left of src, or of
// the image bounds when src is nil, lands on offset.
func (c *Context) DrawImage(img canvas.Image, offset canvas.Vector2, src *canvas.RectF, interp canvas.Interpolation, mode canvas.CompositeMode) error {
	r, err := realize(img, c.dpi)
	if err != nil {
		return err
	}
	k := c.unitsPerPixel(r.dpi)

	sr := r.pix.Rect
	shift := offset
	if src != nil {
		sr = image.Rect(
			int(math.Floor(float64(src.Left/k)))+r.origin.X,
			int(math.Floor(float64(src.Top/k)))+r.origin.Y,
			int(math.Ceil(float64(src.Right/k)))+r.origin.X,
			int(math.Ceil(float64(src.Bottom/k)))+r.origin.Y,
		).Intersect(r.pix.Rect)
		shift.X -= src.Left
		shift.Y -= src.Top
	}
	if sr.Empty() {
		return nil
	}

	// Pixel p of the realized image sits at (p - origin) * k in local units.
	m := canvas.Translation(float32(-r.origin.X), float32(-r.origin.Y)).
		Multiply(canvas.Scaling(k, k)).
		Multiply(canvas.Translation(shift.X, shift.Y)).
		Multiply(c.worldTransform())

	c.render(r.pix, sr, m, interp, 1, compositeOp(mode))
	return nil
}

// render resamples sr of src through m (source pixels to device pixels)
// and combines it with the surface inside the current clip.
func (c *Context) render(src *image.RGBA, sr image.Rectangle, m canvas.Matrix3x2, interp canvas.Interpolation, opacity float32, op composite.Op) {
	if opacity <= 0 && op != composite.Copy {
		return
	}
	if m.M11*m.M22-m.M12*m.M21 == 0 {
		return
	}
	bounds, ok := transformedBounds(sr, m, c.clip)
	if !ok {
		return
	}

	scratch := image.NewRGBA(bounds)
	aff := f64.Aff3{
		float64(m.M11), float64(m.M21), float64(m.M31),
		float64(m.M12), float64(m.M22), float64(m.M32),
	}
	transformer(interp).Transform(scratch, aff, src, sr, draw.Src, nil)

	if opacity < 1 {
		scale := byte(math.Round(float64(opacity) * 255))
		for i, v := range scratch.Pix {
			scratch.Pix[i] = byte((uint16(v)*uint16(scale) + 127) / 255)
		}
	}
	composite.Draw(c.surface, bounds, scratch, bounds.Min, nil, op)
}

// transformedBounds returns the device pixels touched by sr under m,
// limited to clip.
func transformedBounds(sr image.Rectangle, m canvas.Matrix3x2, clip image.Rectangle) (image.Rectangle, bool) {
	minX, minY, maxX, maxY := floatBounds(m, canvas.RectF{
		Left:   float32(sr.Min.X),
		Top:    float32(sr.Min.Y),
		Right:  float32(sr.Max.X),
		Bottom: float32(sr.Max.Y),
	})
	r := rectFromFloats(minX, minY, maxX, maxY, clip)
	return r, !r.Empty()
}

// floatBounds returns the bounding box of r transformed by m.
func floatBounds(m canvas.Matrix3x2, r canvas.RectF) (minX, minY, maxX, maxY float64) {
	corners := [4]canvas.Vector2{
		{X: r.Left, Y: r.Top},
		{X: r.Right, Y: r.Top},
		{X: r.Right, Y: r.Bottom},
		{X: r.Left, Y: r.Bottom},
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		q := m.TransformPoint(p)
		minX = math.Min(minX, float64(q.X))
		minY = math.Min(minY, float64(q.Y))
		maxX = math.Max(maxX, float64(q.X))
		maxY = math.Max(maxY, float64(q.Y))
	}
	return minX, minY, maxX, maxY
}

// rectFromFloats rounds a float rectangle outward to pixels, clamping to
// limit first so huge or infinite edges never overflow int.
func rectFromFloats(minX, minY, maxX, maxY float64, limit image.Rectangle) image.Rectangle {
	clampTo := func(v float64, lo, hi int) int {
		if math.IsNaN(v) {
			return lo
		}
		return int(math.Max(float64(lo), math.Min(float64(hi), v)))
	}
	return image.Rect(
		clampTo(math.Floor(minX), limit.Min.X, limit.Max.X),
		clampTo(math.Floor(minY), limit.Min.Y, limit.Max.Y),
		clampTo(math.Ceil(maxX), limit.Min.X, limit.Max.X),
		clampTo(math.Ceil(maxY), limit.Min.Y, limit.Max.Y),
	)
}

// transformer maps an interpolation mode to a resampling kernel. The
// multi-sample and anisotropic modes have no closer equivalent than
// bilinear.
func transformer(interp canvas.Interpolation) draw.Transformer {
	switch interp {
	case canvas.InterpolationNearestNeighbor:
		return draw.NearestNeighbor
	case canvas.InterpolationLinear:
		return draw.ApproxBiLinear
	case canvas.InterpolationCubic, canvas.InterpolationHighQualityCubic:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

// blendOp maps the primitive blend used by DrawBitmap.
func blendOp(b canvas.PrimitiveBlend) composite.Op {
	switch b {
	case canvas.BlendCopy:
		return composite.Copy
	case canvas.BlendMin:
		return composite.Min
	case canvas.BlendAdd:
		return composite.Plus
	case canvas.BlendMax:
		return composite.Max
	default:
		return composite.SourceOver
	}
}

// compositeOp maps the composite mode used by DrawImage.
func compositeOp(m canvas.CompositeMode) composite.Op {
	switch m {
	case canvas.CompositeDestinationOver:
		return composite.DestinationOver
	case canvas.CompositeSourceIn:
		return composite.SourceIn
	case canvas.CompositeDestinationIn:
		return composite.DestinationIn
	case canvas.CompositeSourceOut:
		return composite.SourceOut
	case canvas.CompositeDestinationOut:
		return composite.DestinationOut
	case canvas.CompositeSourceAtop:
		return composite.SourceAtop
	case canvas.CompositeDestinationAtop:
		return composite.DestinationAtop
	case canvas.CompositeXor:
		return composite.Xor
	case canvas.CompositeAdd:
		return composite.Plus
	case canvas.CompositeCopy, canvas.CompositeBoundedCopy:
		return composite.Copy
	case canvas.CompositeMaskInvert:
		return composite.MaskInvert
	default:
		return composite.SourceOver
	}
}
