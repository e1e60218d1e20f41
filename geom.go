package canvas

import (
	"image"
	"math"

	"github.com/chewxy/math32"
)

// Vector2 is a point or offset.
type Vector2 struct {
	X, Y float32
}

// Vec2 is shorthand for Vector2{x, y}.
func Vec2(x, y float32) Vector2 { return Vector2{X: x, Y: y} }

// Vector4 is a high dynamic range color (X=R, Y=G, Z=B, W=A) with
// components not limited to [0, 1].
type Vector4 struct {
	X, Y, Z, W float32
}

// Size is a width and height.
type Size struct {
	Width, Height float32
}

// Rect is an origin plus size, the form callers use.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// NewRect returns the rectangle at (x, y) with size w x h.
func NewRect(x, y, w, h float32) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Bounds converts r to edge form.
func (r Rect) Bounds() RectF {
	return RectF{Left: r.X, Top: r.Y, Right: r.X + r.Width, Bottom: r.Y + r.Height}
}

// RectF is a rectangle in edge form, the form native primitives take.
type RectF struct {
	Left, Top, Right, Bottom float32
}

// InfiniteRect returns the largest representable rectangle. Layers pushed
// without a clip rectangle use it as their content bounds.
func InfiniteRect() RectF {
	return RectF{
		Left:   -math.MaxFloat32,
		Top:    -math.MaxFloat32,
		Right:  math.MaxFloat32,
		Bottom: math.MaxFloat32,
	}
}

// Width returns Right - Left.
func (r RectF) Width() float32 { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r RectF) Height() float32 { return r.Bottom - r.Top }

// Empty reports whether r encloses no area.
func (r RectF) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Rect converts r to origin plus size form.
func (r RectF) Rect() Rect {
	return Rect{X: r.Left, Y: r.Top, Width: r.Width(), Height: r.Height()}
}

// Intersect returns the intersection of r and o.
func (r RectF) Intersect(o RectF) RectF {
	return RectF{
		Left:   math32.Max(r.Left, o.Left),
		Top:    math32.Max(r.Top, o.Top),
		Right:  math32.Min(r.Right, o.Right),
		Bottom: math32.Min(r.Bottom, o.Bottom),
	}
}

// Pixels returns the integer rectangle covering r: edges are floored on
// the top-left and ceiled on the bottom-right.
func (r RectF) Pixels() image.Rectangle {
	return image.Rect(
		int(math32.Floor(r.Left)),
		int(math32.Floor(r.Top)),
		int(math32.Ceil(r.Right)),
		int(math32.Ceil(r.Bottom)),
	)
}
