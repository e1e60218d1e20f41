// Package inkraster rasterizes ink strokes into RGBA images.
//
// Strokes are polylines with a constant width and round joins and caps. Each
// segment becomes a quad and each vertex a disc, all filled into one
// coverage mask per stroke with golang.org/x/image/vector.
package inkraster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// discSegments is the number of edges approximating a round join.
const discSegments = 16

// Point is a stroke vertex in pixels.
type Point struct {
	X, Y float32
}

// Stroke is one polyline.
type Stroke struct {
	Points []Point
	Width  float32
	Color  color.Color
}

// Bounds returns the pixel rectangle covering all strokes, or an empty
// rectangle if there is nothing to draw.
func Bounds(strokes []Stroke) image.Rectangle {
	var r image.Rectangle
	for _, s := range strokes {
		half := float64(s.Width) / 2
		for _, p := range s.Points {
			pr := image.Rect(
				int(math.Floor(float64(p.X)-half)),
				int(math.Floor(float64(p.Y)-half)),
				int(math.Ceil(float64(p.X)+half)),
				int(math.Ceil(float64(p.Y)+half)),
			)
			r = r.Union(pr)
		}
	}
	return r
}

// Rasterize draws strokes into a new image covering bounds. Stroke points
// are in the same space as bounds.
func Rasterize(strokes []Stroke, bounds image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if bounds.Empty() {
		return dst
	}
	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	for _, s := range strokes {
		if len(s.Points) == 0 || s.Width <= 0 {
			continue
		}
		z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
		z.DrawOp = draw.Over
		half := s.Width / 2
		for i, p := range s.Points {
			p = Point{X: p.X - ox, Y: p.Y - oy}
			disc(z, p, half)
			if i == 0 {
				continue
			}
			q := s.Points[i-1]
			segment(z, Point{X: q.X - ox, Y: q.Y - oy}, p, half)
		}
		z.Draw(dst, dst.Bounds(), image.NewUniform(s.Color), image.Point{})
	}
	return dst
}

// segment adds the quad covering the line a-b widened by half on each side.
func segment(z *vector.Rasterizer, a, b Point, half float32) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	nx, ny := -dy/length*half, dx/length*half
	// Wound the same way as disc so overlaps accumulate instead of cancel.
	z.MoveTo(a.X-nx, a.Y-ny)
	z.LineTo(b.X-nx, b.Y-ny)
	z.LineTo(b.X+nx, b.Y+ny)
	z.LineTo(a.X+nx, a.Y+ny)
	z.ClosePath()
}

// disc adds a polygon approximating a circle of radius r around c.
func disc(z *vector.Rasterizer, c Point, r float32) {
	for i := 0; i <= discSegments; i++ {
		a := 2 * math.Pi * float64(i) / discSegments
		x := c.X + r*float32(math.Cos(a))
		y := c.Y + r*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}
