package inkraster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

var red = color.NRGBA{R: 255, A: 255}

func TestBounds(t *testing.T) {
	tests := []struct {
		name    string
		strokes []Stroke
		want    image.Rectangle
	}{
		{"empty", nil, image.Rectangle{}},
		{"no points", []Stroke{{Width: 4}}, image.Rectangle{}},
		{
			"horizontal",
			[]Stroke{{Points: []Point{{X: 10, Y: 10}, {X: 20, Y: 10}}, Width: 4}},
			image.Rect(8, 8, 22, 12),
		},
		{
			"fractional",
			[]Stroke{{Points: []Point{{X: 1.5, Y: 1.5}}, Width: 1}},
			image.Rect(1, 1, 2, 2),
		},
		{
			"union",
			[]Stroke{
				{Points: []Point{{X: 0, Y: 0}}, Width: 2},
				{Points: []Point{{X: 10, Y: 5}}, Width: 2},
			},
			image.Rect(-1, -1, 11, 6),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bounds(tt.strokes))
		})
	}
}

func TestRasterizeLine(t *testing.T) {
	strokes := []Stroke{{Points: []Point{{X: 10, Y: 10}, {X: 20, Y: 10}}, Width: 4, Color: red}}
	bounds := Bounds(strokes)
	img := Rasterize(strokes, bounds)

	assert.Equal(t, image.Rect(0, 0, 14, 4), img.Bounds())
	// Interior of the segment is fully covered.
	for x := 3; x < 11; x++ {
		assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(x, 1), "x=%d", x)
		assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(x, 2), "x=%d", x)
	}
	// Round caps leave the bounding box corners partly uncovered.
	assert.Less(t, img.RGBAAt(0, 0).A, uint8(255))
	assert.Less(t, img.RGBAAt(13, 3).A, uint8(255))
}

func TestRasterizeOverlapDoesNotCancel(t *testing.T) {
	// A stroke doubling back over itself must stay opaque.
	strokes := []Stroke{{Points: []Point{{X: 2, Y: 5}, {X: 12, Y: 5}, {X: 2, Y: 5}}, Width: 4, Color: red}}
	img := Rasterize(strokes, Bounds(strokes))
	assert.Equal(t, uint8(255), img.RGBAAt(6, 3).A)
}

func TestRasterizeLaterStrokesDrawOver(t *testing.T) {
	blue := color.NRGBA{B: 255, A: 255}
	strokes := []Stroke{
		{Points: []Point{{X: 0, Y: 4}, {X: 8, Y: 4}}, Width: 4, Color: red},
		{Points: []Point{{X: 4, Y: 0}, {X: 4, Y: 8}}, Width: 4, Color: blue},
	}
	bounds := Bounds(strokes)
	img := Rasterize(strokes, bounds)

	center := img.RGBAAt(4-bounds.Min.X, 4-bounds.Min.Y)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, center)
}

func TestRasterizeSkipsDegenerateStrokes(t *testing.T) {
	strokes := []Stroke{
		{Points: []Point{{X: 1, Y: 1}}, Width: 0, Color: red},
		{Width: 3, Color: red},
	}
	img := Rasterize(strokes, image.Rect(0, 0, 4, 4))
	for _, v := range img.Pix {
		assert.Zero(t, v)
	}
}
