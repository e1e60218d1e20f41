package raster

import (
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/composite"
)

// borderPad is how far the border effect extends its input, enough for
// the widest resampling kernel.
const borderPad = 2

var errNoInput = errors.New("raster: effect has no input")

type effectInput struct {
	img canvas.Image

	// compensated inputs keep their own DPI. Plain bitmap inputs are
	// taken at the context's DPI.
	compensated bool
}

// effect is a node of an effect graph. It is its own output image and is
// evaluated lazily when drawn.
type effect struct {
	kind   canvas.EffectKind
	inputs []effectInput
	matrix canvas.ColorMatrix
}

var _ canvas.Effect = (*effect)(nil)

func newEffect(kind canvas.EffectKind) (*effect, error) {
	switch kind {
	case canvas.EffectColorMatrix, canvas.EffectBorder:
	default:
		return nil, fmt.Errorf("raster: unsupported effect %v", kind)
	}
	return &effect{kind: kind, matrix: canvas.IdentityColorMatrix()}, nil
}

func (e *effect) Kind() canvas.EffectKind { return e.kind }

func (e *effect) SetInput(index int, img canvas.Image) {
	e.setInput(index, effectInput{img: img})
}

func (e *effect) setInput(index int, in effectInput) {
	for len(e.inputs) <= index {
		e.inputs = append(e.inputs, effectInput{})
	}
	e.inputs[index] = in
}

func (e *effect) SetColorMatrix(m canvas.ColorMatrix) error {
	if e.kind != canvas.EffectColorMatrix {
		return fmt.Errorf("raster: %v effect has no color matrix", e.kind)
	}
	e.matrix = m
	return nil
}

func (e *effect) Output() canvas.Image { return e }

// realized is an image evaluated to pixels. origin is the pixel of pix at
// the image's local (0, 0); dpi relates pixels to DIPs.
type realized struct {
	pix    *image.RGBA
	origin image.Point
	dpi    float32
}

// realize evaluates img. contextDpi is the DPI plain bitmap effect inputs
// are interpreted at.
func realize(img canvas.Image, contextDpi float32) (realized, error) {
	switch v := img.(type) {
	case *Bitmap:
		return realized{pix: v.pix, dpi: v.dpi}, nil
	case *effect:
		return v.realize(contextDpi)
	case nil:
		return realized{}, fmt.Errorf("raster: nil image")
	default:
		return realized{}, fmt.Errorf("raster: unsupported image type %T", img)
	}
}

func (e *effect) realize(contextDpi float32) (realized, error) {
	if len(e.inputs) == 0 || e.inputs[0].img == nil {
		return realized{}, errNoInput
	}
	in := e.inputs[0]
	r, err := realize(in.img, contextDpi)
	if err != nil {
		return realized{}, err
	}
	if _, ok := in.img.(*Bitmap); ok && !in.compensated {
		r.dpi = contextDpi
	}

	switch e.kind {
	case canvas.EffectColorMatrix:
		out := image.NewRGBA(r.pix.Rect)
		m := [5][4]float32(e.matrix)
		composite.ColorMatrix(out, r.pix, &m)
		r.pix = out
	case canvas.EffectBorder:
		r.pix = clone.Pad(r.pix, borderPad, borderPad, clone.EdgeExtend)
		r.origin = r.origin.Add(image.Pt(borderPad, borderPad))
	}
	return r, nil
}
