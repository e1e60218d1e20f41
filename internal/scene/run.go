package scene

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/raster"
)

// Run draws the scene's operations with ds. images holds the decoded
// images by name; each is uploaded once, at the default DPI.
func (s *Scene) Run(ds *canvas.DrawingSession, images map[string]image.Image) error {
	r := &runner{
		ds:      ds,
		images:  images,
		bitmaps: make(map[string]canvas.CanvasBitmap),
	}
	if s.Background != "" {
		if err := r.clear(s.Background); err != nil {
			return err
		}
	}
	return r.run(s.Ops, "ops")
}

type runner struct {
	ds      *canvas.DrawingSession
	images  map[string]image.Image
	bitmaps map[string]canvas.CanvasBitmap
}

func (r *runner) run(ops []Op, path string) error {
	for i, op := range ops {
		if err := r.op(op); err != nil {
			return fmt.Errorf("scene: %s[%d]: %w", path, i, err)
		}
	}
	return nil
}

func (r *runner) op(op Op) error {
	switch {
	case op.Clear != "":
		return r.clear(op.Clear)
	case op.Transform != nil:
		return r.ds.SetTransform(op.Transform.Matrix())
	case op.Units != nil:
		return r.ds.SetUnits(*op.Units)
	case op.Blend != nil:
		return r.ds.SetBlend(*op.Blend)
	case op.Antialias != nil:
		return r.ds.SetAntialiasing(*op.Antialias)
	case op.Image != nil:
		return r.image(op.Image)
	case op.Layer != nil:
		return r.layer(op.Layer)
	case op.Ink != nil:
		return r.ink(op.Ink)
	default:
		return fmt.Errorf("%w: empty operation", ErrInvalidScene)
	}
}

func (r *runner) clear(name string) error {
	c, err := canvas.ParseColor(name)
	if err != nil {
		return err
	}
	return r.ds.Clear(c)
}

// Matrix returns the transform t describes.
func (t Transform) Matrix() canvas.Matrix3x2 {
	m := canvas.Identity()
	if v, ok := pair(t.Scale); ok {
		m = m.Multiply(canvas.Scaling(v.X, v.Y))
	}
	if v, ok := pair(t.Skew); ok {
		m = m.Multiply(canvas.Skew(v.X, v.Y))
	}
	if v, ok := pair(t.Translate); ok {
		m = m.Multiply(canvas.Translation(v.X, v.Y))
	}
	return m
}

func (r *runner) bitmap(name string) (canvas.CanvasBitmap, error) {
	if b, ok := r.bitmaps[name]; ok {
		return b, nil
	}
	img, ok := r.images[name]
	if !ok {
		return nil, fmt.Errorf("%w: image %q was not loaded", ErrInvalidScene, name)
	}
	dc, err := r.ds.DeviceContext()
	if err != nil {
		return nil, err
	}
	bmp, err := dc.CreateBitmap(img, canvas.DefaultDpi)
	if err != nil {
		return nil, err
	}
	b := canvas.WrapBitmap(bmp)
	r.bitmaps[name] = b
	return b, nil
}

func (r *runner) image(op *ImageOp) error {
	bmp, err := r.bitmap(op.Name)
	if err != nil {
		return err
	}
	opts := canvas.DefaultDrawImageOptions()
	if v, ok := pair(op.Offset); ok {
		opts.Offset = v
	}
	if rect, ok := rectangle(op.Dest); ok {
		opts.DestRect = &rect
	}
	if rect, ok := rectangle(op.Source); ok {
		opts.SourceRect = &rect
	}
	if op.Opacity != nil {
		opts.Opacity = *op.Opacity
	}
	if op.Interpolation != nil {
		opts.Interpolation = *op.Interpolation
	}
	opts.Composite = op.Composite
	return r.ds.DrawImageEx(bmp, opts)
}

func (r *runner) layer(op *LayerOp) (err error) {
	o := canvas.CreateLayerOptions{Opacity: 1}
	if op.Opacity != nil {
		o.Opacity = *op.Opacity
	}
	if rect, ok := rectangle(op.Clip); ok {
		o.ClipRect = &rect
	}
	if len(op.Mask) > 0 {
		pts, err := points(op.Mask)
		if err != nil {
			return err
		}
		o.ClipGeometry = canvas.WrapGeometry(raster.NewPolygon(pts...))
	}
	if op.Brush != "" {
		c, err := canvas.ParseColor(op.Brush)
		if err != nil {
			return err
		}
		// The session's ColorBrush is recolored on every call, so nested
		// layers each get their own brush.
		dc, err := r.ds.DeviceContext()
		if err != nil {
			return err
		}
		brush, err := dc.CreateSolidColorBrush(canvas.NativeColor(c))
		if err != nil {
			return err
		}
		o.OpacityBrush = canvas.WrapBrush(brush)
	}

	layer, err := r.ds.CreateLayerEx(o)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, layer.Close())
	}()
	return r.run(op.Ops, "layer.ops")
}

func (r *runner) ink(op *InkOp) error {
	strokes := make([]canvas.InkStroke, 0, len(op.Strokes))
	for _, s := range op.Strokes {
		pts, err := points(s.Points)
		if err != nil {
			return err
		}
		stroke := canvas.InkStroke{Points: pts, Width: s.Width}
		if s.Color != "" {
			c, err := canvas.ParseColor(s.Color)
			if err != nil {
				return err
			}
			stroke.Color = c
		}
		strokes = append(strokes, stroke)
	}
	if op.HighContrast != nil {
		return r.ds.DrawInkWithHighContrast(strokes, *op.HighContrast)
	}
	return r.ds.DrawInk(strokes)
}

func pair(v []float32) (canvas.Vector2, bool) {
	if len(v) != 2 {
		return canvas.Vector2{}, false
	}
	return canvas.Vector2{X: v[0], Y: v[1]}, true
}

func rectangle(v []float32) (canvas.Rect, bool) {
	if len(v) != 4 {
		return canvas.Rect{}, false
	}
	return canvas.NewRect(v[0], v[1], v[2], v[3]), true
}

func points(v [][]float32) ([]canvas.Vector2, error) {
	pts := make([]canvas.Vector2, len(v))
	for i, p := range v {
		xy, ok := pair(p)
		if !ok {
			return nil, fmt.Errorf("%w: point %d has %d coordinates", ErrInvalidScene, i, len(p))
		}
		pts[i] = xy
	}
	return pts, nil
}
