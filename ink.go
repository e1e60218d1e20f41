package canvas

import (
	"fmt"
	"image/color"

	"github.com/gogpu/canvas/internal/inkraster"
)

// InkStroke is one pen stroke: a polyline in the session's current units.
type InkStroke struct {
	Points []Vector2
	Width  float32
	Color  color.Color
}

// InkRenderer draws ink strokes onto a context.
type InkRenderer interface {
	Draw(dc DeviceContext, strokes []InkStroke, highContrast bool) error
}

// InkAdapter creates ink renderers and reports the system high contrast
// setting. Sessions take it as a dependency so tests can substitute it.
type InkAdapter interface {
	CreateInkRenderer() (InkRenderer, error)
	IsHighContrastEnabled() (bool, error)
}

// NewInkAdapter returns the default adapter: strokes are rasterized in
// software and blitted as bitmaps, and high contrast comes from cfg.
func NewInkAdapter(cfg InkConfig) InkAdapter {
	return &defaultInkAdapter{cfg: cfg}
}

type defaultInkAdapter struct {
	cfg InkConfig
}

func (a *defaultInkAdapter) CreateInkRenderer() (InkRenderer, error) {
	c, err := ParseColor(a.cfg.HighContrastColor)
	if err != nil {
		return nil, err
	}
	return &rasterInkRenderer{highContrastColor: c}, nil
}

func (a *defaultInkAdapter) IsHighContrastEnabled() (bool, error) {
	return a.cfg.HighContrast, nil
}

// rasterInkRenderer rasterizes all strokes into one bitmap at the context's
// DPI and draws it with a single blit.
type rasterInkRenderer struct {
	highContrastColor color.Color
}

func (r *rasterInkRenderer) Draw(dc DeviceContext, strokes []InkStroke, highContrast bool) error {
	scale := float32(1)
	if dc.UnitMode() == UnitsDips {
		scale = dc.Dpi() / DefaultDpi
	}

	raster := make([]inkraster.Stroke, 0, len(strokes))
	for _, s := range strokes {
		c := s.Color
		if highContrast || c == nil {
			c = r.highContrastColor
		}
		pts := make([]inkraster.Point, len(s.Points))
		for i, p := range s.Points {
			pts[i] = inkraster.Point{X: p.X * scale, Y: p.Y * scale}
		}
		raster = append(raster, inkraster.Stroke{Points: pts, Width: s.Width * scale, Color: c})
	}

	bounds := inkraster.Bounds(raster)
	if bounds.Empty() {
		return nil
	}
	img := inkraster.Rasterize(raster, bounds)
	bmp, err := dc.CreateBitmap(img, dc.Dpi())
	if err != nil {
		return err
	}
	dest := RectF{
		Left:   float32(bounds.Min.X) / scale,
		Top:    float32(bounds.Min.Y) / scale,
		Right:  float32(bounds.Max.X) / scale,
		Bottom: float32(bounds.Max.Y) / scale,
	}
	return dc.DrawBitmap(bmp, dest, 1, InterpolationLinear, nil, nil)
}

// DrawInk draws strokes, honoring the ink adapter's high contrast setting.
func (s *DrawingSession) DrawInk(strokes []InkStroke) error {
	return boundary("DrawInk", func() error {
		if _, err := s.resource(); err != nil {
			return err
		}
		highContrast, err := s.inkAdapter.IsHighContrastEnabled()
		if err != nil {
			return backendErr("IsHighContrastEnabled", err)
		}
		return s.drawInk(strokes, highContrast)
	})
}

// DrawInkWithHighContrast draws strokes with an explicit high contrast
// setting.
func (s *DrawingSession) DrawInkWithHighContrast(strokes []InkStroke, highContrast bool) error {
	return boundary("DrawInk", func() error {
		return s.drawInk(strokes, highContrast)
	})
}

// drawInk runs the renderer between a save and a restore of the drawing
// state, so whatever state the renderer changes is undone on every path.
func (s *DrawingSession) drawInk(strokes []InkStroke, highContrast bool) error {
	dc, err := s.resource()
	if err != nil {
		return err
	}
	if strokes == nil {
		return fmt.Errorf("%w: ink strokes are nil", ErrInvalidArgument)
	}

	if s.inkRenderer == nil {
		r, err := s.inkAdapter.CreateInkRenderer()
		if err != nil {
			return backendErr("CreateInkRenderer", err)
		}
		s.inkRenderer = r
	}
	if s.inkStateBlock == nil {
		b, err := dc.CreateDrawingStateBlock()
		if err != nil {
			return backendErr("CreateDrawingStateBlock", err)
		}
		s.inkStateBlock = b
	}

	dc.SaveDrawingState(s.inkStateBlock)
	defer dc.RestoreDrawingState(s.inkStateBlock)

	return backendErr("DrawInk", s.inkRenderer.Draw(dc, strokes, highContrast))
}
