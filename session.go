package canvas

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"runtime"
)

// DrawingSession is the per-frame rendering context. It exclusively drives a
// DeviceContext from creation until Close, tracks the open layers and
// translates drawing calls into native primitives.
//
// A DrawingSession is not safe for concurrent use.
type DrawingSession struct {
	dc         DeviceContext // nil once closed
	adapter    DrawingSessionAdapter
	activeFlag *ActiveSessionFlag
	offset     Vector2
	owner      Device
	config     Config
	closed     bool

	// Layer tracking. IDs are never reused within a session.
	activeLayerIDs []int
	nextLayerID    int

	// Cached derived resources, released on Close.
	solidColorBrush   SolidColorBrush
	defaultTextFormat *TextFormat
	inkAdapter        InkAdapter
	inkRenderer       InkRenderer
	inkStateBlock     DrawingStateBlock
}

// Ensure DrawingSession implements io.Closer.
var _ io.Closer = (*DrawingSession)(nil)

// NewDrawingSession creates a session that draws with dc and applies the
// session's default state to it.
//
//	// Session over a context drawn by someone else:
//	ds := canvas.NewDrawingSession(dc)
//
//	// Session that owns BeginDraw/EndDraw:
//	ds := canvas.NewDrawingSession(dc, canvas.WithAdapter(canvas.NewSimpleAdapter(dc)))
func NewDrawingSession(dc DeviceContext, opts ...SessionOption) *DrawingSession {
	options := defaultSessionOptions()
	for _, opt := range opts {
		opt(&options)
	}

	adapter := options.adapter
	if adapter == nil {
		adapter = noopAdapter{}
	}
	inkAdapter := options.inkAdapter
	if inkAdapter == nil {
		inkAdapter = NewInkAdapter(options.config.Ink)
	}

	dc.SetTextAntialiasMode(options.config.TextAntialiasing)

	s := &DrawingSession{
		dc:         dc,
		adapter:    adapter,
		activeFlag: options.activeFlag,
		offset:     options.offset,
		owner:      options.owner,
		config:     options.config,
		inkAdapter: inkAdapter,
	}
	if s.activeFlag != nil {
		s.activeFlag.active.Store(true)
	}

	// A session dropped without Close still ends drawing and clears the
	// target flag. Errors have nowhere to go and are only logged.
	runtime.SetFinalizer(s, func(s *DrawingSession) {
		if err := s.Close(); err != nil {
			Logger().Warn("canvas: drawing session finalized with error", "err", err)
		}
	})
	return s
}

// Close ends drawing and releases the context. The first call reports
// layers left open (ErrDidNotPopLayer) and EndDraw failures, but always
// finishes the teardown. Later calls return nil.
func (s *DrawingSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	runtime.SetFinalizer(s, nil)
	return boundary("Close", s.close)
}

func (s *DrawingSession) close() error {
	dc := s.dc
	s.dc = nil

	defer func() {
		s.solidColorBrush = nil
		s.defaultTextFormat = nil
		s.owner = nil
		s.inkRenderer = nil
		s.inkStateBlock = nil
	}()

	var errs []error
	if n := len(s.activeLayerIDs); n != 0 {
		errs = append(errs, fmt.Errorf("%w (%d open)", ErrDidNotPopLayer, n))
	}

	if s.activeFlag != nil {
		s.activeFlag.active.Store(false)
	}

	if s.adapter != nil {
		// Drop the adapter before calling it so it is released even if
		// EndDraw fails.
		adapter := s.adapter
		s.adapter = nil
		if err := adapter.EndDraw(dc); err != nil {
			errs = append(errs, backendErr("EndDraw", err))
		}
	}

	return errors.Join(errs...)
}

// resource returns the context, or ErrClosed.
func (s *DrawingSession) resource() (DeviceContext, error) {
	if s.dc == nil {
		return nil, ErrClosed
	}
	return s.dc, nil
}

// DeviceContext returns the native context, or ErrClosed.
func (s *DrawingSession) DeviceContext() (DeviceContext, error) {
	return s.resource()
}

// Clear fills the whole target with c, ignoring transform and clips.
func (s *DrawingSession) Clear(c color.Color) error {
	return boundary("Clear", func() error {
		dc, err := s.resource()
		if err != nil {
			return err
		}
		dc.Clear(NativeColor(c))
		return nil
	})
}

// ClearHdr fills the whole target with a high dynamic range color.
func (s *DrawingSession) ClearHdr(c Vector4) error {
	return boundary("ClearHdr", func() error {
		dc, err := s.resource()
		if err != nil {
			return err
		}
		dc.Clear(hdrColor(c))
		return nil
	})
}

// Flush submits pending drawing to the device.
func (s *DrawingSession) Flush() error {
	return boundary("Flush", func() error {
		dc, err := s.resource()
		if err != nil {
			return err
		}
		return backendErr("Flush", dc.Flush())
	})
}

// Transform returns the current transform without the session offset.
func (s *DrawingSession) Transform() (Matrix3x2, error) {
	var m Matrix3x2
	err := boundary("Transform", func() error {
		dc, err := s.resource()
		if err != nil {
			return err
		}
		m, err = logicalTransform(dc.Transform(), dc.UnitMode(), dc.Dpi(), s.offset)
		return err
	})
	return m, err
}

// SetTransform sets the current transform. The session offset is applied
// beneath it.
func (s *DrawingSession) SetTransform(m Matrix3x2) error {
	return boundary("SetTransform", func() error {
		dc, err := s.resource()
		if err != nil {
			return err
		}
		return s.setTransform(dc, m)
	})
}

func (s *DrawingSession) setTransform(dc DeviceContext, m Matrix3x2) error {
	device, err := deviceTransform(m, dc.UnitMode(), dc.Dpi(), s.offset)
	if err != nil {
		return err
	}
	dc.SetTransform(device)
	return nil
}

// Units returns the unit mode coordinates are interpreted in.
func (s *DrawingSession) Units() (Units, error) {
	dc, err := s.resource()
	if err != nil {
		return 0, err
	}
	return dc.UnitMode(), nil
}

// SetUnits changes the unit mode. With an offset set, the offset is
// re-expressed in the new units so the logical transform is unchanged.
func (s *DrawingSession) SetUnits(u Units) error {
	return boundary("SetUnits", func() error {
		dc, err := s.resource()
		if err != nil {
			return err
		}
		if s.offset == (Vector2{}) {
			dc.SetUnitMode(u)
			return nil
		}
		m, err := logicalTransform(dc.Transform(), dc.UnitMode(), dc.Dpi(), s.offset)
		if err != nil {
			return err
		}
		dc.SetUnitMode(u)
		return s.setTransform(dc, m)
	})
}

// Antialiasing returns the antialias mode used for geometry and clips.
func (s *DrawingSession) Antialiasing() (AntialiasMode, error) {
	dc, err := s.resource()
	if err != nil {
		return 0, err
	}
	return dc.AntialiasMode(), nil
}

// SetAntialiasing sets the antialias mode used for geometry and clips.
func (s *DrawingSession) SetAntialiasing(aa AntialiasMode) error {
	dc, err := s.resource()
	if err != nil {
		return err
	}
	dc.SetAntialiasMode(aa)
	return nil
}

// TextAntialiasing returns the text antialias mode.
func (s *DrawingSession) TextAntialiasing() (TextAntialiasMode, error) {
	dc, err := s.resource()
	if err != nil {
		return 0, err
	}
	return dc.TextAntialiasMode(), nil
}

// SetTextAntialiasing sets the text antialias mode.
func (s *DrawingSession) SetTextAntialiasing(aa TextAntialiasMode) error {
	dc, err := s.resource()
	if err != nil {
		return err
	}
	dc.SetTextAntialiasMode(aa)
	return nil
}

// Blend returns the primitive blend.
func (s *DrawingSession) Blend() (PrimitiveBlend, error) {
	dc, err := s.resource()
	if err != nil {
		return 0, err
	}
	return dc.PrimitiveBlend(), nil
}

// SetBlend sets the primitive blend.
func (s *DrawingSession) SetBlend(b PrimitiveBlend) error {
	dc, err := s.resource()
	if err != nil {
		return err
	}
	dc.SetPrimitiveBlend(b)
	return nil
}

// EffectBufferPrecision returns the effect buffer precision, or nil when the
// context picks it.
func (s *DrawingSession) EffectBufferPrecision() (*BufferPrecision, error) {
	dc, err := s.resource()
	if err != nil {
		return nil, err
	}
	p := dc.RenderingControls().BufferPrecision
	if p == BufferPrecisionUnknown {
		return nil, nil
	}
	return &p, nil
}

// SetEffectBufferPrecision sets the effect buffer precision. nil lets the
// context pick.
func (s *DrawingSession) SetEffectBufferPrecision(p *BufferPrecision) error {
	dc, err := s.resource()
	if err != nil {
		return err
	}
	rc := dc.RenderingControls()
	if p != nil {
		rc.BufferPrecision = *p
	} else {
		rc.BufferPrecision = BufferPrecisionUnknown
	}
	dc.SetRenderingControls(rc)
	return nil
}

// BitmapSize is a size in whole pixels.
type BitmapSize struct {
	Width, Height uint32
}

// EffectTileSize returns the tile size effects are rendered in.
func (s *DrawingSession) EffectTileSize() (BitmapSize, error) {
	dc, err := s.resource()
	if err != nil {
		return BitmapSize{}, err
	}
	rc := dc.RenderingControls()
	return BitmapSize{Width: rc.TileWidth, Height: rc.TileHeight}, nil
}

// SetEffectTileSize sets the tile size effects are rendered in.
func (s *DrawingSession) SetEffectTileSize(size BitmapSize) error {
	dc, err := s.resource()
	if err != nil {
		return err
	}
	rc := dc.RenderingControls()
	rc.TileWidth, rc.TileHeight = size.Width, size.Height
	dc.SetRenderingControls(rc)
	return nil
}

// Device returns the owning device, resolving it from the context the
// first time if none was supplied.
func (s *DrawingSession) Device() (Device, error) {
	dc, err := s.resource()
	if err != nil {
		return nil, err
	}
	return s.device(dc), nil
}

func (s *DrawingSession) device(dc DeviceContext) Device {
	if s.owner == nil {
		s.owner = dc.Device()
	}
	return s.owner
}

// Dpi returns the DPI of the target.
func (s *DrawingSession) Dpi() (float32, error) {
	dc, err := s.resource()
	if err != nil {
		return 0, err
	}
	return dc.Dpi(), nil
}

// ConvertPixelsToDips converts a pixel count to DIPs at the target's DPI.
func (s *DrawingSession) ConvertPixelsToDips(pixels int) (float32, error) {
	dc, err := s.resource()
	if err != nil {
		return 0, err
	}
	return PixelsToDips(pixels, dc.Dpi()), nil
}

// ConvertDipsToPixels converts DIPs to whole pixels at the target's DPI.
func (s *DrawingSession) ConvertDipsToPixels(dips float32, rounding DpiRounding) (int, error) {
	dc, err := s.resource()
	if err != nil {
		return 0, err
	}
	return DipsToPixels(dips, dc.Dpi(), rounding)
}

// ColorBrush returns the session's cached solid color brush set to c.
// The brush is shared: each call recolors it.
func (s *DrawingSession) ColorBrush(c color.Color) (SolidColorBrush, error) {
	var brush SolidColorBrush
	err := boundary("ColorBrush", func() error {
		dc, err := s.resource()
		if err != nil {
			return err
		}
		if s.solidColorBrush != nil {
			s.solidColorBrush.SetColor(NativeColor(c))
		} else {
			b, err := dc.CreateSolidColorBrush(NativeColor(c))
			if err != nil {
				return backendErr("CreateSolidColorBrush", err)
			}
			s.solidColorBrush = b
		}
		brush = s.solidColorBrush
		return nil
	})
	return brush, err
}

// DefaultTextFormat returns the session's default text format, created
// from the configuration on first use.
func (s *DrawingSession) DefaultTextFormat() (*TextFormat, error) {
	if _, err := s.resource(); err != nil {
		return nil, err
	}
	if s.defaultTextFormat == nil {
		f, err := NewTextFormat(s.config.TextFormat)
		if err != nil {
			return nil, err
		}
		s.defaultTextFormat = f
	}
	return s.defaultTextFormat, nil
}
