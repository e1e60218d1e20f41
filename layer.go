package canvas

import (
	"fmt"
	"io"
	"weak"
)

// CreateLayerOptions describe a layer. The zero value is not useful: set
// Opacity to 1 for an opaque layer.
type CreateLayerOptions struct {
	// Opacity multiplies everything drawn in the layer.
	Opacity float32

	// OpacityBrush, if set, masks the layer by the brush alpha.
	OpacityBrush CanvasBrush

	// ClipRect restricts drawing to a rectangle. Nil means unbounded.
	ClipRect *Rect

	// ClipGeometry restricts drawing to a geometry.
	ClipGeometry CanvasGeometry

	// GeometryTransform transforms ClipGeometry. Nil means identity.
	GeometryTransform *Matrix3x2

	// Options are passed through to the native layer.
	Options LayerOptions
}

// ActiveLayer is an open layer. Closing it pops the layer; layers must be
// closed in the reverse order they were created.
//
// An ActiveLayer does not keep its session alive. Closing a layer whose
// session has been garbage collected does nothing.
type ActiveLayer struct {
	id              int
	axisAlignedClip bool
	session         weak.Pointer[DrawingSession]
	closed          bool
}

// Ensure ActiveLayer implements io.Closer.
var _ io.Closer = (*ActiveLayer)(nil)

// ID returns the layer's id, unique within its session.
func (l *ActiveLayer) ID() int { return l.id }

// IsAxisAlignedClip reports whether the layer was pushed as an axis aligned
// clip rather than a full layer.
func (l *ActiveLayer) IsAxisAlignedClip() bool { return l.axisAlignedClip }

// Close pops the layer. It fails with ErrPoppedWrongLayer if a layer
// created after this one is still open; the layer then stays open. Closing
// an already closed layer returns nil.
func (l *ActiveLayer) Close() error {
	if l.closed {
		return nil
	}
	s := l.session.Value()
	if s == nil {
		l.closed = true
		return nil
	}
	if err := s.popLayer(l.id, l.axisAlignedClip); err != nil {
		return err
	}
	l.closed = true
	return nil
}

// CreateLayer pushes a layer with the given opacity.
func (s *DrawingSession) CreateLayer(opacity float32) (*ActiveLayer, error) {
	return s.CreateLayerEx(CreateLayerOptions{Opacity: opacity})
}

// CreateLayerWithClipRect pushes a layer clipped to clip. An opaque layer
// under an unrotated transform becomes an axis aligned clip.
func (s *DrawingSession) CreateLayerWithClipRect(opacity float32, clip Rect) (*ActiveLayer, error) {
	return s.CreateLayerEx(CreateLayerOptions{Opacity: opacity, ClipRect: &clip})
}

// CreateLayerWithBrush pushes a layer masked by an opacity brush.
func (s *DrawingSession) CreateLayerWithBrush(brush CanvasBrush) (*ActiveLayer, error) {
	return s.CreateLayerEx(CreateLayerOptions{Opacity: 1, OpacityBrush: brush})
}

// CreateLayerWithGeometry pushes a layer clipped to a geometry.
func (s *DrawingSession) CreateLayerWithGeometry(opacity float32, geometry CanvasGeometry) (*ActiveLayer, error) {
	return s.CreateLayerEx(CreateLayerOptions{Opacity: opacity, ClipGeometry: geometry})
}

// CreateLayerEx pushes a layer described by o.
func (s *DrawingSession) CreateLayerEx(o CreateLayerOptions) (*ActiveLayer, error) {
	var layer *ActiveLayer
	err := boundary("CreateLayer", func() error {
		dc, err := s.resource()
		if err != nil {
			return err
		}

		var brush Brush
		if o.OpacityBrush != nil {
			brush, err = o.OpacityBrush.NativeBrush(dc)
			if err != nil {
				return backendErr("NativeBrush", err)
			}
		}
		var geometry Geometry
		if o.ClipGeometry != nil {
			geometry = o.ClipGeometry.NativeGeometry()
		}
		bounds := InfiniteRect()
		if o.ClipRect != nil {
			bounds = o.ClipRect.Bounds()
		}
		maskTransform := Identity()
		if o.GeometryTransform != nil {
			maskTransform = *o.GeometryTransform
		}
		aa := dc.AntialiasMode()

		axisAlignedClip := o.ClipRect != nil &&
			brush == nil &&
			geometry == nil &&
			o.Opacity == 1 &&
			o.Options == LayerOptionsNone &&
			dc.Transform().IsAxisPreserving()

		if axisAlignedClip {
			dc.PushAxisAlignedClip(bounds, aa)
		} else {
			dc.PushLayer(LayerParameters{
				ContentBounds:     bounds,
				GeometricMask:     geometry,
				MaskAntialiasMode: aa,
				MaskTransform:     maskTransform,
				Opacity:           o.Opacity,
				OpacityBrush:      brush,
				Options:           o.Options,
			})
		}

		// The native pop always removes the topmost layer; ids let Close
		// detect handles closed out of order.
		s.nextLayerID++
		id := s.nextLayerID
		s.activeLayerIDs = append(s.activeLayerIDs, id)

		Logger().Debug("canvas: push layer", "id", id, "axisAlignedClip", axisAlignedClip)
		layer = &ActiveLayer{
			id:              id,
			axisAlignedClip: axisAlignedClip,
			session:         weak.Make(s),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return layer, nil
}

func (s *DrawingSession) popLayer(id int, axisAlignedClip bool) error {
	return boundary("PopLayer", func() error {
		dc, err := s.resource()
		if err != nil {
			return err
		}
		n := len(s.activeLayerIDs)
		if n == 0 || s.activeLayerIDs[n-1] != id {
			return fmt.Errorf("%w: layer %d is not the innermost open layer", ErrPoppedWrongLayer, id)
		}
		s.activeLayerIDs = s.activeLayerIDs[:n-1]

		if axisAlignedClip {
			dc.PopAxisAlignedClip()
		} else {
			dc.PopLayer()
		}
		return nil
	})
}

// OpenLayers returns the number of layers not yet closed.
func (s *DrawingSession) OpenLayers() int {
	return len(s.activeLayerIDs)
}
