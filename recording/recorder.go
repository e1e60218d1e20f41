package recording

import (
	"fmt"
	"image"
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/canvas"
)

// DefaultMaxBitmapSize is the maximum bitmap size reported by a recorder's
// device.
const DefaultMaxBitmapSize = 16384

// Recorder is a canvas.DeviceContext that records every call as a typed
// command. It keeps the state a native context would (transform, unit
// mode, blend and so on) so getters observe earlier setters.
//
// Every call is recorded, then fails if a failure was injected for its
// command type with FailOn: calls that return an error return it, the
// others panic with it.
//
// Recorder is not safe for concurrent use.
type Recorder struct {
	dpi    float32
	device *Device

	transform canvas.Matrix3x2
	units     canvas.Units
	antialias canvas.AntialiasMode
	textAA    canvas.TextAntialiasMode
	blend     canvas.PrimitiveBlend
	controls  canvas.RenderingControls

	commands []Command
	failures map[CommandType]error
}

var _ canvas.DeviceContext = (*Recorder)(nil)

// NewRecorder returns an empty recorder for a target at dpi.
func NewRecorder(dpi float32) *Recorder {
	if dpi <= 0 {
		dpi = canvas.DefaultDpi
	}
	return &Recorder{
		dpi:       dpi,
		device:    &Device{MaxBitmapSize: DefaultMaxBitmapSize},
		transform: canvas.Identity(),
		failures:  make(map[CommandType]error),
	}
}

// Commands returns a copy of the recorded commands in call order.
func (r *Recorder) Commands() []Command {
	return slices.Clone(r.commands)
}

// Count returns how many commands of type t were recorded.
func (r *Recorder) Count(t CommandType) int {
	n := 0
	for _, c := range r.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Last returns the most recent command of type t, or nil.
func (r *Recorder) Last(t CommandType) Command {
	for i := len(r.commands) - 1; i >= 0; i-- {
		if r.commands[i].Type() == t {
			return r.commands[i]
		}
	}
	return nil
}

// Reset discards the recorded commands. State and injected failures are
// kept.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
}

// FailOn makes every later call of type t fail with err. A nil err clears
// the failure.
func (r *Recorder) FailOn(t CommandType, err error) {
	if err == nil {
		delete(r.failures, t)
		return
	}
	r.failures[t] = err
}

// record appends c and returns the failure injected for its type.
func (r *Recorder) record(c Command) error {
	r.commands = append(r.commands, c)
	return r.failures[c.Type()]
}

// recordOrPanic is record for calls without an error result.
func (r *Recorder) recordOrPanic(c Command) {
	if err := r.record(c); err != nil {
		panic(err)
	}
}

// BeginDraw implements canvas.DeviceContext.
func (r *Recorder) BeginDraw() { r.recordOrPanic(BeginDrawCommand{}) }

// EndDraw implements canvas.DeviceContext.
func (r *Recorder) EndDraw() error { return r.record(EndDrawCommand{}) }

// Flush implements canvas.DeviceContext.
func (r *Recorder) Flush() error { return r.record(FlushCommand{}) }

// Clear implements canvas.DeviceContext.
func (r *Recorder) Clear(c gputypes.Color) { r.recordOrPanic(ClearCommand{Color: c}) }

// DrawBitmap implements canvas.DeviceContext.
func (r *Recorder) DrawBitmap(b canvas.Bitmap, dest canvas.RectF, opacity float32, interp canvas.Interpolation, src *canvas.RectF, perspective *canvas.Matrix4x4) error {
	return r.record(DrawBitmapCommand{
		Bitmap:        b,
		Dest:          dest,
		Opacity:       opacity,
		Interpolation: interp,
		Source:        cloneRect(src),
		Perspective:   perspective,
		Transform:     r.transform,
	})
}

// DrawImage implements canvas.DeviceContext.
func (r *Recorder) DrawImage(img canvas.Image, offset canvas.Vector2, src *canvas.RectF, interp canvas.Interpolation, mode canvas.CompositeMode) error {
	return r.record(DrawImageCommand{
		Image:         img,
		Offset:        offset,
		Source:        cloneRect(src),
		Interpolation: interp,
		Composite:     mode,
		Transform:     r.transform,
	})
}

// cloneRect copies src so later changes by the caller do not show in the
// recording.
func cloneRect(src *canvas.RectF) *canvas.RectF {
	if src == nil {
		return nil
	}
	c := *src
	return &c
}

// PushLayer implements canvas.DeviceContext.
func (r *Recorder) PushLayer(p canvas.LayerParameters) {
	r.recordOrPanic(PushLayerCommand{Params: p})
}

// PopLayer implements canvas.DeviceContext.
func (r *Recorder) PopLayer() { r.recordOrPanic(PopLayerCommand{}) }

// PushAxisAlignedClip implements canvas.DeviceContext.
func (r *Recorder) PushAxisAlignedClip(clip canvas.RectF, aa canvas.AntialiasMode) {
	r.recordOrPanic(PushAxisAlignedClipCommand{Clip: clip, Antialias: aa})
}

// PopAxisAlignedClip implements canvas.DeviceContext.
func (r *Recorder) PopAxisAlignedClip() { r.recordOrPanic(PopAxisAlignedClipCommand{}) }

// Transform implements canvas.DeviceContext.
func (r *Recorder) Transform() canvas.Matrix3x2 { return r.transform }

// SetTransform implements canvas.DeviceContext.
func (r *Recorder) SetTransform(m canvas.Matrix3x2) {
	r.transform = m
	r.recordOrPanic(SetTransformCommand{Matrix: m})
}

// UnitMode implements canvas.DeviceContext.
func (r *Recorder) UnitMode() canvas.Units { return r.units }

// SetUnitMode implements canvas.DeviceContext.
func (r *Recorder) SetUnitMode(u canvas.Units) {
	r.units = u
	r.recordOrPanic(SetUnitModeCommand{Units: u})
}

// AntialiasMode implements canvas.DeviceContext.
func (r *Recorder) AntialiasMode() canvas.AntialiasMode { return r.antialias }

// SetAntialiasMode implements canvas.DeviceContext.
func (r *Recorder) SetAntialiasMode(aa canvas.AntialiasMode) {
	r.antialias = aa
	r.recordOrPanic(SetAntialiasModeCommand{Mode: aa})
}

// TextAntialiasMode implements canvas.DeviceContext.
func (r *Recorder) TextAntialiasMode() canvas.TextAntialiasMode { return r.textAA }

// SetTextAntialiasMode implements canvas.DeviceContext.
func (r *Recorder) SetTextAntialiasMode(aa canvas.TextAntialiasMode) {
	r.textAA = aa
	r.recordOrPanic(SetTextAntialiasModeCommand{Mode: aa})
}

// PrimitiveBlend implements canvas.DeviceContext.
func (r *Recorder) PrimitiveBlend() canvas.PrimitiveBlend { return r.blend }

// SetPrimitiveBlend implements canvas.DeviceContext.
func (r *Recorder) SetPrimitiveBlend(b canvas.PrimitiveBlend) {
	r.blend = b
	r.recordOrPanic(SetPrimitiveBlendCommand{Blend: b})
}

// RenderingControls implements canvas.DeviceContext.
func (r *Recorder) RenderingControls() canvas.RenderingControls { return r.controls }

// SetRenderingControls implements canvas.DeviceContext.
func (r *Recorder) SetRenderingControls(rc canvas.RenderingControls) {
	r.controls = rc
	r.recordOrPanic(SetRenderingControlsCommand{Controls: rc})
}

// ImageLocalBounds implements canvas.DeviceContext. Effects report the
// bounds of their first input.
func (r *Recorder) ImageLocalBounds(img canvas.Image) (canvas.RectF, error) {
	size, err := r.imageSize(img, true)
	if err != nil {
		return canvas.RectF{}, err
	}
	return canvas.RectF{Right: size.Width, Bottom: size.Height}, nil
}

// imageSize returns the size of img in current units. compensated is false
// for bitmaps bound to an effect without DPI compensation, which are taken
// at the recorder's DPI.
func (r *Recorder) imageSize(img canvas.Image, compensated bool) (canvas.Size, error) {
	switch v := img.(type) {
	case *Bitmap:
		if r.units == canvas.UnitsPixels {
			return canvas.Size{Width: float32(v.Width), Height: float32(v.Height)}, nil
		}
		dpi := v.DpiValue
		if !compensated {
			dpi = r.dpi
		}
		return canvas.Size{
			Width:  canvas.PixelsToDips(v.Width, dpi),
			Height: canvas.PixelsToDips(v.Height, dpi),
		}, nil
	case *Effect:
		if len(v.Inputs) == 0 || v.Inputs[0].Image == nil {
			return canvas.Size{}, fmt.Errorf("recording: effect has no input")
		}
		in := v.Inputs[0]
		_, isBitmap := in.Image.(*Bitmap)
		return r.imageSize(in.Image, !isBitmap || in.DpiCompensated)
	default:
		return canvas.Size{}, fmt.Errorf("recording: unsupported image type %T", img)
	}
}

// CreateEffect implements canvas.DeviceContext.
func (r *Recorder) CreateEffect(kind canvas.EffectKind) (canvas.Effect, error) {
	e := &Effect{kind: kind, Matrix: canvas.IdentityColorMatrix()}
	if err := r.record(CreateEffectCommand{Kind: kind, Effect: e}); err != nil {
		return nil, err
	}
	return e, nil
}

// SetDpiCompensatedEffectInput implements canvas.DeviceContext.
func (r *Recorder) SetDpiCompensatedEffectInput(e canvas.Effect, index int, b canvas.Bitmap) error {
	if err := r.record(SetDpiCompensatedEffectInputCommand{Effect: e, Index: index, Bitmap: b}); err != nil {
		return err
	}
	fx, ok := e.(*Effect)
	if !ok {
		return fmt.Errorf("recording: unsupported effect type %T", e)
	}
	fx.setInput(index, EffectInput{Image: b, DpiCompensated: true})
	return nil
}

// CreateSolidColorBrush implements canvas.DeviceContext.
func (r *Recorder) CreateSolidColorBrush(c gputypes.Color) (canvas.SolidColorBrush, error) {
	if err := r.record(CreateSolidColorBrushCommand{Color: c}); err != nil {
		return nil, err
	}
	return &SolidBrush{color: c}, nil
}

// CreateBitmap implements canvas.DeviceContext.
func (r *Recorder) CreateBitmap(img image.Image, dpi float32) (canvas.Bitmap, error) {
	b := img.Bounds()
	bmp := &Bitmap{Img: img, Width: b.Dx(), Height: b.Dy(), DpiValue: dpi}
	if err := r.record(CreateBitmapCommand{Bitmap: bmp}); err != nil {
		return nil, err
	}
	return bmp, nil
}

// CreateDrawingStateBlock implements canvas.DeviceContext.
func (r *Recorder) CreateDrawingStateBlock() (canvas.DrawingStateBlock, error) {
	if err := r.record(CreateDrawingStateBlockCommand{}); err != nil {
		return nil, err
	}
	return &stateBlock{}, nil
}

// SaveDrawingState implements canvas.DeviceContext.
func (r *Recorder) SaveDrawingState(b canvas.DrawingStateBlock) {
	r.recordOrPanic(SaveDrawingStateCommand{Block: b})
	if sb, ok := b.(*stateBlock); ok {
		*sb = stateBlock{
			saved:     true,
			transform: r.transform,
			units:     r.units,
			antialias: r.antialias,
			textAA:    r.textAA,
			blend:     r.blend,
		}
	}
}

// RestoreDrawingState implements canvas.DeviceContext.
func (r *Recorder) RestoreDrawingState(b canvas.DrawingStateBlock) {
	r.recordOrPanic(RestoreDrawingStateCommand{Block: b})
	if sb, ok := b.(*stateBlock); ok && sb.saved {
		r.transform = sb.transform
		r.units = sb.units
		r.antialias = sb.antialias
		r.textAA = sb.textAA
		r.blend = sb.blend
	}
}

// Dpi implements canvas.DeviceContext.
func (r *Recorder) Dpi() float32 { return r.dpi }

// Device implements canvas.DeviceContext.
func (r *Recorder) Device() canvas.Device { return r.device }
