package raster

import (
	"image"
	"image/png"
	"io"
	"os"

	"github.com/gogpu/canvas"
)

// Target is a render target that allows one drawing session at a time.
type Target struct {
	ctx  *Context
	flag canvas.ActiveSessionFlag
}

// NewTarget returns a transparent w x h target at dpi.
func NewTarget(w, h int, dpi float32) *Target {
	return &Target{ctx: NewContext(w, h, dpi)}
}

// CreateDrawingSession begins drawing on the target. The session ends
// drawing when closed. It fails with canvas.ErrSessionActive while another
// session on the target is open.
func (t *Target) CreateDrawingSession(opts ...canvas.SessionOption) (*canvas.DrawingSession, error) {
	if t.flag.Active() {
		return nil, canvas.ErrSessionActive
	}
	base := []canvas.SessionOption{
		canvas.WithAdapter(canvas.NewSimpleAdapter(t.ctx)),
		canvas.WithOwner(t.ctx.device),
		canvas.WithActiveFlag(&t.flag),
	}
	return canvas.NewDrawingSession(t.ctx, append(base, opts...)...), nil
}

// HasActiveSession reports whether a session is open on the target.
func (t *Target) HasActiveSession() bool { return t.flag.Active() }

// Context returns the target's device context.
func (t *Target) Context() *Context { return t.ctx }

// Image returns the target pixels. The image is shared, not copied.
func (t *Target) Image() *image.RGBA { return t.ctx.Image() }

// CreateBitmap copies img into a bitmap usable on this target.
func (t *Target) CreateBitmap(img image.Image, dpi float32) (*Bitmap, error) {
	b, err := t.ctx.CreateBitmap(img, dpi)
	if err != nil {
		return nil, err
	}
	return b.(*Bitmap), nil
}

// EncodePNG writes the target pixels as PNG.
func (t *Target) EncodePNG(w io.Writer) error {
	return png.Encode(w, t.Image())
}

// SavePNG saves the target pixels to a PNG file.
func (t *Target) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return t.EncodePNG(f)
}
