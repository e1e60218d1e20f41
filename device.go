package canvas

import (
	"image"

	"github.com/gogpu/gputypes"
)

// Image is a native drawable produced by a DeviceContext: a Bitmap, the
// output of an Effect, or any backend specific image. Backends type-assert
// the images they accept.
type Image interface{}

// Bitmap is a realized native bitmap.
type Bitmap interface {
	// PixelSize returns the bitmap size in physical pixels.
	PixelSize() (width, height int)

	// Size returns the bitmap size in DIPs (pixel size scaled by 96/Dpi).
	Size() Size

	// Dpi returns the bitmap's native DPI.
	Dpi() float32

	// Format returns the pixel format of the bitmap storage.
	Format() gputypes.TextureFormat
}

// Brush is a realized native brush.
type Brush interface{}

// SolidColorBrush is a realized single color brush. Sessions cache one and
// recolor it instead of creating a brush per call.
type SolidColorBrush interface {
	Brush
	Color() gputypes.Color
	SetColor(gputypes.Color)
}

// Geometry is a realized native geometry.
type Geometry interface{}

// Device is the native device a context renders with.
type Device interface {
	// MaximumBitmapSize returns the largest bitmap edge, in pixels, the
	// device accepts.
	MaximumBitmapSize() int
}

// EffectKind identifies a native effect.
type EffectKind uint8

const (
	// EffectColorMatrix transforms each pixel by a 5x4 color matrix.
	EffectColorMatrix EffectKind = iota

	// EffectBorder extends the edge pixels of its input outward so sampling
	// past the edge never reads transparent black.
	EffectBorder
)

func (k EffectKind) String() string {
	switch k {
	case EffectColorMatrix:
		return "ColorMatrix"
	case EffectBorder:
		return "Border"
	default:
		return "Unknown"
	}
}

// ColorMatrix is a 5x4 color matrix in row-vector form: the output pixel is
// [r g b a 1] * m. Rows 0-3 scale the input channels, row 4 is the bias.
type ColorMatrix [5][4]float32

// IdentityColorMatrix returns the color matrix that leaves pixels unchanged.
func IdentityColorMatrix() ColorMatrix {
	return ColorMatrix{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
		{0, 0, 0, 0},
	}
}

// OpacityColorMatrix returns the color matrix that scales alpha by opacity.
func OpacityColorMatrix(opacity float32) ColorMatrix {
	m := IdentityColorMatrix()
	m[3][3] = opacity
	return m
}

// Effect is a native image effect node.
type Effect interface {
	Kind() EffectKind

	// SetInput binds an image to the given input slot.
	SetInput(index int, img Image)

	// SetColorMatrix sets the matrix of an EffectColorMatrix effect.
	SetColorMatrix(m ColorMatrix) error

	// Output returns the image produced by the effect.
	Output() Image
}

// RenderingControls are context-wide effect rendering settings.
type RenderingControls struct {
	BufferPrecision BufferPrecision
	TileWidth       uint32
	TileHeight      uint32
}

// LayerParameters describe a full layer push.
type LayerParameters struct {
	ContentBounds     RectF
	GeometricMask     Geometry
	MaskAntialiasMode AntialiasMode
	MaskTransform     Matrix3x2
	Opacity           float32
	OpacityBrush      Brush
	Options           LayerOptions
}

// DrawingStateBlock holds a snapshot of context state taken by
// SaveDrawingState.
type DrawingStateBlock interface{}

// DeviceContext is the native immediate-mode rendering context a
// DrawingSession drives. Implementations are not safe for concurrent use.
//
// State setters and push/pop primitives do not report errors, matching
// native contexts that defer failures to EndDraw or Flush.
type DeviceContext interface {
	BeginDraw()
	EndDraw() error
	Flush() error
	Clear(c gputypes.Color)

	// DrawBitmap blits a bitmap into dest using the current primitive blend.
	// src and perspective are optional.
	DrawBitmap(b Bitmap, dest RectF, opacity float32, interp Interpolation, src *RectF, perspective *Matrix4x4) error

	// DrawImage composites an image at offset with an explicit composite
	// mode. src is optional.
	DrawImage(img Image, offset Vector2, src *RectF, interp Interpolation, composite CompositeMode) error

	PushLayer(params LayerParameters)
	PopLayer()
	PushAxisAlignedClip(clip RectF, aa AntialiasMode)
	PopAxisAlignedClip()

	Transform() Matrix3x2
	SetTransform(m Matrix3x2)
	UnitMode() Units
	SetUnitMode(u Units)
	AntialiasMode() AntialiasMode
	SetAntialiasMode(aa AntialiasMode)
	TextAntialiasMode() TextAntialiasMode
	SetTextAntialiasMode(aa TextAntialiasMode)
	PrimitiveBlend() PrimitiveBlend
	SetPrimitiveBlend(b PrimitiveBlend)
	RenderingControls() RenderingControls
	SetRenderingControls(rc RenderingControls)

	// ImageLocalBounds returns the bounds of img in the current unit mode.
	ImageLocalBounds(img Image) (RectF, error)

	CreateEffect(kind EffectKind) (Effect, error)

	// SetDpiCompensatedEffectInput binds a bitmap to an effect input,
	// scaling it so the effect sees the bitmap at its native DPI.
	SetDpiCompensatedEffectInput(e Effect, index int, b Bitmap) error

	CreateSolidColorBrush(c gputypes.Color) (SolidColorBrush, error)
	CreateBitmap(img image.Image, dpi float32) (Bitmap, error)
	CreateDrawingStateBlock() (DrawingStateBlock, error)
	SaveDrawingState(b DrawingStateBlock)
	RestoreDrawingState(b DrawingStateBlock)

	// Dpi returns the DPI of the context's target.
	Dpi() float32
	Device() Device
}
