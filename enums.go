package canvas

import (
	"fmt"
	"strings"
)

// Units selects the unit used by coordinates passed to a drawing session.
type Units uint8

const (
	// UnitsDips measures coordinates in device independent pixels (1/96 inch).
	UnitsDips Units = iota

	// UnitsPixels measures coordinates in physical pixels.
	UnitsPixels
)

var unitsNames = []string{
	UnitsDips:   "Dips",
	UnitsPixels: "Pixels",
}

// PrimitiveBlend is the context-wide pixel combination rule used by
// primitives that do not take an explicit composite mode (DrawBitmap, fills).
type PrimitiveBlend uint8

const (
	BlendSourceOver PrimitiveBlend = iota
	BlendCopy
	BlendMin
	BlendAdd
	BlendMax
)

var primitiveBlendNames = []string{
	BlendSourceOver: "SourceOver",
	BlendCopy:       "Copy",
	BlendMin:        "Min",
	BlendAdd:        "Add",
	BlendMax:        "Max",
}

// CompositeMode is the explicit pixel combination rule accepted by the
// generic image drawing primitive.
type CompositeMode uint8

// Composite modes. CompositeAdd is the "plus" operator: S + D.
const (
	CompositeSourceOver CompositeMode = iota
	CompositeDestinationOver
	CompositeSourceIn
	CompositeDestinationIn
	CompositeSourceOut
	CompositeDestinationOut
	CompositeSourceAtop
	CompositeDestinationAtop
	CompositeXor
	CompositeAdd
	CompositeCopy
	CompositeBoundedCopy
	CompositeMaskInvert
)

var compositeModeNames = []string{
	CompositeSourceOver:      "SourceOver",
	CompositeDestinationOver: "DestinationOver",
	CompositeSourceIn:        "SourceIn",
	CompositeDestinationIn:   "DestinationIn",
	CompositeSourceOut:       "SourceOut",
	CompositeDestinationOut:  "DestinationOut",
	CompositeSourceAtop:      "SourceAtop",
	CompositeDestinationAtop: "DestinationAtop",
	CompositeXor:             "Xor",
	CompositeAdd:             "Add",
	CompositeCopy:            "Copy",
	CompositeBoundedCopy:     "BoundedCopy",
	CompositeMaskInvert:      "MaskInvert",
}

// Interpolation defines how image pixels are sampled when drawn.
type Interpolation uint8

const (
	InterpolationNearestNeighbor Interpolation = iota
	InterpolationLinear
	InterpolationCubic
	InterpolationMultiSampleLinear
	InterpolationAnisotropic
	InterpolationHighQualityCubic
)

var interpolationNames = []string{
	InterpolationNearestNeighbor:   "NearestNeighbor",
	InterpolationLinear:            "Linear",
	InterpolationCubic:             "Cubic",
	InterpolationMultiSampleLinear: "MultiSampleLinear",
	InterpolationAnisotropic:       "Anisotropic",
	InterpolationHighQualityCubic:  "HighQualityCubic",
}

// AntialiasMode controls edge antialiasing of geometry and clips.
type AntialiasMode uint8

const (
	AntialiasAntialiased AntialiasMode = iota
	AntialiasAliased
)

var antialiasNames = []string{
	AntialiasAntialiased: "Antialiased",
	AntialiasAliased:     "Aliased",
}

// TextAntialiasMode controls antialiasing of text.
type TextAntialiasMode uint8

const (
	TextAntialiasDefault TextAntialiasMode = iota
	TextAntialiasClearType
	TextAntialiasGrayscale
	TextAntialiasAliased
)

var textAntialiasNames = []string{
	TextAntialiasDefault:   "Default",
	TextAntialiasClearType: "ClearType",
	TextAntialiasGrayscale: "Grayscale",
	TextAntialiasAliased:   "Aliased",
}

// LayerOptions are flags passed through to the native layer primitive.
type LayerOptions uint8

const (
	LayerOptionsNone               LayerOptions = 0
	LayerOptionsInitializeFromBack LayerOptions = 1 << 0
	LayerOptionsIgnoreAlpha        LayerOptions = 1 << 1
)

// String returns the flags joined by "|".
func (o LayerOptions) String() string {
	if o == LayerOptionsNone {
		return "None"
	}
	var parts []string
	if o&LayerOptionsInitializeFromBack != 0 {
		parts = append(parts, "InitializeFromBackground")
	}
	if o&LayerOptionsIgnoreAlpha != 0 {
		parts = append(parts, "IgnoreAlpha")
	}
	if rest := o &^ (LayerOptionsInitializeFromBack | LayerOptionsIgnoreAlpha); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// BufferPrecision is the precision of intermediate effect buffers.
// BufferPrecisionUnknown means the context picks.
type BufferPrecision uint8

const (
	BufferPrecisionUnknown BufferPrecision = iota
	BufferPrecision8UIntNormalized
	BufferPrecision8UIntNormalizedSrgb
	BufferPrecision16UIntNormalized
	BufferPrecision16Float
	BufferPrecision32Float
)

var bufferPrecisionNames = []string{
	BufferPrecisionUnknown:             "Unknown",
	BufferPrecision8UIntNormalized:     "Precision8UIntNormalized",
	BufferPrecision8UIntNormalizedSrgb: "Precision8UIntNormalizedSrgb",
	BufferPrecision16UIntNormalized:    "Precision16UIntNormalized",
	BufferPrecision16Float:             "Precision16Float",
	BufferPrecision32Float:             "Precision32Float",
}

// DpiRounding selects how fractional pixel counts are rounded.
type DpiRounding uint8

const (
	DpiRoundingFloor DpiRounding = iota
	DpiRoundingRound
	DpiRoundingCeiling
)

var dpiRoundingNames = []string{
	DpiRoundingFloor:   "Floor",
	DpiRoundingRound:   "Round",
	DpiRoundingCeiling: "Ceiling",
}

func enumString(names []string, v int) string {
	if v >= 0 && v < len(names) && names[v] != "" {
		return names[v]
	}
	return fmt.Sprintf("Unknown(%d)", v)
}

func parseEnum(names []string, kind, s string) (int, error) {
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrInvalidArgument, kind, s)
}

func (u Units) String() string { return enumString(unitsNames, int(u)) }

func (b PrimitiveBlend) String() string { return enumString(primitiveBlendNames, int(b)) }

func (c CompositeMode) String() string { return enumString(compositeModeNames, int(c)) }

func (i Interpolation) String() string { return enumString(interpolationNames, int(i)) }

func (a AntialiasMode) String() string { return enumString(antialiasNames, int(a)) }

func (t TextAntialiasMode) String() string { return enumString(textAntialiasNames, int(t)) }

func (p BufferPrecision) String() string { return enumString(bufferPrecisionNames, int(p)) }

func (r DpiRounding) String() string { return enumString(dpiRoundingNames, int(r)) }

// MarshalText implements encoding.TextMarshaler.
func (u Units) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Units) UnmarshalText(b []byte) error {
	v, err := parseEnum(unitsNames, "units", string(b))
	*u = Units(v)
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (b PrimitiveBlend) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *PrimitiveBlend) UnmarshalText(text []byte) error {
	v, err := parseEnum(primitiveBlendNames, "primitive blend", string(text))
	*b = PrimitiveBlend(v)
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (c CompositeMode) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CompositeMode) UnmarshalText(text []byte) error {
	v, err := parseEnum(compositeModeNames, "composite mode", string(text))
	*c = CompositeMode(v)
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (i Interpolation) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Interpolation) UnmarshalText(text []byte) error {
	v, err := parseEnum(interpolationNames, "interpolation", string(text))
	*i = Interpolation(v)
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (a AntialiasMode) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AntialiasMode) UnmarshalText(text []byte) error {
	v, err := parseEnum(antialiasNames, "antialias mode", string(text))
	*a = AntialiasMode(v)
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (t TextAntialiasMode) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TextAntialiasMode) UnmarshalText(text []byte) error {
	v, err := parseEnum(textAntialiasNames, "text antialias mode", string(text))
	*t = TextAntialiasMode(v)
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (p BufferPrecision) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *BufferPrecision) UnmarshalText(text []byte) error {
	v, err := parseEnum(bufferPrecisionNames, "buffer precision", string(text))
	*p = BufferPrecision(v)
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (r DpiRounding) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *DpiRounding) UnmarshalText(text []byte) error {
	v, err := parseEnum(dpiRoundingNames, "dpi rounding", string(text))
	*r = DpiRounding(v)
	return err
}
