package canvas

import (
	"fmt"

	"github.com/chewxy/math32"
)

// DefaultDpi is the DPI at which one DIP equals one pixel.
const DefaultDpi = 96

// DipsToPixels converts a DIP length to whole pixels at dpi.
func DipsToPixels(dips, dpi float32, rounding DpiRounding) (int, error) {
	scaled := dips * dpi / DefaultDpi
	switch rounding {
	case DpiRoundingFloor:
		scaled = math32.Floor(scaled)
	case DpiRoundingRound:
		scaled = math32.Round(scaled)
	case DpiRoundingCeiling:
		scaled = math32.Ceil(scaled)
	default:
		return 0, fmt.Errorf("%w: dpi rounding %v", ErrInvalidArgument, rounding)
	}
	return int(scaled), nil
}

// PixelsToDips converts a pixel count to DIPs at dpi.
func PixelsToDips(pixels int, dpi float32) float32 {
	return float32(pixels) * DefaultDpi / dpi
}

// bitmapSize returns the size of b in the given unit mode.
func bitmapSize(units Units, b Bitmap) Size {
	if units == UnitsPixels {
		w, h := b.PixelSize()
		return Size{Width: float32(w), Height: float32(h)}
	}
	return b.Size()
}

// offsetInDeviceUnits converts the session offset, which is always stored in
// DIPs, to the context's current unit mode. Pixel offsets are floored so
// that an offset session stays aligned to whole pixels.
func offsetInDeviceUnits(units Units, dpi float32, offset Vector2) (Vector2, error) {
	switch units {
	case UnitsDips:
		return offset, nil
	case UnitsPixels:
		x, err := DipsToPixels(offset.X, dpi, DpiRoundingFloor)
		if err != nil {
			return Vector2{}, err
		}
		y, err := DipsToPixels(offset.Y, dpi, DpiRoundingFloor)
		if err != nil {
			return Vector2{}, err
		}
		return Vector2{X: float32(x), Y: float32(y)}, nil
	default:
		return Vector2{}, fmt.Errorf("%w: unexpected unit mode %v", ErrInvalidState, units)
	}
}

// logicalTransform strips the session offset from the context transform.
func logicalTransform(device Matrix3x2, units Units, dpi float32, offset Vector2) (Matrix3x2, error) {
	adjusted, err := offsetInDeviceUnits(units, dpi, offset)
	if err != nil {
		return Matrix3x2{}, err
	}
	device.M31 -= adjusted.X
	device.M32 -= adjusted.Y
	return device, nil
}

// deviceTransform adds the session offset back onto a logical transform.
func deviceTransform(logical Matrix3x2, units Units, dpi float32, offset Vector2) (Matrix3x2, error) {
	adjusted, err := offsetInDeviceUnits(units, dpi, offset)
	if err != nil {
		return Matrix3x2{}, err
	}
	logical.M31 += adjusted.X
	logical.M32 += adjusted.Y
	return logical, nil
}

// temporaryTransform installs translate(offset)*scale ahead of the current
// transform and returns a func that restores the previous transform. The
// restore must run on every exit path.
func temporaryTransform(dc DeviceContext, offset Vector2, scale Vector2) (restore func()) {
	previous := dc.Transform()
	local := Scaling(scale.X, scale.Y).Multiply(Translation(offset.X, offset.Y))
	dc.SetTransform(local.Multiply(previous))
	return func() { dc.SetTransform(previous) }
}
