package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/colornames"
)

// ParseColor parses "#rgb", "#rgba", "#rrggbb", "#rrggbbaa" or an SVG color
// name such as "cornflowerblue".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: color %q", ErrInvalidArgument, s)
	}
	switch len(hex) {
	case 3:
		return color.NRGBA{R: uint8(v>>8&0xf) * 17, G: uint8(v>>4&0xf) * 17, B: uint8(v&0xf) * 17, A: 255}, nil
	case 4:
		return color.NRGBA{R: uint8(v>>12&0xf) * 17, G: uint8(v>>8&0xf) * 17, B: uint8(v>>4&0xf) * 17, A: uint8(v&0xf) * 17}, nil
	case 6:
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	case 8:
		return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("%w: color %q", ErrInvalidArgument, s)
	}
}

// NativeColor converts c to the straight-alpha float color native
// contexts take.
func NativeColor(c color.Color) gputypes.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return gputypes.Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

func hdrColor(v Vector4) gputypes.Color {
	return gputypes.Color{R: float64(v.X), G: float64(v.Y), B: float64(v.Z), A: float64(v.W)}
}
