package canvas_test

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/canvas"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{
			name: "yaml",
			ext:  ".yaml",
			data: "text_antialiasing: Aliased\n" +
				"text_format:\n  font_size: 12\n" +
				"ink:\n  high_contrast: true\n  high_contrast_color: yellow\n",
		},
		{
			name: "toml",
			ext:  ".TOML",
			data: "text_antialiasing = \"aliased\"\n" +
				"[text_format]\nfont_size = 12.0\n" +
				"[ink]\nhigh_contrast = true\nhigh_contrast_color = \"yellow\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := canvas.ParseConfig([]byte(tt.data), tt.ext)
			require.NoError(t, err)
			assert.Equal(t, canvas.TextAntialiasAliased, cfg.TextAntialiasing)
			assert.Equal(t, float32(12), cfg.TextFormat.FontSize)
			assert.Equal(t, "Segoe UI", cfg.TextFormat.FontFamily, "unset fields keep their defaults")
			assert.True(t, cfg.Ink.HighContrast)
			assert.Equal(t, "yellow", cfg.Ink.HighContrastColor)
		})
	}
}

func TestParseConfigErrors(t *testing.T) {
	_, err := canvas.ParseConfig([]byte("{}"), ".json")
	assert.ErrorIs(t, err, canvas.ErrInvalidArgument)

	_, err = canvas.ParseConfig([]byte("text_antialiasing: Blurry\n"), ".yml")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ink:\n  high_contrast: true\n"), 0o600))

	cfg, err := canvas.LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Ink.HighContrast)
	assert.Equal(t, "white", cfg.Ink.HighContrastColor)

	_, err = canvas.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnumText(t *testing.T) {
	b, err := canvas.UnitsPixels.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Pixels", string(b))

	var u canvas.Units
	require.NoError(t, u.UnmarshalText([]byte("pixels")))
	assert.Equal(t, canvas.UnitsPixels, u)
	assert.ErrorIs(t, u.UnmarshalText([]byte("inches")), canvas.ErrInvalidArgument)

	var c canvas.CompositeMode
	require.NoError(t, c.UnmarshalText([]byte("Xor")))
	assert.Equal(t, canvas.CompositeXor, c)

	assert.Equal(t, "Unknown(42)", canvas.PrimitiveBlend(42).String())
	assert.Equal(t, "None", canvas.LayerOptionsNone.String())
	assert.Equal(t, "InitializeFromBackground|IgnoreAlpha",
		(canvas.LayerOptionsInitializeFromBack | canvas.LayerOptionsIgnoreAlpha).String())
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#f00", color.NRGBA{R: 255, A: 255}},
		{"#0f08", color.NRGBA{G: 255, A: 136}},
		{"#102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}},
		{"#10203040", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{"CornflowerBlue", color.NRGBA{R: 100, G: 149, B: 237, A: 255}},
		{" white ", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := canvas.ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "#12345", "#xyz", "nocolor"} {
		_, err := canvas.ParseColor(bad)
		assert.ErrorIs(t, err, canvas.ErrInvalidArgument, bad)
	}
}

func TestDipsToPixels(t *testing.T) {
	tests := []struct {
		dips     float32
		dpi      float32
		rounding canvas.DpiRounding
		want     int
	}{
		{10, 96, canvas.DpiRoundingRound, 10},
		{10, 144, canvas.DpiRoundingFloor, 15},
		{10.5, 96, canvas.DpiRoundingRound, 11},
		{10.1, 96, canvas.DpiRoundingCeiling, 11},
		{10.9, 96, canvas.DpiRoundingFloor, 10},
	}
	for _, tt := range tests {
		got, err := canvas.DipsToPixels(tt.dips, tt.dpi, tt.rounding)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%v dips at %v dpi (%v)", tt.dips, tt.dpi, tt.rounding)
	}
	assert.Equal(t, float32(48), canvas.PixelsToDips(96, 192))
}

func TestTransformRoundTrip(t *testing.T) {
	offsets := []canvas.Vector2{{}, {X: 10, Y: 20}, {X: 3.7, Y: -2.2}}
	matrices := []canvas.Matrix3x2{
		canvas.Identity(),
		canvas.Scaling(2, 3).Multiply(canvas.Translation(-5, 7)),
		canvas.Skew(0.5, 0.25),
	}
	for _, units := range []canvas.Units{canvas.UnitsDips, canvas.UnitsPixels} {
		for _, offset := range offsets {
			for _, m := range matrices {
				device, err := canvas.DeviceTransform(m, units, 144, offset)
				require.NoError(t, err)
				got, err := canvas.LogicalTransform(device, units, 144, offset)
				require.NoError(t, err)
				assert.InDelta(t, m.M31, got.M31, 1e-4)
				assert.InDelta(t, m.M32, got.M32, 1e-4)
				assert.Equal(t, m.M11, got.M11)
				assert.Equal(t, m.M21, got.M21)
			}
		}
	}

	_, err := canvas.OffsetInDeviceUnits(canvas.Units(7), 96, canvas.Vector2{X: 1})
	assert.ErrorIs(t, err, canvas.ErrInvalidState)
}
