package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/raster"
	"github.com/gogpu/canvas/recording"
)

const yamlScene = `
width: 32
height: 16
background: "#000000"
images:
  dot: dot.png
ops:
  - transform: {translate: [2, 0]}
  - image: {name: dot, offset: [1, 1], opacity: 0.5, interpolation: Cubic}
  - layer:
      opacity: 0.5
      clip: [0, 0, 8, 8]
      ops:
        - blend: Add
        - image: {name: dot, dest: [0, 0, 8, 8]}
  - ink:
      high_contrast: false
      strokes:
        - {width: 2, color: red, points: [[0, 0], [4, 4]]}
`

const tomlScene = `
width = 32
height = 16
background = "#000000"

[images]
dot = "dot.png"

[[ops]]
[ops.transform]
translate = [2.0, 0.0]

[[ops]]
[ops.image]
name = "dot"
offset = [1.0, 1.0]
opacity = 0.5
interpolation = "Cubic"

[[ops]]
[ops.layer]
opacity = 0.5
clip = [0.0, 0.0, 8.0, 8.0]

[[ops.layer.ops]]
blend = "Add"

[[ops.layer.ops]]
[ops.layer.ops.image]
name = "dot"
dest = [0.0, 0.0, 8.0, 8.0]

[[ops]]
[ops.ink]
high_contrast = false

[[ops.ink.strokes]]
width = 2.0
color = "red"
points = [[0.0, 0.0], [4.0, 4.0]]
`

func TestParseFormatsAgree(t *testing.T) {
	fromYAML, err := Parse([]byte(yamlScene), ".yaml")
	require.NoError(t, err)
	fromTOML, err := Parse([]byte(tomlScene), ".toml")
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromTOML)
	assert.Equal(t, 32, fromYAML.Width)
	assert.Equal(t, float32(canvas.DefaultDpi), fromYAML.Dpi)
	require.Len(t, fromYAML.Ops, 4)
	assert.Equal(t, canvas.InterpolationCubic, *fromYAML.Ops[1].Image.Interpolation)
	assert.Equal(t, canvas.BlendAdd, *fromYAML.Ops[2].Layer.Ops[0].Blend)
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse([]byte("ops: []\n"), ".yml")
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, s.Width)
	assert.Equal(t, DefaultHeight, s.Height)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"two kinds", "ops:\n  - {clear: red, blend: Add}\n"},
		{"no kind", "ops:\n  - {}\n"},
		{"unknown image", "ops:\n  - image: {name: nope}\n"},
		{"offset and dest", "images: {a: a.png}\nops:\n  - image: {name: a, offset: [0, 0], dest: [0, 0, 1, 1]}\n"},
		{"nested", "ops:\n  - layer:\n      ops:\n        - image: {name: nope}\n"},
		{"negative size", "width: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), ".yaml")
			assert.ErrorIs(t, err, ErrInvalidScene)
		})
	}

	_, err := Parse([]byte("ops:\n  - blend: Sideways\n"), ".yaml")
	assert.Error(t, err)

	_, err = Parse(nil, ".json")
	assert.ErrorIs(t, err, ErrInvalidScene)
}

func TestTransformMatrix(t *testing.T) {
	tr := Transform{Scale: []float32{2, 2}, Translate: []float32{5, 0}}
	assert.Equal(t, canvas.Vector2{X: 7, Y: 2}, tr.Matrix().TransformPoint(canvas.Vector2{X: 1, Y: 1}))
	assert.Equal(t, canvas.Identity(), Transform{}.Matrix())
}

func dotImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func TestRunRecordsOperations(t *testing.T) {
	s, err := Parse([]byte(yamlScene), ".yaml")
	require.NoError(t, err)

	rec := recording.NewRecorder(s.Dpi)
	ds := canvas.NewDrawingSession(rec, canvas.WithAdapter(canvas.NewSimpleAdapter(rec)))
	require.NoError(t, s.Run(ds, map[string]image.Image{"dot": dotImage()}))
	require.NoError(t, ds.Close())

	assert.Equal(t, 1, rec.Count(recording.CmdClear))
	// One upload for the image, one for the rasterized ink.
	assert.Equal(t, 2, rec.Count(recording.CmdCreateBitmap))
	// The cubic image takes the effect path; the Add blend image and the
	// ink are blits.
	assert.Equal(t, 1, rec.Count(recording.CmdDrawImage))
	assert.Equal(t, 2, rec.Count(recording.CmdDrawBitmap))
	assert.Equal(t, 1, rec.Count(recording.CmdPushLayer))
	assert.Equal(t, 1, rec.Count(recording.CmdPopLayer))
	assert.Equal(t, 1, rec.Count(recording.CmdSaveDrawingState))
	assert.Equal(t, canvas.BlendAdd, rec.PrimitiveBlend())
}

func TestRunMissingImage(t *testing.T) {
	s, err := Parse([]byte(yamlScene), ".yaml")
	require.NoError(t, err)

	ds := canvas.NewDrawingSession(recording.NewRecorder(96))
	defer ds.Close()
	err = s.Run(ds, nil)
	assert.ErrorIs(t, err, ErrInvalidScene)
	assert.Contains(t, err.Error(), "ops[1]")
}

func TestRunClosesLayerOnFailure(t *testing.T) {
	s := &Scene{
		Images: map[string]string{"dot": "dot.png"},
		Ops: []Op{{Layer: &LayerOp{Ops: []Op{{Clear: "not a color"}}}}},
	}
	ds := canvas.NewDrawingSession(recording.NewRecorder(96))
	err := s.Run(ds, nil)
	assert.ErrorIs(t, err, canvas.ErrInvalidArgument)
	assert.Zero(t, ds.OpenLayers())
	assert.NoError(t, ds.Close())
}

func TestRunOnRasterTarget(t *testing.T) {
	data := `
width: 8
height: 8
background: blue
ops:
  - layer:
      mask: [[0, 0], [4, 0], [4, 8], [0, 8]]
      ops:
        - clear: red
  - layer:
      brush: "#ffffff80"
      clip: [6, 0, 2, 8]
      ops:
        - ink:
            high_contrast: false
            strokes:
              - {width: 4, color: lime, points: [[7, 0], [7, 8]]}
`
	s, err := Parse([]byte(data), ".yaml")
	require.NoError(t, err)

	target := raster.NewTarget(s.Width, s.Height, s.Dpi)
	ds, err := target.CreateDrawingSession()
	require.NoError(t, err)
	require.NoError(t, s.Run(ds, nil))
	require.NoError(t, ds.Close())

	img := target.Image()
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(5, 4), "outside every layer")
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(1, 4), "inside the polygon mask")
	half := img.RGBAAt(7, 4)
	assert.InDelta(t, 128, int(half.G), 2, "ink at half brush opacity")
	assert.InDelta(t, 127, int(half.B), 2)
}

func TestDecodeImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, dotImage()))

	img, err := DecodeImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())

	_, err = DecodeImage([]byte("width: 10\n"))
	assert.ErrorContains(t, err, "not an image")
}

func TestLoadResolvesImagePaths(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, dotImage()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dot.png"), buf.Bytes(), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.yaml"), []byte(yamlScene), 0o600))

	s, err := Load(filepath.Join(dir, "scene.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dot.png"), s.Images["dot"])

	images, err := s.LoadImages()
	require.NoError(t, err)
	require.Contains(t, images, "dot")
	assert.Equal(t, 4, images["dot"].Bounds().Dx())

	s.Images["missing"] = filepath.Join(dir, "missing.png")
	_, err = s.LoadImages()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
