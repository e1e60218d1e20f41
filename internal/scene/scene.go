// Package scene describes drawings as data: a YAML or TOML document listing
// images and a sequence of drawing operations, executed against a
// canvas.DrawingSession.
//
//	width: 256
//	height: 256
//	background: white
//	images:
//	  logo: logo.png
//	ops:
//	  - image: {name: logo, offset: [16, 16], opacity: 0.5}
//	  - layer:
//	      opacity: 0.75
//	      clip: [0, 0, 128, 128]
//	      ops:
//	        - ink: {strokes: [{width: 4, color: red, points: [[0, 0], [128, 128]]}]}
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/canvas"
)

// Default target size and resolution for scenes that leave them unset.
const (
	DefaultWidth  = 512
	DefaultHeight = 512
)

// ErrInvalidScene reports a scene that decodes but cannot be drawn.
var ErrInvalidScene = errors.New("scene: invalid scene")

// Scene is a decoded scene document.
type Scene struct {
	Width      int     `yaml:"width" toml:"width"`
	Height     int     `yaml:"height" toml:"height"`
	Dpi        float32 `yaml:"dpi" toml:"dpi"`
	Background string  `yaml:"background" toml:"background"`

	// Images maps image names to file paths, relative to the scene file.
	Images map[string]string `yaml:"images" toml:"images"`

	Ops []Op `yaml:"ops" toml:"ops"`
}

// Op is one drawing operation. Exactly one field is set.
type Op struct {
	Clear     string                 `yaml:"clear,omitempty" toml:"clear,omitempty"`
	Transform *Transform             `yaml:"transform,omitempty" toml:"transform,omitempty"`
	Units     *canvas.Units          `yaml:"units,omitempty" toml:"units,omitempty"`
	Blend     *canvas.PrimitiveBlend `yaml:"blend,omitempty" toml:"blend,omitempty"`
	Antialias *canvas.AntialiasMode  `yaml:"antialias,omitempty" toml:"antialias,omitempty"`
	Image     *ImageOp               `yaml:"image,omitempty" toml:"image,omitempty"`
	Layer     *LayerOp               `yaml:"layer,omitempty" toml:"layer,omitempty"`
	Ink       *InkOp                 `yaml:"ink,omitempty" toml:"ink,omitempty"`
}

// Transform replaces the session transform with scale, then skew, then
// translate. Unset parts are identity.
type Transform struct {
	Translate []float32 `yaml:"translate,omitempty" toml:"translate,omitempty"`
	Scale     []float32 `yaml:"scale,omitempty" toml:"scale,omitempty"`
	Skew      []float32 `yaml:"skew,omitempty" toml:"skew,omitempty"`
}

// ImageOp draws a named image. Offset and Dest are mutually exclusive;
// rectangles are [x, y, width, height].
type ImageOp struct {
	Name          string                `yaml:"name" toml:"name"`
	Offset        []float32             `yaml:"offset,omitempty" toml:"offset,omitempty"`
	Dest          []float32             `yaml:"dest,omitempty" toml:"dest,omitempty"`
	Source        []float32             `yaml:"source,omitempty" toml:"source,omitempty"`
	Opacity       *float32              `yaml:"opacity,omitempty" toml:"opacity,omitempty"`
	Interpolation *canvas.Interpolation `yaml:"interpolation,omitempty" toml:"interpolation,omitempty"`
	Composite     *canvas.CompositeMode `yaml:"composite,omitempty" toml:"composite,omitempty"`
}

// LayerOp runs Ops inside a layer.
type LayerOp struct {
	Opacity *float32 `yaml:"opacity,omitempty" toml:"opacity,omitempty"`

	// Clip is an [x, y, width, height] clip rectangle.
	Clip []float32 `yaml:"clip,omitempty" toml:"clip,omitempty"`

	// Mask is a polygon, as [x, y] pairs, clipping the layer.
	Mask [][]float32 `yaml:"mask,omitempty" toml:"mask,omitempty"`

	// Brush masks the layer by a solid color's alpha.
	Brush string `yaml:"brush,omitempty" toml:"brush,omitempty"`

	Ops []Op `yaml:"ops" toml:"ops"`
}

// InkOp draws ink strokes.
type InkOp struct {
	Strokes []Stroke `yaml:"strokes" toml:"strokes"`

	// HighContrast overrides the session's high contrast setting.
	HighContrast *bool `yaml:"high_contrast,omitempty" toml:"high_contrast,omitempty"`
}

// Stroke is one ink stroke with points given as [x, y] pairs.
type Stroke struct {
	Points [][]float32 `yaml:"points" toml:"points"`
	Width  float32     `yaml:"width" toml:"width"`
	Color  string      `yaml:"color,omitempty" toml:"color,omitempty"`
}

// Load reads a scene file. Image paths are resolved relative to the file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read: %w", err)
	}
	s, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for name, p := range s.Images {
		if !filepath.IsAbs(p) {
			s.Images[name] = filepath.Join(dir, p)
		}
	}
	return s, nil
}

// Parse decodes a scene in the format named by ext (".yaml", ".yml" or
// ".toml") and fills in defaults.
func Parse(data []byte, ext string) (*Scene, error) {
	var s Scene
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("scene: parse yaml: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("scene: parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidScene, ext)
	}
	if s.Width == 0 {
		s.Width = DefaultWidth
	}
	if s.Height == 0 {
		s.Height = DefaultHeight
	}
	if s.Dpi == 0 {
		s.Dpi = canvas.DefaultDpi
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scene) validate() error {
	if s.Width < 0 || s.Height < 0 || s.Dpi < 0 {
		return fmt.Errorf("%w: negative size or dpi", ErrInvalidScene)
	}
	return validateOps(s.Ops, s.Images, "ops")
}

func validateOps(ops []Op, images map[string]string, path string) error {
	for i, op := range ops {
		at := fmt.Sprintf("%s[%d]", path, i)
		if n := op.kinds(); n != 1 {
			return fmt.Errorf("%w: %s sets %d operations, want 1", ErrInvalidScene, at, n)
		}
		switch {
		case op.Image != nil:
			if _, ok := images[op.Image.Name]; !ok {
				return fmt.Errorf("%w: %s draws unknown image %q", ErrInvalidScene, at, op.Image.Name)
			}
			if op.Image.Offset != nil && op.Image.Dest != nil {
				return fmt.Errorf("%w: %s sets both offset and dest", ErrInvalidScene, at)
			}
		case op.Layer != nil:
			if err := validateOps(op.Layer.Ops, images, at+".layer.ops"); err != nil {
				return err
			}
		}
	}
	return nil
}

// kinds counts the operations set on op.
func (op Op) kinds() int {
	n := 0
	for _, set := range []bool{
		op.Clear != "",
		op.Transform != nil,
		op.Units != nil,
		op.Blend != nil,
		op.Antialias != nil,
		op.Image != nil,
		op.Layer != nil,
		op.Ink != nil,
	} {
		if set {
			n++
		}
	}
	return n
}
