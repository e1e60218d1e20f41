package canvas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds session defaults that are not part of the native context.
type Config struct {
	// TextAntialiasing is applied to the context when a session is created.
	TextAntialiasing TextAntialiasMode `yaml:"text_antialiasing" toml:"text_antialiasing"`

	// TextFormat describes the format returned by DefaultTextFormat.
	TextFormat TextFormatConfig `yaml:"text_format" toml:"text_format"`

	// Ink configures the default ink adapter.
	Ink InkConfig `yaml:"ink" toml:"ink"`
}

// TextFormatConfig is the file form of a TextFormat.
type TextFormatConfig struct {
	FontFamily string  `yaml:"font_family" toml:"font_family"`
	FontSize   float32 `yaml:"font_size" toml:"font_size"`
	Locale     string  `yaml:"locale" toml:"locale"`
}

// InkConfig configures the default ink adapter.
type InkConfig struct {
	// HighContrast is reported by the adapter's IsHighContrastEnabled.
	HighContrast bool `yaml:"high_contrast" toml:"high_contrast"`

	// HighContrastColor replaces stroke colors when drawing in high
	// contrast. Hex ("#rrggbb") or a color name.
	HighContrastColor string `yaml:"high_contrast_color" toml:"high_contrast_color"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		TextAntialiasing: TextAntialiasGrayscale,
		TextFormat: TextFormatConfig{
			FontFamily: "Segoe UI",
			FontSize:   20,
			Locale:     "en-US",
		},
		Ink: InkConfig{
			HighContrastColor: "white",
		},
	}
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file on top of
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("canvas: read config: %w", err)
	}
	return ParseConfig(data, filepath.Ext(path))
}

// ParseConfig decodes data in the format named by ext (".yaml", ".yml" or
// ".toml") on top of DefaultConfig.
func ParseConfig(data []byte, ext string) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("canvas: parse yaml config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("canvas: parse toml config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: config format %q", ErrInvalidArgument, ext)
	}
	return cfg, nil
}
