package canvas

import (
	"fmt"

	"golang.org/x/text/language"
)

// TextFormat describes how text is laid out. Sessions only hand it out;
// text drawing itself lives with the text layout collaborator.
type TextFormat struct {
	FontFamily string
	FontSize   float32
	Locale     language.Tag
}

// NewTextFormat builds a TextFormat from its file form.
func NewTextFormat(c TextFormatConfig) (*TextFormat, error) {
	tag := language.Und
	if c.Locale != "" {
		var err error
		tag, err = language.Parse(c.Locale)
		if err != nil {
			return nil, fmt.Errorf("%w: locale %q: %v", ErrInvalidArgument, c.Locale, err)
		}
	}
	if c.FontSize <= 0 {
		return nil, fmt.Errorf("%w: font size %v", ErrInvalidArgument, c.FontSize)
	}
	return &TextFormat{
		FontFamily: c.FontFamily,
		FontSize:   c.FontSize,
		Locale:     tag,
	}, nil
}
