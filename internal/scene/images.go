package scene

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// DecodeImage decodes PNG, JPEG, BMP, TIFF or WebP data. The content is
// sniffed first so non-image files fail with a clear error.
func DecodeImage(data []byte) (image.Image, error) {
	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		return nil, fmt.Errorf("scene: not an image (detected %q)", kind.MIME.Value)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("scene: decode image: %w", err)
	}
	return img, nil
}

// LoadImages reads and decodes every image the scene names.
func (s *Scene) LoadImages() (map[string]image.Image, error) {
	images := make(map[string]image.Image, len(s.Images))
	for name, path := range s.Images {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("scene: image %q: %w", name, err)
		}
		img, err := DecodeImage(data)
		if err != nil {
			return nil, fmt.Errorf("scene: image %q: %w", name, err)
		}
		images[name] = img
	}
	return images, nil
}
