//go:build !imagick

package cli

import (
	"fmt"
	"image"
)

// encodeWebP needs ImageMagick; rebuild with -tags imagick.
func encodeWebP(path string, _ image.Image, _ int) error {
	return fmt.Errorf("%s: webp export needs -tags imagick: %w", path, ErrFormatUnsupported)
}
