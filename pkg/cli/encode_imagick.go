//go:build imagick

package cli

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"gopkg.in/gographics/imagick.v3/imagick"
)

// encodeWebP hands the image to MagickWand as PNG and lets ImageMagick write
// the WebP file.
func encodeWebP(path string, img image.Image, quality int) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png encode failed: %w", err)
	}

	imagick.Initialize()
	defer imagick.Terminate()

	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ReadImageBlob(buf.Bytes()); err != nil {
		return fmt.Errorf("imagick read: %w", err)
	}
	if err := mw.SetImageFormat("WEBP"); err != nil {
		return fmt.Errorf("imagick format: %w", err)
	}
	if quality > 0 {
		if err := mw.SetImageCompressionQuality(uint(quality)); err != nil {
			return fmt.Errorf("imagick quality: %w", err)
		}
	}
	if err := mw.WriteImage(path); err != nil {
		return fmt.Errorf("imagick write %s: %w", path, err)
	}
	return nil
}
