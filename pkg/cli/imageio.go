package cli

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/luli45/photo-filter/pkg/filter"
)

var (
	// ErrEmptyImage is returned for images with zero width or height.
	ErrEmptyImage = errors.New("image has no pixels")
	// ErrFormatUnsupported is returned when no encoder handles an extension.
	ErrFormatUnsupported = errors.New("unsupported output format")
)

// LoadImage reads an image file and returns it as a tightly packed NRGBA
// buffer together with the decoder's format name. JPEG EXIF orientation is
// applied. PNG, JPEG, GIF, BMP, TIFF and WebP are understood.
func LoadImage(path string) (*image.NRGBA, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	out := filter.ToNRGBA(img)
	if out.Rect.Empty() {
		return nil, "", fmt.Errorf("%s: %w", path, ErrEmptyImage)
	}
	return out, format, nil
}

// SaveOptions tunes the encoders.
type SaveOptions struct {
	JPEGQuality int
}

// SaveImage writes img to path using the encoder picked from the file
// extension: .png, .jpg/.jpeg, .gif, .tif/.tiff, .bmp, and .webp when built
// with ImageMagick. Unknown extensions are written as PNG.
func SaveImage(path string, img image.Image, opts SaveOptions) (err error) {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".webp" {
		return encodeWebP(path, img, opts.JPEGQuality)
	}
	format, ferr := imaging.FormatFromFilename(path)
	if ferr != nil {
		format = imaging.PNG
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	q := opts.JPEGQuality
	if q <= 0 {
		q = 92
	}
	if err := imaging.Encode(f, img, format, imaging.JPEGQuality(q)); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// DefaultExportName is the file name a download gets: filtered-<unix ms>.png.
func DefaultExportName(now time.Time) string {
	return fmt.Sprintf("filtered-%d.png", now.UnixMilli())
}

// GetImageInfoImage returns a short info string for an image.Image
func GetImageInfoImage(img image.Image, format string) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil image")
	}
	b := img.Bounds()
	if format == "" {
		format = "unknown"
	}
	return fmt.Sprintf("Format: %s, Width: %d, Height: %d", strings.ToUpper(format), b.Dx(), b.Dy()), nil
}
