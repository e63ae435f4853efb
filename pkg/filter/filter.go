// Package filter implements the photo filters on raw RGBA pixel buffers.
//
// A buffer is a flat []byte of width*height*4 samples in row-major R,G,B,A
// order. Every filter leaves the alpha channel untouched. Filters run in place
// on the buffer handed to Apply; callers that need to keep the original must
// pass a copy (ApplyImage does this for image.Image values).
package filter

import (
	"image"
	"strings"
)

// Kind selects a filter.
type Kind string

const (
	None      Kind = "none"
	Blur      Kind = "blur"
	Sharpen   Kind = "sharpen"
	Grayscale Kind = "grayscale"
	Invert    Kind = "invert"
	Sepia     Kind = "sepia"
	Edge      Kind = "edge"

	// Desktop variants.
	BoxBlur  Kind = "boxblur"
	Gaussian Kind = "gaussian"
	Sobel    Kind = "sobel"
	Canny    Kind = "canny"
)

// Kinds lists every supported kind in menu order.
func Kinds() []Kind {
	return []Kind{None, Blur, Sharpen, Grayscale, Invert, Sepia, Edge, BoxBlur, Gaussian, Sobel, Canny}
}

// ParseKind maps a filter name to its Kind. Unknown names map to None with
// ok=false.
func ParseKind(name string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Kinds() {
		if k == known {
			return k, true
		}
	}
	return None, false
}

// Apply runs the filter selected by kind over buf and returns buf.
//
// buf must hold exactly width*height*4 bytes; otherwise an error wrapping
// ErrInvalidDimensions is returned and buf is not touched. Negative intensity
// is treated as 0 and each filter clamps the upper bound it supports. Unknown
// kinds are a no-op.
func Apply(buf []byte, width, height int, kind Kind, intensity int) ([]byte, error) {
	if err := checkDimensions(buf, width, height); err != nil {
		return nil, err
	}
	if intensity < 0 {
		intensity = 0
	}
	if width == 0 || height == 0 {
		return buf, nil
	}
	switch kind {
	case Blur:
		applyBlur(buf, width, height, intensity)
	case Sharpen:
		applySharpen(buf, width, height, intensity)
	case Grayscale:
		applyGrayscale(buf, width, height)
	case Invert:
		applyInvert(buf, width, height)
	case Sepia:
		applySepia(buf, width, height)
	case Edge:
		applyEdge(buf, width, height, intensity)
	case BoxBlur:
		boxBlurPass(buf, width, height, clampInt(intensity, 0, maxBlurRadius))
	case Gaussian:
		applyGaussian(buf, width, height, intensity)
	case Sobel:
		applySobelMagnitude(buf, width, height)
	case Canny:
		high := clampInt(intensity, 0, maxEdgeThreshold)
		applyCanny(buf, width, height, cannyLow(high), high)
	}
	return buf, nil
}

// ApplyImage copies img into a new *image.NRGBA, filters the copy and returns
// it. img itself is never modified.
func ApplyImage(img image.Image, kind Kind, intensity int) (*image.NRGBA, error) {
	if img == nil {
		return nil, errNilImage
	}
	out := ToNRGBA(img)
	w, h := out.Rect.Dx(), out.Rect.Dy()
	if _, err := Apply(out.Pix, w, h, kind, intensity); err != nil {
		return nil, err
	}
	return out, nil
}
