package filter

import (
	"image"
	"image/draw"
)

// ToNRGBA copies any image.Image into a new *image.NRGBA whose bounds start
// at the origin and whose Pix is a tightly packed RGBA buffer (Stride == 4*w).
func ToNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	if n, ok := src.(*image.NRGBA); ok {
		// copy row by row; sub-images have a wider stride
		for y := 0; y < h; y++ {
			si := n.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Stride:y*out.Stride+w*4], n.Pix[si:si+w*4])
		}
		return out
	}
	draw.Draw(out, out.Rect, src, b.Min, draw.Src)
	return out
}

// FromBuffer wraps an RGBA buffer as an *image.NRGBA without copying.
func FromBuffer(buf []byte, width, height int) (*image.NRGBA, error) {
	if err := checkDimensions(buf, width, height); err != nil {
		return nil, err
	}
	return &image.NRGBA{Pix: buf, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// clampInt clamps v to [lo,hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloatToUint8(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
