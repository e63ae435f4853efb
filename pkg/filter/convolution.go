package filter

import (
	"math"
)

// kernel3 is a 3x3 convolution kernel indexed [ky+1][kx+1].
type kernel3 [3][3]int

var (
	sharpenKernel = kernel3{{0, -1, 0}, {-1, 5, -1}, {0, -1, 0}}
	sobelX        = kernel3{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY        = kernel3{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
)

// at sums the kernel over the 3x3 neighbourhood of (x,y) in a single-channel
// plane of width w. The caller guarantees (x,y) is an interior point.
func (k *kernel3) at(plane []byte, w, x, y int) int {
	sum := 0
	for ky := -1; ky <= 1; ky++ {
		row := (y + ky) * w
		for kx := -1; kx <= 1; kx++ {
			if v := k[ky+1][kx+1]; v != 0 {
				sum += v * int(plane[row+x+kx])
			}
		}
	}
	return sum
}

// atRGBA is at for channel c of an RGBA buffer.
func (k *kernel3) atRGBA(buf []byte, w, x, y, c int) int {
	sum := 0
	for ky := -1; ky <= 1; ky++ {
		row := (y + ky) * w
		for kx := -1; kx <= 1; kx++ {
			if v := k[ky+1][kx+1]; v != 0 {
				sum += v * int(buf[(row+x+kx)*4+c])
			}
		}
	}
	return sum
}

// interiorRows calls fn over the band [1,h-1) split like forRows. Images
// thinner than three pixels have no interior.
func interiorRows(w, h int, fn func(y0, y1 int)) {
	if w < 3 || h < 3 {
		return
	}
	forRows(h-2, func(y0, y1 int) {
		fn(y0+1, y1+1)
	})
}

// gaussianKernel1D generates a normalized 1D Gaussian kernel with given sigma.
// Returns kernel and half-width radius.
func gaussianKernel1D(sigma float64) ([]float64, int) {
	if sigma <= 0 {
		return []float64{1.0}, 0
	}
	radius := int(math.Ceil(3 * sigma))
	kern := make([]float64, radius*2+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-0.5 * (float64(i) * float64(i)) / (sigma * sigma))
		kern[i+radius] = v
		sum += v
	}
	for i := range kern {
		kern[i] /= sum
	}
	return kern, radius
}

// separableGaussian blurs R,G,B of buf with edge-clamped sampling. The
// horizontal pass goes to a float scratch plane, the vertical pass writes buf.
func separableGaussian(buf []byte, w, h int, sigma float64) {
	kern, radius := gaussianKernel1D(sigma)
	if radius == 0 {
		return
	}
	tmp := make([]float64, w*h*3)

	forRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				var s [3]float64
				for k := -radius; k <= radius; k++ {
					i := (y*w + clampInt(x+k, 0, w-1)) * 4
					wgt := kern[k+radius]
					s[0] += float64(buf[i+0]) * wgt
					s[1] += float64(buf[i+1]) * wgt
					s[2] += float64(buf[i+2]) * wgt
				}
				copy(tmp[(y*w+x)*3:], s[:])
			}
		}
	})

	forRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				var s [3]float64
				for k := -radius; k <= radius; k++ {
					i := (clampInt(y+k, 0, h-1)*w + x) * 3
					wgt := kern[k+radius]
					s[0] += tmp[i+0] * wgt
					s[1] += tmp[i+1] * wgt
					s[2] += tmp[i+2] * wgt
				}
				o := (y*w + x) * 4
				for c := 0; c < 3; c++ {
					buf[o+c] = uint8(math.Round(clampFloatToUint8(s[c])))
				}
			}
		}
	})
}
