package filter

import (
	"math"
)

const maxEdgeThreshold = 255

// lumaPlane returns the single-channel luma of buf, one byte per pixel.
func lumaPlane(buf []byte, w, h int) []byte {
	plane := make([]byte, w*h)
	forRows(h, func(y0, y1 int) {
		for p := y0 * w; p < y1*w; p++ {
			i := p * 4
			plane[p] = luma(buf[i+0], buf[i+1], buf[i+2])
		}
	})
	return plane
}

// applyEdge writes a binary Sobel edge mask into the interior of buf.
//
// The threshold t plays two roles: the gradient magnitude is scaled by t/5
// and then compared against t. Border pixels keep their original colour.
func applyEdge(buf []byte, w, h, threshold int) {
	if w < 3 || h < 3 {
		return
	}
	t := float64(clampInt(threshold, 0, maxEdgeThreshold))
	plane := lumaPlane(buf, w, h)
	interiorRows(w, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 1; x < w-1; x++ {
				gx := sobelX.at(plane, w, x, y)
				gy := sobelY.at(plane, w, x, y)
				m := math.Sqrt(float64(gx*gx+gy*gy)) * (t / 5)
				var v byte
				if m > t {
					v = 255
				}
				o := (y*w + x) * 4
				buf[o+0] = v
				buf[o+1] = v
				buf[o+2] = v
			}
		}
	})
}

// applySobelMagnitude writes the Sobel gradient magnitude of the interior,
// min-max stretched so the weakest interior gradient becomes 0 and the
// strongest 255. A flat interior comes out black.
func applySobelMagnitude(buf []byte, w, h int) {
	if w < 3 || h < 3 {
		return
	}
	plane := lumaPlane(buf, w, h)
	mag := make([]float64, w*h)
	interiorRows(w, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 1; x < w-1; x++ {
				gx := sobelX.at(plane, w, x, y)
				gy := sobelY.at(plane, w, x, y)
				mag[y*w+x] = math.Sqrt(float64(gx*gx + gy*gy))
			}
		}
	})

	minMag, maxMag := math.Inf(1), 0.0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			m := mag[y*w+x]
			minMag = min(minMag, m)
			maxMag = max(maxMag, m)
		}
	}
	scale := 0.0
	if maxMag > minMag {
		scale = 255 / (maxMag - minMag)
	}

	interiorRows(w, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 1; x < w-1; x++ {
				v := uint8(math.Round(clampFloatToUint8((mag[y*w+x] - minMag) * scale)))
				o := (y*w + x) * 4
				buf[o+0] = v
				buf[o+1] = v
				buf[o+2] = v
			}
		}
	})
}

// cannyLow derives the low hysteresis threshold from the high one, keeping
// the 80/150 ratio of the desktop defaults.
func cannyLow(high int) int {
	return high * 8 / 15
}

// ApplyCanny runs Canny edge detection over buf in place with explicit
// hysteresis thresholds and returns buf. Both thresholds are clamped to
// [0,255] and swapped when low exceeds high. Interior pixels become 255 on an
// edge and 0 elsewhere; border pixels and alpha are left alone.
func ApplyCanny(buf []byte, width, height, low, high int) ([]byte, error) {
	if err := checkDimensions(buf, width, height); err != nil {
		return nil, err
	}
	low = clampInt(low, 0, maxEdgeThreshold)
	high = clampInt(high, 0, maxEdgeThreshold)
	if low > high {
		low, high = high, low
	}
	applyCanny(buf, width, height, low, high)
	return buf, nil
}

func applyCanny(buf []byte, w, h, low, high int) {
	if w < 3 || h < 3 {
		return
	}
	plane := lumaPlane(buf, w, h)
	edges := hysteresis(suppressNonMaxima(plane, w, h), w, h, low, high)
	interiorRows(w, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 1; x < w-1; x++ {
				var v byte
				if edges[y*w+x] {
					v = 255
				}
				o := (y*w + x) * 4
				buf[o+0] = v
				buf[o+1] = v
				buf[o+2] = v
			}
		}
	})
}

// tan(22.5deg) in Q15.
const tan22Q15 = 13573

// suppressNonMaxima returns the L1 Sobel magnitude of every interior pixel
// that is a local maximum along its quantised gradient direction, and 0 for
// everything else.
func suppressNonMaxima(plane []byte, w, h int) []int32 {
	mag := make([]int32, w*h)
	gxs := make([]int32, w*h)
	gys := make([]int32, w*h)
	interiorRows(w, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 1; x < w-1; x++ {
				gx := sobelX.at(plane, w, x, y)
				gy := sobelY.at(plane, w, x, y)
				i := y*w + x
				gxs[i], gys[i] = int32(gx), int32(gy)
				mag[i] = int32(absInt(gx) + absInt(gy))
			}
		}
	})

	out := make([]int32, w*h)
	interiorRows(w, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 1; x < w-1; x++ {
				i := y*w + x
				m := mag[i]
				if m == 0 {
					continue
				}
				ax, ay := int64(absInt(int(gxs[i]))), int64(absInt(int(gys[i])))
				tg22 := ax * tan22Q15
				tg67 := tg22 + ax<<16
				ay <<= 15
				var keep bool
				switch {
				case ay < tg22:
					keep = m > mag[i-1] && m >= mag[i+1]
				case ay > tg67:
					keep = m > mag[i-w] && m >= mag[i+w]
				case (gxs[i] < 0) != (gys[i] < 0):
					keep = m > mag[i-w+1] && m > mag[i+w-1]
				default:
					keep = m > mag[i-w-1] && m > mag[i+w+1]
				}
				if keep {
					out[i] = m
				}
			}
		}
	})
	return out
}

// hysteresis marks pixels above high as edges, then grows them through
// 8-connected pixels above low.
func hysteresis(nms []int32, w, h, low, high int) []bool {
	edges := make([]bool, w*h)
	var stack []int
	for i, m := range nms {
		if int(m) > high {
			edges[i] = true
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if !edges[j] && int(nms[j]) > low {
					edges[j] = true
					stack = append(stack, j)
				}
			}
		}
	}
	return edges
}
