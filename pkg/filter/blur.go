package filter

const (
	maxBlurRadius = 20
	blurPasses    = 3

	// gaussian takes sigma in tenths of a pixel, up to 5.0
	maxGaussianTenths = 50
)

// applyBlur approximates a Gaussian with three box passes of the clamped
// radius.
func applyBlur(buf []byte, w, h, radius int) {
	radius = clampInt(radius, 0, maxBlurRadius)
	for range blurPasses {
		boxBlurPass(buf, w, h, radius)
	}
}

// boxBlurPass replaces R,G,B of every pixel with the rounded mean of the
// (2r+1)x(2r+1) window around it, intersected with the image. The window
// shrinks at the borders instead of wrapping or padding.
//
// Window sums are exact: a row pass fills hs with horizontal sums from
// per-row prefix sums, then a column pass slides a running sum of hs rows.
func boxBlurPass(buf []byte, w, h, r int) {
	if r <= 0 || w == 0 || h == 0 {
		return
	}
	hs := make([]int32, w*h*3)

	forRows(h, func(y0, y1 int) {
		prefix := make([]int32, (w+1)*3)
		for y := y0; y < y1; y++ {
			row := buf[y*w*4 : (y+1)*w*4]
			for x := 0; x < w; x++ {
				for c := 0; c < 3; c++ {
					prefix[(x+1)*3+c] = prefix[x*3+c] + int32(row[x*4+c])
				}
			}
			for x := 0; x < w; x++ {
				lo := max(x-r, 0)
				hi := min(x+r, w-1) + 1
				o := (y*w + x) * 3
				for c := 0; c < 3; c++ {
					hs[o+c] = prefix[hi*3+c] - prefix[lo*3+c]
				}
			}
		}
	})

	forRows(h, func(y0, y1 int) {
		col := make([]int32, w*3)
		addRow := func(y int, sign int32) {
			src := hs[y*w*3 : (y+1)*w*3]
			for i := range col {
				col[i] += sign * src[i]
			}
		}
		for y := max(y0-r, 0); y <= min(y0+r, h-1); y++ {
			addRow(y, 1)
		}
		for y := y0; y < y1; y++ {
			if y > y0 {
				if out := y - r - 1; out >= 0 {
					addRow(out, -1)
				}
				if in := y + r; in < h {
					addRow(in, 1)
				}
			}
			ny := min(y+r, h-1) - max(y-r, 0) + 1
			for x := 0; x < w; x++ {
				nx := min(x+r, w-1) - max(x-r, 0) + 1
				cnt := int32(nx * ny)
				o := (y*w + x) * 4
				for c := 0; c < 3; c++ {
					buf[o+c] = uint8((col[x*3+c] + cnt/2) / cnt)
				}
			}
		}
	})
}

func applyGaussian(buf []byte, w, h, tenths int) {
	sigma := float64(clampInt(tenths, 0, maxGaussianTenths)) / 10
	separableGaussian(buf, w, h, sigma)
}
