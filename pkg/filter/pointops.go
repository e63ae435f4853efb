package filter

// Luma weights 0.30/0.59/0.11 in hundredths. The sum is exactly 100, so
// equal channels map to themselves.
const (
	lumaR = 30
	lumaG = 59
	lumaB = 11
)

// luma returns 0.3R + 0.59G + 0.11B truncated toward zero.
func luma(r, g, b uint8) uint8 {
	return uint8((lumaR*int(r) + lumaG*int(g) + lumaB*int(b)) / 100)
}

func applyGrayscale(buf []byte, w, h int) {
	forRows(h, func(y0, y1 int) {
		for i := y0 * w * 4; i < y1*w*4; i += 4 {
			l := luma(buf[i+0], buf[i+1], buf[i+2])
			buf[i+0] = l
			buf[i+1] = l
			buf[i+2] = l
		}
	})
}

func applyInvert(buf []byte, w, h int) {
	forRows(h, func(y0, y1 int) {
		for i := y0 * w * 4; i < y1*w*4; i += 4 {
			buf[i+0] = 255 - buf[i+0]
			buf[i+1] = 255 - buf[i+1]
			buf[i+2] = 255 - buf[i+2]
		}
	})
}

// Sepia matrix in thousandths.
var sepiaMatrix = [3][3]int{
	{393, 769, 189},
	{349, 686, 168},
	{272, 534, 131},
}

// sepiaPixel maps one RGB triple through the sepia matrix, truncating and
// capping each channel at 255.
func sepiaPixel(r, g, b uint8) (uint8, uint8, uint8) {
	var out [3]uint8
	for c, row := range sepiaMatrix {
		v := (row[0]*int(r) + row[1]*int(g) + row[2]*int(b)) / 1000
		out[c] = uint8(min(v, 255))
	}
	return out[0], out[1], out[2]
}

func applySepia(buf []byte, w, h int) {
	forRows(h, func(y0, y1 int) {
		for i := y0 * w * 4; i < y1*w*4; i += 4 {
			// all three read before any write
			r, g, b := sepiaPixel(buf[i+0], buf[i+1], buf[i+2])
			buf[i+0] = r
			buf[i+1] = g
			buf[i+2] = b
		}
	})
}
