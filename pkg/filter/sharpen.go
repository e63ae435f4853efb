package filter

// applySharpen convolves R,G,B of every interior pixel with the fixed
// sharpen kernel. Reads come from a snapshot taken before any write; border
// pixels keep their values.
//
// TODO: intensity is accepted but has no effect on the kernel; decide whether
// it should scale the centre weight once the slider range is settled.
func applySharpen(buf []byte, w, h, _ int) {
	if w < 3 || h < 3 {
		return
	}
	snap := make([]byte, len(buf))
	copy(snap, buf)
	interiorRows(w, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 1; x < w-1; x++ {
				o := (y*w + x) * 4
				for c := 0; c < 3; c++ {
					buf[o+c] = uint8(clampInt(sharpenKernel.atRGBA(snap, w, x, y, c), 0, 255))
				}
			}
		}
	})
}
