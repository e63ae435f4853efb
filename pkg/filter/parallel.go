package filter

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minParallelRows is the image height below which rows are processed on the
// calling goroutine.
const minParallelRows = 64

// forRows calls fn over [0,h) split into contiguous row bands and returns once
// every band is done. Bands never overlap, so fn may write its own rows of a
// shared output without locking.
func forRows(h int, fn func(y0, y1 int)) {
	workers := runtime.GOMAXPROCS(0)
	if h < minParallelRows || workers <= 1 {
		fn(0, h)
		return
	}
	chunk := (h + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < h; y0 += chunk {
		y1 := min(y0+chunk, h)
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}
