package imageprocessing

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelFor calls fn(y) for every row y in [0, n). Rows are split into
// contiguous bands, one goroutine per band, bounded by GOMAXPROCS.
func parallelFor(n int, fn func(y int)) {
	if n <= 0 {
		return
	}
	workers := min(runtime.GOMAXPROCS(0), n)
	band := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += band {
		end := min(start+band, n)
		g.Go(func() error {
			for y := start; y < end; y++ {
				fn(y)
			}
			return nil
		})
	}
	_ = g.Wait()
}
