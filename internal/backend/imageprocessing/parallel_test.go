package imageprocessing

import (
	"sync/atomic"
	"testing"
)

func TestParallelFor_VisitsEveryRowOnce(t *testing.T) {
	for _, n := range []int{0, 1, 7, 1000} {
		visits := make([]int32, n)
		var total atomic.Int32
		parallelFor(n, func(y int) {
			atomic.AddInt32(&visits[y], 1)
			total.Add(1)
		})
		if int(total.Load()) != n {
			t.Errorf("n=%d: expected %d calls, got %d", n, n, total.Load())
		}
		for y, v := range visits {
			if v != 1 {
				t.Fatalf("n=%d: row %d visited %d times", n, y, v)
			}
		}
	}
}
