package nbody

import (
	"runtime"
	"sync"
)

// DefaultMinChunk is the smallest index range handed to its own goroutine.
const DefaultMinChunk = 16

// ParallelFor runs fn over [0, n) split into contiguous, disjoint ranges,
// one goroutine per range, and returns once all of them have finished.
// With a single worker or n <= minChunk it runs fn(0, n) inline.
func ParallelFor(n, workers, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
