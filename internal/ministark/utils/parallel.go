package utils

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Parallelize splits [0, n) into contiguous chunks and runs work on each
// chunk concurrently. Workers must write only to disjoint output slots; the
// helper provides the barrier, not the isolation.
func Parallelize(n int, work func(start, end int)) {
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		if n > 0 {
			work(0, n)
		}
		return
	}

	var group errgroup.Group
	chunk := n / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if w == workers-1 {
			end = n
		}
		group.Go(func() error {
			work(start, end)
			return nil
		})
	}
	// Workers never return errors; Wait is the barrier.
	_ = group.Wait()
}
