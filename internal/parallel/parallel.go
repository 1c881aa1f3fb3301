// Package parallel splits index ranges across goroutines for the element
// kernels of the tensor package.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how work is split.
type Config struct {
	Workers  int // Goroutines to use; fewer than 2 runs on the caller's goroutine.
	MinChunk int // Smallest range handed to one goroutine.
}

// DefaultConfig uses every CPU and chunks large enough to amortize goroutine start-up.
func DefaultConfig() Config {
	return Config{
		Workers:  runtime.NumCPU(),
		MinChunk: 4096,
	}
}

// Sequential reports whether n items are processed on the calling goroutine.
func (c Config) Sequential(n int) bool {
	return c.Workers < 2 || n < 2*max(c.MinChunk, 1)
}

// Ranges calls f on disjoint half-open ranges that together cover [0, n) and
// returns once every call has finished. f must only write state owned by its range.
func Ranges(n int, cfg Config, f func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if cfg.Sequential(n) {
		f(0, n)
		return
	}

	chunk := max((n+cfg.Workers-1)/cfg.Workers, cfg.MinChunk, 1)
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			f(lo, hi)
		}()
	}
	wg.Wait()
}
