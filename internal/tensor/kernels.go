package tensor

import "github.com/rlowrance/python-unified-containers/internal/parallel"

// kernels splits gathers and elementwise operations across goroutines. Each
// goroutine writes only its own range of a freshly allocated output buffer.
var kernels = parallel.DefaultConfig()

// SetParallelism sets how many goroutines gathers and elementwise operations
// may use and the smallest range each one handles. Fewer than two workers
// keeps all work on the calling goroutine.
// Not safe to call concurrently with other operations of this package.
func SetParallelism(workers, minChunk int) {
	kernels = parallel.Config{Workers: workers, MinChunk: minChunk}
}
