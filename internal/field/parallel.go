package field

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is used when a caller asks for zero workers.
const DefaultWorkers = 4

// ParallelFor runs fn over [0, n) split into contiguous chunks of at least
// minChunk items, on at most workers goroutines. The first error cancels ctx
// for the remaining chunks and is returned.
func ParallelFor(ctx context.Context, n, minChunk, workers int, fn func(ctx context.Context, start, end int) error) error {
	if n <= 0 {
		return nil
	}
	if workers < 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 0 {
		workers = DefaultWorkers
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers == 1 {
		return fn(ctx, 0, n)
	}

	chunks := n / minChunk
	if chunks > workers*4 {
		chunks = workers * 4
	}
	chunkSize := (n + chunks - 1) / chunks

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, start, end)
		})
	}

	return g.Wait()
}
