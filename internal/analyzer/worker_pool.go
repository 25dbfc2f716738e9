package analyzer

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// WorkerPool bounds the fan-out of the fork-join passes over a dataset
type WorkerPool struct {
	workers int
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{workers: workers}
}

// Workers returns the concurrency limit of the pool
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Run calls task for every index in [0, n) with at most Workers() tasks in
// flight. The first error cancels the context handed to the tasks; tasks not
// yet started return without running, tasks already running are waited for.
// Run returns that first error.
func (wp *WorkerPool) Run(ctx context.Context, n int, task func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return task(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// the loop may have stopped early because the parent was cancelled
	return ctx.Err()
}

// ParallelMap applies fn to every item and returns the results in input order
func ParallelMap[T, R any](ctx context.Context, wp *WorkerPool, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	err := wp.Run(ctx, len(items), func(ctx context.Context, i int) error {
		r, err := fn(ctx, items[i])
		if err != nil {
			return err
		}
		results[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ParallelFold splits items into one contiguous chunk per worker, folds each
// chunk from identity() and combines the partials left to right. combine must
// be associative with identity() as its neutral element. For a fixed worker
// count the grouping, and so the floating-point result, is deterministic.
func ParallelFold[T, A any](wp *WorkerPool, items []T, identity func() A, fold func(acc A, item T) A, combine func(a, b A) A) A {
	chunks := min(wp.workers, len(items))
	if chunks <= 1 {
		acc := identity()
		for _, item := range items {
			acc = fold(acc, item)
		}
		return acc
	}

	size := (len(items) + chunks - 1) / chunks // ceil division
	partials := make([]A, chunks)
	var wg sync.WaitGroup

	for c := 0; c < chunks; c++ {
		start := c * size
		end := min(start+size, len(items))
		if start >= end {
			partials[c] = identity()
			continue
		}
		wg.Add(1)
		go func(c int, part []T) {
			defer wg.Done()
			acc := identity()
			for _, item := range part {
				acc = fold(acc, item)
			}
			partials[c] = acc
		}(c, items[start:end])
	}
	wg.Wait()

	result := identity()
	for _, p := range partials {
		result = combine(result, p)
	}
	return result
}

// ParallelReduce combines all items with an associative operator
func ParallelReduce[T any](wp *WorkerPool, items []T, identity T, combine func(a, b T) T) T {
	return ParallelFold(wp, items, func() T { return identity }, combine, combine)
}
