// Package pool runs independent tasks on a bounded set of goroutines and
// hands the results back in input order.
package pool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Task turns one self-contained input into one output. Tasks must not share
// mutable state with each other or with the caller.
type Task[I, O any] func(ctx context.Context, index int, in I) (O, error)

// Size returns n, or the CPU count when n is not positive.
func Size(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Map runs task over inputs with at most workers goroutines. The result at
// index i always belongs to inputs[i], whatever order the workers finish in.
// The first failure cancels the remaining tasks and is returned alone; no
// partial result is returned. Every goroutine has exited when Map returns.
func Map[I, O any](ctx context.Context, workers int, inputs []I, task Task[I, O]) ([]O, error) {
	out := make([]O, len(inputs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(Size(workers))

	for i, in := range inputs {
		i, in := i, in
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			o, err := task(egCtx, i, in)
			if err != nil {
				return err
			}

			out[i] = o
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
