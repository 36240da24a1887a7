// Package pool runs independent work items on a bounded number of
// goroutines.
package pool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map applies fn to every item on up to workers goroutines and returns the
// results in item order. The first failure cancels the group and becomes the
// returned error; items that have not started by then are never invoked, and
// partial results are discarded.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]R, len(items))
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := fn(ctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
