// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parallel provides an order-preserving concurrent map.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Map applies fn to every item with at most workers calls in flight and
// returns the results in input order. A workers value <= 0 means one worker
// per available CPU.
//
// fn cannot fail: per-item failures are the caller's to encode in R. Map
// only returns an error when ctx is cancelled, in which case items not yet
// started are skipped and the partial results are discarded.
func Map[T, R any](ctx context.Context, items []T, workers int, fn func(ctx context.Context, i int, item T) R) ([]R, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range items {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = fn(gctx, i, item)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
