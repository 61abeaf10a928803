package kdtree

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// KNearestBatch runs KNearest for every target using up to Config.Workers
// goroutines. results[i] corresponds to targets[i]. The first failing query
// cancels the remaining ones. ctx is checked between queries; a single query
// always runs to completion once started.
func (ix *Index) KNearestBatch(ctx context.Context, targets [][]float64, k int) ([][]Neighbor, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidK, k)
	}
	if _, err := ix.loadTree(); err != nil {
		return nil, err
	}

	results := make([][]Neighbor, len(targets))
	err := ix.fanOut(ctx, len(targets), func(i int) error {
		res, err := ix.KNearest(targets[i], k)
		if err != nil {
			return fmt.Errorf("target %d: %w", i, err)
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	ix.cfg.Logger.Debug("kdtree: batch knn completed",
		zap.Int("queries", len(targets)),
		zap.Int("k", k),
		zap.Int("workers", ix.cfg.Workers),
	)
	return results, nil
}

// RangeSearchBatch runs RangeSearch for every box using up to Config.Workers
// goroutines. results[i] corresponds to boxes[i].
func (ix *Index) RangeSearchBatch(ctx context.Context, boxes []BoundingBox) ([][]int, error) {
	if _, err := ix.loadTree(); err != nil {
		return nil, err
	}

	results := make([][]int, len(boxes))
	err := ix.fanOut(ctx, len(boxes), func(i int) error {
		res, err := ix.RangeSearch(boxes[i])
		if err != nil {
			return fmt.Errorf("box %d: %w", i, err)
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	ix.cfg.Logger.Debug("kdtree: batch range search completed",
		zap.Int("boxes", len(boxes)),
		zap.Int("workers", ix.cfg.Workers),
	)
	return results, nil
}

// fanOut calls fn(i) for i in [0, n). Each worker handles a contiguous block
// of indices, so writes into per-index result slots need no synchronization.
func (ix *Index) fanOut(ctx context.Context, n int, fn func(i int) error) error {
	workers := max(min(ix.cfg.Workers, n), 1)
	perWorker := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += perWorker {
		start := start
		end := min(start+perWorker, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
