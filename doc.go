// Package kdtree implements a static KD-tree spatial index over a fixed set of
// fixed-dimension points, answering axis-aligned range queries and
// k-nearest-neighbor queries without scanning every point.
//
// The index is built once and queried many times. Points are copied into a
// flat row-major array that is never reordered; construction instead
// partitions a permutation array so that every node owns one contiguous range
// of it. Each node stores the tight bounding box of its points, and internal
// nodes record the gap between their children along the split dimension.
//
// Basic usage:
//
//	ix, err := kdtree.New(points, kdtree.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	if err := ix.Build(); err != nil {
//		return err
//	}
//	nearest, err := ix.KNearest([]float64{0, 0}, 3)
//	// nearest[0].Index is the dataset index of the closest point
//	// nearest[0].SqDist is its squared Euclidean distance
//	inBox, err := ix.RangeQuery(kdtree.BoundingBox{{Low: 4, High: 6}, {Low: 4, High: 7}})
//
// # Construction
//
// Each internal node splits along the dimension with the largest spread in its
// bounding box (the lowest dimension index wins ties) at the midpoint of that
// spread. When every point falls on one side of the midpoint, for example
// because all points share the coordinate, the node is split by position
// instead so that construction always terminates.
//
// # Distances
//
// All distances are squared Euclidean. Neighbor.Distance takes the square root
// for callers that need the true distance.
//
// # Concurrency
//
// A built Index is safe for concurrent queries. Rebuilding swaps in the new
// tree atomically. KNearestBatch and RangeSearchBatch spread many independent
// queries over Config.Workers goroutines.
package kdtree
