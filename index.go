package kdtree

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Point is a single coordinate tuple.
type Point []float64

// Index is a static KD-tree over a fixed set of points.
//
// An Index is created with New, NewFlat or FromMatrix and becomes queryable
// after Build. The built tree is immutable: any number of goroutines may query
// it concurrently without locking. Build may be called again to rebuild; the
// new tree replaces the old one in a single atomic step, so a query running
// during a rebuild sees either the old tree or the new one in full. Concurrent
// calls to Build itself must be serialized by the caller.
type Index struct {
	data []float64 // flat row-major point data (n * dims), never reordered
	n    int
	dims int
	cfg  Config
	tree atomic.Pointer[tree]
}

// New copies points into a new, unbuilt Index. All points must have the same
// non-zero dimensionality and finite coordinates.
func New(points [][]float64, cfg Config) (*Index, error) {
	if len(points) == 0 {
		return nil, ErrEmptyDataset
	}
	dims := len(points[0])
	data := make([]float64, len(points)*dims)
	for i, p := range points {
		if err := checkDims(dims, len(p), i); err != nil {
			return nil, err
		}
		copy(data[i*dims:], p)
	}
	return newIndex(data, len(points), dims, cfg)
}

// NewFlat copies flat row-major data holding n points of dimensionality dims
// into a new, unbuilt Index.
func NewFlat(data []float64, n, dims int, cfg Config) (*Index, error) {
	if n == 0 {
		return nil, ErrEmptyDataset
	}
	if dims < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidDims, dims)
	}
	if len(data) != n*dims {
		return nil, fmt.Errorf("kdtree: data length %d does not match n*dims = %d (n=%d, dims=%d)", len(data), n*dims, n, dims)
	}
	dataCopy := make([]float64, len(data))
	copy(dataCopy, data)
	return newIndex(dataCopy, n, dims, cfg)
}

// FromMatrix copies the rows of m into a new, unbuilt Index; each row is a
// point.
func FromMatrix(m mat.Matrix, cfg Config) (*Index, error) {
	r, c := m.Dims()
	if r == 0 {
		return nil, ErrEmptyDataset
	}
	if c < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidDims, c)
	}
	data := make([]float64, r*c)
	for i := 0; i < r; i++ {
		mat.Row(data[i*c:(i+1)*c], i, m)
	}
	return newIndex(data, r, c, cfg)
}

// newIndex takes ownership of data.
func newIndex(data []float64, n, dims int, cfg Config) (*Index, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if dims < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidDims, dims)
	}
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: point %d, dimension %d is %v", ErrNonFiniteCoordinate, i/dims, i%dims, v)
		}
	}
	return &Index{data: data, n: n, dims: dims, cfg: cfg}, nil
}

// Build constructs the tree, replacing any tree from an earlier Build.
// It fails only for an Index that was not created by one of the constructors.
func (ix *Index) Build() error {
	if ix.n == 0 {
		return ErrEmptyDataset
	}
	if ix.cfg.LeafMaxSize < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidLeafSize, ix.cfg.LeafMaxSize)
	}

	start := time.Now()
	t := buildTree(ix.data, ix.n, ix.dims, ix.cfg.LeafMaxSize)
	ix.tree.Store(t)

	ix.cfg.Logger.Debug("kdtree: index built",
		zap.Int("points", ix.n),
		zap.Int("dims", ix.dims),
		zap.Int("leaf_max_size", ix.cfg.LeafMaxSize),
		zap.Int("nodes", len(t.nodes)),
		zap.Int("leaves", t.leaves),
		zap.Int("depth", t.depth),
		zap.Int("degenerate_splits", t.degenerateSplits),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Built reports whether Build has completed at least once.
func (ix *Index) Built() bool { return ix.tree.Load() != nil }

// Len returns the number of indexed points.
func (ix *Index) Len() int { return ix.n }

// Dims returns the dimensionality of the indexed points.
func (ix *Index) Dims() int { return ix.dims }

// LeafMaxSize returns the configured leaf capacity.
func (ix *Index) LeafMaxSize() int { return ix.cfg.LeafMaxSize }

// Point returns a copy of the i-th point in original dataset order.
func (ix *Index) Point(i int) Point {
	p := make(Point, ix.dims)
	copy(p, ix.row(i))
	return p
}

// row returns the internal coordinates of point i. Callers must not modify it.
func (ix *Index) row(i int) []float64 {
	return ix.data[i*ix.dims : (i+1)*ix.dims]
}

// loadTree returns the current tree or ErrNotBuilt.
func (ix *Index) loadTree() (*tree, error) {
	t := ix.tree.Load()
	if t == nil {
		return nil, ErrNotBuilt
	}
	return t, nil
}

// IdxArray returns a copy of the permutation array mapping tree-order
// positions to original point indices.
func (ix *Index) IdxArray() ([]int, error) {
	t, err := ix.loadTree()
	if err != nil {
		return nil, err
	}
	out := make([]int, len(t.perm))
	copy(out, t.perm)
	return out, nil
}

// Bounds returns the tight bounding box of all points.
func (ix *Index) Bounds() (BoundingBox, error) {
	t, err := ix.loadTree()
	if err != nil {
		return nil, err
	}
	low, high := t.bounds(0, ix.dims)
	return boxFromExtents(low, high), nil
}

// Nodes returns every node of the tree in arena order. The root is element 0
// and every internal node precedes its children.
func (ix *Index) Nodes() ([]NodeData, error) {
	t, err := ix.loadTree()
	if err != nil {
		return nil, err
	}
	out := make([]NodeData, len(t.nodes))
	for id := range t.nodes {
		out[id] = t.nodeData(int32(id), ix.dims)
	}
	return out, nil
}
