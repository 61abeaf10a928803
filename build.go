package kdtree

import "sort"

// builder holds the state of a single tree construction. It is discarded once
// the tree is built.
type builder struct {
	data     []float64 // flat row-major point data (n * dims), read-only
	dims     int
	leafSize int
	zeros    []float64 // dims zeros used to grow the bounds slices
	t        *tree
}

// buildTree partitions an identity permutation of the n points into a KD-tree
// whose leaves hold at most leafSize points.
func buildTree(data []float64, n, dims, leafSize int) *tree {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	// A tree with L leaves has 2L-1 nodes. L is ceil(n/leafSize) for
	// perfectly balanced splits; midpoint splits may produce a few more, and
	// the slices grow as needed.
	maxNodes := kdMaxNodes(n, leafSize)
	b := &builder{
		data:     data,
		dims:     dims,
		leafSize: leafSize,
		zeros:    make([]float64, dims),
		t: &tree{
			perm:  perm,
			nodes: make([]node, 0, maxNodes),
			low:   make([]float64, 0, maxNodes*dims),
			high:  make([]float64, 0, maxNodes*dims),
		},
	}
	b.divide(0, n, 1)
	return b.t
}

// kdMaxNodes returns the node count of a tree with n points split into
// leaves of exactly leafSize points.
func kdMaxNodes(n, leafSize int) int {
	leaves := (n + leafSize - 1) / leafSize
	return 2*leaves - 1
}

// divide builds the subtree for perm[lo:hi] and returns its node id. depth is
// the level of the new node, 1 for the root.
func (b *builder) divide(lo, hi, depth int) int32 {
	t := b.t
	dims := b.dims

	id := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{lo: lo, hi: hi, left: noChild, right: noChild})
	t.low = append(t.low, b.zeros...)
	t.high = append(t.high, b.zeros...)
	if depth > t.depth {
		t.depth = depth
	}

	// Every node gets its own tight box, never a copy of the parent's.
	low, high := t.bounds(id, dims)
	computeExtents(b.data, dims, t.perm, lo, hi, low, high)

	if hi-lo <= b.leafSize {
		t.leaves++
		return id
	}

	// Max-spread dimension; the lowest index wins ties.
	splitDim := 0
	maxSpan := high[0] - low[0]
	for d := 1; d < dims; d++ {
		if span := high[d] - low[d]; span > maxSpan {
			maxSpan = span
			splitDim = d
		}
	}
	splitValue := low[splitDim] + maxSpan/2

	mid := b.partition(lo, hi, splitDim, splitValue)
	if mid == lo || mid == hi {
		// Everything landed on one side: the points share the split
		// coordinate, or the midpoint rounded onto an endpoint. Split by
		// position so both children are non-empty.
		t.degenerateSplits++
		if maxSpan > 0 {
			b.sortByDimension(lo, hi, splitDim)
		}
		mid = lo + (hi-lo)/2
	}

	left := b.divide(lo, mid, depth+1)
	right := b.divide(mid, hi, depth+1)

	n := &t.nodes[id]
	n.left = left
	n.right = right
	n.splitDim = splitDim
	n.splitLow = t.high[int(left)*dims+splitDim]
	n.splitHigh = t.low[int(right)*dims+splitDim]
	return id
}

// partition reorders perm[lo:hi] so that points with coordinate dim below
// value come first, and returns the index of the first point that is not.
func (b *builder) partition(lo, hi, dim int, value float64) int {
	perm := b.t.perm
	i, j := lo, hi-1
	for i <= j {
		if b.data[perm[i]*b.dims+dim] < value {
			i++
			continue
		}
		perm[i], perm[j] = perm[j], perm[i]
		j--
	}
	return i
}

// sortByDimension sorts perm[lo:hi] by the given dimension, breaking ties by
// original index so the order is reproducible.
func (b *builder) sortByDimension(lo, hi, dim int) {
	sub := b.t.perm[lo:hi]
	dims := b.dims
	data := b.data
	sort.Slice(sub, func(i, j int) bool {
		vi, vj := data[sub[i]*dims+dim], data[sub[j]*dims+dim]
		if vi == vj {
			return sub[i] < sub[j]
		}
		return vi < vj
	})
}
