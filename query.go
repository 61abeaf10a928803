package kdtree

import (
	"container/heap"
	"fmt"
	"math"
	"sort"
)

// Neighbor is one result of a nearest-neighbor or radius query.
type Neighbor struct {
	// Index is the point's position in the original dataset.
	Index int
	// Point is a copy of the point's coordinates.
	Point Point
	// SqDist is the squared Euclidean distance to the query target.
	SqDist float64
}

// Distance returns the Euclidean distance to the query target.
func (nb Neighbor) Distance() float64 { return math.Sqrt(nb.SqDist) }

// RangeSearch returns the original indices of all points inside box, bounds
// inclusive in every dimension, in ascending permutation-array order. A box
// with Low > High in some dimension matches nothing.
func (ix *Index) RangeSearch(box BoundingBox) ([]int, error) {
	t, err := ix.loadTree()
	if err != nil {
		return nil, err
	}
	if err := checkDims(ix.dims, len(box), -1); err != nil {
		return nil, err
	}
	if box.Empty() {
		return nil, nil
	}

	rq := rangeQuery{ix: ix, t: t, box: box}
	rq.enter(0)
	return rq.out, nil
}

// RangeQuery is RangeSearch returning copies of the matching points.
func (ix *Index) RangeQuery(box BoundingBox) ([]Point, error) {
	idx, err := ix.RangeSearch(box)
	if err != nil {
		return nil, err
	}
	points := make([]Point, len(idx))
	for i, p := range idx {
		points[i] = ix.Point(p)
	}
	return points, nil
}

type rangeQuery struct {
	ix  *Index
	t   *tree
	box BoundingBox
	out []int
}

// enter visits node id if its box intersects the query box. Nodes whose box
// lies entirely inside the query contribute their whole range unchecked.
func (q *rangeQuery) enter(id int32) {
	low, high := q.t.bounds(id, q.ix.dims)
	inside := true
	for d, iv := range q.box {
		if high[d] < iv.Low || low[d] > iv.High {
			return
		}
		if low[d] < iv.Low || high[d] > iv.High {
			inside = false
		}
	}

	n := &q.t.nodes[id]
	if inside {
		q.out = append(q.out, q.t.perm[n.lo:n.hi]...)
		return
	}
	if !n.isLeaf() {
		q.enter(n.left)
		q.enter(n.right)
		return
	}
	for i := n.lo; i < n.hi; i++ {
		p := q.t.perm[i]
		if q.box.Contains(q.ix.row(p)) {
			q.out = append(q.out, p)
		}
	}
}

// KNearest returns the k points nearest to target by squared Euclidean
// distance, nearest first. Equal distances are ordered by permutation
// position. If k exceeds Len, all points are returned.
func (ix *Index) KNearest(target []float64, k int) ([]Neighbor, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidK, k)
	}
	t, err := ix.loadTree()
	if err != nil {
		return nil, err
	}
	if err := checkDims(ix.dims, len(target), -1); err != nil {
		return nil, err
	}
	k = min(k, ix.n)

	s := ix.newSearch(t, target)
	s.k = k
	s.heap = make(knnHeap, 0, k)
	s.run()

	// Pop from the max-heap to produce ascending order.
	items := make([]knnItem, len(s.heap))
	for i := len(items) - 1; i >= 0; i-- {
		items[i] = heap.Pop(&s.heap).(knnItem)
	}
	return ix.neighbors(t, items), nil
}

// RadiusSearch returns every point whose squared distance to target is at
// most maxSqDist, nearest first with ties ordered by permutation position.
func (ix *Index) RadiusSearch(target []float64, maxSqDist float64) ([]Neighbor, error) {
	t, err := ix.loadTree()
	if err != nil {
		return nil, err
	}
	if err := checkDims(ix.dims, len(target), -1); err != nil {
		return nil, err
	}
	if maxSqDist < 0 || math.IsNaN(maxSqDist) {
		return nil, nil
	}

	s := ix.newSearch(t, target)
	s.radius = maxSqDist
	s.run()

	sort.Slice(s.found, func(i, j int) bool { return worse(s.found[j], s.found[i]) })
	return ix.neighbors(t, s.found), nil
}

func (ix *Index) neighbors(t *tree, items []knnItem) []Neighbor {
	out := make([]Neighbor, len(items))
	for i, it := range items {
		p := t.perm[it.pos]
		out[i] = Neighbor{Index: p, Point: ix.Point(p), SqDist: it.dist}
	}
	return out
}

// nnSearch is the state of one best-first distance query. With k > 0 it keeps
// the k best candidates in a max-heap; with k == 0 it collects everything
// within radius.
type nnSearch struct {
	t      *tree
	data   []float64
	dims   int
	target []float64
	// dists[d] is dimension d's share of the current node's lower bound.
	dists []float64

	k    int
	heap knnHeap

	radius float64
	found  []knnItem
}

func (ix *Index) newSearch(t *tree, target []float64) *nnSearch {
	return &nnSearch{
		t:      t,
		data:   ix.data,
		dims:   ix.dims,
		target: target,
		dists:  make([]float64, ix.dims),
	}
}

// run seeds the lower bound from the root box and walks the tree.
func (s *nnSearch) run() {
	low, high := s.t.bounds(0, s.dims)
	var mindist float64
	for d := 0; d < s.dims; d++ {
		s.dists[d] = axisGap(s.target[d], low[d], high[d])
		mindist += s.dists[d]
	}
	if s.reachable(mindist) {
		s.visit(0, mindist)
	}
}

// reachable reports whether a subtree with lower bound lb can still hold a
// result.
func (s *nnSearch) reachable(lb float64) bool {
	if s.k > 0 {
		return len(s.heap) < s.k || lb < s.heap[0].dist
	}
	return lb <= s.radius
}

func (s *nnSearch) offer(pos int, dist float64) {
	it := knnItem{pos: pos, dist: dist}
	switch {
	case s.k == 0:
		if dist <= s.radius {
			s.found = append(s.found, it)
		}
	case len(s.heap) < s.k:
		heap.Push(&s.heap, it)
	case worse(s.heap[0], it):
		s.heap[0] = it
		heap.Fix(&s.heap, 0)
	}
}

// visit searches node id, whose lower bound on the squared distance to the
// target is mindist.
func (s *nnSearch) visit(id int32, mindist float64) {
	n := &s.t.nodes[id]
	if n.isLeaf() {
		for i := n.lo; i < n.hi; i++ {
			p := s.t.perm[i]
			s.offer(i, SquaredDistance(s.target, s.data[p*s.dims:(p+1)*s.dims]))
		}
		return
	}

	// Pick the child on the target's side of the split gap. The other
	// child lies entirely beyond the gap, so its bound replaces this
	// dimension's share with the squared distance across the gap.
	d := n.splitDim
	diff1 := s.target[d] - n.splitLow
	diff2 := s.target[d] - n.splitHigh
	near, far := n.left, n.right
	var cut float64
	if diff1+diff2 < 0 {
		if diff2 < 0 {
			cut = diff2 * diff2
		}
	} else {
		near, far = n.right, n.left
		if diff1 > 0 {
			cut = diff1 * diff1
		}
	}

	s.visit(near, mindist)

	saved := s.dists[d]
	farDist := mindist - saved + cut
	if s.reachable(farDist) {
		s.dists[d] = cut
		s.visit(far, farDist)
		s.dists[d] = saved
	}
}

// --- max-heap for KNN queries ---

type knnItem struct {
	pos  int // permutation-array position
	dist float64
}

// worse reports whether a ranks after b: larger distance, or equal distance
// and later permutation position.
func worse(a, b knnItem) bool {
	if a.dist != b.dist {
		return a.dist > b.dist
	}
	return a.pos > b.pos
}

// knnHeap is a max-heap of knnItem (worst candidate on top) used as a
// bounded priority queue for KNN queries.
type knnHeap []knnItem

func (h knnHeap) Len() int           { return len(h) }
func (h knnHeap) Less(i, j int) bool { return worse(h[i], h[j]) } // max-heap
func (h knnHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *knnHeap) Push(x any)        { *h = append(*h, x.(knnItem)) }
func (h *knnHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
