package kdtree

// noChild marks a leaf in node.left.
const noChild int32 = -1

// node is one entry of the node arena. Leaves have left == noChild and own
// perm[lo:hi]. Internal nodes own exactly the union of their children's
// ranges, with the left child first.
type node struct {
	lo, hi      int
	left, right int32
	splitDim    int
	// splitLow is the left child's max on splitDim and splitHigh the right
	// child's min. No point of the node has a splitDim coordinate strictly
	// between the two.
	splitLow, splitHigh float64
}

func (n *node) isLeaf() bool { return n.left == noChild }

// tree is the immutable result of one build. An Index swaps whole trees, so
// every field here is read-only once published.
type tree struct {
	perm  []int // permutation: tree-order position → original index
	nodes []node
	// low[id*dims + d], high[id*dims + d] = tight bounds of node id
	low, high        []float64
	depth            int
	leaves           int
	degenerateSplits int
}

// bounds returns node id's box as flat low/high views (length dims).
func (t *tree) bounds(id int32, dims int) (low, high []float64) {
	base := int(id) * dims
	return t.low[base : base+dims], t.high[base : base+dims]
}

// NodeData describes a single node in the built tree.
type NodeData struct {
	// ID is the node's position in the arena; the root is 0.
	ID int
	// IdxStart, IdxEnd delimit the node's slice of the permutation array.
	IdxStart, IdxEnd int
	IsLeaf           bool
	// Left and Right are child IDs, -1 for leaves.
	Left, Right int
	// SplitDim, SplitLow and SplitHigh are zero-valued for leaves.
	SplitDim            int
	SplitLow, SplitHigh float64
	// Bounds is the tight bounding box of the node's points.
	Bounds BoundingBox
}

// Size returns the number of points the node covers.
func (nd NodeData) Size() int { return nd.IdxEnd - nd.IdxStart }

func (t *tree) nodeData(id int32, dims int) NodeData {
	n := &t.nodes[id]
	low, high := t.bounds(id, dims)
	nd := NodeData{
		ID:       int(id),
		IdxStart: n.lo,
		IdxEnd:   n.hi,
		IsLeaf:   n.isLeaf(),
		Left:     -1,
		Right:    -1,
		Bounds:   boxFromExtents(low, high),
	}
	if !n.isLeaf() {
		nd.Left = int(n.left)
		nd.Right = int(n.right)
		nd.SplitDim = n.splitDim
		nd.SplitLow = n.splitLow
		nd.SplitHigh = n.splitHigh
	}
	return nd
}
