package kdtree

import "gonum.org/v1/gonum/stat"

// Stats summarizes the shape of a built tree.
type Stats struct {
	Nodes  int
	Leaves int
	// Depth is the number of node levels; a single-leaf tree has depth 1.
	Depth int

	MinLeafSize    int
	MaxLeafSize    int
	MeanLeafSize   float64
	LeafSizeStdDev float64

	// DegenerateSplits counts nodes whose midpoint split put every point on
	// one side and that were split by position instead.
	DegenerateSplits int
}

// Stats returns shape statistics for the current tree.
func (ix *Index) Stats() (Stats, error) {
	t, err := ix.loadTree()
	if err != nil {
		return Stats{}, err
	}

	sizes := make([]float64, 0, t.leaves)
	s := Stats{
		Nodes:            len(t.nodes),
		Leaves:           t.leaves,
		Depth:            t.depth,
		MinLeafSize:      ix.n,
		DegenerateSplits: t.degenerateSplits,
	}
	for i := range t.nodes {
		n := &t.nodes[i]
		if !n.isLeaf() {
			continue
		}
		size := n.hi - n.lo
		s.MinLeafSize = min(s.MinLeafSize, size)
		s.MaxLeafSize = max(s.MaxLeafSize, size)
		sizes = append(sizes, float64(size))
	}
	if len(sizes) > 1 {
		s.MeanLeafSize, s.LeafSizeStdDev = stat.MeanStdDev(sizes, nil)
	} else {
		s.MeanLeafSize = sizes[0]
	}
	return s, nil
}
