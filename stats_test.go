package kdtree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_SmallExample(t *testing.T) {
	ix := mustBuild(t, [][]float64{{0, 0}, {1, 0}, {0, 1}, {5, 5}, {5, 6}}, 2)
	s, err := ix.Stats()
	require.NoError(t, err)

	assert.Equal(t, 5, s.Nodes)
	assert.Equal(t, 3, s.Leaves)
	assert.Equal(t, 3, s.Depth)
	assert.Equal(t, 1, s.MinLeafSize)
	assert.Equal(t, 2, s.MaxLeafSize)
	assert.InDelta(t, 5.0/3.0, s.MeanLeafSize, floatTol)
	// Sample standard deviation of {2, 1, 2}.
	assert.InDelta(t, 0.5773502691896258, s.LeafSizeStdDev, 1e-9)
	assert.Zero(t, s.DegenerateSplits)
}

func TestStats_SingleLeaf(t *testing.T) {
	ix := mustBuild(t, [][]float64{{1}, {2}, {3}}, 10)
	s, err := ix.Stats()
	require.NoError(t, err)

	assert.Equal(t, Stats{
		Nodes:        1,
		Leaves:       1,
		Depth:        1,
		MinLeafSize:  3,
		MaxLeafSize:  3,
		MeanLeafSize: 3,
	}, s)
}

func TestStats_Random(t *testing.T) {
	ix := mustBuild(t, generatePoints(rand.New(rand.NewSource(42)), 1000, 2), 8)
	s, err := ix.Stats()
	require.NoError(t, err)

	assert.Equal(t, 2*s.Leaves-1, s.Nodes)
	assert.LessOrEqual(t, s.MaxLeafSize, 8)
	assert.GreaterOrEqual(t, s.MinLeafSize, 1)
	assert.InDelta(t, 1000.0/float64(s.Leaves), s.MeanLeafSize, floatTol)
}
