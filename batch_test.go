package kdtree

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestKNearestBatch_MatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := generatePoints(rng, 500, 2)
	targets := generatePoints(rng, 37, 2)

	for _, workers := range []int{1, 2, 4, 64} {
		cfg := DefaultConfig()
		cfg.LeafMaxSize = 6
		cfg.Workers = workers
		ix, err := New(points, cfg)
		require.NoError(t, err)
		require.NoError(t, ix.Build())

		got, err := ix.KNearestBatch(context.Background(), targets, 4)
		require.NoError(t, err)
		require.Len(t, got, len(targets))
		for i, tg := range targets {
			want, err := ix.KNearest(tg, 4)
			require.NoError(t, err)
			assert.Equal(t, want, got[i], "workers=%d target=%d", workers, i)
		}
	}
}

func TestRangeSearchBatch_MatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := generatePoints(rng, 400, 3)
	ix := mustBuild(t, points, 5)

	boxes := make([]BoundingBox, 25)
	for i := range boxes {
		boxes[i] = randomBox(rng, 3)
	}
	got, err := ix.RangeSearchBatch(context.Background(), boxes)
	require.NoError(t, err)
	require.Len(t, got, len(boxes))
	for i, box := range boxes {
		want, err := ix.RangeSearch(box)
		require.NoError(t, err)
		assert.Equal(t, want, got[i])
	}
}

func TestKNearestBatch_Errors(t *testing.T) {
	ix, err := New([][]float64{{0, 0}, {1, 1}}, DefaultConfig())
	require.NoError(t, err)

	_, err = ix.KNearestBatch(context.Background(), [][]float64{{0, 0}}, 0)
	assert.ErrorIs(t, err, ErrInvalidK)
	_, err = ix.KNearestBatch(context.Background(), [][]float64{{0, 0}}, 1)
	assert.ErrorIs(t, err, ErrNotBuilt)

	require.NoError(t, ix.Build())
	_, err = ix.KNearestBatch(context.Background(), [][]float64{{0, 0}, {1}}, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = ix.RangeSearchBatch(context.Background(), []BoundingBox{{{Low: 0, High: 1}}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestKNearestBatch_CanceledContext(t *testing.T) {
	ix := mustBuild(t, [][]float64{{0, 0}, {1, 1}}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ix.KNearestBatch(ctx, [][]float64{{0, 0}, {1, 1}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKNearestBatch_Empty(t *testing.T) {
	ix := mustBuild(t, [][]float64{{0, 0}}, 1)
	got, err := ix.KNearestBatch(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestKNearestBatch_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := DefaultConfig()
	cfg.Workers = 2
	cfg.Logger = zap.New(core)
	ix, err := New([][]float64{{0}, {1}, {2}}, cfg)
	require.NoError(t, err)
	require.NoError(t, ix.Build())

	_, err = ix.KNearestBatch(context.Background(), [][]float64{{0.5}, {1.5}, {3}}, 2)
	require.NoError(t, err)

	entries := logs.FilterMessage("kdtree: batch knn completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 3, fields["queries"])
	assert.EqualValues(t, 2, fields["k"])
	assert.EqualValues(t, 2, fields["workers"])
}
