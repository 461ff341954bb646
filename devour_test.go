package mixedsom

import (
	"context"
	"math"
	"testing"

	"github.com/attatrol/mixedsom/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevour_DisabledByDefault(t *testing.T) {
	src := floatSource(t, 0, 1, 2, 3, 4, 5)
	cfg := lineConfig(floatSchema(), 0)
	som := lineMap(t, src, cfg, []float64{0, 100, 200})

	for epoch := 1; epoch <= 3; epoch++ {
		_, err := som.LearnEpoch(context.Background(), epoch)
		require.NoError(t, err)
		assert.Equal(t, Reallocation{}, som.LastReallocation())
	}
	assert.Equal(t, []float64{0, 100, 200}, floats(som))
}

func TestDevour_NoWeakNeurons(t *testing.T) {
	src := floatSource(t, 0, 10)
	cfg := lineConfig(floatSchema(), 0)
	cfg.Beta = 1
	som := lineMap(t, src, cfg, []float64{0, 10})

	for epoch := 1; epoch <= 2; epoch++ {
		_, err := som.LearnEpoch(context.Background(), epoch)
		require.NoError(t, err)
	}
	r := som.LastReallocation()
	assert.Zero(t, r.Weak)
	assert.Equal(t, 2, r.Patrons)
	assert.Zero(t, r.Pairs)
}

func TestDevour_AdjacentClaim(t *testing.T) {
	src := floatSource(t, 0, 1, 2, 3, 4, 5)
	cfg := lineConfig(floatSchema(), 0)
	cfg.Beta = 1
	som := lineMap(t, src, cfg, []float64{0, 100, 200})
	ctx := context.Background()

	_, err := som.LearnEpoch(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{6, 0, 0}, som.WinCounts())

	_, err = som.LearnEpoch(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, Reallocation{Weak: 2, Patrons: 1, Pairs: 1, Reseeded: 1}, som.LastReallocation())
	// The nearest weak neuron took over the patron's farthest record.
	assert.Equal(t, []float64{0, 5, 200}, floats(som))
	assert.Equal(t, []int64{3, 3, 0}, som.WinCounts())
}

func TestDevour_WalkToPatron(t *testing.T) {
	src := floatSource(t, 10, 10, 20, 20, 30, 31, 32, 33)
	cfg := lineConfig(floatSchema(), 0)
	cfg.Beta = 2
	som := lineMap(t, src, cfg, []float64{-1000, 10, 20, 30})
	ctx := context.Background()

	_, err := som.LearnEpoch(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 2, 2, 4}, som.WinCounts())

	_, err = som.LearnEpoch(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, Reallocation{Weak: 1, Patrons: 1, Pairs: 1, Swaps: 2, Reseeded: 1}, som.LastReallocation())
	// The weak content moved two slots right; its neighbours shifted left.
	assert.Equal(t, []float64{10, 20, 33, 30}, floats(som))
	assert.Equal(t, []int64{2, 2, 2, 2}, som.WinCounts())
}

func TestDevour_RandomFallback(t *testing.T) {
	src := floatSource(t, 10, 10, 20, 20, 30, 31, 32, 33)
	cfg := lineConfig(floatSchema(), 0)
	cfg.Beta = 2
	som := lineMap(t, src, cfg, []float64{-1000, 10, 20, 30}, WithSeed(3))
	ctx := context.Background()

	_, err := som.LearnEpoch(ctx, 1)
	require.NoError(t, err)
	som.distant[3].ok = false

	r, err := som.devour(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Fallbacks)
	assert.Zero(t, r.Reseeded)

	revived := som.Neuron(2).Weights()[0].Float
	assert.Contains(t, []float64{10, 20, 30, 31, 32, 33}, revived)
}

func TestDevour_RepairsLaterPairs(t *testing.T) {
	// Seven records keep the median win count at 1.
	src := floatSource(t, 0, 1, 2, 3, 4, 5, 6)
	cfg := lineConfig(floatSchema(), 0)
	cfg.Alpha, cfg.Beta = 0.5, 2
	som := lineMap(t, src, cfg, []float64{0, 1, 2, 3, 4, 5, 6})

	som.wins = []int64{10, 1, 20, 0, 1, 0, 1}
	som.distant[0] = distant{values: []record.Value{record.FloatValue(100)}, dist: 1, ok: true}
	som.distant[2] = distant{values: []record.Value{record.FloatValue(200)}, dist: 1, ok: true}
	som.hasWins = true

	// Patron 0 claims slot 3 and walks it to slot 1, pushing patron 2's
	// content to slot 3. Patron 2 must then be found at its new slot.
	r, err := som.devour(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Reallocation{Weak: 2, Patrons: 2, Pairs: 2, Swaps: 3, Reseeded: 2}, r)
	assert.Equal(t, []float64{0, 100, 1, 2, 200, 4, 6}, floats(som))
	assert.Equal(t, []int64{10, 0, 1, 20, 0, 1, 1}, som.WinCounts())
	assert.Equal(t, []int{0, 2, 3, 1, 5, 4, 6}, som.slotOf)
}

func TestSwapSlots_Indirection(t *testing.T) {
	src := floatSource(t, 0)
	som := lineMap(t, src, lineConfig(floatSchema(), 0), []float64{0, 1, 2, 3})
	for i := range som.slotOf {
		som.slotOf[i], som.contentAt[i] = i, i
	}
	som.wins = []int64{10, 11, 12, 13}
	som.distant[0] = distant{values: []record.Value{record.FloatValue(-1)}, dist: 4, ok: true}

	require.NoError(t, som.swapSlots(0, 1))
	require.NoError(t, som.swapSlots(1, 2))

	// content 0 now lives in slot 2.
	assert.Equal(t, []float64{1, 2, 0, 3}, floats(som))
	assert.Equal(t, []int{2, 0, 1, 3}, som.slotOf)
	assert.Equal(t, []int{1, 2, 0, 3}, som.contentAt)
	assert.Equal(t, []int64{11, 12, 10, 13}, som.wins)
	assert.True(t, som.distant[2].ok)
	assert.Equal(t, 4.0, som.distant[2].dist)
	assert.False(t, som.distant[0].ok)
}

func TestWalk_Stalls(t *testing.T) {
	src := floatSource(t, 0)
	cfg := lineConfig(floatSchema(), 0)
	som := lineMap(t, src, cfg, []float64{0, 1, 2, 3})
	// No neighbour is within the radius of anything: the walk cannot move.
	for i := range som.local {
		som.local[i] = nil
	}

	at, swaps, err := som.walk(0, 3)
	require.NoError(t, err)
	assert.Zero(t, at)
	assert.Zero(t, swaps)
}

func TestDevour_PatronOrder(t *testing.T) {
	// Two patrons compete for one weak neuron; the one with fewer wins claims first.
	src := floatSource(t, 0, 0, 0, 20, 20, 20, 20)
	cfg := lineConfig(floatSchema(), 0)
	cfg.Beta = 1
	som := lineMap(t, src, cfg, []float64{0, math.MaxFloat32, 20})
	ctx := context.Background()

	_, err := som.LearnEpoch(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 0, 4}, som.WinCounts())

	_, err = som.LearnEpoch(ctx, 2)
	require.NoError(t, err)
	r := som.LastReallocation()
	assert.Equal(t, 1, r.Pairs)
	assert.Equal(t, 2, r.Patrons)
	// Slot 0 (3 wins) claimed the weak neuron and reseeded it with its own
	// farthest record, the first 0.
	assert.Equal(t, 0.0, som.Neuron(1).Weights()[0].Float)
}
