package schedule

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearning(t *testing.T) {
	tests := []struct {
		name string
		l    Learning
	}{
		{"linear", NewLinearLearning(100)},
		{"linear default", NewLinearLearning(0)},
		{"hyperbolic", NewHyperbolicLearning()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := math.Inf(1)
			for epoch := 1; epoch <= 300; epoch++ {
				v := tt.l.Value(epoch)
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
				assert.LessOrEqual(t, v, prev, "epoch %d", epoch)
				prev = v
			}
		})
	}
}

func TestLinearLearning_Values(t *testing.T) {
	l := NewLinearLearning(10)
	assert.InDelta(t, 0.45, l.Value(5), 1e-12)
	assert.Zero(t, l.Value(10))
	assert.Zero(t, l.Value(20))
	assert.Equal(t, DefaultLinearLearningHorizon, NewLinearLearning(-3).Horizon)
}

func TestHyperbolicLearning_Values(t *testing.T) {
	l := NewHyperbolicLearning()
	assert.Equal(t, LearningFactor, l.Value(0))
	assert.Equal(t, LearningFactor, l.Value(1))
	assert.InDelta(t, 0.3, l.Value(3), 1e-12)
}

func TestNeighborhood_OneAtZero(t *testing.T) {
	all := map[string]Neighborhood{
		"gaussian": NewGaussian(10),
		"linear":   NewLinearNeighborhood(10, 25),
		"bubble":   NewBubble(10, 25),
		"absent":   Absent(),
	}
	for name, n := range all {
		t.Run(name, func(t *testing.T) {
			for _, epoch := range []int{1, 5, 10, 1000} {
				assert.Equal(t, 1.0, n.Value(0, epoch))
			}
			for _, d := range []float64{0.5, 1, 2, 7} {
				v := n.Value(d, 3)
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		})
	}
}

func TestGaussian_Values(t *testing.T) {
	g := NewGaussian(0)
	assert.Equal(t, DefaultGaussianHorizon, g.Horizon)

	g = NewGaussian(100)
	// r = max(0.99, 1*(1-1/100)) = 0.99
	assert.InDelta(t, math.Exp(-1/0.99), g.Value(1, 1), 1e-12)
	assert.InDelta(t, math.Exp(-1/MinimalRadius), g.Value(1, 500), 1e-12)
}

func TestLinearNeighborhood_Values(t *testing.T) {
	n := NewLinearNeighborhood(10, 16)
	assert.Equal(t, 4.0, n.Radius)
	// r = 4*(1-5/10) = 2
	assert.InDelta(t, 0.5, n.Value(1, 5), 1e-12)
	assert.Zero(t, n.Value(3, 5))
	// floored radius
	assert.Zero(t, n.Value(1, 10))
	assert.InDelta(t, 1-0.5/MinimalRadius, n.Value(0.5, 10), 1e-12)
}

func TestBubble_Values(t *testing.T) {
	b := NewBubble(0, 9)
	assert.Equal(t, DefaultBubbleHorizon, b.Horizon)
	assert.Equal(t, 3.0, b.Radius)

	b = NewBubble(10, 9)
	// r = 3*(1-5/10) = 1.5
	assert.Equal(t, 1.0, b.Value(1, 5))
	assert.Zero(t, b.Value(1.5, 5))
	assert.Zero(t, b.Value(1, 10))
}

func TestByName(t *testing.T) {
	l, err := LearningByName("hyperbolic", 0)
	require.NoError(t, err)
	assert.IsType(t, HyperbolicLearning{}, l)

	l, err = LearningByName("linear", 50)
	require.NoError(t, err)
	assert.Equal(t, LinearLearning{Horizon: 50}, l)

	_, err = LearningByName("cubic", 0)
	assert.Error(t, err)

	for _, name := range []string{"gaussian", "linear", "bubble", "absent"} {
		n, err := NeighborhoodByName(name, 0, 4)
		require.NoError(t, err, name)
		assert.Equal(t, 1.0, n.Value(0, 1))
	}
	_, err = NeighborhoodByName("mexican-hat", 0, 4)
	assert.Error(t, err)
}
