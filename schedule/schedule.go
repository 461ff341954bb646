// Package schedule provides the learning-rate and neighbourhood functions
// that scale every weight update.
//
// Both shrink with the epoch number (epochs start at 1). Per epoch the engine
// multiplies the two into one magnitude per distinct grid distance.
package schedule

import (
	"fmt"
	"math"
)

const (
	// LearningFactor is the learning rate at epoch 0.
	LearningFactor = 0.9

	// MinimalRadius is the smallest neighbourhood radius.
	MinimalRadius = 0.99

	DefaultLinearLearningHorizon     = 10000
	DefaultGaussianHorizon           = 100000
	DefaultLinearNeighborhoodHorizon = 100000
	DefaultBubbleHorizon             = 10000
)

// Learning returns the learning rate of an epoch, in [0, 1].
type Learning interface {
	Value(epoch int) float64
}

// Neighborhood returns the update share of a neuron at the given grid
// distance from the BMU, in [0, 1] and exactly 1 at distance 0.
type Neighborhood interface {
	Value(distance float64, epoch int) float64
}

// LinearLearning decays linearly to 0 at Horizon.
type LinearLearning struct {
	Horizon int
}

// NewLinearLearning returns a linear learning rate. horizon <= 0 selects
// DefaultLinearLearningHorizon.
func NewLinearLearning(horizon int) LinearLearning {
	if horizon <= 0 {
		horizon = DefaultLinearLearningHorizon
	}
	return LinearLearning{Horizon: horizon}
}

func (l LinearLearning) Value(epoch int) float64 {
	return math.Max(0, LearningFactor*(1-float64(epoch)/float64(l.Horizon)))
}

// HyperbolicLearning decays as LearningFactor/epoch.
type HyperbolicLearning struct{}

// NewHyperbolicLearning returns a hyperbolic learning rate.
func NewHyperbolicLearning() HyperbolicLearning { return HyperbolicLearning{} }

func (HyperbolicLearning) Value(epoch int) float64 {
	return LearningFactor / float64(max(epoch, 1))
}

// radius shrinks r0 linearly with epoch, floored at MinimalRadius.
func radius(r0 float64, horizon, epoch int) float64 {
	return math.Max(MinimalRadius, r0*(1-float64(epoch)/float64(horizon)))
}

func initialRadius(neurons int) float64 {
	return math.Max(1, math.Round(math.Sqrt(float64(neurons))))
}

// Gaussian returns exp(-d/r) with r shrinking from 1.
type Gaussian struct {
	Horizon int
}

// NewGaussian returns a gaussian neighbourhood. horizon <= 0 selects
// DefaultGaussianHorizon.
func NewGaussian(horizon int) Gaussian {
	if horizon <= 0 {
		horizon = DefaultGaussianHorizon
	}
	return Gaussian{Horizon: horizon}
}

func (g Gaussian) Value(distance float64, epoch int) float64 {
	return math.Exp(-distance / radius(1, g.Horizon, epoch))
}

// LinearNeighborhood returns max(0, 1-d/r) with r shrinking from the square
// root of the neuron count.
type LinearNeighborhood struct {
	Horizon int
	Radius  float64
}

// NewLinearNeighborhood returns a linear neighbourhood for a map of the
// given size. horizon <= 0 selects DefaultLinearNeighborhoodHorizon.
func NewLinearNeighborhood(horizon, neurons int) LinearNeighborhood {
	if horizon <= 0 {
		horizon = DefaultLinearNeighborhoodHorizon
	}
	return LinearNeighborhood{Horizon: horizon, Radius: initialRadius(neurons)}
}

func (l LinearNeighborhood) Value(distance float64, epoch int) float64 {
	return math.Max(0, 1-distance/radius(l.Radius, l.Horizon, epoch))
}

// Bubble returns 1 inside the shrinking radius and 0 outside.
type Bubble struct {
	Horizon int
	Radius  float64
}

// NewBubble returns a bubble neighbourhood for a map of the given size.
// horizon <= 0 selects DefaultBubbleHorizon.
func NewBubble(horizon, neurons int) Bubble {
	if horizon <= 0 {
		horizon = DefaultBubbleHorizon
	}
	return Bubble{Horizon: horizon, Radius: initialRadius(neurons)}
}

func (b Bubble) Value(distance float64, epoch int) float64 {
	if distance < radius(b.Radius, b.Horizon, epoch) {
		return 1
	}
	return 0
}

type absent struct{}

func (absent) Value(float64, int) float64 { return 1 }

// Absent returns a neighbourhood that updates every neuron fully.
func Absent() Neighborhood { return absent{} }

// LearningByName returns a learning schedule by name: "linear" or
// "hyperbolic". horizon applies to linear only.
func LearningByName(name string, horizon int) (Learning, error) {
	switch name {
	case "", "linear":
		return NewLinearLearning(horizon), nil
	case "hyperbolic":
		return NewHyperbolicLearning(), nil
	default:
		return nil, fmt.Errorf("schedule: unknown learning function %q", name)
	}
}

// NeighborhoodByName returns a neighbourhood by name: "gaussian", "linear",
// "bubble" or "absent". neurons is the map size.
func NeighborhoodByName(name string, horizon, neurons int) (Neighborhood, error) {
	switch name {
	case "", "gaussian":
		return NewGaussian(horizon), nil
	case "linear":
		return NewLinearNeighborhood(horizon, neurons), nil
	case "bubble":
		return NewBubble(horizon, neurons), nil
	case "absent":
		return Absent(), nil
	default:
		return nil, fmt.Errorf("schedule: unknown neighborhood function %q", name)
	}
}
