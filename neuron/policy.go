package neuron

import (
	"fmt"
	"math"
)

const (
	// InitialCategoricalPower seeds the displayed category of every
	// categorical column, and the column's mass.
	InitialCategoricalPower = 1.5

	// MinFrequencyAdjustment is the smallest relative gain a category gets
	// under FrequencyControlled.
	MinFrequencyAdjustment = 0.1
)

// PowerInput carries everything a Policy may use to compute a new power.
type PowerInput struct {
	// Old is the category's current power, 0 if it was never seen.
	Old float64
	// Frequency is the category's sample frequency over the whole source.
	Frequency float64
	// Magnitude is learning rate times neighbourhood value for this update.
	Magnitude float64
	// Mass is the sum of all powers in the column.
	Mass float64
	// IsBMU reports whether the neuron won the sample.
	IsBMU bool
}

// Policy is a categorical update strategy.
type Policy interface {
	// Name identifies the policy; neurons may only swap content with
	// neurons of the same policy.
	Name() string
	// Power returns the category's power after one update.
	Power(in PowerInput) float64
	// ResetsOnEpochEnd reports whether powers are reseeded after each epoch.
	ResetsOnEpochEnd() bool
}

type plain struct{}

func (plain) Name() string                { return "plain" }
func (plain) Power(in PowerInput) float64 { return in.Old + in.Magnitude*in.Frequency }
func (plain) ResetsOnEpochEnd() bool      { return false }

type frequencyControlled struct{}

func (frequencyControlled) Name() string { return "frequency-controlled" }

func (frequencyControlled) Power(in PowerInput) float64 {
	share := 0.0
	if in.Mass > 0 {
		share = in.Old / in.Mass
	}
	return in.Old + in.Magnitude*math.Max(in.Frequency-share, MinFrequencyAdjustment)
}

func (frequencyControlled) ResetsOnEpochEnd() bool { return false }

type resetting struct{ plain }

func (resetting) Name() string           { return "resetting" }
func (resetting) ResetsOnEpochEnd() bool { return true }

var (
	// Plain adds magnitude*frequency to the sample's category.
	Plain Policy = plain{}

	// FrequencyControlled damps categories that already hold more than
	// their sample share of the column's mass.
	FrequencyControlled Policy = frequencyControlled{}

	// Resetting updates like Plain but forgets all powers at every epoch
	// end, keeping only the displayed category.
	Resetting Policy = resetting{}
)

// PolicyByName returns the built-in policy with the given name.
// The empty name selects Plain.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", Plain.Name():
		return Plain, nil
	case FrequencyControlled.Name():
		return FrequencyControlled, nil
	case Resetting.Name():
		return Resetting, nil
	default:
		return nil, fmt.Errorf("neuron: unknown policy %q", name)
	}
}
