package distance

import (
	"fmt"
	"math"

	"github.com/attatrol/mixedsom/record"
)

// Func computes the distance between neuron weights and a data record.
// Both slices follow the same schema.
type Func func(weights, data []record.Value) float64

// Metric selects a built-in distance function.
type Metric int

const (
	MetricGower Metric = iota
	MetricOverlap
	MetricSquaredL2
)

func (m Metric) String() string {
	switch m {
	case MetricGower:
		return "Gower"
	case MetricOverlap:
		return "Overlap"
	case MetricSquaredL2:
		return "SquaredL2"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric returns the metric with the given (case-sensitive) name.
// The empty name selects MetricGower.
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "", "gower", "Gower":
		return MetricGower, nil
	case "overlap", "Overlap":
		return MetricOverlap, nil
	case "squared-l2", "SquaredL2":
		return MetricSquaredL2, nil
	default:
		return 0, fmt.Errorf("unknown distance metric %q", name)
	}
}

// Provider returns the distance function for the given metric.
// bounds is only used by MetricGower and may be nil otherwise.
func Provider(m Metric, schema *record.Schema, bounds []record.Bounds) (Func, error) {
	switch m {
	case MetricGower:
		if len(bounds) != schema.Len() {
			return nil, fmt.Errorf("gower: %d bounds for %d columns", len(bounds), schema.Len())
		}
		return Gower(schema.Types(), bounds), nil
	case MetricOverlap:
		return Overlap(schema.Types()), nil
	case MetricSquaredL2:
		return SquaredL2(schema.Types()), nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}

// Gower returns the Gower distance: numeric columns contribute |a-b|/span
// (0 for a constant column), categorical columns 0 or 1. The sum is divided
// by the number of non-missing columns.
func Gower(types []record.ColumnType, bounds []record.Bounds) Func {
	inv := make([]float64, len(types))
	used := 0
	for i, t := range types {
		if t == record.Missing {
			continue
		}
		used++
		if span := bounds[i].Span(); t.IsNumeric() && span > 0 {
			inv[i] = 1 / span
		}
	}
	if used == 0 {
		return zero
	}
	scale := 1 / float64(used)

	return func(weights, data []record.Value) float64 {
		var sum float64
		for i, t := range types {
			switch {
			case t.IsNumeric():
				sum += math.Abs(weights[i].Number(t)-data[i].Number(t)) * inv[i]
			case t.IsCategorical():
				if weights[i].Cat != data[i].Cat {
					sum++
				}
			}
		}
		return sum * scale
	}
}

// Overlap returns the share of categorical columns whose values differ.
// Numeric columns are ignored.
func Overlap(types []record.ColumnType) Func {
	var cats []int
	for i, t := range types {
		if t.IsCategorical() {
			cats = append(cats, i)
		}
	}
	if len(cats) == 0 {
		return zero
	}
	scale := 1 / float64(len(cats))

	return func(weights, data []record.Value) float64 {
		mismatch := 0
		for _, i := range cats {
			if weights[i].Cat != data[i].Cat {
				mismatch++
			}
		}
		return float64(mismatch) * scale
	}
}

// SquaredL2 returns the squared Euclidean distance over numeric columns plus
// 1 for every mismatching categorical column.
func SquaredL2(types []record.ColumnType) Func {
	return func(weights, data []record.Value) float64 {
		var sum float64
		for i, t := range types {
			switch {
			case t.IsNumeric():
				d := weights[i].Number(t) - data[i].Number(t)
				sum += d * d
			case t.IsCategorical():
				if weights[i].Cat != data[i].Cat {
					sum++
				}
			}
		}
		return sum
	}
}

func zero(_, _ []record.Value) float64 { return 0 }
