package neuron

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/attatrol/mixedsom/record"
	"github.com/attatrol/mixedsom/topology"
)

// ErrVariantMismatch is returned when two neurons with different policies
// are asked to swap content.
var ErrVariantMismatch = errors.New("neuron: variant mismatch")

// state is everything a neuron has learned. It lives behind one pointer so
// that Swap is a relabel.
type state struct {
	schema *record.Schema
	freqs  record.Frequencies
	policy Policy

	weights []record.Value
	acc     []float64   // integer columns
	powers  [][]float64 // categorical columns, indexed by category
	best    []float64   // power of the displayed category
	mass    []float64   // sum of powers per column
}

// Neuron is one map cell.
type Neuron struct {
	pos topology.Point
	s   *state
}

// New creates a neuron at pos with the given initial weights.
// freqs must come from the same source the map is trained on; policy nil
// selects Plain.
func New(pos topology.Point, weights []record.Value, schema *record.Schema, freqs record.Frequencies, policy Policy) *Neuron {
	if policy == nil {
		policy = Plain
	}
	cols := schema.Len()
	s := &state{
		schema:  schema,
		freqs:   freqs,
		policy:  policy,
		weights: make([]record.Value, cols),
		acc:     make([]float64, cols),
		powers:  make([][]float64, cols),
		best:    make([]float64, cols),
		mass:    make([]float64, cols),
	}
	n := &Neuron{pos: pos, s: s}
	n.SetWeights(weights)
	return n
}

// SetWeights reinitialises the neuron from values as if freshly built.
func (n *Neuron) SetWeights(values []record.Value) {
	s := n.s
	copy(s.weights, values)
	for i, t := range s.schema.Types() {
		s.acc[i] = 0
		if !t.IsCategorical() {
			continue
		}
		s.seed(i)
	}
}

// seed forgets all powers of column i except the displayed category.
func (s *state) seed(i int) {
	size := max(s.freqs.Cardinality(i), int(s.weights[i].Cat)+1)
	if cap(s.powers[i]) >= size {
		s.powers[i] = s.powers[i][:size]
		clear(s.powers[i])
	} else {
		s.powers[i] = make([]float64, size)
	}
	s.powers[i][s.weights[i].Cat] = InitialCategoricalPower
	s.best[i] = InitialCategoricalPower
	s.mass[i] = InitialCategoricalPower
}

// Update moves the neuron toward values by magnitude.
// isBMU reports whether this neuron won the sample.
func (n *Neuron) Update(values []record.Value, magnitude float64, isBMU bool) {
	if magnitude == 0 {
		return
	}
	s := n.s
	for i, col := range s.schema.Columns {
		switch col.Type {
		case record.Float:
			s.weights[i].Float += magnitude * (values[i].Float - s.weights[i].Float)
		case record.Integer:
			w := s.weights[i].Int
			s.acc[i] += magnitude * float64(values[i].Int-w)
			// Whole units move the weight; acc ends in [0, 1) after a
			// borrow and in (0, 1] after a carry.
			switch {
			case s.acc[i] < 0:
				k := math.Floor(s.acc[i])
				w += int64(k)
				s.acc[i] -= k
			case s.acc[i] > 1:
				k := math.Ceil(s.acc[i]) - 1
				w += int64(k)
				s.acc[i] -= k
			}
			s.weights[i].Int = w
		case record.Binary, record.BinaryDigital, record.Categorical:
			s.updateCategory(i, values[i].Cat, magnitude, isBMU)
		}
	}
}

func (s *state) updateCategory(i int, c record.Category, magnitude float64, isBMU bool) {
	if int(c) >= len(s.powers[i]) {
		s.powers[i] = append(s.powers[i], make([]float64, int(c)+1-len(s.powers[i]))...)
	}
	old := s.powers[i][c]
	p := s.policy.Power(PowerInput{
		Old:       old,
		Frequency: s.freqs.Of(i, c),
		Magnitude: magnitude,
		Mass:      s.mass[i],
		IsBMU:     isBMU,
	})
	s.mass[i] += p - old
	s.powers[i][c] = p

	switch {
	case c == s.weights[i].Cat:
		s.best[i] = p
	case p > s.best[i]:
		s.weights[i].Cat = c
		s.best[i] = p
	}
}

// EpochEnd runs the policy's end-of-epoch hook.
func (n *Neuron) EpochEnd() {
	s := n.s
	if !s.policy.ResetsOnEpochEnd() {
		return
	}
	for i, t := range s.schema.Types() {
		if t.IsCategorical() {
			s.seed(i)
		}
	}
}

// Swap exchanges all learned content with other. Positions stay put.
func (n *Neuron) Swap(other *Neuron) error {
	if n == other {
		return nil
	}
	if n.s.policy.Name() != other.s.policy.Name() {
		return fmt.Errorf("%w: %s vs %s", ErrVariantMismatch, n.s.policy.Name(), other.s.policy.Name())
	}
	n.s, other.s = other.s, n.s
	return nil
}

// Position returns the neuron's fixed grid position.
func (n *Neuron) Position() topology.Point { return n.pos }

// Weights returns the displayed weights. The slice must not be modified.
func (n *Neuron) Weights() []record.Value { return n.s.weights }

// Policy returns the categorical update policy.
func (n *Neuron) Policy() Policy { return n.s.policy }

// Schema returns the column layout.
func (n *Neuron) Schema() *record.Schema { return n.s.schema }

// Power returns the power of category c in column col.
func (n *Neuron) Power(col int, c record.Category) float64 {
	p := n.s.powers[col]
	if int(c) >= len(p) {
		return 0
	}
	return p[c]
}

// BestPower returns the power of the displayed category in column col.
func (n *Neuron) BestPower(col int) float64 { return n.s.best[col] }

// Mass returns the sum of all powers in column col.
func (n *Neuron) Mass(col int) float64 { return n.s.mass[col] }

// Accumulator returns the pending fractional step of integer column col.
func (n *Neuron) Accumulator(col int) float64 { return n.s.acc[col] }

func (n *Neuron) String() string {
	return fmt.Sprintf("%v [%s]", n.pos, strings.Join(n.s.schema.Format(n.s.weights), ", "))
}
