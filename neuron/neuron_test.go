package neuron

import (
	"testing"

	"github.com/attatrol/mixedsom/record"
	"github.com/attatrol/mixedsom/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	colFloat = iota
	colInt
	colColor
	colSkip
)

func testSchema() (*record.Schema, record.Frequencies) {
	schema := record.NewSchema(
		record.Column{Name: "size", Type: record.Float},
		record.Column{Name: "count", Type: record.Integer},
		record.Column{Name: "color", Type: record.Categorical},
		record.Column{Name: "blob", Type: record.Missing},
	)
	schema.Cat(colColor, "red")
	schema.Cat(colColor, "blue")
	freqs := record.Frequencies{nil, nil, {0.75, 0.25}, nil}
	return schema, freqs
}

func newTestNeuron(t *testing.T, policy Policy) (*Neuron, *record.Schema) {
	t.Helper()
	schema, freqs := testSchema()
	w := []record.Value{
		record.FloatValue(0),
		record.IntValue(0),
		schema.Cat(colColor, "red"),
		{},
	}
	n := New(topology.Point{X: 1, Y: 2}, w, schema, freqs, policy)
	require.NotNil(t, n)
	return n, schema
}

func sample(schema *record.Schema, f float64, i int64, color string) []record.Value {
	return []record.Value{
		record.FloatValue(f),
		record.IntValue(i),
		schema.Cat(colColor, color),
		{},
	}
}

func TestNew_Seeding(t *testing.T) {
	n, schema := newTestNeuron(t, nil)

	assert.Equal(t, Plain, n.Policy())
	assert.Equal(t, topology.Point{X: 1, Y: 2}, n.Position())
	red := schema.Cat(colColor, "red").Cat
	blue := schema.Cat(colColor, "blue").Cat
	assert.Equal(t, InitialCategoricalPower, n.Power(colColor, red))
	assert.Zero(t, n.Power(colColor, blue))
	assert.Equal(t, InitialCategoricalPower, n.BestPower(colColor))
	assert.Equal(t, InitialCategoricalPower, n.Mass(colColor))
}

func TestUpdate_Float(t *testing.T) {
	n, schema := newTestNeuron(t, Plain)

	n.Update(sample(schema, 10, 0, "red"), 0.5, true)
	assert.Equal(t, 5.0, n.Weights()[colFloat].Float)

	n.Update(sample(schema, 10, 0, "red"), 0.5, true)
	assert.Equal(t, 7.5, n.Weights()[colFloat].Float)
}

func TestUpdate_IntegerCarry(t *testing.T) {
	n, schema := newTestNeuron(t, Plain)

	// acc 0 + 0.5*3 = 1.5 -> carry one unit.
	n.Update(sample(schema, 0, 3, "red"), 0.5, true)
	assert.Equal(t, int64(1), n.Weights()[colInt].Int)
	assert.Equal(t, 0.5, n.Accumulator(colInt))

	// acc 0.5 + 0.5*2 = 1.5 -> carry again.
	n.Update(sample(schema, 0, 3, "red"), 0.5, true)
	assert.Equal(t, int64(2), n.Weights()[colInt].Int)
	assert.Equal(t, 0.5, n.Accumulator(colInt))

	// acc 0.5 + 0.25*(-2) = 0 -> no carry.
	n.Update(sample(schema, 0, 0, "red"), 0.25, true)
	assert.Equal(t, int64(2), n.Weights()[colInt].Int)
	assert.Zero(t, n.Accumulator(colInt))

	// acc 0 + 0.25*(-1) = -0.25 -> borrow one unit.
	n.Update(sample(schema, 0, 1, "red"), 0.25, true)
	assert.Equal(t, int64(1), n.Weights()[colInt].Int)
	assert.Equal(t, 0.75, n.Accumulator(colInt))
}

func TestUpdate_IntegerLargeStep(t *testing.T) {
	n, schema := newTestNeuron(t, Plain)

	// acc 0 + 1*1e9: carry stops once acc <= 1.
	n.Update(sample(schema, 0, 1_000_000_000, "red"), 1, true)
	assert.Equal(t, int64(999_999_999), n.Weights()[colInt].Int)
	assert.Equal(t, 1.0, n.Accumulator(colInt))

	// acc 1 + 0.5*(-1e9-999999999) = -999999998.5 -> borrow 999999999 units.
	n.Update(sample(schema, 0, -1_000_000_000, "red"), 0.5, true)
	assert.Equal(t, int64(0), n.Weights()[colInt].Int)
	assert.Equal(t, 0.5, n.Accumulator(colInt))
}

func TestUpdate_PlainCategorical(t *testing.T) {
	n, schema := newTestNeuron(t, Plain)
	red := schema.Cat(colColor, "red").Cat
	blue := schema.Cat(colColor, "blue").Cat

	n.Update(sample(schema, 0, 0, "blue"), 1, false)
	assert.Equal(t, 0.25, n.Power(colColor, blue))
	assert.Equal(t, red, n.Weights()[colColor].Cat)
	assert.Equal(t, 1.75, n.Mass(colColor))

	n.Update(sample(schema, 0, 0, "red"), 1, true)
	assert.Equal(t, 2.25, n.Power(colColor, red))
	assert.Equal(t, 2.25, n.BestPower(colColor))

	n.Update(sample(schema, 0, 0, "blue"), 10, true)
	assert.Equal(t, 2.75, n.Power(colColor, blue))
	assert.Equal(t, blue, n.Weights()[colColor].Cat)
	assert.Equal(t, 2.75, n.BestPower(colColor))
}

func TestUpdate_StickyWinner(t *testing.T) {
	n, schema := newTestNeuron(t, Plain)
	red := schema.Cat(colColor, "red").Cat
	blue := schema.Cat(colColor, "blue").Cat

	// 6*0.25 = 1.5 ties the incumbent, which keeps the display.
	n.Update(sample(schema, 0, 0, "blue"), 6, false)
	assert.Equal(t, InitialCategoricalPower, n.Power(colColor, blue))
	assert.Equal(t, red, n.Weights()[colColor].Cat)
}

func TestUpdate_FrequencyControlled(t *testing.T) {
	n, schema := newTestNeuron(t, FrequencyControlled)
	red := schema.Cat(colColor, "red").Cat
	blue := schema.Cat(colColor, "blue").Cat

	// red already holds the whole mass: gain is floored.
	n.Update(sample(schema, 0, 0, "red"), 1, true)
	assert.InDelta(t, 1.6, n.Power(colColor, red), 1e-12)

	n.Update(sample(schema, 0, 0, "blue"), 1, true)
	assert.InDelta(t, 0.25, n.Power(colColor, blue), 1e-12)
	assert.InDelta(t, 1.85, n.Mass(colColor), 1e-12)
	assert.Equal(t, red, n.Weights()[colColor].Cat)
}

func TestEpochEnd(t *testing.T) {
	t.Run("resetting", func(t *testing.T) {
		n, schema := newTestNeuron(t, Resetting)
		red := schema.Cat(colColor, "red").Cat
		blue := schema.Cat(colColor, "blue").Cat

		n.Update(sample(schema, 4, 0, "blue"), 1, true)
		n.Update(sample(schema, 4, 0, "red"), 1, true)
		n.EpochEnd()

		assert.Zero(t, n.Power(colColor, blue))
		assert.Equal(t, InitialCategoricalPower, n.Power(colColor, red))
		assert.Equal(t, InitialCategoricalPower, n.BestPower(colColor))
		assert.Equal(t, InitialCategoricalPower, n.Mass(colColor))
		assert.Equal(t, red, n.Weights()[colColor].Cat)
		assert.Equal(t, 4.0, n.Weights()[colFloat].Float)
	})

	t.Run("plain", func(t *testing.T) {
		n, schema := newTestNeuron(t, Plain)
		blue := schema.Cat(colColor, "blue").Cat

		n.Update(sample(schema, 0, 0, "blue"), 1, true)
		n.EpochEnd()
		assert.Equal(t, 0.25, n.Power(colColor, blue))
	})
}

func TestUpdate_NoOps(t *testing.T) {
	n, schema := newTestNeuron(t, Plain)
	before := append([]record.Value(nil), n.Weights()...)

	n.Update(sample(schema, 100, 100, "blue"), 0, true)
	assert.Equal(t, before, n.Weights())

	values := sample(schema, 0, 0, "red")
	values[colSkip] = record.FloatValue(42)
	n.Update(values, 1, true)
	assert.Equal(t, record.Value{}, n.Weights()[colSkip])
}

func TestSwap(t *testing.T) {
	a, schema := newTestNeuron(t, Plain)
	b := New(topology.Point{X: 0, Y: 0}, sample(schema, 9, 9, "blue"), schema, record.Frequencies{nil, nil, {0.75, 0.25}, nil}, Plain)

	require.NoError(t, a.Swap(b))
	assert.Equal(t, topology.Point{X: 1, Y: 2}, a.Position())
	assert.Equal(t, topology.Point{X: 0, Y: 0}, b.Position())
	assert.Equal(t, 9.0, a.Weights()[colFloat].Float)
	assert.Equal(t, 0.0, b.Weights()[colFloat].Float)

	require.NoError(t, a.Swap(a))
	assert.Equal(t, 9.0, a.Weights()[colFloat].Float)
}

func TestSwap_VariantMismatch(t *testing.T) {
	a, _ := newTestNeuron(t, Plain)
	b, _ := newTestNeuron(t, Resetting)
	b.Update(sample(b.Schema(), 3, 0, "red"), 1, true)

	err := a.Swap(b)
	require.ErrorIs(t, err, ErrVariantMismatch)
	assert.Contains(t, err.Error(), "plain")
	assert.Contains(t, err.Error(), "resetting")
	assert.Equal(t, 0.0, a.Weights()[colFloat].Float)
	assert.Equal(t, 3.0, b.Weights()[colFloat].Float)
}

func TestSetWeights(t *testing.T) {
	n, schema := newTestNeuron(t, Plain)
	blue := schema.Cat(colColor, "blue").Cat

	n.Update(sample(schema, 3, 3, "blue"), 0.5, true)
	require.NotZero(t, n.Accumulator(colInt))

	n.SetWeights(sample(schema, 7, 7, "blue"))
	assert.Equal(t, 7.0, n.Weights()[colFloat].Float)
	assert.Equal(t, int64(7), n.Weights()[colInt].Int)
	assert.Zero(t, n.Accumulator(colInt))
	assert.Equal(t, blue, n.Weights()[colColor].Cat)
	assert.Equal(t, InitialCategoricalPower, n.Power(colColor, blue))
	assert.Zero(t, n.Power(colColor, schema.Cat(colColor, "red").Cat))
	assert.Equal(t, InitialCategoricalPower, n.Mass(colColor))
}

func TestPolicyByName(t *testing.T) {
	for _, p := range []Policy{Plain, FrequencyControlled, Resetting} {
		got, err := PolicyByName(p.Name())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := PolicyByName("")
	require.NoError(t, err)
	assert.Equal(t, Plain, got)

	_, err = PolicyByName("bogus")
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	n, _ := newTestNeuron(t, Plain)
	assert.Equal(t, "(1,2) [0, 0, red, ?]", n.String())
}
