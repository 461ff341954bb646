// Package initializer produces the initial weights of a map's neurons.
//
// Initializers are safe for concurrent use; each call holds an internal lock
// for its whole duration.
package initializer

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/attatrol/mixedsom/record"
)

// Initializer produces weight vectors for n neurons.
type Initializer interface {
	Weights(n int) ([][]record.Value, error)
}

// RandomRecords copies the values of uniformly chosen source records.
type RandomRecords struct {
	src record.Source

	mu   sync.Mutex
	rand *rand.Rand
}

// NewRandomRecords returns an initializer drawing records from src.
func NewRandomRecords(src record.Source, seed int64) *RandomRecords {
	return &RandomRecords{src: src, rand: rand.New(rand.NewSource(seed))}
}

// Weights draws n records with replacement. It scans src twice: once to
// count and once to collect. An empty source fails with
// record.ErrEmptySource.
func (r *RandomRecords) Weights(n int) ([][]record.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count, err := record.Count(r.src)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	if count == 0 {
		return nil, record.ErrEmptySource
	}

	picks := make([]int64, n)
	wanted := make(map[int64][]int, n)
	for i := range picks {
		picks[i] = r.rand.Int63n(count)
		wanted[picks[i]] = append(wanted[picks[i]], i)
	}

	out := make([][]record.Value, n)
	var pos int64
	err = record.Scan(r.src, func(rec record.Record) error {
		for _, i := range wanted[pos] {
			out[i] = slices.Clone(rec.Values)
		}
		pos++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect records: %w", err)
	}
	for i, w := range out {
		if w == nil {
			return nil, fmt.Errorf("source shrank: record %d of %d is gone", picks[i], count)
		}
	}
	return out, nil
}

// RandomWeights draws every column independently: floats uniformly in the
// observed range, integers uniformly in the observed closed range and
// categories uniformly over the observed values. Missing columns are zero.
type RandomWeights struct {
	src    record.Source
	schema *record.Schema

	mu   sync.Mutex
	rand *rand.Rand
}

// NewRandomWeights returns an initializer drawing from the value ranges of src.
func NewRandomWeights(src record.Source, schema *record.Schema, seed int64) *RandomWeights {
	return &RandomWeights{src: src, schema: schema, rand: rand.New(rand.NewSource(seed))}
}

// Weights returns n independent random weight vectors. An empty source fails
// with record.ErrEmptySource.
func (r *RandomWeights) Weights(n int) ([][]record.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count, err := record.Count(r.src)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	if count == 0 {
		return nil, record.ErrEmptySource
	}
	bounds, err := record.NumericBounds(r.src, r.schema)
	if err != nil {
		return nil, fmt.Errorf("numeric bounds: %w", err)
	}
	freqs, err := record.ComputeFrequencies(r.src, r.schema)
	if err != nil {
		return nil, fmt.Errorf("frequencies: %w", err)
	}

	observed := make([][]record.Category, r.schema.Len())
	for i, t := range r.schema.Types() {
		if !t.IsCategorical() {
			continue
		}
		for c, f := range freqs[i] {
			if f > 0 {
				observed[i] = append(observed[i], record.Category(c))
			}
		}
	}

	out := make([][]record.Value, n)
	for k := range out {
		w := make([]record.Value, r.schema.Len())
		for i, t := range r.schema.Types() {
			switch {
			case t == record.Float:
				w[i] = record.FloatValue(bounds[i].Min + r.rand.Float64()*bounds[i].Span())
			case t == record.Integer:
				lo, hi := toInt64(bounds[i].Min), toInt64(bounds[i].Max)
				w[i] = record.IntValue(randInt64(r.rand, lo, hi))
			case t.IsCategorical():
				w[i] = record.CatValue(observed[i][r.rand.Intn(len(observed[i]))])
			}
		}
		out[k] = w
	}
	return out, nil
}

// randInt64 draws uniformly from [lo, hi], including spans wider than
// math.MaxInt64.
func randInt64(rng *rand.Rand, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	span := uint64(hi-lo) + 1
	switch {
	case span == 0:
		return int64(rng.Uint64())
	case span <= math.MaxInt64:
		return lo + rng.Int63n(int64(span))
	}
	limit := math.MaxUint64 - math.MaxUint64%span
	v := rng.Uint64()
	for v >= limit {
		v = rng.Uint64()
	}
	return int64(uint64(lo) + v%span)
}

// toInt64 converts an integer column bound, saturating at the int64 range.
func toInt64(f float64) int64 {
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

var (
	_ Initializer = (*RandomRecords)(nil)
	_ Initializer = (*RandomWeights)(nil)
)
