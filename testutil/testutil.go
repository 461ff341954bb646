package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/attatrol/mixedsom/record"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Zipf returns a Zipfian-distributed value in [0, n).
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}
	return n - 1
}

// Column indices of MixedDataset.
const (
	MixedX = iota
	MixedCount
	MixedColor
	MixedFlag
)

// MixedDataset generates n records in the given number of groups. Each
// group has its own centre for the float and integer columns and its own
// dominant color and flag, so a map should separate the groups.
// Records are assigned to groups round-robin.
func (r *RNG) MixedDataset(n, groups int) (*record.MemorySource, *record.Schema) {
	schema := record.NewSchema(
		record.Column{Name: "x", Type: record.Float},
		record.Column{Name: "count", Type: record.Integer},
		record.Column{Name: "color", Type: record.Categorical},
		record.Column{Name: "flag", Type: record.BinaryDigital},
	)
	colors := make([]record.Value, groups)
	for g := range groups {
		colors[g] = schema.Cat(MixedColor, fmt.Sprintf("color-%d", g))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	src := record.NewMemorySource(schema.Len())
	for i := range n {
		g := i % groups
		color := colors[g]
		if r.rand.Float64() < 0.1 {
			color = colors[r.rand.Intn(groups)]
		}
		_ = src.Append(
			record.FloatValue(float64(g)*10+r.rand.NormFloat64()),
			record.IntValue(int64(g*100+r.rand.Intn(5))),
			color,
			schema.Bool(MixedFlag, g%2 == 0),
		)
	}
	return src, schema
}

// SkewedDataset generates n records with one categorical column whose
// categories follow a Zipf distribution with skew s, and one float column.
func (r *RNG) SkewedDataset(n, categories int, s float64) (*record.MemorySource, *record.Schema) {
	schema := record.NewSchema(
		record.Column{Name: "category", Type: record.Categorical},
		record.Column{Name: "value", Type: record.Float},
	)
	values := make([]record.Value, categories)
	for c := range categories {
		values[c] = schema.Cat(0, fmt.Sprintf("cat-%d", c))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	src := record.NewMemorySource(schema.Len())
	for range n {
		c := r.zipfLocked(categories, s)
		_ = src.Append(values[c], record.FloatValue(float64(c)+r.rand.Float64()))
	}
	return src, schema
}

// FailingSource wraps a Source and injects errors.
type FailingSource struct {
	record.Source

	// FailAfter makes Next fail after this many successful records per scan.
	// Negative disables.
	FailAfter int
	// FailReset makes Reset fail.
	FailReset bool
	// Err is the injected error.
	Err error

	served int
}

// Reset implements record.Source.
func (f *FailingSource) Reset() error {
	if f.FailReset {
		return f.Err
	}
	f.served = 0
	return f.Source.Reset()
}

// Next implements record.Source.
func (f *FailingSource) Next() (record.Record, error) {
	if f.FailAfter >= 0 && f.served >= f.FailAfter {
		return record.Record{}, f.Err
	}
	f.served++
	return f.Source.Next()
}
