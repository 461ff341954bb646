package mixedsom

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/attatrol/mixedsom/distance"
	"github.com/attatrol/mixedsom/internal/conv"
	"github.com/attatrol/mixedsom/neuron"
	"github.com/attatrol/mixedsom/record"
	"github.com/attatrol/mixedsom/resource"
	"github.com/attatrol/mixedsom/schedule"
	"github.com/attatrol/mixedsom/topology"
)

// DefaultLocalRadius is the grid radius of the neighbourhood a devoured
// neuron is walked into.
const DefaultLocalRadius = 1.0

// Config holds the training strategies and devouring thresholds of a map.
type Config struct {
	Distance     distance.Func
	Learning     schedule.Learning
	Neighborhood schedule.Neighborhood

	// Alpha marks a neuron weak when it wins at most Alpha*median records.
	Alpha float64
	// Beta marks a neuron patron when it wins at least Beta*median records.
	// Beta = +Inf disables devouring.
	Beta float64

	// LocalRadius bounds the patron neighbourhood. 0 selects DefaultLocalRadius.
	LocalRadius float64
}

// distant is the farthest record a neuron won during the last epoch.
type distant struct {
	values []record.Value
	dist   float64
	ok     bool
}

// Som is a self-organizing map under training.
//
// A Som is not safe for concurrent use: LearnEpoch mutates every neuron.
type Som struct {
	topo    topology.Topology
	neurons []*neuron.Neuron
	src     record.Source
	cfg     Config
	size    int64

	classes    []float64
	magnitudes []float64
	local      [][]int

	wins    []int64
	distant []distant
	hasWins bool
	epoch   int

	// indirection from content to slot, valid during one devouring pass
	slotOf    []int
	contentAt []int

	rand    *rand.Rand
	rc      *resource.Controller
	logger  *Logger
	metrics MetricsCollector

	lastRealloc Reallocation
}

// New creates a map over the given topology and neurons. neurons[i] must sit
// at topo.Positions()[i]. The source is counted once; an empty source fails
// with ErrEmptySource.
func New(topo topology.Topology, neurons []*neuron.Neuron, src record.Source, cfg Config, optFns ...Option) (*Som, error) {
	if err := validate(topo, neurons, src, &cfg); err != nil {
		return nil, err
	}
	o := applyOptions(optFns)

	size, err := record.Count(src)
	if err != nil {
		return nil, dataAccess("count", err)
	}
	if size == 0 {
		return nil, ErrEmptySource
	}

	n := len(neurons)
	s := &Som{
		topo:      topo,
		neurons:   slices.Clone(neurons),
		src:       src,
		cfg:       cfg,
		size:      size,
		classes:   topo.Classes(),
		local:     make([][]int, n),
		wins:      make([]int64, n),
		distant:   make([]distant, n),
		slotOf:    make([]int, n),
		contentAt: make([]int, n),
		rand:      rand.New(rand.NewSource(o.seed)),
		rc:        o.resources,
		logger:    o.logger,
		metrics:   o.metricsCollector,
	}
	s.magnitudes = make([]float64, len(s.classes))
	for i := range n {
		s.local[i] = topo.Neighbors(i, cfg.LocalRadius)
	}
	return s, nil
}

func validate(topo topology.Topology, neurons []*neuron.Neuron, src record.Source, cfg *Config) error {
	switch {
	case topo == nil:
		return &ConfigError{Field: "topology", Reason: "is nil"}
	case src == nil:
		return &ConfigError{Field: "source", Reason: "is nil"}
	case cfg.Distance == nil:
		return &ConfigError{Field: "distance", Reason: "is nil"}
	case cfg.Learning == nil:
		return &ConfigError{Field: "learning", Reason: "is nil"}
	case cfg.Neighborhood == nil:
		return &ConfigError{Field: "neighborhood", Reason: "is nil"}
	case len(neurons) == 0:
		return &ConfigError{Field: "neurons", Reason: "is empty"}
	case math.IsNaN(cfg.Alpha) || math.IsNaN(cfg.Beta):
		return &ConfigError{Field: "thresholds", Reason: "alpha and beta must be numbers"}
	case cfg.Alpha < 0:
		return &ConfigError{Field: "alpha", Reason: fmt.Sprintf("%v is negative", cfg.Alpha)}
	case cfg.Beta < cfg.Alpha:
		return &ConfigError{Field: "beta", Reason: fmt.Sprintf("%v is below alpha %v", cfg.Beta, cfg.Alpha)}
	case cfg.LocalRadius < 0 || math.IsNaN(cfg.LocalRadius):
		return &ConfigError{Field: "local radius", Reason: fmt.Sprintf("%v is invalid", cfg.LocalRadius)}
	}
	if cfg.LocalRadius == 0 {
		cfg.LocalRadius = DefaultLocalRadius
	}

	positions := topo.Positions()
	if len(neurons) != len(positions) {
		return &ConfigError{Field: "neurons", Reason: fmt.Sprintf("%d neurons for %d positions", len(neurons), len(positions))}
	}
	if _, err := conv.SlotToUint32(len(neurons) - 1); err != nil {
		return &ConfigError{Field: "neurons", Reason: err.Error()}
	}
	for i, nr := range neurons {
		if nr == nil {
			return &ConfigError{Field: "neurons", Reason: fmt.Sprintf("neuron %d is nil", i)}
		}
	}
	policy := neurons[0].Policy().Name()
	for i, nr := range neurons {
		if nr.Position() != positions[i] {
			return &ConfigError{Field: "neurons", Reason: fmt.Sprintf("neuron %d is at %v, want %v", i, nr.Position(), positions[i])}
		}
		if nr.Policy().Name() != policy {
			return &ConfigError{Field: "neurons", Reason: fmt.Sprintf("neuron %d uses policy %s, want %s", i, nr.Policy().Name(), policy)}
		}
		if nr.Schema().Len() != src.RecordLen() {
			return &ConfigError{Field: "neurons", Reason: fmt.Sprintf("neuron %d has %d columns, source has %d", i, nr.Schema().Len(), src.RecordLen())}
		}
	}
	return nil
}

// LearnEpoch runs one training epoch and returns the mean BMU distance over
// the scanned records (0 if none were scanned).
//
// ctx is only checked on entry: a cancelled context returns ctx.Err() without
// touching the map. Once started, an epoch runs to completion or to a data
// source failure.
func (s *Som) LearnEpoch(ctx context.Context, epoch int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	start := time.Now()
	meanError, err := s.learnEpoch(ctx, epoch)
	if err == nil {
		s.epoch = epoch
	}
	s.logger.LogEpoch(ctx, epoch, meanError, time.Since(start), err)
	s.metrics.RecordEpoch(epoch, meanError, time.Since(start), err)
	return meanError, err
}

func (s *Som) learnEpoch(ctx context.Context, epoch int) (float64, error) {
	lr := s.cfg.Learning.Value(epoch)
	for c, d := range s.classes {
		s.magnitudes[c] = s.cfg.Neighborhood.Value(d, epoch) * lr
	}

	realloc, err := s.devour(ctx)
	if err != nil {
		return 0, err
	}
	s.lastRealloc = realloc
	s.logger.LogReallocation(ctx, epoch, realloc)
	s.metrics.RecordReallocation(realloc)

	clear(s.wins)
	for i := range s.distant {
		s.distant[i].ok = false
	}

	var (
		sum   float64
		count int64
	)
	err = record.Scan(s.scanSource(ctx), func(rec record.Record) error {
		bmu, d := s.bmu(rec.Values)
		s.wins[bmu]++
		sum += d
		count++

		for j, nr := range s.neurons {
			nr.Update(rec.Values, s.magnitudes[s.topo.ClassAt(bmu, j)], j == bmu)
		}

		if t := &s.distant[bmu]; !t.ok || d > t.dist {
			t.values = append(t.values[:0], rec.Values...)
			t.dist = d
			t.ok = true
		}
		return nil
	})
	if err != nil {
		return 0, dataAccess("epoch", err)
	}
	s.hasWins = true

	for _, nr := range s.neurons {
		nr.EpochEnd()
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

// scanSource returns the map's source paced by the resource controller.
func (s *Som) scanSource(ctx context.Context) record.Source {
	return s.throttle(ctx, s.src)
}

// throttle paces src by the resource controller, if any. Pacing never
// cancels a scan.
func (s *Som) throttle(ctx context.Context, src record.Source) record.Source {
	if s.rc == nil {
		return src
	}
	return resource.NewThrottledSource(context.WithoutCancel(ctx), src, s.rc)
}

// bmu returns the slot of the neuron closest to values; the first minimum wins.
func (s *Som) bmu(values []record.Value) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for i, nr := range s.neurons {
		if d := s.cfg.Distance(nr.Weights(), values); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// BMU returns the slot and neuron closest to values. It does not modify the map.
func (s *Som) BMU(values []record.Value) (int, *neuron.Neuron, error) {
	i, _, err := s.BMUDistance(values)
	if err != nil {
		return 0, nil, err
	}
	return i, s.neurons[i], nil
}

// BMUDistance returns the slot of the neuron closest to values and its distance.
func (s *Som) BMUDistance(values []record.Value) (int, float64, error) {
	start := time.Now()
	if len(values) != s.src.RecordLen() {
		err := fmt.Errorf("record has %d values, want %d", len(values), s.src.RecordLen())
		s.metrics.RecordQuery(time.Since(start), err)
		return 0, 0, err
	}
	i, d := s.bmu(values)
	s.metrics.RecordQuery(time.Since(start), nil)
	return i, d, nil
}

// Neurons returns the neurons in slot order. The slice is a copy; the
// neurons are live.
func (s *Som) Neurons() []*neuron.Neuron { return slices.Clone(s.neurons) }

// Neuron returns the neuron at slot i.
func (s *Som) Neuron(i int) *neuron.Neuron { return s.neurons[i] }

// Len returns the number of neurons.
func (s *Som) Len() int { return len(s.neurons) }

// Topology returns the map's grid.
func (s *Som) Topology() topology.Topology { return s.topo }

// Distance returns the record distance function.
func (s *Som) Distance() distance.Func { return s.cfg.Distance }

// Config returns the map's configuration with defaults applied.
func (s *Som) Config() Config { return s.cfg }

// WinCounts returns how many records each slot won during the last epoch.
func (s *Som) WinCounts() []int64 { return slices.Clone(s.wins) }

// Epoch returns the number of the last successfully learned epoch, 0 before
// training.
func (s *Som) Epoch() int { return s.epoch }

// SourceSize returns the number of records counted at construction.
func (s *Som) SourceSize() int64 { return s.size }

// LastReallocation returns the statistics of the most recent devouring pass.
func (s *Som) LastReallocation() Reallocation { return s.lastRealloc }

// Logger returns the map's logger.
func (s *Som) Logger() *Logger { return s.logger }

// Close releases the topology's resources if it holds any. The map must not
// be used afterwards.
func (s *Som) Close() error {
	if c, ok := s.topo.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
