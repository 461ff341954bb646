package mixedsom

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/attatrol/mixedsom/distance"
	"github.com/attatrol/mixedsom/initializer"
	"github.com/attatrol/mixedsom/metric"
	"github.com/attatrol/mixedsom/neuron"
	"github.com/attatrol/mixedsom/record"
	"github.com/attatrol/mixedsom/resource"
	"github.com/attatrol/mixedsom/schedule"
	"github.com/attatrol/mixedsom/topology"
)

// Grid creates a map builder for a width x height grid.
//
// The builder is immutable - each method returns a new builder with the updated configuration.
//
// Defaults: rectangular grid, Euclidean grid metric, linear learning,
// gaussian neighbourhood, Plain policy, random-records initializer, Gower
// distance, devouring disabled.
//
// Example:
//
//	som, err := mixedsom.Grid(6, 6).
//	    Toroidal().
//	    Horizon(500).
//	    Thresholds(0, 2).
//	    Build(ctx, src, schema)
func Grid(width, height int) Builder {
	return Builder{
		width:        width,
		height:       height,
		kind:         topology.Rectangle,
		metric:       metric.Euclidean,
		learning:     "linear",
		neighborhood: "gaussian",
		policy:       neuron.Plain,
		initKind:     RandomRecords,
		metricKind:   distance.MetricGower,
		alpha:        0,
		beta:         math.Inf(1),
		seed:         1,
	}
}

// InitKind selects a built-in weight initializer.
type InitKind int

const (
	RandomRecords InitKind = iota
	RandomWeights
)

// Builder is an immutable fluent builder for maps.
type Builder struct {
	width, height int
	kind          topology.Kind
	metric        metric.Func

	horizon      int
	learning     string
	neighborhood string
	learningFn   schedule.Learning
	neighborFn   schedule.Neighborhood

	policy      neuron.Policy
	initKind    InitKind
	initializer initializer.Initializer

	metricKind distance.Metric
	distance   distance.Func

	alpha, beta float64
	localRadius float64

	seed      int64
	logger    *Logger
	metrics   MetricsCollector
	resources *resource.Controller
}

// Size changes the grid dimensions.
func (b Builder) Size(width, height int) Builder {
	b.width, b.height = width, height
	return b
}

// Rectangle selects a flat grid.
func (b Builder) Rectangle() Builder {
	b.kind = topology.Rectangle
	return b
}

// Toroidal selects a borderless grid.
func (b Builder) Toroidal() Builder {
	b.kind = topology.Toroidal
	return b
}

// Metric sets the grid metric.
func (b Builder) Metric(m metric.Func) Builder {
	b.metric = m
	return b
}

// Horizon sets the epoch horizon of the built-in schedules, usually the
// planned number of epochs. 0 keeps each schedule's default.
func (b Builder) Horizon(epochs int) Builder {
	b.horizon = epochs
	return b
}

// LearningFunction selects a built-in learning schedule by name
// ("linear" or "hyperbolic").
func (b Builder) LearningFunction(name string) Builder {
	b.learning = name
	b.learningFn = nil
	return b
}

// Learning sets a custom learning schedule.
func (b Builder) Learning(l schedule.Learning) Builder {
	b.learningFn = l
	return b
}

// NeighborhoodFunction selects a built-in neighbourhood by name
// ("gaussian", "linear", "bubble" or "absent").
func (b Builder) NeighborhoodFunction(name string) Builder {
	b.neighborhood = name
	b.neighborFn = nil
	return b
}

// Neighborhood sets a custom neighbourhood.
func (b Builder) Neighborhood(n schedule.Neighborhood) Builder {
	b.neighborFn = n
	return b
}

// Policy sets the categorical update policy of every neuron.
func (b Builder) Policy(p neuron.Policy) Builder {
	b.policy = p
	return b
}

// Initializer selects a built-in weight initializer.
func (b Builder) Initializer(kind InitKind) Builder {
	b.initKind = kind
	b.initializer = nil
	return b
}

// CustomInitializer sets a custom weight initializer.
func (b Builder) CustomInitializer(i initializer.Initializer) Builder {
	b.initializer = i
	return b
}

// Distance selects a built-in record distance.
func (b Builder) Distance(m distance.Metric) Builder {
	b.metricKind = m
	b.distance = nil
	return b
}

// DistanceFunc sets a custom record distance.
func (b Builder) DistanceFunc(f distance.Func) Builder {
	b.distance = f
	return b
}

// Thresholds sets the devouring thresholds as multiples of the median win
// count. Beta = +Inf disables devouring.
func (b Builder) Thresholds(alpha, beta float64) Builder {
	b.alpha, b.beta = alpha, beta
	return b
}

// LocalRadius sets the patron neighbourhood radius.
func (b Builder) LocalRadius(r float64) Builder {
	b.localRadius = r
	return b
}

// Seed seeds the initializer and the devouring fallback.
func (b Builder) Seed(seed int64) Builder {
	b.seed = seed
	return b
}

// Logger sets the structured logger.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	b.metrics = mc
	return b
}

// Resources charges the topology tables to rc.
func (b Builder) Resources(rc *resource.Controller) Builder {
	b.resources = rc
	return b
}

// Build creates the map over src. It scans src to compute sample
// frequencies, numeric bounds (for Gower) and initial weights.
func (b Builder) Build(ctx context.Context, src record.Source, schema *record.Schema) (*Som, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src == nil || schema == nil {
		return nil, &ConfigError{Field: "source", Reason: "source and schema are required"}
	}
	if src.RecordLen() != schema.Len() {
		return nil, &ConfigError{
			Field:  "schema",
			Reason: fmt.Sprintf("%d columns, source records have %d", schema.Len(), src.RecordLen()),
		}
	}

	topo, err := topology.New(b.kind, b.width, b.height, b.metric, topology.WithResourceController(b.resources))
	if err != nil {
		return nil, err
	}
	built := false
	defer func() {
		if !built {
			_ = topo.Close()
		}
	}()
	n := topo.Len()

	learning := b.learningFn
	if learning == nil {
		if learning, err = schedule.LearningByName(b.learning, b.horizon); err != nil {
			return nil, &ConfigError{Field: "learning", Reason: err.Error()}
		}
	}
	neighborhood := b.neighborFn
	if neighborhood == nil {
		if neighborhood, err = schedule.NeighborhoodByName(b.neighborhood, b.horizon, n); err != nil {
			return nil, &ConfigError{Field: "neighborhood", Reason: err.Error()}
		}
	}

	dist := b.distance
	if dist == nil {
		var bounds []record.Bounds
		if b.metricKind == distance.MetricGower {
			if bounds, err = record.NumericBounds(src, schema); err != nil {
				return nil, dataAccess("bounds", err)
			}
		}
		if dist, err = distance.Provider(b.metricKind, schema, bounds); err != nil {
			return nil, &ConfigError{Field: "distance", Reason: err.Error()}
		}
	}

	freqs, err := record.ComputeFrequencies(src, schema)
	if err != nil {
		return nil, dataAccess("frequencies", err)
	}

	gen := b.initializer
	if gen == nil {
		switch b.initKind {
		case RandomRecords:
			gen = initializer.NewRandomRecords(src, b.seed)
		case RandomWeights:
			gen = initializer.NewRandomWeights(src, schema, b.seed)
		default:
			return nil, &ConfigError{Field: "initializer", Reason: fmt.Sprintf("unknown kind %d", b.initKind)}
		}
	}
	weights, err := gen.Weights(n)
	if err != nil {
		if errors.Is(err, ErrEmptySource) {
			return nil, ErrEmptySource
		}
		return nil, dataAccess("initialize", err)
	}
	if len(weights) != n {
		return nil, &ConfigError{Field: "initializer", Reason: fmt.Sprintf("%d weight vectors for %d neurons", len(weights), n)}
	}

	positions := topo.Positions()
	neurons := make([]*neuron.Neuron, n)
	for i, p := range positions {
		neurons[i] = neuron.New(p, weights[i], schema, freqs, b.policy)
	}

	cfg := Config{
		Distance:     dist,
		Learning:     learning,
		Neighborhood: neighborhood,
		Alpha:        b.alpha,
		Beta:         b.beta,
		LocalRadius:  b.localRadius,
	}
	opts := []Option{
		WithSeed(b.seed),
		WithResourceController(b.resources),
	}
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger.WithGrid(b.width, b.height)))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}
	som, err := New(topo, neurons, src, cfg, opts...)
	if err != nil {
		return nil, err
	}
	built = true
	return som, nil
}
