package mixedsom

import (
	"log/slog"

	"github.com/attatrol/mixedsom/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	seed             int64
	resources        *resource.Controller
}

// Option configures map construction.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring training.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &mixedsom.BasicMetricsCollector{}
//	som, _ := mixedsom.New(grid, neurons, src, cfg, mixedsom.WithMetricsCollector(metrics))
//	// ... train ...
//	stats := metrics.GetStats()
//	fmt.Printf("Epochs: %d, last error: %.4f\n", stats.EpochCount, stats.LastMeanError)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := mixedsom.NewJSONLogger(slog.LevelInfo)
//	som, _ := mixedsom.New(grid, neurons, src, cfg, mixedsom.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithSeed seeds the random source used when a weak neuron has to be
// revived from a random record.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithResourceController shares a resource controller with the map.
// The builder charges topology tables to it.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		seed:             1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
