package sweep

import (
	"github.com/attatrol/mixedsom"
	"github.com/attatrol/mixedsom/resource"
)

// Option configures a Runner.
type Option func(*options)

type options struct {
	logger           *mixedsom.Logger
	metricsCollector mixedsom.MetricsCollector
	resources        *resource.Controller
}

// WithLogger sets the logger for sweep progress and every run's map.
func WithLogger(logger *mixedsom.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsCollector shares a metrics collector between all runs.
func WithMetricsCollector(mc mixedsom.MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithResourceController bounds concurrent runs by the controller's worker
// slots and charges every map's topology table to its memory budget.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger: mixedsom.NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
