package mixedsom

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting training metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    epochs    prometheus.Counter
//	    meanError prometheus.Gauge
//	}
//
//	func (p *PrometheusCollector) RecordEpoch(epoch int, meanError float64, d time.Duration, err error) {
//	    p.epochs.Inc()
//	    p.meanError.Set(meanError)
//	}
type MetricsCollector interface {
	// RecordEpoch is called after each LearnEpoch.
	// meanError is the mean BMU distance, err is nil if successful.
	RecordEpoch(epoch int, meanError float64, duration time.Duration, err error)

	// RecordReallocation is called after each devouring pass.
	RecordReallocation(r Reallocation)

	// RecordQuery is called after each BMU lookup outside training.
	RecordQuery(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEpoch(int, float64, time.Duration, error) {}
func (NoopMetricsCollector) RecordReallocation(Reallocation)                {}
func (NoopMetricsCollector) RecordQuery(time.Duration, error)               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EpochCount      atomic.Int64
	EpochErrors     atomic.Int64
	EpochTotalNanos atomic.Int64
	LastEpoch       atomic.Int64
	lastMeanError   atomic.Value // float64

	Reallocations atomic.Int64
	Swaps         atomic.Int64
	Reseeded      atomic.Int64
	Fallbacks     atomic.Int64

	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryTotalNanos atomic.Int64
}

// RecordEpoch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEpoch(epoch int, meanError float64, duration time.Duration, err error) {
	b.EpochCount.Add(1)
	b.EpochTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EpochErrors.Add(1)
		return
	}
	b.LastEpoch.Store(int64(epoch))
	b.lastMeanError.Store(meanError)
}

// RecordReallocation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReallocation(r Reallocation) {
	if r.Pairs == 0 {
		return
	}
	b.Reallocations.Add(1)
	b.Swaps.Add(int64(r.Swaps))
	b.Reseeded.Add(int64(r.Reseeded))
	b.Fallbacks.Add(int64(r.Fallbacks))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	meanError, _ := b.lastMeanError.Load().(float64)
	return BasicMetricsStats{
		EpochCount:    b.EpochCount.Load(),
		EpochErrors:   b.EpochErrors.Load(),
		EpochAvgNanos: avg(b.EpochTotalNanos.Load(), b.EpochCount.Load()),
		LastEpoch:     b.LastEpoch.Load(),
		LastMeanError: meanError,
		Reallocations: b.Reallocations.Load(),
		Swaps:         b.Swaps.Load(),
		Reseeded:      b.Reseeded.Load(),
		Fallbacks:     b.Fallbacks.Load(),
		QueryCount:    b.QueryCount.Load(),
		QueryErrors:   b.QueryErrors.Load(),
		QueryAvgNanos: avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EpochCount    int64
	EpochErrors   int64
	EpochAvgNanos int64
	LastEpoch     int64
	LastMeanError float64
	Reallocations int64
	Swaps         int64
	Reseeded      int64
	Fallbacks     int64
	QueryCount    int64
	QueryErrors   int64
	QueryAvgNanos int64
}
