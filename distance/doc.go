// Package distance provides record distance functions for mixed numeric and
// categorical data.
//
// A Func compares a neuron's weights with a data record. Functions are
// stateless once built and safe for concurrent use.
//
// # Supported Metrics
//
//   - MetricGower: range-normalised numeric difference and categorical
//     mismatch, averaged over the used columns (default)
//   - MetricOverlap: share of mismatching categorical columns
//   - MetricSquaredL2: squared numeric difference plus 1 per categorical
//     mismatch
//
// Missing columns are ignored by every metric.
//
// # Usage
//
//	bounds, _ := record.NumericBounds(src, schema)
//	dist, _ := distance.Provider(distance.MetricGower, schema, bounds)
//	d := dist(neuron.Weights(), rec.Values)
package distance
