// Package resource governs resources shared by several maps in one process.
//
// The Controller manages three resource types:
//
//   - Memory: budget for topology distance tables (non-blocking, fail-fast)
//   - Workers: limit on maps trained at the same time (sweeps)
//   - Scans: token bucket pacing records handed out by throttled sources
//
// # Memory
//
// Topology tables grow with the square of the neuron count. Reserving them
// against a budget turns an oversized grid into an error instead of an
// out-of-memory crash:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 256 << 20,
//	})
//	grid, err := topology.NewRectangle(80, 80, metric.Euclidean,
//	    topology.WithResourceController(rc))
//	// errors.Is(err, resource.ErrMemoryLimitExceeded)
//
// # Workers
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
