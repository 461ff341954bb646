// Package sweep runs training experiments over a grid of map parameters.
//
// A sweep trains one map per combination of square map size, beta threshold
// and replay, each over its own cursor of a shared in-memory source, and
// reports how the mean BMU distance evolved together with the number of dead
// neurons (neurons no record maps to).
//
// Runs are independent and execute concurrently. With a resource.Controller
// the number of concurrent runs is bounded by its worker slots and the
// topology tables of all live maps are charged to its memory budget.
//
// # Usage
//
//	runner := sweep.NewRunner(mixedsom.Grid(1, 1).Toroidal(), sweep.DefaultConfig(),
//	    sweep.WithResourceController(rc),
//	)
//	results, err := runner.Run(ctx, src, schema)
package sweep
