// Package mixedsom trains Self-Organizing Maps over records that mix numeric
// and categorical columns.
//
// A map is a grid of neurons. Every epoch scans the whole data source once;
// each record pulls its best-matching neuron (BMU) and that neuron's grid
// neighbours toward itself. Numeric weights move continuously, integer
// weights move in whole units, and categorical weights are chosen by a
// per-category "power" that grows with every update.
//
// # Quick Start
//
//	schema := record.NewSchema(
//	    record.Column{Name: "age", Type: record.Integer},
//	    record.Column{Name: "color", Type: record.Categorical},
//	)
//	src := record.NewMemorySource(schema.Len())
//	src.Append(record.IntValue(31), schema.Cat(1, "red"))
//	// ...
//
//	som, _ := mixedsom.Grid(5, 5).Horizon(200).Build(ctx, src, schema)
//	res, _ := mixedsom.Train(ctx, som, mixedsom.EpochLimit(200))
//	clusters, _ := mixedsom.ProduceClusterResult(ctx, som, src)
//
// # Devouring
//
// Neurons that win almost nothing are dead weight. At the start of every
// epoch, neurons that won at most Alpha times the median win count in the
// previous epoch are "weak", neurons that won at least Beta times the median
// are "patrons". Each patron, from the least to the most successful, claims
// the nearest weak neuron. The claimed content is walked across the grid by
// neighbour swaps into the patron's local neighbourhood and re-seeded with
// the farthest record the patron won, so it can take over part of the
// patron's territory.
//
// Thresholds(0, math.Inf(1)) (the builder default) disables devouring.
//
// # Concurrency
//
// A Som is single-threaded. Different maps may train concurrently over
// separate source cursors; see package sweep.
//
// # Cancellation
//
// Contexts are checked between epochs, never inside one.
package mixedsom
