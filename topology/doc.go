// Package topology lays neurons out on a rectangular grid and precomputes
// the distance between every pair of grid positions.
//
// Two layouts are provided:
//
//   - NewRectangle: a flat grid with borders
//   - NewToroidal: a borderless grid whose first and last rows/columns are
//     adjacent (per-axis distance is min(|d|, span-|d|))
//
// # Canonical Order
//
// Positions enumerates the grid x-major: x outer, y inner, so the slot of
// (x, y) is x*height + y. Every other component indexes neurons by this
// slot number.
//
// # Memory
//
// Distances are computed eagerly for all (W*H)^2 ordered pairs and kept for
// the topology's lifetime so that every lookup is O(1). Memory therefore
// grows with the square of the neuron count; use WithResourceController to
// charge the tables against a budget.
package topology
