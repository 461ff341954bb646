// Package neuron implements the weight model of a map cell over mixed
// numeric and categorical columns.
//
// Each column type updates differently:
//
//   - Float columns move toward the sample by magnitude*(sample-weight).
//   - Integer columns accumulate the same fractional step and carry whole
//     units into the weight once the accumulator leaves [0, 1].
//   - Categorical columns keep a "power" per observed category. The update
//     Policy decides how much power a category gains; the category with the
//     highest power is the displayed weight.
//
// The displayed category is sticky: it always refreshes its own best power,
// and a challenger replaces it only with strictly greater power.
//
// A Neuron's position is fixed at construction. Swap exchanges everything
// else, which is how the training engine relocates learned content across
// the grid.
package neuron
