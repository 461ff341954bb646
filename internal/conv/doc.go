// Package conv provides checked integer conversions between the engine's
// native index types and the fixed-width keys of Roaring bitmaps.
//
// Neuron slots are ints and are stored in 32-bit bitmaps; record indices are
// int64 and are stored in 64-bit bitmaps. Conversions that are provably safe
// by construction (slots below an already-validated map size) may use direct
// casts instead.
package conv
