// Package testutil provides testing utilities for mixedsom.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	src, schema := rng.MixedDataset(300, 3)   // 3 well-separated groups
//	src, schema := rng.SkewedDataset(500, 8, 1.5)
//
// # Failure Injection
//
//	src := &testutil.FailingSource{Source: inner, FailAfter: 10, Err: io.ErrUnexpectedEOF}
package testutil
