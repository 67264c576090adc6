// Package compare orchestrates pairwise receptor comparisons.
//
// The comparer owns the cache-first discipline: every pair is looked up under
// both name orderings before the scorer runs, and fresh results are persisted
// the moment they exist. Rows are produced either sequentially or through a
// bounded errgroup pool; in both cases a row's scores land at their target's
// submission index, so the two strategies return identical matrices for the
// same inputs.
//
// Failures never abort a row. A pair that exhausted its scorer attempts
// contributes the sentinel score and a Failed outcome, and the run carries
// on; only context cancellation stops iteration early.
package compare
