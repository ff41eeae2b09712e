// Package batch runs the compiler across a directory of query specs.
//
// A run discovers spec files, compiles each on a bounded worker pool,
// and collects per-file results in discovery order. Compilation
// failures are recorded on the result rather than aborting the run, so
// one bad file never hides the queries of its neighbors.
//
// Results are position-indexed: result i always belongs to file i of
// the discovery order, regardless of which worker finished first. The
// same input directory therefore produces the same report and the same
// ledger rows on every run.
package batch
