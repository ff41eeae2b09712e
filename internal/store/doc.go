// Package store provides SQLite-backed durable storage for batch run
// ledgers.
//
// The ledger is an append-only log with two tables:
//   - Runs: one row per batch run (totals, timing, input directory)
//   - Results: one row per compiled file, keyed by run ID plus
//     discovery position
//
// Rows are never updated. Re-recording a run ID is a silent no-op via
// ON CONFLICT DO NOTHING, so retried CLI invocations cannot duplicate
// or mutate history. Result reads always ORDER BY seq so a run reads
// back in the exact order the runner produced it; run listings ORDER BY
// started_at, then id COLLATE BINARY, so output is stable even when two
// runs share a timestamp.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Spec fingerprints stored in the results table are computed by
// internal/spec using canonical JSON and SHA-256 with domain
// separation, so the same logical spec always maps to the same ledger
// fingerprint.
package store
