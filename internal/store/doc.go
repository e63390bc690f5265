// Package store provides SQLite-backed storage for run cutflows.
//
// The store keeps one row per run, one row per selector of that run
// (resolved configuration, its content hash and the accumulator counters)
// and the labelled bins of both cutflow histograms.
//
// # Critical Patterns
//
// Runs Are Immutable:
//   - a run id is written once; writing it again fails with ErrRunExists
//   - a run is written in a single transaction, so readers never see a
//     run without its bins
//
// Deterministic Query Results:
//   - runs are listed by seq, selectors by position, bins by bin index
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
