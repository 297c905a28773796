// Package services provides domain services of the stock ledger that work across
// several aggregates or need collaborators the aggregates do not own.
//
// The package includes:
//   - CodeGenerator: derives the next human-readable unit code under a prefix
//   - LedgerReconciler: replays movement history and compares it with stored counters and unit statuses
package services
