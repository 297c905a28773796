// Package movement provides the ledger entry of the stock ledger: an immutable
// record describing one stock-changing event against an equipment catalog entry
// and, optionally, one individually tracked unit.
//
// The package includes:
//   - Type: the closed set of movement types
//   - Movement: the write-once ledger record
//
// Key business rules:
//   - Every movement carries a tenant, an equipment, a type, a non-zero quantity and an actor
//   - Acquisitions (PURCHASE, INITIAL_BALANCE) are positive, disposals (RETIREMENT, LOSS) are negative
//   - Unit-level types (rental and maintenance) always move exactly one unit
//   - CORRECTION adjusts the aggregate only and never references a unit
//   - A movement has no setters; once constructed it cannot change
package movement
