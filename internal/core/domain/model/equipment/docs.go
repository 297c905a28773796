// Package equipment provides the catalog aggregate of the stock ledger. An
// Equipment holds the aggregate counters of one class of rentable item: how many
// units the tenant owns (totalQty) and how many are currently checked out
// (rentedQty).
//
// Counters only change through a CounterDelta derived from a movement with
// DeltaFor. Every change keeps 0 <= rentedQty <= totalQty.
package equipment
