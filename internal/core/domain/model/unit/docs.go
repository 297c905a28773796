// Package unit provides the individually tracked physical unit of an equipment
// class and its lifecycle state machine.
//
// State transitions (only movements that reference a unit drive them):
//
//	AVAILABLE ──RENTAL_OUT──────> RENTED ──RENTAL_IN──────> AVAILABLE
//	AVAILABLE ──MAINTENANCE_OUT─> MAINTENANCE ──MAINTENANCE_IN─> AVAILABLE
//	any non-terminal ──RETIREMENT─> RETIRED (terminal)
//	any non-terminal ──LOSS───────> LOST (terminal)
//
// Units are registered AVAILABLE with a code that is unique per tenant.
package unit
