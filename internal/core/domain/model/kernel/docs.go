// Package kernel provides the shared primitives of the stock ledger domain:
// identifiers and the clock used to timestamp movements.
//
// The package includes:
//   - UUID: an identifier value object whose zero value is invalid
//   - Clock: an injectable time source
//
// Tenants, equipment, units and movements are all identified by UUID. Tenant
// scoping is expressed by carrying the tenant UUID alongside every other ID
// rather than by a dedicated type.
package kernel
