package ports

import (
	"context"
	"iter"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/movement"
)

// MovementRepository is the movement ledger. Records are write-once: the
// contract has no update or delete.
type MovementRepository interface {
	// Append writes one ledger record and returns its identifier.
	// A storage failure is reported as PersistenceError; the caller must not
	// assume partial success.
	Append(ctx context.Context, record *movement.Movement) (kernel.UUID, error)

	// ListHistory returns the movements of an equipment, newest first.
	//
	// The sequence is lazy: rows are fetched in pages as it is ranged over.
	// It is restartable: every range starts again from the newest record.
	// Ranging stops at the first error, which is yielded with a nil movement.
	ListHistory(ctx context.Context, tenantID kernel.UUID, equipmentID kernel.UUID) iter.Seq2[*movement.Movement, error]
}
