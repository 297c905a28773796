package queries

import (
	"context"
	"iter"

	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/core/ports"
)

// GetEquipmentHistoryQueryHandler streams the ledger of an equipment.
//
// Handle first checks that the equipment exists so an unknown equipment is
// reported as ObjectNotFoundError rather than an empty history. The returned
// sequence is lazy and reads the ledger page by page as it is ranged over.
//
// Example:
//
//	history, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	for item, err := range history {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(item.Type, item.Quantity)
//	}
type GetEquipmentHistoryQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetEquipmentHistoryQueryHandler(uowFactory ports.UnitOfWorkFactory) GetEquipmentHistoryQueryHandler {
	return GetEquipmentHistoryQueryHandler{uowFactory: uowFactory}
}

func (h GetEquipmentHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetEquipmentHistoryQuery,
) (iter.Seq2[GetEquipmentHistoryQueryResponse, error], error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if _, err := uow.EquipmentRepository().Get(ctx, query.TenantID(), query.EquipmentID()); err != nil {
		return nil, err
	}

	records := uow.MovementRepository().ListHistory(ctx, query.TenantID(), query.EquipmentID())
	limit := query.Limit()

	return func(yield func(GetEquipmentHistoryQueryResponse, error) bool) {
		emitted := 0
		for record, err := range records {
			if err != nil {
				yield(GetEquipmentHistoryQueryResponse{}, err)
				return
			}
			if !yield(toHistoryResponse(record), nil) {
				return
			}
			emitted++
			if limit > 0 && emitted >= limit {
				return
			}
		}
	}, nil
}

func toHistoryResponse(record *movement.Movement) GetEquipmentHistoryQueryResponse {
	return GetEquipmentHistoryQueryResponse{
		ID:                  record.ID(),
		EquipmentID:         record.EquipmentID(),
		UnitID:              record.UnitID(),
		Type:                record.Type().String(),
		Quantity:            record.Quantity(),
		Reason:              record.Reason(),
		ActorID:             record.ActorID(),
		LinkedRentalID:      record.LinkedRentalID(),
		LinkedMaintenanceID: record.LinkedMaintenanceID(),
		OccurredAt:          record.OccurredAt(),
	}
}
