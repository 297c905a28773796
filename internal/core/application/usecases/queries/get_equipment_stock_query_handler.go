package queries

import (
	"context"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetEquipmentStockQueryHandler reads the stored counters of an equipment.
// Uses a direct SQL query, the counters being a materialized projection of
// the ledger.
//
// Example:
//
//	handler := NewGetEquipmentStockQueryHandler(db)
//	stock, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown equipment within the tenant
//	}
type GetEquipmentStockQueryHandler struct {
	db *gorm.DB
}

// NewGetEquipmentStockQueryHandler creates a handler for stock snapshot queries.
func NewGetEquipmentStockQueryHandler(db *gorm.DB) GetEquipmentStockQueryHandler {
	return GetEquipmentStockQueryHandler{db: db}
}

// Handle executes the query.
// Returns ObjectNotFoundError when the equipment does not exist within the tenant.
func (h GetEquipmentStockQueryHandler) Handle(
	ctx context.Context,
	query GetEquipmentStockQuery,
) (GetEquipmentStockQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetEquipmentStockQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tenant_id,
			name,
			total_qty,
			rented_qty
		FROM equipment
		WHERE tenant_id = ? AND id = ?
	`, query.TenantID().Bytes(), query.EquipmentID().Bytes()).Rows()
	if err != nil {
		return GetEquipmentStockQueryResponse{}, errs.NewPersistenceError("get equipment stock", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetEquipmentStockQueryResponse{}, errs.NewPersistenceError("get equipment stock", err)
		}
		return GetEquipmentStockQueryResponse{}, errs.NewObjectNotFoundError("equipment", query.EquipmentID().String())
	}

	var response GetEquipmentStockQueryResponse
	var id, tenantID uuid.UUID
	if err = rows.Scan(&id, &tenantID, &response.Name, &response.TotalQty, &response.RentedQty); err != nil {
		return GetEquipmentStockQueryResponse{}, errs.NewPersistenceError("scan equipment stock", err)
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetEquipmentStockQueryResponse{}, err
	}
	if response.TenantID, err = kernel.UUIDFromBytes(tenantID[:]); err != nil {
		return GetEquipmentStockQueryResponse{}, err
	}
	response.AvailableQty = response.TotalQty - response.RentedQty

	return response, nil
}
