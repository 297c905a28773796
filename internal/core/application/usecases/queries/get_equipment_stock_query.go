// Package queries contains read operations for retrieving stock state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models for specific use cases and never write.
package queries

import (
	"errors"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/pkg/errs"
	"stockledger/internal/pkg/guard"
)

var (
	ErrGetEquipmentStockQueryIsNotConstructed = errors.New(
		"GetEquipmentStockQuery must be created via NewGetEquipmentStockQuery constructor",
	)
)

// GetEquipmentStockQuery retrieves the current counters of one equipment.
//
// Example:
//
//	query, err := NewGetEquipmentStockQuery(tenantID, equipmentID)
//	if err != nil {
//	    return err
//	}
//	stock, err := handler.Handle(ctx, query)
//	fmt.Printf("%d of %d available\n", stock.AvailableQty, stock.TotalQty)
type GetEquipmentStockQuery struct {
	tenantID    kernel.UUID
	equipmentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetEquipmentStockQuery creates a stock snapshot query.
func NewGetEquipmentStockQuery(tenantID kernel.UUID, equipmentID kernel.UUID) (GetEquipmentStockQuery, error) {
	if err := validateScope(tenantID, equipmentID); err != nil {
		return GetEquipmentStockQuery{}, err
	}
	return GetEquipmentStockQuery{
		tenantID:    tenantID,
		equipmentID: equipmentID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetEquipmentStockQuery) Validate() error {
	return q.guard.Validate(ErrGetEquipmentStockQueryIsNotConstructed)
}

func (q GetEquipmentStockQuery) TenantID() kernel.UUID {
	return q.tenantID
}

func (q GetEquipmentStockQuery) EquipmentID() kernel.UUID {
	return q.equipmentID
}

// GetEquipmentStockQueryResponse is the stock snapshot read model.
// AvailableQty is always TotalQty - RentedQty.
type GetEquipmentStockQueryResponse struct {
	ID           kernel.UUID
	TenantID     kernel.UUID
	Name         string
	TotalQty     int
	RentedQty    int
	AvailableQty int
}

// validateScope checks the tenant and equipment identifiers shared by every
// equipment-scoped query.
func validateScope(tenantID kernel.UUID, equipmentID kernel.UUID) error {
	var validationErrs []error
	if err := tenantID.Validate(); err != nil {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredErrorWithCause("tenantId", err))
	}
	if err := equipmentID.Validate(); err != nil {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredErrorWithCause("equipmentId", err))
	}
	return errors.Join(validationErrs...)
}
