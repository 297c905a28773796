package http

import (
	"time"

	"stockledger/internal/core/application/usecases/queries"
	"stockledger/internal/core/domain/model/equipment"
	"stockledger/internal/core/domain/model/unit"
	"stockledger/internal/core/domain/services"
)

type registerEquipmentRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type adjustStockRequest struct {
	Type                string `json:"type" validate:"required"`
	Quantity            int    `json:"quantity" validate:"required"`
	ActorID             string `json:"actorId" validate:"required,max=255"`
	UnitID              string `json:"unitId" validate:"omitempty,uuid"`
	Reason              string `json:"reason" validate:"max=1024"`
	LinkedRentalID      string `json:"linkedRentalId" validate:"max=255"`
	LinkedMaintenanceID string `json:"linkedMaintenanceId" validate:"max=255"`
}

type createUnitRequest struct {
	Code           string `json:"code" validate:"max=64"`
	Prefix         string `json:"prefix" validate:"max=32"`
	ActorID        string `json:"actorId" validate:"max=255"`
	InitialBalance bool   `json:"initialBalance"`
	SerialNumber   string `json:"serialNumber" validate:"max=1024"`
	Notes          string `json:"notes" validate:"max=1024"`
	Condition      string `json:"condition" validate:"max=1024"`
}

type stockResponse struct {
	ID           string `json:"id"`
	TenantID     string `json:"tenantId"`
	Name         string `json:"name"`
	TotalQty     int    `json:"totalQty"`
	RentedQty    int    `json:"rentedQty"`
	AvailableQty int    `json:"availableQty"`
}

func stockFromEquipment(e *equipment.Equipment) stockResponse {
	return stockResponse{
		ID:           e.ID().String(),
		TenantID:     e.TenantID().String(),
		Name:         e.Name(),
		TotalQty:     e.TotalQty(),
		RentedQty:    e.RentedQty(),
		AvailableQty: e.AvailableQty(),
	}
}

func stockFromQuery(r queries.GetEquipmentStockQueryResponse) stockResponse {
	return stockResponse{
		ID:           r.ID.String(),
		TenantID:     r.TenantID.String(),
		Name:         r.Name,
		TotalQty:     r.TotalQty,
		RentedQty:    r.RentedQty,
		AvailableQty: r.AvailableQty,
	}
}

type movementResponse struct {
	ID                  string    `json:"id"`
	EquipmentID         string    `json:"equipmentId"`
	UnitID              *string   `json:"unitId,omitempty"`
	Type                string    `json:"type"`
	Quantity            int       `json:"quantity"`
	Reason              string    `json:"reason,omitempty"`
	ActorID             string    `json:"actorId"`
	LinkedRentalID      string    `json:"linkedRentalId,omitempty"`
	LinkedMaintenanceID string    `json:"linkedMaintenanceId,omitempty"`
	OccurredAt          time.Time `json:"occurredAt"`
}

func movementFromQuery(r queries.GetEquipmentHistoryQueryResponse) movementResponse {
	var unitID *string
	if r.UnitID != nil {
		id := r.UnitID.String()
		unitID = &id
	}
	return movementResponse{
		ID:                  r.ID.String(),
		EquipmentID:         r.EquipmentID.String(),
		UnitID:              unitID,
		Type:                r.Type,
		Quantity:            r.Quantity,
		Reason:              r.Reason,
		ActorID:             r.ActorID,
		LinkedRentalID:      r.LinkedRentalID,
		LinkedMaintenanceID: r.LinkedMaintenanceID,
		OccurredAt:          r.OccurredAt,
	}
}

type unitResponse struct {
	ID           string `json:"id"`
	EquipmentID  string `json:"equipmentId"`
	Code         string `json:"code"`
	Status       string `json:"status"`
	SerialNumber string `json:"serialNumber,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Condition    string `json:"condition,omitempty"`
}

func unitFromDomain(u *unit.Unit) unitResponse {
	return unitResponse{
		ID:           u.ID().String(),
		EquipmentID:  u.EquipmentID().String(),
		Code:         u.Code(),
		Status:       string(u.Status()),
		SerialNumber: u.SerialNumber(),
		Notes:        u.Notes(),
		Condition:    u.Condition(),
	}
}

type unitMismatchResponse struct {
	UnitID  string `json:"unitId"`
	Code    string `json:"code"`
	Stored  string `json:"stored"`
	Derived string `json:"derived"`
}

type reconciliationResponse struct {
	EquipmentID       string                 `json:"equipmentId"`
	Consistent        bool                   `json:"consistent"`
	StoredTotal       int                    `json:"storedTotal"`
	DerivedTotal      int                    `json:"derivedTotal"`
	StoredRented      int                    `json:"storedRented"`
	DerivedRented     int                    `json:"derivedRented"`
	MovementsReplayed int                    `json:"movementsReplayed"`
	UnitMismatches    []unitMismatchResponse `json:"unitMismatches"`
}

func reconciliationFromReport(r *services.ReconciliationReport) reconciliationResponse {
	mismatches := make([]unitMismatchResponse, len(r.UnitMismatches))
	for i, m := range r.UnitMismatches {
		mismatches[i] = unitMismatchResponse{
			UnitID:  m.UnitID.String(),
			Code:    m.Code,
			Stored:  string(m.Stored),
			Derived: string(m.Derived),
		}
	}
	return reconciliationResponse{
		EquipmentID:       r.EquipmentID.String(),
		Consistent:        r.Consistent(),
		StoredTotal:       r.StoredTotal,
		DerivedTotal:      r.DerivedTotal,
		StoredRented:      r.StoredRented,
		DerivedRented:     r.DerivedRented,
		MovementsReplayed: r.MovementsReplayed,
		UnitMismatches:    mismatches,
	}
}

type nextCodeResponse struct {
	Prefix string `json:"prefix"`
	Code   string `json:"code"`
}
