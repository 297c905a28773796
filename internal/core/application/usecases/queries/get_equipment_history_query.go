package queries

import (
	"errors"
	"math"
	"time"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/pkg/errs"
	"stockledger/internal/pkg/guard"
)

var (
	ErrGetEquipmentHistoryQueryIsNotConstructed = errors.New(
		"GetEquipmentHistoryQuery must be created via NewGetEquipmentHistoryQuery constructor",
	)
)

// GetEquipmentHistoryQuery retrieves the movement history of an equipment,
// newest first.
type GetEquipmentHistoryQuery struct {
	tenantID    kernel.UUID
	equipmentID kernel.UUID
	limit       int

	guard guard.ConstructorGuard
}

// NewGetEquipmentHistoryQuery creates a history query.
// limit caps the number of movements returned; zero means no cap.
func NewGetEquipmentHistoryQuery(
	tenantID kernel.UUID,
	equipmentID kernel.UUID,
	limit int,
) (GetEquipmentHistoryQuery, error) {
	err := validateScope(tenantID, equipmentID)
	if limit < 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("limit", limit, 0, math.MaxInt32))
	}
	if err != nil {
		return GetEquipmentHistoryQuery{}, err
	}

	return GetEquipmentHistoryQuery{
		tenantID:    tenantID,
		equipmentID: equipmentID,
		limit:       limit,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q GetEquipmentHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetEquipmentHistoryQueryIsNotConstructed)
}

func (q GetEquipmentHistoryQuery) TenantID() kernel.UUID {
	return q.tenantID
}

func (q GetEquipmentHistoryQuery) EquipmentID() kernel.UUID {
	return q.equipmentID
}

func (q GetEquipmentHistoryQuery) Limit() int {
	return q.limit
}

// GetEquipmentHistoryQueryResponse is one movement of the history read model.
type GetEquipmentHistoryQueryResponse struct {
	ID                  kernel.UUID
	EquipmentID         kernel.UUID
	UnitID              *kernel.UUID
	Type                string
	Quantity            int
	Reason              string
	ActorID             string
	LinkedRentalID      string
	LinkedMaintenanceID string
	OccurredAt          time.Time
}
