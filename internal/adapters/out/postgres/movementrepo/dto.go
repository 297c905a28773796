// Package movementrepo persists the append-only movement ledger.
//
// Rows carry a database sequence next to their UUID. The sequence gives the
// ledger a total order within an equipment that does not depend on clock
// resolution, and it is the cursor for paging through history.
package movementrepo

import (
	"time"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/movement"

	"github.com/google/uuid"
)

// MovementDTO represents one ledger record.
type MovementDTO struct {
	Seq                 int64      `gorm:"primaryKey;autoIncrement"`
	ID                  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_movements_id"`
	TenantID            uuid.UUID  `gorm:"type:uuid;not null;index:idx_movements_history,priority:1"`
	EquipmentID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_movements_history,priority:2"`
	UnitID              *uuid.UUID `gorm:"type:uuid;index:idx_movements_unit"`
	Type                string     `gorm:"type:varchar(32);not null"`
	Quantity            int        `gorm:"type:int;not null"`
	Reason              string     `gorm:"type:varchar(1024);not null;default:''"`
	ActorID             string     `gorm:"type:varchar(255);not null"`
	LinkedRentalID      string     `gorm:"type:varchar(255);not null;default:''"`
	LinkedMaintenanceID string     `gorm:"type:varchar(255);not null;default:''"`
	OccurredAt          time.Time  `gorm:"not null"`
}

// TableName specifies the database table name for ledger records.
func (MovementDTO) TableName() string {
	return "stock_movements"
}

func fromDomain(record *movement.Movement) MovementDTO {
	var unitID *uuid.UUID
	if record.UnitID() != nil {
		raw := record.UnitID().Bytes()
		unitID = &raw
	}

	return MovementDTO{
		ID:                  record.ID().Bytes(),
		TenantID:            record.TenantID().Bytes(),
		EquipmentID:         record.EquipmentID().Bytes(),
		UnitID:              unitID,
		Type:                record.Type().String(),
		Quantity:            record.Quantity(),
		Reason:              record.Reason(),
		ActorID:             record.ActorID(),
		LinkedRentalID:      record.LinkedRentalID(),
		LinkedMaintenanceID: record.LinkedMaintenanceID(),
		OccurredAt:          record.OccurredAt().UTC(),
	}
}

func toDomain(dto MovementDTO) (*movement.Movement, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}
	equipmentID, err := kernel.UUIDFromBytes(dto.EquipmentID[:])
	if err != nil {
		return nil, err
	}

	var unitID *kernel.UUID
	if dto.UnitID != nil {
		uID, unitErr := kernel.UUIDFromBytes((*dto.UnitID)[:])
		if unitErr != nil {
			return nil, unitErr
		}
		unitID = &uID
	}

	return movement.RestoreMovement(
		id,
		tenantID,
		equipmentID,
		movement.Type(dto.Type),
		dto.Quantity,
		dto.ActorID,
		dto.OccurredAt.UTC(),
		movement.Details{
			UnitID:              unitID,
			Reason:              dto.Reason,
			LinkedRentalID:      dto.LinkedRentalID,
			LinkedMaintenanceID: dto.LinkedMaintenanceID,
		},
	)
}
