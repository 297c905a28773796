// Package unitrepo persists individually tracked equipment units.
package unitrepo

import (
	"time"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/unit"

	"github.com/google/uuid"
)

// UnitDTO represents a unit row. Codes are unique per tenant.
type UnitDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_units_tenant_code,priority:1"`
	EquipmentID  uuid.UUID `gorm:"type:uuid;not null;index:idx_units_equipment"`
	Code         string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_units_tenant_code,priority:2"`
	SerialNumber string    `gorm:"type:varchar(1024);not null;default:''"`
	Notes        string    `gorm:"type:varchar(1024);not null;default:''"`
	Condition    string    `gorm:"type:varchar(1024);not null;default:''"`
	Status       string    `gorm:"type:varchar(16);not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the database table name for unit rows.
func (UnitDTO) TableName() string {
	return "units"
}

func fromDomain(aggregate *unit.Unit) UnitDTO {
	return UnitDTO{
		ID:           aggregate.ID().Bytes(),
		TenantID:     aggregate.TenantID().Bytes(),
		EquipmentID:  aggregate.EquipmentID().Bytes(),
		Code:         aggregate.Code(),
		SerialNumber: aggregate.SerialNumber(),
		Notes:        aggregate.Notes(),
		Condition:    aggregate.Condition(),
		Status:       aggregate.Status().String(),
	}
}

func toDomain(dto UnitDTO) (*unit.Unit, error) {
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
	status, err := unit.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return unit.RestoreUnit(
		id,
		tenantID,
		equipmentID,
		dto.Code,
		unit.Attributes{
			SerialNumber: dto.SerialNumber,
			Notes:        dto.Notes,
			Condition:    dto.Condition,
		},
		status,
	)
}
