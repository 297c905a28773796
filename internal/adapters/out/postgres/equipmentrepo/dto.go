// Package equipmentrepo persists the equipment catalog and its stock counters.
package equipmentrepo

import (
	"time"

	"stockledger/internal/core/domain/model/equipment"
	"stockledger/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EquipmentDTO represents a catalog row. The counters are the materialized
// projection of the movement ledger.
type EquipmentDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index:idx_equipment_tenant"`
	Name      string    `gorm:"type:varchar(255);not null"`
	TotalQty  int       `gorm:"type:int;not null;default:0;check:chk_equipment_total,total_qty >= 0"`
	RentedQty int       `gorm:"type:int;not null;default:0;check:chk_equipment_rented,rented_qty >= 0 AND rented_qty <= total_qty"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for equipment rows.
func (EquipmentDTO) TableName() string {
	return "equipment"
}

func fromDomain(aggregate *equipment.Equipment) EquipmentDTO {
	return EquipmentDTO{
		ID:        aggregate.ID().Bytes(),
		TenantID:  aggregate.TenantID().Bytes(),
		Name:      aggregate.Name(),
		TotalQty:  aggregate.TotalQty(),
		RentedQty: aggregate.RentedQty(),
	}
}

func toDomain(dto EquipmentDTO) (*equipment.Equipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}
	return equipment.RestoreEquipment(id, tenantID, dto.Name, dto.TotalQty, dto.RentedQty)
}
