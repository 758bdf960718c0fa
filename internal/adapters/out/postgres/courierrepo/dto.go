package courierrepo

import (
	"courierflow/internal/core/domain/model/courier"
	"courierflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CourierDTO represents the database structure for courier persistence.
type CourierDTO struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name   string          `gorm:"type:varchar(255);not null"`
	Rating decimal.Decimal `gorm:"type:numeric(2,1);not null"`
}

func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(c *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:     c.ID().Bytes(),
		Name:   c.Name(),
		Rating: c.Rating(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(id, dto.Name, dto.Rating)
}
