package queries

import (
	"context"

	"courierflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetAllCouriersQueryHandler reads the couriers table directly, bypassing the aggregate.
type GetAllCouriersQueryHandler struct {
	db *gorm.DB
}

func NewGetAllCouriersQueryHandler(db *gorm.DB) GetAllCouriersQueryHandler {
	return GetAllCouriersQueryHandler{db: db}
}

type courierRow struct {
	ID     uuid.UUID
	Name   string
	Rating decimal.Decimal
}

// Handle returns every courier ordered by name. An empty table yields an empty slice.
func (h GetAllCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetAllCouriersQuery,
) ([]GetAllCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var rows []courierRow
	err := h.db.WithContext(ctx).
		Table("couriers").
		Select("id", "name", "rating").
		Order("name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	couriers := make([]GetAllCouriersQueryResponse, 0, len(rows))
	for _, row := range rows {
		id, err := kernel.UUIDFromBytes(row.ID[:])
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, GetAllCouriersQueryResponse{ID: id, Name: row.Name, Rating: row.Rating})
	}
	return couriers, nil
}
