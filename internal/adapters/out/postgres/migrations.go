package postgres

import (
	"courierflow/internal/adapters/out/postgres/courierrepo"
	"courierflow/internal/adapters/out/postgres/orderrepo"
	"courierflow/internal/adapters/out/postgres/restaurantrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.HistoryDTO{},
		&courierrepo.CourierDTO{},
		&restaurantrepo.RatingDTO{},
	)
}
