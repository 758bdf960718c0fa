package ports

import (
	"context"
	"time"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates and their
// audit trail.
type OrderRepository interface {
	// Add persists a new order. The order must be valid and not exist yet.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order and appends its unsaved history entries atomically.
	// The write is conditioned on the stored row still having the status and version
	// the order was loaded with; a mismatch yields an errs.ConflictError wrapping
	// errs.VersionIsInvalidError and nothing is written.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its full history. Missing orders yield
	// errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListExpiredUnpaid returns the ids of pending orders whose payment is not
	// confirmed and that were created before cutoff, oldest first.
	ListExpiredUnpaid(ctx context.Context, cutoff time.Time, limit int) ([]kernel.UUID, error)

	// CourierRatings returns the stars of every rating given to the courier.
	CourierRatings(ctx context.Context, courierID kernel.UUID) ([]int, error)

	// RestaurantRatings returns the stars of every rating given to the restaurant.
	RestaurantRatings(ctx context.Context, restaurantID kernel.UUID) ([]int, error)
}
