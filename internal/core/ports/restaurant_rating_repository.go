package ports

import (
	"context"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/restaurant"
)

// RestaurantRatingRepository stores the running rating of restaurants.
type RestaurantRatingRepository interface {
	// Lock creates the rating row when missing and holds its row lock until the
	// surrounding transaction ends.
	Lock(ctx context.Context, restaurantID kernel.UUID) error

	// Save inserts or replaces the rating of the restaurant.
	Save(ctx context.Context, rating *restaurant.Rating) error

	// Get returns the stored rating, or a zero rating when none was stored yet.
	Get(ctx context.Context, restaurantID kernel.UUID) (*restaurant.Rating, error)
}
