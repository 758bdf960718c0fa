// Package restaurant holds the rating projection of a restaurant. Restaurants
// themselves are managed elsewhere; this service only tracks how customers rate them.
package restaurant

import (
	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// DefaultRating is the rating of a restaurant nobody has rated yet.
	DefaultRating = decimal.Zero
	maxRating     = decimal.NewFromInt(5)
)

// Rating is the running average rating of one restaurant.
type Rating struct {
	restaurantID kernel.UUID
	average      decimal.Decimal
	count        int
}

// NewRating validates and builds a projection. average is rounded to one decimal and
// must lie within [0, 5].
func NewRating(restaurantID kernel.UUID, average decimal.Decimal, count int) (*Rating, error) {
	if err := restaurantID.Validate(); err != nil {
		return nil, err
	}
	average = average.Round(1)
	if average.IsNegative() || average.GreaterThan(maxRating) {
		return nil, errs.NewValueIsOutOfRangeError("restaurant rating", average.String(), 0, 5)
	}
	if count < 0 {
		return nil, errs.NewValueIsOutOfRangeError("rating count", count, 0, "unbounded")
	}
	return &Rating{restaurantID: restaurantID, average: average, count: count}, nil
}

func (r *Rating) RestaurantID() kernel.UUID { return r.restaurantID }
func (r *Rating) Average() decimal.Decimal  { return r.average }
func (r *Rating) Count() int                { return r.count }
