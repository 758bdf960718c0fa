package services

import (
	"courierflow/internal/core/domain/model/courier"
	"courierflow/internal/core/domain/model/restaurant"

	"github.com/shopspring/decimal"
)

// RatingAggregator turns the full set of stored star ratings of a target into its
// running average: the arithmetic mean rounded to one decimal, clamped into the
// target's range.
type RatingAggregator struct{}

func NewRatingAggregator() RatingAggregator {
	return RatingAggregator{}
}

// CourierAverage returns the mean clamped into [1, 5], or 5 when stars is empty.
func (RatingAggregator) CourierAverage(stars []int) decimal.Decimal {
	return average(stars, courier.DefaultRating, decimal.NewFromInt(1), decimal.NewFromInt(5))
}

// RestaurantAverage returns the mean clamped into [0, 5], or 0 when stars is empty.
func (RatingAggregator) RestaurantAverage(stars []int) decimal.Decimal {
	return average(stars, restaurant.DefaultRating, decimal.Zero, decimal.NewFromInt(5))
}

func average(stars []int, fallback, lo, hi decimal.Decimal) decimal.Decimal {
	if len(stars) == 0 {
		return fallback
	}
	var sum int64
	for _, s := range stars {
		sum += int64(s)
	}
	mean := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(stars)))).Round(1)
	return decimal.Max(lo, decimal.Min(hi, mean))
}
