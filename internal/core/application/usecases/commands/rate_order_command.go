package commands

import (
	"errors"
	"time"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/pkg/errs"
	"courierflow/internal/pkg/guard"
)

var ErrRateOrderCommandIsNotConstructed = errors.New(
	"RateOrderCommand must be created via NewRateOrderCommand constructor",
)

// RatingInput is one requested rating. A nil *RatingInput means "not rated".
type RatingInput struct {
	Stars   int
	Comment string
}

// RateOrderCommand carries the customer's ratings of the courier and/or restaurant.
type RateOrderCommand struct {
	actor      kernel.Actor
	orderID    kernel.UUID
	courier    *RatingInput
	restaurant *RatingInput

	guard guard.ConstructorGuard
}

// NewRateOrderCommand checks at least one rating is present and each is well-formed.
func NewRateOrderCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	courier, restaurant *RatingInput,
) (RateOrderCommand, error) {
	problems := []error{actor.Validate(), orderID.Validate()}
	if courier == nil && restaurant == nil {
		problems = append(problems, errs.NewValueIsRequiredError("rating"))
	}
	if courier != nil {
		if _, err := order.NewRating(courier.Stars, courier.Comment, time.Time{}); err != nil {
			problems = append(problems, err)
		}
	}
	if restaurant != nil {
		if _, err := order.NewRating(restaurant.Stars, restaurant.Comment, time.Time{}); err != nil {
			problems = append(problems, err)
		}
	}
	if err := errors.Join(problems...); err != nil {
		return RateOrderCommand{}, err
	}

	return RateOrderCommand{
		actor:      actor,
		orderID:    orderID,
		courier:    courier,
		restaurant: restaurant,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RateOrderCommand) Validate() error {
	return c.guard.Validate(ErrRateOrderCommandIsNotConstructed)
}

func (c RateOrderCommand) Actor() kernel.Actor  { return c.actor }
func (c RateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// ratings builds the domain ratings stamped with at.
func (c RateOrderCommand) ratings(at time.Time) (*order.Rating, *order.Rating, error) {
	build := func(in *RatingInput) (*order.Rating, error) {
		if in == nil {
			return nil, nil //nolint:nilnil // absent rating
		}
		r, err := order.NewRating(in.Stars, in.Comment, at)
		if err != nil {
			return nil, err
		}
		return &r, nil
	}
	courier, err := build(c.courier)
	if err != nil {
		return nil, nil, err
	}
	restaurant, err := build(c.restaurant)
	if err != nil {
		return nil, nil, err
	}
	return courier, restaurant, nil
}
