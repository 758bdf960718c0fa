package commands

import (
	"context"

	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/domain/model/restaurant"
	"courierflow/internal/core/domain/services"
)

// RateOrderCommandHandler stores the ratings and, in the same transaction, recomputes the
// running averages of the rated courier and restaurant from every stored rating.
type RateOrderCommandHandler struct {
	uowFactory UoWFactory
	aggregator services.RatingAggregator
}

func NewRateOrderCommandHandler(uowFactory UoWFactory) RateOrderCommandHandler {
	return RateOrderCommandHandler{uowFactory: uowFactory, aggregator: services.NewRatingAggregator()}
}

func (h RateOrderCommandHandler) Handle(ctx context.Context, command RateOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	at := now()
	courierRating, restaurantRating, err := command.ratings(at)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.Rate(command.Actor(), courierRating, restaurantRating, at); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if courierRating != nil {
		if err = h.refreshCourier(ctx, uow, o); err != nil {
			return nil, err
		}
	}

	if restaurantRating != nil {
		if err = h.refreshRestaurant(ctx, uow, o); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

// refreshCourier locks the courier row before scanning, so a concurrent rating of another
// order by the same courier waits and then sees this one.
func (h RateOrderCommandHandler) refreshCourier(ctx context.Context, uow UoW, o *order.Order) error {
	courierID := *o.Courier()

	courierRepo := uow.CourierRepository()
	c, err := courierRepo.GetForUpdate(ctx, courierID)
	if err != nil {
		return err
	}

	stars, err := uow.OrderRepository().CourierRatings(ctx, courierID)
	if err != nil {
		return err
	}

	if err = c.SetRating(h.aggregator.CourierAverage(stars)); err != nil {
		return err
	}

	return courierRepo.Update(ctx, c)
}

func (h RateOrderCommandHandler) refreshRestaurant(ctx context.Context, uow UoW, o *order.Order) error {
	ratingRepo := uow.RestaurantRatingRepository()
	if err := ratingRepo.Lock(ctx, o.RestaurantID()); err != nil {
		return err
	}

	stars, err := uow.OrderRepository().RestaurantRatings(ctx, o.RestaurantID())
	if err != nil {
		return err
	}

	rating, err := restaurant.NewRating(o.RestaurantID(), h.aggregator.RestaurantAverage(stars), len(stars))
	if err != nil {
		return err
	}

	return ratingRepo.Save(ctx, rating)
}
