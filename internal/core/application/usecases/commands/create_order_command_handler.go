package commands

import (
	"context"

	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/ports"

	"github.com/shopspring/decimal"
)

// CreateOrderCommandHandler persists new orders with the configured delivery fee
// and announces them to the dispatcher pool.
type CreateOrderCommandHandler struct {
	uowFactory  OrderUoWFactory
	publisher   ports.EventPublisher
	deliveryFee decimal.Decimal
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	deliveryFee decimal.Decimal,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{uowFactory: uowFactory, publisher: publisher, deliveryFee: deliveryFee}
}

// Handle creates the order in status pending with payment pending.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, command CreateOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	o, err := order.NewOrder(
		command.OrderID(),
		command.Actor().ID,
		command.RestaurantID(),
		command.Items(),
		h.deliveryFee,
		order.NewSafetyWord(),
		now(),
	)
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

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.Publish(ctx, o.PullEvents()...)
	return o, nil
}
