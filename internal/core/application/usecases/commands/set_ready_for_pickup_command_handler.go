package commands

import (
	"context"
	"time"

	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/ports"
)

type SetReadyForPickupCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

func NewSetReadyForPickupCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
) SetReadyForPickupCommandHandler {
	return SetReadyForPickupCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

func (h SetReadyForPickupCommandHandler) Handle(
	ctx context.Context,
	command SetReadyForPickupCommand,
) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	return mutateOrder(ctx, h.uowFactory, h.publisher, command.OrderID(), func(o *order.Order, at time.Time) error {
		return o.MarkReadyForPickup(command.Actor(), at)
	})
}
