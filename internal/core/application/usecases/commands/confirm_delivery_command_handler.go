package commands

import (
	"context"
	"time"

	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/ports"
)

type ConfirmDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

func NewConfirmDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, command ConfirmDeliveryCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	return mutateOrder(ctx, h.uowFactory, h.publisher, command.OrderID(), func(o *order.Order, at time.Time) error {
		return o.ConfirmDelivery(command.Actor(), at)
	})
}
