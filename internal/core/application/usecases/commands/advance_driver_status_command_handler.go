package commands

import (
	"context"
	"time"

	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/ports"
)

// AdvanceDriverStatusCommandHandler applies courier progress: heading to the restaurant,
// arrival, departure and delivery. Only the courier assigned to the order may do this,
// one step at a time.
type AdvanceDriverStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

func NewAdvanceDriverStatusCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
) AdvanceDriverStatusCommandHandler {
	return AdvanceDriverStatusCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

func (h AdvanceDriverStatusCommandHandler) Handle(
	ctx context.Context,
	command AdvanceDriverStatusCommand,
) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	return mutateOrder(ctx, h.uowFactory, h.publisher, command.OrderID(), func(o *order.Order, at time.Time) error {
		return o.AdvanceCourierStatus(command.Actor(), command.Target(), at)
	})
}
