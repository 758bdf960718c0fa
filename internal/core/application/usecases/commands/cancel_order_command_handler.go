package commands

import (
	"context"
	"time"

	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/ports"
)

// CancelOrderCommandHandler cancels orders for customers and dispatchers, applying the
// cancellation policy's penalty and refund.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	policy     order.CancellationPolicy
}

func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	policy order.CancellationPolicy,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory, publisher: publisher, policy: policy}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	return mutateOrder(ctx, h.uowFactory, h.publisher, command.OrderID(), func(o *order.Order, at time.Time) error {
		return o.Cancel(command.Actor(), command.Reason(), h.policy, at)
	})
}
