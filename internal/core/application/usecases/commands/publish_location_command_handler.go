package commands

import (
	"context"

	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/ports"
)

// PublishLocationCommandHandler checks the courier may report a position for the order
// and forwards it on the order channel. Nothing is persisted.
type PublishLocationCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

func NewPublishLocationCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
) PublishLocationCommandHandler {
	return PublishLocationCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

func (h PublishLocationCommandHandler) Handle(ctx context.Context, command PublishLocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = o.CanPublishLocation(command.Actor()); err != nil {
		return err
	}

	h.publisher.Publish(ctx, order.LocationUpdated{
		Header:  order.Header{Order: o.ID(), Customer: o.CustomerID(), At: now()},
		Courier: command.Actor().ID,
		Point:   command.Point(),
	})
	return nil
}
