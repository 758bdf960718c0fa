package commands

import (
	"context"

	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/ports"
)

// ConfirmPaymentCommandHandler applies payment signals. Repeated signals are
// acknowledged without writing anything, so redelivered messages are harmless.
type ConfirmPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

func NewConfirmPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, command ConfirmPaymentCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	changed, err := o.ConfirmPayment(command.Confirmed(), now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return o, nil
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.Publish(ctx, o.PullEvents()...)
	return o, nil
}
