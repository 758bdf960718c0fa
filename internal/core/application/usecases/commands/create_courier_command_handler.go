package commands

import (
	"context"

	"courierflow/internal/core/domain/model/courier"
)

type CreateCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

func NewCreateCourierCommandHandler(uowFactory CourierUoWFactory) CreateCourierCommandHandler {
	return CreateCourierCommandHandler{uowFactory: uowFactory}
}

// Handle registers the courier with the default rating.
func (h CreateCourierCommandHandler) Handle(ctx context.Context, command CreateCourierCommand) (*courier.Courier, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	c, err := courier.NewCourier(command.CourierID(), command.Name())
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

	if err = uow.CourierRepository().Add(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return c, nil
}
