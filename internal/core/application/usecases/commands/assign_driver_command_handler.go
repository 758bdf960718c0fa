package commands

import (
	"context"

	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/domain/services"
	"courierflow/internal/core/ports"
)

// AssignDriverCommandHandler orchestrates initial assignment and reassignment.
// The courier must exist; the order's payment, status and terminal guards are
// enforced by the aggregate.
//
// Example:
//
//	cmd, _ := NewAssignDriverCommand(dispatcher, orderID, courierID, false)
//	o, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrConflict):
//	    // payment not confirmed, courier already set, or a concurrent change won
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // unknown order or courier
//	}
type AssignDriverCommandHandler struct {
	uowFactory  UoWFactory
	publisher   ports.EventPublisher
	coordinator services.AssignmentCoordinator
}

func NewAssignDriverCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory:  uowFactory,
		publisher:   publisher,
		coordinator: services.NewAssignmentCoordinator(),
	}
}

func (h AssignDriverCommandHandler) Handle(ctx context.Context, command AssignDriverCommand) (*order.Order, error) {
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

	orderRepo := uow.OrderRepository()
	courierRepo := uow.CourierRepository()

	o, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	c, err := courierRepo.Get(ctx, command.CourierID())
	if err != nil {
		return nil, err
	}

	if err = h.coordinator.Dispatch(o, c, command.Actor(), command.Reassign(), now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.Publish(ctx, o.PullEvents()...)
	return o, nil
}
