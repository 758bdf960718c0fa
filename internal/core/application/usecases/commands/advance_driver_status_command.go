package commands

import (
	"errors"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/pkg/guard"
)

var ErrAdvanceDriverStatusCommandIsNotConstructed = errors.New(
	"AdvanceDriverStatusCommand must be created via NewAdvanceDriverStatusCommand constructor",
)

// AdvanceDriverStatusCommand moves an order along the courier-driven part of the flow.
// The target is parsed from its wire name, e.g. "heading_to_restaurant".
type AdvanceDriverStatusCommand struct {
	actor   kernel.Actor
	orderID kernel.UUID
	target  order.Status

	guard guard.ConstructorGuard
}

func NewAdvanceDriverStatusCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	target string,
) (AdvanceDriverStatusCommand, error) {
	status, statusErr := order.ParseStatus(target)
	if err := errors.Join(actor.Validate(), orderID.Validate(), statusErr); err != nil {
		return AdvanceDriverStatusCommand{}, err
	}
	return AdvanceDriverStatusCommand{
		actor:   actor,
		orderID: orderID,
		target:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceDriverStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceDriverStatusCommandIsNotConstructed)
}

func (c AdvanceDriverStatusCommand) Actor() kernel.Actor  { return c.actor }
func (c AdvanceDriverStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c AdvanceDriverStatusCommand) Target() order.Status { return c.target }
