package commands

import (
	"errors"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand is the customer acknowledging receipt, which completes the order.
type ConfirmDeliveryCommand struct {
	actor   kernel.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewConfirmDeliveryCommand(actor kernel.Actor, orderID kernel.UUID) (ConfirmDeliveryCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return ConfirmDeliveryCommand{}, err
	}
	return ConfirmDeliveryCommand{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

func (c ConfirmDeliveryCommand) Actor() kernel.Actor  { return c.actor }
func (c ConfirmDeliveryCommand) OrderID() kernel.UUID { return c.orderID }
