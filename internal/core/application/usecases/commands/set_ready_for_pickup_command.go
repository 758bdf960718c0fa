package commands

import (
	"errors"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/pkg/guard"
)

var ErrSetReadyForPickupCommandIsNotConstructed = errors.New(
	"SetReadyForPickupCommand must be created via NewSetReadyForPickupCommand constructor",
)

// SetReadyForPickupCommand is the dispatcher's signal that an order can be collected.
type SetReadyForPickupCommand struct {
	actor   kernel.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewSetReadyForPickupCommand(actor kernel.Actor, orderID kernel.UUID) (SetReadyForPickupCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return SetReadyForPickupCommand{}, err
	}
	return SetReadyForPickupCommand{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c SetReadyForPickupCommand) Validate() error {
	return c.guard.Validate(ErrSetReadyForPickupCommandIsNotConstructed)
}

func (c SetReadyForPickupCommand) Actor() kernel.Actor  { return c.actor }
func (c SetReadyForPickupCommand) OrderID() kernel.UUID { return c.orderID }
