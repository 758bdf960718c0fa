package commands

import (
	"errors"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand binds a courier to an order. Reassign must be set to move an
// order that already has a courier.
type AssignDriverCommand struct {
	actor     kernel.Actor
	orderID   kernel.UUID
	courierID kernel.UUID
	reassign  bool

	guard guard.ConstructorGuard
}

func NewAssignDriverCommand(
	actor kernel.Actor,
	orderID, courierID kernel.UUID,
	reassign bool,
) (AssignDriverCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate(), courierID.Validate()); err != nil {
		return AssignDriverCommand{}, err
	}
	return AssignDriverCommand{
		actor:     actor,
		orderID:   orderID,
		courierID: courierID,
		reassign:  reassign,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

func (c AssignDriverCommand) Actor() kernel.Actor    { return c.actor }
func (c AssignDriverCommand) OrderID() kernel.UUID   { return c.orderID }
func (c AssignDriverCommand) CourierID() kernel.UUID { return c.courierID }
func (c AssignDriverCommand) Reassign() bool         { return c.reassign }
