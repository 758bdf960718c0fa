package services

import (
	"errors"
	"time"

	"courierflow/internal/core/domain/model/courier"
	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
)

// ErrCourierIsRequired is returned when dispatch is attempted without a courier.
var ErrCourierIsRequired = errors.New("courier is required")

// AssignmentCoordinator binds a courier to an order on behalf of a dispatcher.
//
// Business rules:
//   - Without the reassign flag only the initial assignment is attempted, so an order that
//     already has a courier is rejected as a conflict instead of silently changing hands
//   - With the flag an assigned order moves to the new courier; an order with no courier
//     yet gets its initial assignment
//   - All status, payment and terminal-state guards are enforced by the Order aggregate
//
// Example usage:
//
//	coordinator := services.NewAssignmentCoordinator()
//	if err := coordinator.Dispatch(o, c, dispatcher, true, time.Now()); err != nil {
//	    return err
//	}
type AssignmentCoordinator struct{}

func NewAssignmentCoordinator() AssignmentCoordinator {
	return AssignmentCoordinator{}
}

// Dispatch assigns c to o, or reassigns o to c when reassign is set and o already has a courier.
func (AssignmentCoordinator) Dispatch(
	o *order.Order,
	c *courier.Courier,
	actor kernel.Actor,
	reassign bool,
	at time.Time,
) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if c == nil {
		return ErrCourierIsRequired
	}
	if err := c.Validate(); err != nil {
		return err
	}

	if reassign && o.Courier() != nil {
		return o.Reassign(actor, c.ID(), at)
	}
	return o.Assign(actor, c.ID(), at)
}
