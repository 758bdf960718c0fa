package commands

import (
	"errors"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/pkg/guard"
)

var ErrPublishLocationCommandIsNotConstructed = errors.New(
	"PublishLocationCommand must be created via NewPublishLocationCommand constructor",
)

// PublishLocationCommand relays a courier position to everyone watching the order.
type PublishLocationCommand struct {
	actor   kernel.Actor
	orderID kernel.UUID
	point   kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewPublishLocationCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	latitude, longitude float64,
) (PublishLocationCommand, error) {
	point, pointErr := kernel.NewGeoPoint(latitude, longitude)
	if err := errors.Join(actor.Validate(), orderID.Validate(), pointErr); err != nil {
		return PublishLocationCommand{}, err
	}
	return PublishLocationCommand{actor: actor, orderID: orderID, point: point, guard: guard.NewConstructorGuard()}, nil
}

func (c PublishLocationCommand) Validate() error {
	return c.guard.Validate(ErrPublishLocationCommandIsNotConstructed)
}

func (c PublishLocationCommand) Actor() kernel.Actor    { return c.actor }
func (c PublishLocationCommand) OrderID() kernel.UUID   { return c.orderID }
func (c PublishLocationCommand) Point() kernel.GeoPoint { return c.point }
