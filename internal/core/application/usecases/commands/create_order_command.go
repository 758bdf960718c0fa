package commands

import (
	"errors"
	"fmt"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/pkg/errs"
	"courierflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// ItemInput is one requested line of a new order.
type ItemInput struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// CreateOrderCommand represents a customer placing an order at a restaurant.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(actor, kernel.NewUUID(), restaurantID, []ItemInput{
//	    {Name: "Margherita", UnitPrice: decimal.RequireFromString("9.50"), Quantity: 2},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	actor        kernel.Actor
	orderID      kernel.UUID
	restaurantID kernel.UUID
	items        []order.LineItem

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the actor is a customer and builds the line items.
func NewCreateOrderCommand(
	actor kernel.Actor,
	orderID, restaurantID kernel.UUID,
	items []ItemInput,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setActor(actor),
		orderID.Validate(),
		restaurantID.Validate(),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	cmd.orderID = orderID
	cmd.restaurantID = restaurantID

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() kernel.Actor       { return c.actor }
func (c CreateOrderCommand) OrderID() kernel.UUID      { return c.orderID }
func (c CreateOrderCommand) RestaurantID() kernel.UUID { return c.restaurantID }
func (c CreateOrderCommand) Items() []order.LineItem   { return append([]order.LineItem(nil), c.items...) }

func (c *CreateOrderCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !actor.Is(kernel.RoleCustomer) {
		return errs.NewForbiddenError("create order", "only customers place orders")
	}
	c.actor = actor
	return nil
}

func (c *CreateOrderCommand) setItems(inputs []ItemInput) error {
	if len(inputs) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	items := make([]order.LineItem, 0, len(inputs))
	for i, in := range inputs {
		item, err := order.NewLineItem(in.Name, in.UnitPrice, in.Quantity)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	c.items = items
	return nil
}
