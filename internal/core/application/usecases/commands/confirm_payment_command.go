package commands

import (
	"errors"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand carries the payment collaborator's verdict for an order.
type ConfirmPaymentCommand struct {
	orderID   kernel.UUID
	confirmed bool

	guard guard.ConstructorGuard
}

func NewConfirmPaymentCommand(orderID kernel.UUID, confirmed bool) (ConfirmPaymentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ConfirmPaymentCommand{}, err
	}
	return ConfirmPaymentCommand{orderID: orderID, confirmed: confirmed, guard: guard.NewConstructorGuard()}, nil
}

func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

func (c ConfirmPaymentCommand) OrderID() kernel.UUID { return c.orderID }
func (c ConfirmPaymentCommand) Confirmed() bool      { return c.confirmed }
