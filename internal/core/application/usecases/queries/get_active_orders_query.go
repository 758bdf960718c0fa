package queries

import (
	"errors"
	"time"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/pkg/errs"
	"courierflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
	"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
)

// GetActiveOrdersQuery builds the dispatcher board: every order not yet in a terminal state.
//
// Example:
//
//	query, err := NewGetActiveOrdersQuery(actor)
//	if err != nil {
//	    return err
//	}
//	board, err := handler.Handle(ctx, query)
type GetActiveOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetActiveOrdersQuery(actor kernel.Actor) (GetActiveOrdersQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetActiveOrdersQuery{}, err
	}
	if !actor.Is(kernel.RoleDispatcher) {
		return GetActiveOrdersQuery{}, errs.NewForbiddenError("list active orders", "only dispatchers see the board")
	}
	return GetActiveOrdersQuery{guard: guard.NewConstructorGuard()}, nil
}

func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// GetActiveOrdersQueryResponse is one row of the board.
type GetActiveOrdersQueryResponse struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	RestaurantID  kernel.UUID
	CourierID     *kernel.UUID
	Status        order.Status
	PaymentStatus order.PaymentStatus
	Total         decimal.Decimal
	CreatedAt     time.Time
}
