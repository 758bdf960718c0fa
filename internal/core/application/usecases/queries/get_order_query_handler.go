package queries

import (
	"context"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/pkg/errs"
)

type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// GetOrderQueryHandler returns the order to its customer, its assigned courier or a dispatcher.
type GetOrderQueryHandler struct {
	reader OrderReader
}

func NewGetOrderQueryHandler(reader OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	o, err := h.reader.Get(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	if !o.IsVisibleTo(query.Actor()) {
		return nil, errs.NewForbiddenError("view order", "order belongs to someone else")
	}
	return o, nil
}
