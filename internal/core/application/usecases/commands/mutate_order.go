package commands

import (
	"context"
	"time"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/ports"
)

// now is the clock used to timestamp transitions.
var now = func() time.Time { return time.Now().UTC() }

// mutateOrder runs one read-modify-write of an order inside its own unit of work.
// fn decides; if it fails nothing is written. Events are published only after a
// successful commit.
func mutateOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	orderID kernel.UUID,
	fn func(o *order.Order, at time.Time) error,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err = fn(o, now()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	publisher.Publish(ctx, o.PullEvents()...)
	return o, nil
}
