package ports

import (
	"context"

	"courierflow/internal/core/domain/model/order"
)

// EventPublisher receives the events of a committed change. It never fails the
// caller: errors are handled, logged and swallowed by the implementation.
type EventPublisher interface {
	Publish(ctx context.Context, events ...order.Event)
}
