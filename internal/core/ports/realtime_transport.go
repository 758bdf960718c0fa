package ports

import (
	"context"

	"courierflow/internal/core/domain/model/kernel"
)

// RealtimeTransport delivers named events to connected clients. Delivery is
// best-effort: events for recipients that are not connected are dropped, and
// implementations must not block on slow recipients.
type RealtimeTransport interface {
	SendToUser(ctx context.Context, userID kernel.UUID, event string, payload any) error
	BroadcastToDispatchers(ctx context.Context, event string, payload any) error
	SendToOrderChannel(ctx context.Context, orderID kernel.UUID, event string, payload any) error
	// LeaveOrderChannel drops every connection of userID from the channel of orderID.
	LeaveOrderChannel(ctx context.Context, orderID, userID kernel.UUID) error
}
