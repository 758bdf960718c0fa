// Package notifications turns committed order events into real-time messages.
//
// Every event variant maps to a fixed set of audiences: the dispatcher pool, an
// addressed user (customer or courier) or the order-scoped channel. Delivery is
// best-effort; failures are logged and never reach the command that raised the event.
package notifications

import (
	"context"
	"fmt"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/ports"

	"go.uber.org/zap"
)

var _ ports.EventPublisher = (*Dispatcher)(nil)

type Dispatcher struct {
	transport ports.RealtimeTransport
	logger    *zap.Logger
}

func NewDispatcher(transport ports.RealtimeTransport, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{transport: transport, logger: logger.With(zap.String("component", "notifications"))}
}

// Publish routes each event in order. It never returns an error.
func (d *Dispatcher) Publish(ctx context.Context, events ...order.Event) {
	for _, e := range events {
		sends, ok := route(e)
		if !ok {
			d.logger.Error("no route for event", zap.String("type", fmt.Sprintf("%T", e)))
			continue
		}
		for _, s := range sends {
			if err := d.send(ctx, s); err != nil {
				d.logger.Warn("notification not delivered",
					zap.String("event", s.event),
					zap.String("order_id", e.OrderID().String()),
					zap.Error(err))
			}
		}
	}
}

type audience int

const (
	toUser audience = iota + 1
	toDispatchers
	toOrderChannel
	leaveOrderChannel
)

// send is one delivery. For leaveOrderChannel, target is the order and member the
// user losing access; event only labels the log line.
type send struct {
	audience audience
	target   kernel.UUID
	member   kernel.UUID
	event    string
	payload  Payload
}

func (d *Dispatcher) send(ctx context.Context, s send) error {
	switch s.audience {
	case toUser:
		return d.transport.SendToUser(ctx, s.target, s.event, s.payload)
	case toDispatchers:
		return d.transport.BroadcastToDispatchers(ctx, s.event, s.payload)
	case toOrderChannel:
		return d.transport.SendToOrderChannel(ctx, s.target, s.event, s.payload)
	case leaveOrderChannel:
		return d.transport.LeaveOrderChannel(ctx, s.target, s.member)
	default:
		return fmt.Errorf("unknown audience %d", s.audience)
	}
}

func user(id kernel.UUID, event string, p Payload) send {
	return send{audience: toUser, target: id, event: event, payload: p}
}

func dispatchers(event string, p Payload) send {
	return send{audience: toDispatchers, event: event, payload: p}
}

// revoke takes a courier who no longer serves orderID off its location channel.
func revoke(orderID, courierID kernel.UUID) send {
	return send{audience: leaveOrderChannel, target: orderID, member: courierID, event: "order_channel_left"}
}

// route is the audience table.
func route(e order.Event) ([]send, bool) {
	p := basePayload(e)

	switch ev := e.(type) {
	case order.OrderPlaced:
		p.CustomerID = ev.Customer.String()
		p.RestaurantID = ev.Restaurant.String()
		p.Total = ev.Total.StringFixed(2)
		p.Status = order.Pending.String()
		return []send{dispatchers(EventNewOrder, p)}, true

	case order.CourierAssigned:
		p.DriverID = ev.Courier.String()
		p.Status = order.Assigned.String()
		p.Message = "You have been assigned a new order"
		return []send{user(ev.Courier, EventOrderAssigned, p)}, true

	case order.CourierReassigned:
		assigned := p
		assigned.DriverID = ev.Courier.String()
		assigned.Status = order.Assigned.String()
		assigned.Message = "You have been assigned a new order"
		removed := p
		removed.DriverID = ev.PreviousCourier.String()
		removed.Message = "This order has been reassigned to another driver"
		return []send{
			revoke(ev.Order, ev.PreviousCourier),
			user(ev.PreviousCourier, EventOrderRemoved, removed),
			user(ev.Courier, EventOrderAssigned, assigned),
		}, true

	case order.OrderReadyForPickup:
		p.DriverID = ev.Courier.String()
		p.Status = order.ReadyForPickup.String()
		p.Message = "Order is ready for pickup"
		return []send{user(ev.Courier, EventOrderReady, p)}, true

	case order.CourierHeadingToRestaurant:
		p.DriverID = ev.Courier.String()
		p.Status = order.HeadingToRestaurant.String()
		return []send{dispatchers(EventDriverHeading, p)}, true

	case order.CourierArrivedAtRestaurant:
		p.DriverID = ev.Courier.String()
		p.Status = order.AtRestaurant.String()
		p.Message = "Your driver has arrived at the restaurant"
		return []send{user(ev.Customer, EventDriverAtRestaurant, p)}, true

	case order.OrderOnTheWay:
		p.DriverID = ev.Courier.String()
		p.Status = order.OnTheWay.String()
		p.Message = "Your order is on the way"
		return []send{user(ev.Customer, EventOrderOnTheWay, p), dispatchers(EventOrderOnTheWay, p)}, true

	case order.OrderDelivered:
		p.DriverID = ev.Courier.String()
		p.Status = order.Delivered.String()
		p.Message = "Your order has been delivered, please confirm"
		return []send{user(ev.Customer, EventOrderDelivered, p)}, true

	case order.OrderCompleted:
		p.DriverID = ev.Courier.String()
		p.Status = order.Completed.String()
		p.Message = "Delivery confirmed by the customer"
		return []send{user(ev.Courier, EventOrderCompleted, p), dispatchers(EventOrderCompleted, p)}, true

	case order.OrderCancelled:
		if ev.PreviousCourier == nil {
			return nil, true
		}
		p.DriverID = ev.PreviousCourier.String()
		p.Status = ev.Status.String()
		p.Reason = ev.Reason
		p.Penalty = ev.Penalty.StringFixed(2)
		p.Refund = ev.Refund.StringFixed(2)
		p.Message = "This order has been cancelled"
		return []send{
			revoke(ev.Order, *ev.PreviousCourier),
			user(*ev.PreviousCourier, EventOrderCancelled, p),
		}, true

	case order.StatusChanged:
		p.Status = ev.To.String()
		p.PreviousStatus = ev.From.String()
		return []send{user(ev.Customer, EventOrderStatusChanged, p)}, true

	case order.PaymentUpdated:
		p.CustomerID = ev.Customer.String()
		p.PaymentStatus = string(ev.PaymentStatus)
		return []send{dispatchers(EventPaymentUpdated, p), user(ev.Customer, EventPaymentUpdated, p)}, true

	case order.LocationUpdated:
		lat, lng := ev.Point.Latitude(), ev.Point.Longitude()
		p.DriverID = ev.Courier.String()
		p.Latitude = &lat
		p.Longitude = &lng
		return []send{{audience: toOrderChannel, target: ev.Order, event: EventDriverLocation, payload: p}}, true

	default:
		return nil, false
	}
}
