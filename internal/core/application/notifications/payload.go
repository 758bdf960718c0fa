package notifications

import (
	"time"

	"courierflow/internal/core/domain/model/order"
)

// Event names as seen by connected clients.
const (
	EventNewOrder           = "new_order"
	EventOrderAssigned      = "order_assigned"
	EventOrderRemoved       = "order_removed"
	EventOrderReady         = "order_ready_for_pickup"
	EventDriverHeading      = "driver_heading_to_restaurant"
	EventDriverAtRestaurant = "driver_at_restaurant"
	EventOrderOnTheWay      = "order_on_the_way"
	EventOrderDelivered     = "order_delivered"
	EventOrderCompleted     = "order_completed"
	EventOrderCancelled     = "order_cancelled"
	EventOrderStatusChanged = "order_status_changed"
	EventPaymentUpdated     = "payment_updated"
	EventDriverLocation     = "driver_location"
)

// Payload is the body of every notification. Fields irrelevant to an event are omitted.
type Payload struct {
	OrderID        string    `json:"order_id"`
	Status         string    `json:"status,omitempty"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	PaymentStatus  string    `json:"payment_status,omitempty"`
	CustomerID     string    `json:"customer_id,omitempty"`
	RestaurantID   string    `json:"restaurant_id,omitempty"`
	DriverID       string    `json:"driver_id,omitempty"`
	Total          string    `json:"total,omitempty"`
	Penalty        string    `json:"penalty_amount,omitempty"`
	Refund         string    `json:"refund_amount,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Message        string    `json:"message,omitempty"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

func basePayload(e order.Event) Payload {
	return Payload{OrderID: e.OrderID().String(), Timestamp: e.OccurredAt()}
}
