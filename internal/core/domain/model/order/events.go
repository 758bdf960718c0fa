package order

import (
	"time"

	"courierflow/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Event is a closed set of facts raised by the Order aggregate.
// Concrete variants are value types; the unexported marker keeps the set closed
// so dispatch tables can switch over it exhaustively.
type Event interface {
	OrderID() kernel.UUID
	OccurredAt() time.Time
	isOrderEvent()
}

// Header carries the fields every order event shares.
type Header struct {
	Order    kernel.UUID
	Customer kernel.UUID
	At       time.Time
}

func (h Header) OrderID() kernel.UUID  { return h.Order }
func (h Header) OccurredAt() time.Time { return h.At }
func (Header) isOrderEvent()           {}

// OrderPlaced is raised when a customer creates an order.
type OrderPlaced struct {
	Header
	Restaurant kernel.UUID
	Total      decimal.Decimal
}

// CourierAssigned is raised on the initial assignment of a courier.
type CourierAssigned struct {
	Header
	Courier kernel.UUID
}

// CourierReassigned is raised when a dispatcher moves the order to another courier.
type CourierReassigned struct {
	Header
	PreviousCourier kernel.UUID
	Courier         kernel.UUID
}

// CourierHeadingToRestaurant is raised when the courier starts towards the restaurant.
type CourierHeadingToRestaurant struct {
	Header
	Courier kernel.UUID
}

// OrderReadyForPickup is raised when the dispatcher marks the food ready.
type OrderReadyForPickup struct {
	Header
	Courier kernel.UUID
}

type CourierArrivedAtRestaurant struct {
	Header
	Courier kernel.UUID
}

type OrderOnTheWay struct {
	Header
	Courier kernel.UUID
}

type OrderDelivered struct {
	Header
	Courier kernel.UUID
}

// OrderCompleted is raised when the customer confirms the delivery.
type OrderCompleted struct {
	Header
	Courier kernel.UUID
}

// OrderCancelled is raised on every cancellation. PreviousCourier is nil when
// no courier had been assigned.
type OrderCancelled struct {
	Header
	PreviousCourier *kernel.UUID
	Status          Status
	ByRole          kernel.Role
	Reason          string
	Penalty         decimal.Decimal
	Refund          decimal.Decimal
}

// StatusChanged accompanies every status change so the customer can resynchronise.
type StatusChanged struct {
	Header
	From Status
	To   Status
}

// PaymentUpdated is raised when the payment collaborator changes the payment status.
type PaymentUpdated struct {
	Header
	PaymentStatus PaymentStatus
}

// LocationUpdated carries a courier position to the order channel. It is never stored.
type LocationUpdated struct {
	Header
	Courier kernel.UUID
	Point   kernel.GeoPoint
}
