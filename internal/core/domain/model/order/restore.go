package order

import (
	"errors"
	"fmt"
	"time"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Snapshot is the full persisted state of an Order. Repositories fill it from storage
// and hand it to RestoreOrder; it bypasses the transition rules and must only carry
// data that was previously produced by the aggregate.
type Snapshot struct {
	ID                 kernel.UUID
	CustomerID         kernel.UUID
	RestaurantID       kernel.UUID
	CourierID          *kernel.UUID
	Items              []LineItem
	Subtotal           decimal.Decimal
	DeliveryFee        decimal.Decimal
	Total              decimal.Decimal
	Penalty            decimal.Decimal
	Refund             decimal.Decimal
	Status             Status
	PaymentStatus      PaymentStatus
	History            []HistoryEntry
	CourierRating      *Rating
	RestaurantRating   *Rating
	SafetyWord         string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	CancelledBy        *kernel.UUID
	CancelledByRole    kernel.Role
	CancellationReason string
	Version            int64
}

// RestoreOrder rebuilds an Order from storage. It checks the structural invariants
// (valid ids and status, total = subtotal + fee, courier only where allowed) but
// replays no transitions and records no events.
func RestoreOrder(s Snapshot) (*Order, error) {
	var problems []error
	problems = append(problems,
		s.ID.Validate(),
		s.CustomerID.Validate(),
		s.RestaurantID.Validate(),
		s.Status.Validate(),
		s.PaymentStatus.Validate(),
	)
	if !s.Subtotal.Add(s.DeliveryFee).Equal(s.Total) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("%s is not %s + %s", s.Total, s.Subtotal, s.DeliveryFee)))
	}
	if s.CourierID != nil && !s.Status.CanHaveCourier() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("courier",
			fmt.Errorf("%s orders cannot reference a courier", s.Status)))
	}
	if s.Version < 1 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("version",
			fmt.Errorf("%d is not greater than 0", s.Version)))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Order{
		id:                 s.ID,
		customerID:         s.CustomerID,
		restaurantID:       s.RestaurantID,
		courierID:          s.CourierID,
		items:              append([]LineItem(nil), s.Items...),
		subtotal:           s.Subtotal,
		deliveryFee:        s.DeliveryFee,
		total:              s.Total,
		penalty:            s.Penalty,
		refund:             s.Refund,
		status:             s.Status,
		paymentStatus:      s.PaymentStatus,
		history:            append([]HistoryEntry(nil), s.History...),
		courierRating:      s.CourierRating,
		restaurantRating:   s.RestaurantRating,
		safetyWord:         s.SafetyWord,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		deliveredAt:        s.DeliveredAt,
		cancelledAt:        s.CancelledAt,
		cancelledBy:        s.CancelledBy,
		cancelledByRole:    s.CancelledByRole,
		cancellationReason: s.CancellationReason,
		version:            s.Version,
		persistedStatus:    s.Status,
		persistedHistory:   len(s.History),
		isConstructed:      true,
	}, nil
}
