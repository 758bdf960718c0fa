package services

import (
	"fmt"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DefaultPenaltyRate is the share of the total kept when a paid order is cancelled.
var DefaultPenaltyRate = decimal.RequireFromString("0.10")

// CancellationPolicy computes how a cancellation ends for the requesting role.
//
// For a paid order:
//
//	penalty = round(total * rate, 2)
//	refund  = round(total - penalty, 2)
//
// and the status is the role's "with penalty" terminal. For any other payment status both
// amounts are zero and the status is the role's plain terminal.
type CancellationPolicy struct {
	penaltyRate decimal.Decimal
}

var _ order.CancellationPolicy = CancellationPolicy{}

// NewCancellationPolicy validates that rate lies within [0, 1].
func NewCancellationPolicy(rate decimal.Decimal) (CancellationPolicy, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return CancellationPolicy{}, errs.NewValueIsOutOfRangeError("penalty rate", rate.String(), 0, 1)
	}
	return CancellationPolicy{penaltyRate: rate}, nil
}

func (p CancellationPolicy) PenaltyRate() decimal.Decimal {
	return p.penaltyRate
}

// Decide implements order.CancellationPolicy.
func (p CancellationPolicy) Decide(
	role kernel.Role,
	payment order.PaymentStatus,
	total decimal.Decimal,
) (order.CancellationOutcome, error) {
	paid := payment == order.PaymentPaid

	var status order.Status
	switch role { //nolint:exhaustive // couriers fall through to default
	case kernel.RoleCustomer:
		status = pick(paid, order.CancelledByClientWithPenalty, order.CancelledByClient)
	case kernel.RoleDispatcher:
		status = pick(paid, order.CancelledByAdminWithPenalty, order.CancelledByAdmin)
	case kernel.RoleSystem:
		if paid {
			return order.CancellationOutcome{}, errs.NewConflictError("order",
				"paid orders are never cancelled automatically")
		}
		status = order.Cancelled
	default:
		return order.CancellationOutcome{}, errs.NewForbiddenError("cancel order",
			fmt.Sprintf("role %s may not cancel orders", role))
	}

	if !paid {
		return order.CancellationOutcome{Status: status, Penalty: decimal.Zero, Refund: decimal.Zero}, nil
	}

	penalty := total.Mul(p.penaltyRate).Round(2)
	return order.CancellationOutcome{
		Status:  status,
		Penalty: penalty,
		Refund:  total.Sub(penalty).Round(2),
	}, nil
}

func pick(paid bool, withPenalty, plain order.Status) order.Status {
	if paid {
		return withPenalty
	}
	return plain
}
