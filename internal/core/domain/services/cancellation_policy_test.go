package services_test

import (
	"testing"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/domain/services"
	"courierflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCancellationPolicy(t *testing.T) {
	_, err := services.NewCancellationPolicy(decimal.RequireFromString("1.5"))
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = services.NewCancellationPolicy(decimal.RequireFromString("-0.1"))
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	p, err := services.NewCancellationPolicy(services.DefaultPenaltyRate)
	require.NoError(t, err)
	assert.Equal(t, "0.1", p.PenaltyRate().String())
}

func TestCancellationPolicy_Decide(t *testing.T) {
	policy, err := services.NewCancellationPolicy(services.DefaultPenaltyRate)
	require.NoError(t, err)

	tests := []struct {
		name        string
		role        kernel.Role
		payment     order.PaymentStatus
		total       string
		wantStatus  order.Status
		wantPenalty string
		wantRefund  string
	}{
		{"unpaid client", kernel.RoleCustomer, order.PaymentPending, "100", order.CancelledByClient, "0.00", "0.00"},
		{"failed payment client", kernel.RoleCustomer, order.PaymentFailed, "100", order.CancelledByClient, "0.00", "0.00"},
		{"paid client", kernel.RoleCustomer, order.PaymentPaid, "100", order.CancelledByClientWithPenalty, "10.00", "90.00"},
		{"unpaid admin", kernel.RoleDispatcher, order.PaymentPending, "100", order.CancelledByAdmin, "0.00", "0.00"},
		{"paid admin", kernel.RoleDispatcher, order.PaymentPaid, "100", order.CancelledByAdminWithPenalty, "10.00", "90.00"},
		{"paid admin rounding", kernel.RoleDispatcher, order.PaymentPaid, "25.74", order.CancelledByAdminWithPenalty, "2.57", "23.17"},
		{"paid half cent rounds up", kernel.RoleCustomer, order.PaymentPaid, "12.35", order.CancelledByClientWithPenalty, "1.24", "11.11"},
		{"unpaid system", kernel.RoleSystem, order.PaymentPending, "100", order.Cancelled, "0.00", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := policy.Decide(tt.role, tt.payment, decimal.RequireFromString(tt.total))

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, outcome.Status)
			assert.Equal(t, tt.wantPenalty, outcome.Penalty.StringFixed(2))
			assert.Equal(t, tt.wantRefund, outcome.Refund.StringFixed(2))
			if tt.payment == order.PaymentPaid {
				assert.True(t, outcome.Penalty.Add(outcome.Refund).Equal(decimal.RequireFromString(tt.total)))
			}
		})
	}

	t.Run("couriers may not cancel", func(t *testing.T) {
		_, err := policy.Decide(kernel.RoleCourier, order.PaymentPaid, decimal.NewFromInt(100))

		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("system never cancels paid orders", func(t *testing.T) {
		_, err := policy.Decide(kernel.RoleSystem, order.PaymentPaid, decimal.NewFromInt(100))

		require.ErrorIs(t, err, errs.ErrConflict)
	})
}
