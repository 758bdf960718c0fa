package services_test

import (
	"testing"
	"time"

	"courierflow/internal/core/domain/model/courier"
	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/domain/services"
	"courierflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidOrder(t *testing.T) *order.Order {
	t.Helper()
	li, err := order.NewLineItem("Ramen", decimal.RequireFromString("12.00"), 1)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]order.LineItem{li}, decimal.RequireFromString("2.99"), "cedar-07", time.Now())
	require.NoError(t, err)
	_, err = o.ConfirmPayment(true, time.Now())
	require.NoError(t, err)
	o.PullEvents()
	return o
}

func newCourier(t *testing.T, name string) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name)
	require.NoError(t, err)
	return c
}

func TestAssignmentCoordinator_Dispatch(t *testing.T) {
	dispatcher := kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleDispatcher}
	coordinator := services.NewAssignmentCoordinator()

	t.Run("should assign an unassigned order", func(t *testing.T) {
		o := paidOrder(t)
		alice := newCourier(t, "Alice")

		require.NoError(t, coordinator.Dispatch(o, alice, dispatcher, false, time.Now()))

		assert.Equal(t, order.Assigned, o.Status())
		assert.True(t, o.Courier().IsEqual(alice.ID()))
		assert.Len(t, o.History(), 1)
	})

	t.Run("should treat the reassign flag on an unassigned order as initial assignment", func(t *testing.T) {
		o := paidOrder(t)
		alice := newCourier(t, "Alice")

		require.NoError(t, coordinator.Dispatch(o, alice, dispatcher, true, time.Now()))

		assert.Len(t, o.History(), 1)
	})

	t.Run("should reject a second courier without the reassign flag", func(t *testing.T) {
		o := paidOrder(t)
		alice, bob := newCourier(t, "Alice"), newCourier(t, "Bob")
		require.NoError(t, coordinator.Dispatch(o, alice, dispatcher, false, time.Now()))

		err := coordinator.Dispatch(o, bob, dispatcher, false, time.Now())

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.True(t, o.Courier().IsEqual(alice.ID()))
	})

	t.Run("should reassign with the flag", func(t *testing.T) {
		o := paidOrder(t)
		alice, bob := newCourier(t, "Alice"), newCourier(t, "Bob")
		require.NoError(t, coordinator.Dispatch(o, alice, dispatcher, false, time.Now()))

		require.NoError(t, coordinator.Dispatch(o, bob, dispatcher, true, time.Now()))

		assert.True(t, o.Courier().IsEqual(bob.ID()))
		assert.Len(t, o.History(), 3)
	})

	t.Run("should validate its inputs", func(t *testing.T) {
		o := paidOrder(t)

		require.ErrorIs(t, coordinator.Dispatch(o, nil, dispatcher, false, time.Now()), services.ErrCourierIsRequired)
		require.ErrorIs(t, coordinator.Dispatch(o, &courier.Courier{}, dispatcher, false, time.Now()),
			courier.ErrCourierIsNotConstructed)
		require.ErrorIs(t, coordinator.Dispatch(&order.Order{}, newCourier(t, "Alice"), dispatcher, false, time.Now()),
			order.ErrOrderIsNotConstructed)
	})
}
