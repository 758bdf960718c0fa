package commands_test

import (
	"testing"
	"time"

	"courierflow/internal/core/domain/model/courier"
	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	customer   kernel.Actor
	dispatcher kernel.Actor
	courierA   kernel.Actor
	courierB   kernel.Actor
	policy     services.CancellationPolicy
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	policy, err := services.NewCancellationPolicy(services.DefaultPenaltyRate)
	require.NoError(t, err)
	return fixture{
		customer:   kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleCustomer},
		dispatcher: kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleDispatcher},
		courierA:   kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleCourier},
		courierB:   kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleCourier},
		policy:     policy,
	}
}

// pendingOrder returns an order with total 100.00 and no pending events.
func (f fixture) pendingOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewLineItem("Banquet", decimal.RequireFromString("97.01"), 1)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), f.customer.ID, kernel.NewUUID(),
		[]order.LineItem{item}, decimal.RequireFromString("2.99"), "olive-11", time.Now())
	require.NoError(t, err)
	o.PullEvents()
	o.MarkPersisted(1)
	return o
}

func (f fixture) paidOrder(t *testing.T) *order.Order {
	t.Helper()
	o := f.pendingOrder(t)
	_, err := o.ConfirmPayment(true, time.Now())
	require.NoError(t, err)
	o.PullEvents()
	o.MarkPersisted(2)
	return o
}

func (f fixture) assignedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := f.paidOrder(t)
	require.NoError(t, o.Assign(f.dispatcher, f.courierA.ID, time.Now()))
	o.PullEvents()
	o.MarkPersisted(3)
	return o
}

func (f fixture) completedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := f.assignedOrder(t)
	require.NoError(t, o.MarkReadyForPickup(f.dispatcher, time.Now()))
	require.NoError(t, o.AdvanceCourierStatus(f.courierA, order.AtRestaurant, time.Now()))
	require.NoError(t, o.AdvanceCourierStatus(f.courierA, order.OnTheWay, time.Now()))
	require.NoError(t, o.AdvanceCourierStatus(f.courierA, order.Delivered, time.Now()))
	require.NoError(t, o.ConfirmDelivery(f.customer, time.Now()))
	o.PullEvents()
	o.MarkPersisted(8)
	return o
}

func (f fixture) courier(t *testing.T, actor kernel.Actor) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(actor.ID, "Courier "+actor.ID.String()[:4])
	require.NoError(t, err)
	return c
}
