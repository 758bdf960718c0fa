package commands_test

import (
	"testing"

	"courierflow/internal/core/application/usecases/commands"
	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSetReadyForPickupCommandHandler_Handle(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	o := f.assignedOrder(t)

	factory, uow, repo := new(MockOrderUoWFactory), new(MockUoW), new(MockOrderRepository)
	expectOrderMutation(ctx, factory, uow, repo, o, nil)
	publisher := new(RecordingPublisher)

	cmd, err := commands.NewSetReadyForPickupCommand(f.dispatcher, o.ID())
	require.NoError(t, err)

	updated, err := commands.NewSetReadyForPickupCommandHandler(factory, publisher).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.ReadyForPickup, updated.Status())
	require.Len(t, publisher.Events(), 2)
	ready, ok := publisher.Events()[0].(order.OrderReadyForPickup)
	require.True(t, ok)
	assert.True(t, ready.Courier.IsEqual(f.courierA.ID))
	uow.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestNewAdvanceDriverStatusCommand(t *testing.T) {
	f := newFixture(t)

	cmd, err := commands.NewAdvanceDriverStatusCommand(f.courierA, kernel.NewUUID(), "on_the_way")
	require.NoError(t, err)
	assert.Equal(t, order.OnTheWay, cmd.Target())

	_, err = commands.NewAdvanceDriverStatusCommand(f.courierA, kernel.NewUUID(), "teleported")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestAdvanceDriverStatusCommandHandler_Handle(t *testing.T) {
	f := newFixture(t)

	t.Run("assigned courier heads to the restaurant", func(t *testing.T) {
		ctx := t.Context()
		o := f.assignedOrder(t)
		factory, uow, repo := new(MockOrderUoWFactory), new(MockUoW), new(MockOrderRepository)
		expectOrderMutation(ctx, factory, uow, repo, o, nil)
		publisher := new(RecordingPublisher)

		cmd, err := commands.NewAdvanceDriverStatusCommand(f.courierA, o.ID(), "heading_to_restaurant")
		require.NoError(t, err)

		updated, err := commands.NewAdvanceDriverStatusCommandHandler(factory, publisher).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.HeadingToRestaurant, updated.Status())
		assert.IsType(t, order.CourierHeadingToRestaurant{}, publisher.Events()[0])
		uow.AssertExpectations(t)
	})

	t.Run("another courier is forbidden", func(t *testing.T) {
		ctx := t.Context()
		o := f.assignedOrder(t)
		factory, uow, repo := new(MockOrderUoWFactory), new(MockUoW), new(MockOrderRepository)
		expectOrderRead(ctx, factory, uow, repo, o)
		publisher := new(RecordingPublisher)

		cmd, err := commands.NewAdvanceDriverStatusCommand(f.courierB, o.ID(), "heading_to_restaurant")
		require.NoError(t, err)

		_, err = commands.NewAdvanceDriverStatusCommandHandler(factory, publisher).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, order.Assigned, o.Status())
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		assert.Empty(t, publisher.Events())
	})

	t.Run("skipping a step is an invalid transition", func(t *testing.T) {
		ctx := t.Context()
		o := f.assignedOrder(t)
		factory, uow, repo := new(MockOrderUoWFactory), new(MockUoW), new(MockOrderRepository)
		expectOrderRead(ctx, factory, uow, repo, o)

		cmd, err := commands.NewAdvanceDriverStatusCommand(f.courierA, o.ID(), "on_the_way")
		require.NoError(t, err)

		_, err = commands.NewAdvanceDriverStatusCommandHandler(factory, new(RecordingPublisher)).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestConfirmDeliveryCommandHandler_Handle(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	o := f.assignedOrder(t)
	require.NoError(t, o.MarkReadyForPickup(f.dispatcher, o.UpdatedAt()))
	require.NoError(t, o.AdvanceCourierStatus(f.courierA, order.AtRestaurant, o.UpdatedAt()))
	require.NoError(t, o.AdvanceCourierStatus(f.courierA, order.OnTheWay, o.UpdatedAt()))
	require.NoError(t, o.AdvanceCourierStatus(f.courierA, order.Delivered, o.UpdatedAt()))
	o.PullEvents()
	o.MarkPersisted(7)

	factory, uow, repo := new(MockOrderUoWFactory), new(MockUoW), new(MockOrderRepository)
	expectOrderMutation(ctx, factory, uow, repo, o, nil)
	publisher := new(RecordingPublisher)

	cmd, err := commands.NewConfirmDeliveryCommand(f.customer, o.ID())
	require.NoError(t, err)

	updated, err := commands.NewConfirmDeliveryCommandHandler(factory, publisher).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Completed, updated.Status())
	assert.True(t, updated.Courier().IsEqual(f.courierA.ID))
	assert.IsType(t, order.OrderCompleted{}, publisher.Events()[0])
}

func TestCancelOrderCommandHandler_Handle(t *testing.T) {
	f := newFixture(t)

	t.Run("customer cancels a paid order with penalty", func(t *testing.T) {
		ctx := t.Context()
		o := f.assignedOrder(t)
		factory, uow, repo := new(MockOrderUoWFactory), new(MockUoW), new(MockOrderRepository)
		expectOrderMutation(ctx, factory, uow, repo, o, nil)
		publisher := new(RecordingPublisher)

		cmd, err := commands.NewCancelOrderCommand(f.customer, o.ID(), "changed my mind")
		require.NoError(t, err)

		updated, err := commands.NewCancelOrderCommandHandler(factory, publisher, f.policy).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.CancelledByClientWithPenalty, updated.Status())
		assert.Equal(t, "10.00", updated.PenaltyAmount().StringFixed(2))
		assert.Equal(t, "90.00", updated.RefundAmount().StringFixed(2))
		assert.Nil(t, updated.Courier())

		cancelled, ok := publisher.Events()[0].(order.OrderCancelled)
		require.True(t, ok)
		require.NotNil(t, cancelled.PreviousCourier)
		assert.True(t, cancelled.PreviousCourier.IsEqual(f.courierA.ID))
	})

	t.Run("dispatcher cancels an unpaid order without penalty", func(t *testing.T) {
		ctx := t.Context()
		o := f.pendingOrder(t)
		factory, uow, repo := new(MockOrderUoWFactory), new(MockUoW), new(MockOrderRepository)
		expectOrderMutation(ctx, factory, uow, repo, o, nil)

		cmd, err := commands.NewCancelOrderCommand(f.dispatcher, o.ID(), "restaurant closed")
		require.NoError(t, err)

		updated, err := commands.NewCancelOrderCommandHandler(factory, new(RecordingPublisher), f.policy).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.CancelledByAdmin, updated.Status())
		assert.True(t, updated.PenaltyAmount().IsZero())
		assert.Equal(t, order.PaymentCancelled, updated.PaymentStatus())
	})

	t.Run("courier may not cancel", func(t *testing.T) {
		ctx := t.Context()
		o := f.assignedOrder(t)
		factory, uow, repo := new(MockOrderUoWFactory), new(MockUoW), new(MockOrderRepository)
		expectOrderRead(ctx, factory, uow, repo, o)

		cmd, err := commands.NewCancelOrderCommand(f.courierA, o.ID(), "flat tyre")
		require.NoError(t, err)

		_, err = commands.NewCancelOrderCommandHandler(factory, new(RecordingPublisher), f.policy).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, order.Assigned, o.Status())
	})

	t.Run("completed order cannot be cancelled", func(t *testing.T) {
		ctx := t.Context()
		o := f.completedOrder(t)
		factory, uow, repo := new(MockOrderUoWFactory), new(MockUoW), new(MockOrderRepository)
		expectOrderRead(ctx, factory, uow, repo, o)

		cmd, err := commands.NewCancelOrderCommand(f.dispatcher, o.ID(), "too late")
		require.NoError(t, err)

		_, err = commands.NewCancelOrderCommandHandler(factory, new(RecordingPublisher), f.policy).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("missing order", func(t *testing.T) {
		ctx := t.Context()
		id := kernel.NewUUID()
		factory, uow, repo := new(MockOrderUoWFactory), new(MockUoW), new(MockOrderRepository)
		factory.On("Create").Return(uow).Once()
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(repo).Once()
		repo.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id)).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		cmd, err := commands.NewCancelOrderCommand(f.customer, id, "gone")
		require.NoError(t, err)

		_, err = commands.NewCancelOrderCommandHandler(factory, new(RecordingPublisher), f.policy).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
