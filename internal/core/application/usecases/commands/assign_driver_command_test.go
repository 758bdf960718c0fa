package commands_test

import (
	"errors"
	"testing"

	"courierflow/internal/core/application/usecases/commands"
	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewAssignDriverCommand(t *testing.T) {
	f := newFixture(t)

	cmd, err := commands.NewAssignDriverCommand(f.dispatcher, kernel.NewUUID(), f.courierA.ID, false)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.False(t, cmd.Reassign())

	_, err = commands.NewAssignDriverCommand(f.dispatcher, kernel.UUID{}, f.courierA.ID, false)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	require.ErrorIs(t, commands.AssignDriverCommand{}.Validate(), commands.ErrAssignDriverCommandIsNotConstructed)
}

func TestAssignDriverCommandHandler_Handle(t *testing.T) {
	f := newFixture(t)

	setup := func(o *order.Order, courierActor kernel.Actor) (*MockUoWFactory, *MockUoW, *MockOrderRepository, *MockCourierRepository) {
		factory := new(MockUoWFactory)
		uow := new(MockUoW)
		orderRepo := new(MockOrderRepository)
		courierRepo := new(MockCourierRepository)

		factory.On("Create").Return(uow).Once()
		uow.On("Begin", mock.Anything).Return(nil).Once()
		uow.On("OrderRepository").Return(orderRepo).Once()
		uow.On("CourierRepository").Return(courierRepo).Once()
		orderRepo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
		courierRepo.On("Get", mock.Anything, courierActor.ID).Return(f.courier(t, courierActor), nil).Once()
		uow.On("Rollback", mock.Anything).Return(nil).Once()
		return factory, uow, orderRepo, courierRepo
	}

	t.Run("initial assignment", func(t *testing.T) {
		ctx := t.Context()
		o := f.paidOrder(t)
		factory, uow, orderRepo, _ := setup(o, f.courierA)
		orderRepo.On("Update", ctx, o).Return(nil).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		publisher := new(RecordingPublisher)

		cmd, err := commands.NewAssignDriverCommand(f.dispatcher, o.ID(), f.courierA.ID, false)
		require.NoError(t, err)

		updated, err := commands.NewAssignDriverCommandHandler(factory, publisher).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, updated.Status())
		assert.True(t, updated.Courier().IsEqual(f.courierA.ID))
		events := publisher.Events()
		require.Len(t, events, 2)
		assert.IsType(t, order.CourierAssigned{}, events[0])
		assert.IsType(t, order.StatusChanged{}, events[1])
		uow.AssertExpectations(t)
		orderRepo.AssertExpectations(t)
	})

	t.Run("reassignment", func(t *testing.T) {
		ctx := t.Context()
		o := f.assignedOrder(t)
		factory, uow, orderRepo, _ := setup(o, f.courierB)
		orderRepo.On("Update", ctx, o).Return(nil).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		publisher := new(RecordingPublisher)

		cmd, err := commands.NewAssignDriverCommand(f.dispatcher, o.ID(), f.courierB.ID, true)
		require.NoError(t, err)

		updated, err := commands.NewAssignDriverCommandHandler(factory, publisher).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.True(t, updated.Courier().IsEqual(f.courierB.ID))
		reassigned, ok := publisher.Events()[0].(order.CourierReassigned)
		require.True(t, ok)
		assert.True(t, reassigned.PreviousCourier.IsEqual(f.courierA.ID))
	})

	t.Run("unpaid order is a conflict and nothing is written", func(t *testing.T) {
		ctx := t.Context()
		o := f.pendingOrder(t)
		factory, uow, orderRepo, _ := setup(o, f.courierA)
		publisher := new(RecordingPublisher)

		cmd, err := commands.NewAssignDriverCommand(f.dispatcher, o.ID(), f.courierA.ID, false)
		require.NoError(t, err)

		_, err = commands.NewAssignDriverCommandHandler(factory, publisher).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrConflict)
		orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
		assert.Empty(t, publisher.Events())
	})

	t.Run("stale version surfaces as conflict", func(t *testing.T) {
		ctx := t.Context()
		o := f.paidOrder(t)
		factory, _, orderRepo, _ := setup(o, f.courierA)
		stale := errs.NewConflictErrorWithCause("order", "stale write", errs.NewVersionIsInvalidError("order", o.Version()))
		orderRepo.On("Update", ctx, o).Return(stale).Once()
		publisher := new(RecordingPublisher)

		cmd, err := commands.NewAssignDriverCommand(f.dispatcher, o.ID(), f.courierA.ID, false)
		require.NoError(t, err)

		_, err = commands.NewAssignDriverCommandHandler(factory, publisher).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrConflict)
		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
		assert.Empty(t, publisher.Events())
	})

	t.Run("unknown courier", func(t *testing.T) {
		ctx := t.Context()
		o := f.paidOrder(t)
		factory := new(MockUoWFactory)
		uow := new(MockUoW)
		orderRepo := new(MockOrderRepository)
		courierRepo := new(MockCourierRepository)
		factory.On("Create").Return(uow).Once()
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(orderRepo).Once()
		uow.On("CourierRepository").Return(courierRepo).Once()
		orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		courierRepo.On("Get", ctx, f.courierA.ID).
			Return(nil, errs.NewObjectNotFoundError("courier", f.courierA.ID)).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		cmd, err := commands.NewAssignDriverCommand(f.dispatcher, o.ID(), f.courierA.ID, false)
		require.NoError(t, err)

		_, err = commands.NewAssignDriverCommandHandler(factory, new(RecordingPublisher)).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("begin fails", func(t *testing.T) {
		ctx := t.Context()
		factory := new(MockUoWFactory)
		uow := new(MockUoW)
		factory.On("Create").Return(uow).Once()
		uow.On("Begin", ctx).Return(errors.New("pool exhausted")).Once()

		cmd, err := commands.NewAssignDriverCommand(f.dispatcher, kernel.NewUUID(), f.courierA.ID, false)
		require.NoError(t, err)

		_, err = commands.NewAssignDriverCommandHandler(factory, new(RecordingPublisher)).Handle(ctx, cmd)

		require.EqualError(t, err, "pool exhausted")
		uow.AssertNotCalled(t, "Rollback", mock.Anything)
	})
}
