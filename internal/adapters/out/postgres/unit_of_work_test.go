package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"courierflow/internal/adapters/out/postgres"
	"courierflow/internal/adapters/out/postgres/postgrestest"
	"courierflow/internal/core/domain/model/courier"
	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewLineItem("Burrito", decimal.RequireFromString("8.75"), 1)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]order.LineItem{item}, decimal.RequireFromString("2.99"), "fern-07", time.Now().UTC())
	require.NoError(t, err)
	return o
}

func TestGormUnitOfWork_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	factory := postgres.NewGormUnitOfWorkFactory(postgrestest.SQLite(t))

	t.Run("commit persists all repositories", func(t *testing.T) {
		o := newOrder(t)
		c, err := courier.NewCourier(kernel.NewUUID(), "Eli")
		require.NoError(t, err)

		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.OrderRepository().Add(ctx, o))
		require.NoError(t, uow.CourierRepository().Add(ctx, c))
		require.NoError(t, uow.Commit(ctx))

		check := factory.Create()
		_, err = check.OrderRepository().Get(ctx, o.ID())
		require.NoError(t, err)
		_, err = check.CourierRepository().Get(ctx, c.ID())
		require.NoError(t, err)
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		o := newOrder(t)

		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.OrderRepository().Add(ctx, o))
		require.NoError(t, uow.Rollback(ctx))

		_, err := factory.Create().OrderRepository().Get(ctx, o.ID())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("rollback after commit reports no transaction", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.Commit(ctx))

		assert.ErrorIs(t, uow.Rollback(ctx), gorm.ErrInvalidTransaction)
		assert.ErrorIs(t, uow.Commit(ctx), gorm.ErrInvalidTransaction)
	})
}

// TestGormUnitOfWork_ConcurrentTransitions races two transactions on one order against
// PostgreSQL; exactly one of them may win.
func TestGormUnitOfWork_ConcurrentTransitions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	db, terminate, err := postgrestest.Postgres(ctx)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = terminate(context.Background()) })
	factory := postgres.NewGormUnitOfWorkFactory(db)

	o := newOrder(t)
	seed := factory.Create()
	require.NoError(t, seed.Begin(ctx))
	require.NoError(t, seed.OrderRepository().Add(ctx, o))
	require.NoError(t, seed.Commit(ctx))

	results := make(chan error, 2)
	for _, confirmed := range []bool{true, false} {
		go func() {
			uow := factory.Create()
			if err := uow.Begin(ctx); err != nil {
				results <- err
				return
			}
			defer func() { _ = uow.Rollback(ctx) }()

			loaded, err := uow.OrderRepository().Get(ctx, o.ID())
			if err != nil {
				results <- err
				return
			}
			if _, err = loaded.ConfirmPayment(confirmed, time.Now().UTC()); err != nil {
				results <- err
				return
			}
			if err = uow.OrderRepository().Update(ctx, loaded); err != nil {
				results <- err
				return
			}
			results <- uow.Commit(ctx)
		}()
	}

	var wins, conflicts int
	for range 2 {
		switch err := <-results; {
		case err == nil:
			wins++
		case errors.Is(err, errs.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	loaded, err := factory.Create().OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(2), loaded.Version())
}
