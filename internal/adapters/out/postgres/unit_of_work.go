// Package postgres provides the GORM-based Unit of Work over the order, courier and
// restaurant rating repositories.
//
// Every command handler follows the same shape:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	o, err := uow.OrderRepository().Get(ctx, orderID)
//	if err != nil {
//	    return err
//	}
//	// mutate o through the aggregate
//	if err = uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err // stale writes surface as errs.ConflictError
//	}
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit is a harmless no-op that returns
// gorm.ErrInvalidTransaction, which is why handlers discard its result.
//
// Concurrency Considerations:
//   - Each UnitOfWork instance owns at most one transaction and must not be shared
//     between goroutines
//   - Races between requests on the same order are resolved by the order
//     repository's conditional update, not by locks
//   - Rating refreshes lock the courier row and the restaurant rating row before
//     scanning, so concurrent ratings of different orders of one target serialise
package postgres

import (
	"context"

	"courierflow/internal/adapters/out/postgres/courierrepo"
	"courierflow/internal/adapters/out/postgres/orderrepo"
	"courierflow/internal/adapters/out/postgres/restaurantrepo"
	"courierflow/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh unit of work with no transaction started.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction across the repositories.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts the transaction. Calling it twice keeps the first transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	uow.tx = tx
	return nil
}

// Commit makes every repository write durable and closes the transaction.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. Without an active transaction it returns
// gorm.ErrInvalidTransaction.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

func (uow *GormUnitOfWork) CourierRepository() ports.CourierRepository {
	return courierrepo.NewGormCourierRepository(uow.conn())
}

func (uow *GormUnitOfWork) RestaurantRatingRepository() ports.RestaurantRatingRepository {
	return restaurantrepo.NewGormRatingRepository(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
