package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Repositories use the transaction started by Begin, or the plain connection
	// when no transaction is active.
	OrderRepository() OrderRepository
	CourierRepository() CourierRepository
	RestaurantRatingRepository() RestaurantRatingRepository
}
