// Package commands contains business operations that modify system state.
// Every handler follows the same shape: validate the command, open a unit of work,
// load the aggregate, let the domain decide, persist with the optimistic precondition,
// commit, and only then hand the recorded events to the publisher.
package commands

import (
	"context"

	"courierflow/internal/core/ports"
)

// Handlers depend on the narrowest unit of work that covers the aggregates they touch.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	RestaurantRatingRepoFactory interface {
		RestaurantRatingRepository() ports.RestaurantRatingRepository
	}

	// OrderUoW scopes a transaction to the orders table: lifecycle moves, payment
	// signals, location pings and the unpaid sweep.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CourierUoW is used by courier registration only.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// UoW spans every repository. Assignment needs it to load the courier next to the
	// order; rating needs it to refresh both averages before commit.
	UoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		RestaurantRatingRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
