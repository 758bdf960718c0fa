// Package ports defines the contracts between the core and its adapters:
// repositories, the unit of work and the real-time transport.
package ports

import (
	"context"

	"courierflow/internal/core/domain/model/courier"
	"courierflow/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier. Adding an existing id is an errs.ConflictError.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists a changed courier, typically its recomputed rating.
	Update(ctx context.Context, courier *courier.Courier) error

	// Get retrieves a courier. Missing couriers yield errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetForUpdate is Get plus a row lock held until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error)
}
