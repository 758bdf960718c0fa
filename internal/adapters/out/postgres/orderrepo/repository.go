package orderrepo

import (
	"context"
	"errors"
	"time"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
	"courierflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository. Every Update is conditioned on
// the status and version the order was loaded with.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	db := r.db.WithContext(ctx)
	if err := db.Create(&dto).Error; err != nil {
		return err
	}

	if err := r.appendHistory(db, aggregate); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

// Update writes the order if nobody else changed it since it was loaded. A miss is a
// ConflictError wrapping VersionIsInvalidError; a missing row is ObjectNotFoundError.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	expected := aggregate.Version()
	dto := fromDomain(aggregate)
	dto.Version = expected + 1

	db := r.db.WithContext(ctx)
	result := db.Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND version = ?", dto.ID, aggregate.PersistedStatus().String(), expected).
		Select("*").
		Omit("id", "customer_id", "restaurant_id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewConflictErrorWithCause("order", "order was changed concurrently",
			errs.NewVersionIsInvalidError("order", expected))
	}

	if err := r.appendHistory(db, aggregate); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	var history []HistoryDTO
	if err := db.Where("order_id = ?", id.Bytes()).Order("seq").Find(&history).Error; err != nil {
		return nil, err
	}

	return toDomain(dto, history)
}

// ListExpiredUnpaid returns pending orders created before cutoff whose payment is not paid,
// oldest first. created_at is stored in UTC, so cutoff is compared in UTC as well.
func (r *GormOrderRepository) ListExpiredUnpaid(ctx context.Context, cutoff time.Time, limit int) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("status = ? AND payment_status <> ? AND created_at < ?",
			order.Pending.String(), order.PaymentPaid.String(), cutoff.UTC()).
		Order("created_at").
		Limit(limit).
		Pluck("id", &raw).Error
	if err != nil {
		return nil, err
	}
	return uuids(raw...)
}

// CourierRatings returns the stars of every rated order delivered by courierID.
func (r *GormOrderRepository) CourierRatings(ctx context.Context, courierID kernel.UUID) ([]int, error) {
	return r.stars(ctx, "courier_id", "courier_rating_stars", courierID)
}

// RestaurantRatings returns the stars of every rated order from restaurantID.
func (r *GormOrderRepository) RestaurantRatings(ctx context.Context, restaurantID kernel.UUID) ([]int, error) {
	return r.stars(ctx, "restaurant_id", "restaurant_rating_stars", restaurantID)
}

func (r *GormOrderRepository) stars(ctx context.Context, idColumn, starsColumn string, id kernel.UUID) ([]int, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	stars := make([]int, 0)
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where(idColumn+" = ? AND "+starsColumn+" IS NOT NULL", id.Bytes()).
		Pluck(starsColumn, &stars).Error
	if err != nil {
		return nil, err
	}
	return stars, nil
}

func (r *GormOrderRepository) appendHistory(db *gorm.DB, aggregate *order.Order) error {
	unsaved := aggregate.UnsavedHistory()
	if len(unsaved) == 0 {
		return nil
	}
	offset := len(aggregate.History()) - len(unsaved)
	dtos := historyFromDomain(aggregate.ID(), offset, unsaved)
	return db.Create(&dtos).Error
}
