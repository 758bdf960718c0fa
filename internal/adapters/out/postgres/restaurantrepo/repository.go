// Package restaurantrepo persists the running rating of restaurants. Restaurants
// themselves live in another service; only the rating projection is stored here.
package restaurantrepo

import (
	"context"
	"errors"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/restaurant"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingDTO struct {
	RestaurantID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Average      decimal.Decimal `gorm:"type:numeric(2,1);not null"`
	Count        int             `gorm:"not null"`
}

func (RatingDTO) TableName() string {
	return "restaurant_ratings"
}

type GormRatingRepository struct {
	db *gorm.DB
}

func NewGormRatingRepository(db *gorm.DB) *GormRatingRepository {
	return &GormRatingRepository{db: db}
}

// Lock makes sure the rating row exists, then locks it with SELECT ... FOR UPDATE.
// Two transactions rating the same restaurant are serialised on that row.
func (r *GormRatingRepository) Lock(ctx context.Context, restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	seed := RatingDTO{RestaurantID: restaurantID.Bytes(), Average: restaurant.DefaultRating}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return err
	}

	var locked RatingDTO
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&locked, "restaurant_id = ?", restaurantID.Bytes()).Error
}

// Save upserts the rating row of the restaurant.
func (r *GormRatingRepository) Save(ctx context.Context, rating *restaurant.Rating) error {
	dto := RatingDTO{
		RestaurantID: rating.RestaurantID().Bytes(),
		Average:      rating.Average(),
		Count:        rating.Count(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "restaurant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"average", "count"}),
	}).Create(&dto).Error
}

func (r *GormRatingRepository) Get(ctx context.Context, restaurantID kernel.UUID) (*restaurant.Rating, error) {
	if err := restaurantID.Validate(); err != nil {
		return nil, err
	}

	var dto RatingDTO
	err := r.db.WithContext(ctx).First(&dto, "restaurant_id = ?", restaurantID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return restaurant.NewRating(restaurantID, restaurant.DefaultRating, 0)
	}
	if err != nil {
		return nil, err
	}

	return restaurant.NewRating(restaurantID, dto.Average, dto.Count)
}
