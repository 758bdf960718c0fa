// Package orderrepo persists the Order aggregate: one row in orders plus its
// append-only audit trail in order_status_history.
package orderrepo

import (
	"time"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO is the orders row. Line items are kept as a JSON column; ratings are
// embedded and nullable.
type OrderDTO struct {
	ID                 uuid.UUID                        `gorm:"type:uuid;primaryKey"`
	CustomerID         uuid.UUID                        `gorm:"type:uuid;not null;index"`
	RestaurantID       uuid.UUID                        `gorm:"type:uuid;not null;index"`
	CourierID          *uuid.UUID                       `gorm:"type:uuid;index"`
	Items              datatypes.JSONSlice[LineItemDTO] `gorm:"not null"`
	Subtotal           decimal.Decimal                  `gorm:"type:numeric(12,2);not null"`
	DeliveryFee        decimal.Decimal                  `gorm:"type:numeric(12,2);not null"`
	Total              decimal.Decimal                  `gorm:"type:numeric(12,2);not null"`
	PenaltyAmount      decimal.Decimal                  `gorm:"type:numeric(12,2);not null"`
	RefundAmount       decimal.Decimal                  `gorm:"type:numeric(12,2);not null"`
	Status             string                           `gorm:"type:varchar(64);not null;index"`
	PaymentStatus      string                           `gorm:"type:varchar(32);not null"`
	SafetyWord         string                           `gorm:"type:varchar(64);not null"`
	CourierRating      RatingDTO                        `gorm:"embedded;embeddedPrefix:courier_rating_"`
	RestaurantRating   RatingDTO                        `gorm:"embedded;embeddedPrefix:restaurant_rating_"`
	CreatedAt          time.Time                        `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt          time.Time                        `gorm:"not null;autoUpdateTime:false"`
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	CancelledBy        *uuid.UUID `gorm:"type:uuid"`
	CancelledByRole    string     `gorm:"type:varchar(32)"`
	CancellationReason string
	Version            int64 `gorm:"not null;default:1"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type LineItemDTO struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// RatingDTO is nil-able as a whole: Stars is nil when the target was not rated.
type RatingDTO struct {
	Stars   *int
	Comment string
	RatedAt *time.Time
}

// HistoryDTO is one audit trail entry. Seq keeps insertion order per order.
type HistoryDTO struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_history_seq"`
	Seq       int       `gorm:"not null;uniqueIndex:idx_order_history_seq"`
	Status    string    `gorm:"type:varchar(64);not null"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole string    `gorm:"type:varchar(32);not null"`
	At        time.Time `gorm:"not null"`
	Notes     *string
}

func (HistoryDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(o *order.Order) OrderDTO {
	items := make(datatypes.JSONSlice[LineItemDTO], 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, LineItemDTO{
			Name:      item.Name(),
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity(),
			Subtotal:  item.Subtotal(),
		})
	}

	return OrderDTO{
		ID:                 o.ID().Bytes(),
		CustomerID:         o.CustomerID().Bytes(),
		RestaurantID:       o.RestaurantID().Bytes(),
		CourierID:          rawUUID(o.Courier()),
		Items:              items,
		Subtotal:           o.Subtotal(),
		DeliveryFee:        o.DeliveryFee(),
		Total:              o.Total(),
		PenaltyAmount:      o.PenaltyAmount(),
		RefundAmount:       o.RefundAmount(),
		Status:             o.Status().String(),
		PaymentStatus:      o.PaymentStatus().String(),
		SafetyWord:         o.SafetyWord(),
		CourierRating:      ratingFromDomain(o.CourierRating()),
		RestaurantRating:   ratingFromDomain(o.RestaurantRating()),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
		DeliveredAt:        o.DeliveredAt(),
		CancelledAt:        o.CancelledAt(),
		CancelledBy:        rawUUID(o.CancelledBy()),
		CancelledByRole:    o.CancelledByRole().String(),
		CancellationReason: o.CancellationReason(),
		Version:            o.Version(),
	}
}

func historyFromDomain(orderID kernel.UUID, offset int, entries []order.HistoryEntry) []HistoryDTO {
	dtos := make([]HistoryDTO, 0, len(entries))
	for i, e := range entries {
		dto := HistoryDTO{
			OrderID:   orderID.Bytes(),
			Seq:       offset + i,
			Status:    e.Status(),
			ActorID:   e.ActorID().Bytes(),
			ActorRole: e.ActorRole().String(),
			At:        e.At(),
		}
		if e.HasNotes() {
			notes := e.Notes()
			dto.Notes = &notes
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

func ratingFromDomain(r *order.Rating) RatingDTO {
	if r == nil {
		return RatingDTO{}
	}
	stars := r.Stars()
	ratedAt := r.RatedAt()
	return RatingDTO{Stars: &stars, Comment: r.Comment(), RatedAt: &ratedAt}
}

func toDomain(dto OrderDTO, history []HistoryDTO) (*order.Order, error) {
	ids, err := uuids(dto.ID, dto.CustomerID, dto.RestaurantID)
	if err != nil {
		return nil, err
	}

	courierID, err := optionalUUID(dto.CourierID)
	if err != nil {
		return nil, err
	}

	cancelledBy, err := optionalUUID(dto.CancelledBy)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	payment, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := order.NewLineItem(itemDTO.Name, itemDTO.UnitPrice, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	entries, err := historyToDomain(history)
	if err != nil {
		return nil, err
	}

	courierRating, err := ratingToDomain(dto.CourierRating)
	if err != nil {
		return nil, err
	}

	restaurantRating, err := ratingToDomain(dto.RestaurantRating)
	if err != nil {
		return nil, err
	}

	var cancelledByRole kernel.Role
	if dto.CancelledByRole != "" {
		if cancelledByRole, err = kernel.ParseRole(dto.CancelledByRole); err != nil {
			return nil, err
		}
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                 ids[0],
		CustomerID:         ids[1],
		RestaurantID:       ids[2],
		CourierID:          courierID,
		Items:              items,
		Subtotal:           dto.Subtotal,
		DeliveryFee:        dto.DeliveryFee,
		Total:              dto.Total,
		Penalty:            dto.PenaltyAmount,
		Refund:             dto.RefundAmount,
		Status:             status,
		PaymentStatus:      payment,
		History:            entries,
		CourierRating:      courierRating,
		RestaurantRating:   restaurantRating,
		SafetyWord:         dto.SafetyWord,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
		DeliveredAt:        dto.DeliveredAt,
		CancelledAt:        dto.CancelledAt,
		CancelledBy:        cancelledBy,
		CancelledByRole:    cancelledByRole,
		CancellationReason: dto.CancellationReason,
		Version:            dto.Version,
	})
}

func historyToDomain(dtos []HistoryDTO) ([]order.HistoryEntry, error) {
	entries := make([]order.HistoryEntry, 0, len(dtos))
	for _, dto := range dtos {
		actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
		if err != nil {
			return nil, err
		}
		role, err := kernel.ParseRole(dto.ActorRole)
		if err != nil {
			return nil, err
		}
		var notes string
		if dto.Notes != nil {
			notes = *dto.Notes
		}
		entries = append(entries, order.NewHistoryEntry(dto.Status, actorID, role, dto.At, notes))
	}
	return entries, nil
}

func ratingToDomain(dto RatingDTO) (*order.Rating, error) {
	if dto.Stars == nil {
		return nil, nil //nolint:nilnil // not rated
	}
	var ratedAt time.Time
	if dto.RatedAt != nil {
		ratedAt = *dto.RatedAt
	}
	r, err := order.NewRating(*dto.Stars, dto.Comment, ratedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func rawUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // column is nullable
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func uuids(raw ...uuid.UUID) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
