package http

import (
	"time"

	"courierflow/internal/core/application/usecases/queries"
	"courierflow/internal/core/domain/model/courier"
	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"
)

type OrderResponse struct {
	ID                 string             `json:"id"`
	CustomerID         string             `json:"customer_id"`
	RestaurantID       string             `json:"restaurant_id"`
	DriverID           *string            `json:"driver_id"`
	Items              []LineItemResponse `json:"items"`
	Subtotal           string             `json:"subtotal"`
	DeliveryFee        string             `json:"delivery_fee"`
	Total              string             `json:"total"`
	Status             string             `json:"status"`
	PaymentStatus      string             `json:"payment_status"`
	PenaltyAmount      string             `json:"penalty_amount"`
	RefundAmount       string             `json:"refund_amount"`
	SafetyWord         string             `json:"safety_word,omitempty"`
	StatusHistory      []HistoryResponse  `json:"status_history"`
	DriverRating       *RatingResponse    `json:"driver_rating,omitempty"`
	RestaurantRating   *RatingResponse    `json:"restaurant_rating,omitempty"`
	CancelledBy        *string            `json:"cancelled_by,omitempty"`
	CancelledByRole    string             `json:"cancelled_by_role,omitempty"`
	CancellationReason string             `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time         `json:"cancelled_at,omitempty"`
	DeliveredAt        *time.Time         `json:"delivered_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	Version            int64              `json:"version"`
}

type LineItemResponse struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type HistoryResponse struct {
	Status    string    `json:"status"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Timestamp time.Time `json:"timestamp"`
	Notes     *string   `json:"notes,omitempty"`
}

type RatingResponse struct {
	Stars   int       `json:"stars"`
	Comment string    `json:"comment,omitempty"`
	RatedAt time.Time `json:"rated_at"`
}

type ActiveOrderResponse struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customer_id"`
	RestaurantID  string    `json:"restaurant_id"`
	DriverID      *string   `json:"driver_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Total         string    `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
}

type CourierResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rating string `json:"rating"`
}

// newOrderResponse renders o for viewer. The safety word is shown to the customer who
// owns the order and to its assigned courier only.
func newOrderResponse(o *order.Order, viewer kernel.Actor) OrderResponse {
	resp := OrderResponse{
		ID:                 o.ID().String(),
		CustomerID:         o.CustomerID().String(),
		RestaurantID:       o.RestaurantID().String(),
		DriverID:           optionalID(o.Courier()),
		Subtotal:           o.Subtotal().StringFixed(2),
		DeliveryFee:        o.DeliveryFee().StringFixed(2),
		Total:              o.Total().StringFixed(2),
		Status:             o.Status().String(),
		PaymentStatus:      o.PaymentStatus().String(),
		PenaltyAmount:      o.PenaltyAmount().StringFixed(2),
		RefundAmount:       o.RefundAmount().StringFixed(2),
		DriverRating:       newRatingResponse(o.CourierRating()),
		RestaurantRating:   newRatingResponse(o.RestaurantRating()),
		CancelledBy:        optionalID(o.CancelledBy()),
		CancelledByRole:    o.CancelledByRole().String(),
		CancellationReason: o.CancellationReason(),
		CancelledAt:        o.CancelledAt(),
		DeliveredAt:        o.DeliveredAt(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
		Version:            o.Version(),
	}

	ownsIt := viewer.Is(kernel.RoleCustomer) && viewer.ID.IsEqual(o.CustomerID())
	carriesIt := viewer.Is(kernel.RoleCourier) && o.Courier() != nil && o.Courier().IsEqual(viewer.ID)
	if ownsIt || carriesIt {
		resp.SafetyWord = o.SafetyWord()
	}

	items := o.Items()
	resp.Items = make([]LineItemResponse, len(items))
	for i, item := range items {
		resp.Items[i] = LineItemResponse{
			Name:      item.Name(),
			UnitPrice: item.UnitPrice().StringFixed(2),
			Quantity:  item.Quantity(),
			Subtotal:  item.Subtotal().StringFixed(2),
		}
	}

	history := o.History()
	resp.StatusHistory = make([]HistoryResponse, len(history))
	for i, h := range history {
		entry := HistoryResponse{
			Status:    h.Status(),
			ActorID:   h.ActorID().String(),
			ActorRole: h.ActorRole().String(),
			Timestamp: h.At(),
		}
		if h.HasNotes() {
			notes := h.Notes()
			entry.Notes = &notes
		}
		resp.StatusHistory[i] = entry
	}

	return resp
}

func newRatingResponse(r *order.Rating) *RatingResponse {
	if r == nil {
		return nil
	}
	return &RatingResponse{Stars: r.Stars(), Comment: r.Comment(), RatedAt: r.RatedAt()}
}

func newActiveOrderResponse(row queries.GetActiveOrdersQueryResponse) ActiveOrderResponse {
	return ActiveOrderResponse{
		ID:            row.ID.String(),
		CustomerID:    row.CustomerID.String(),
		RestaurantID:  row.RestaurantID.String(),
		DriverID:      optionalID(row.CourierID),
		Status:        row.Status.String(),
		PaymentStatus: row.PaymentStatus.String(),
		Total:         row.Total.StringFixed(2),
		CreatedAt:     row.CreatedAt,
	}
}

func newCourierResponse(c *courier.Courier) CourierResponse {
	return CourierResponse{ID: c.ID().String(), Name: c.Name(), Rating: c.Rating().StringFixed(1)}
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
