package http

import (
	"github.com/shopspring/decimal"
)

type OrderPath struct {
	OrderID string `param:"id" validate:"required,uuid"`
}

type createOrderRequest struct {
	RestaurantID string             `json:"restaurant_id" validate:"required,uuid"`
	Items        []orderItemRequest `json:"items"         validate:"required,min=1,dive"`
}

type orderItemRequest struct {
	Name      string          `json:"name"       validate:"required,max=200"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"   validate:"required,gt=0"`
}

type assignDriverRequest struct {
	OrderPath
	DriverID string `json:"driver_id" validate:"required,uuid"`
	Reassign bool   `json:"reassign"`
}

type advanceStatusRequest struct {
	OrderPath
	Status string `json:"status" validate:"required"`
}

type cancelOrderRequest struct {
	OrderPath
	Reason string `json:"reason" validate:"required,max=500"`
}

type ratingRequest struct {
	Stars   int    `json:"stars"   validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type rateOrderRequest struct {
	OrderPath
	DriverRating     *ratingRequest `json:"driver_rating"`
	RestaurantRating *ratingRequest `json:"restaurant_rating"`
}

type publishLocationRequest struct {
	OrderPath
	Latitude  *float64 `json:"latitude"  validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

type createCourierRequest struct {
	ID   string `json:"id"   validate:"omitempty,uuid"`
	Name string `json:"name" validate:"required,max=100"`
}

type paymentSignalRequest struct {
	OrderID   string `json:"order_id"  validate:"required,uuid"`
	Confirmed *bool  `json:"confirmed" validate:"required"`
}

type eventStreamRequest struct {
	OrderID string `query:"order_id" validate:"omitempty,uuid"`
}
