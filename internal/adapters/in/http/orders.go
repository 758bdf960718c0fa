package http

import (
	"net/http"

	"courierflow/internal/core/application/usecases/commands"
	"courierflow/internal/core/application/usecases/queries"
	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	actor := actorFrom(c)

	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
	if err != nil {
		return err
	}
	items := make([]commands.ItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = commands.ItemInput{Name: item.Name, UnitPrice: item.UnitPrice, Quantity: item.Quantity}
	}

	cmd, err := commands.NewCreateOrderCommand(actor, kernel.NewUUID(), restaurantID, items)
	if err != nil {
		return err
	}
	created, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newOrderResponse(created, actor))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	var req OrderPath
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return err
	}
	actor := actorFrom(c)

	query, err := queries.NewGetOrderQuery(actor, orderID)
	if err != nil {
		return err
	}
	o, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderResponse(o, actor))
}

// GetActiveOrders handles GET /api/v1/orders/active - the dispatcher board.
func (s *Server) GetActiveOrders(c echo.Context) error {
	query, err := queries.NewGetActiveOrdersQuery(actorFrom(c))
	if err != nil {
		return err
	}
	rows, err := s.handlers.GetActiveOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]ActiveOrderResponse, len(rows))
	for i, row := range rows {
		response[i] = newActiveOrderResponse(row)
	}
	return c.JSON(http.StatusOK, response)
}

// AssignDriver handles POST /api/v1/orders/:id/assign.
func (s *Server) AssignDriver(c echo.Context) error {
	var req assignDriverRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return err
	}
	actor := actorFrom(c)

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignDriverCommand(actor, orderID, driverID, req.Reassign)
	if err != nil {
		return err
	}
	return s.respond(c, actor, func() (*order.Order, error) {
		return s.handlers.AssignDriver.Handle(c.Request().Context(), cmd)
	})
}

// SetReadyForPickup handles POST /api/v1/orders/:id/ready.
func (s *Server) SetReadyForPickup(c echo.Context) error {
	var req OrderPath
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return err
	}
	actor := actorFrom(c)

	cmd, err := commands.NewSetReadyForPickupCommand(actor, orderID)
	if err != nil {
		return err
	}
	return s.respond(c, actor, func() (*order.Order, error) {
		return s.handlers.SetReadyForPickup.Handle(c.Request().Context(), cmd)
	})
}

// AdvanceDriverStatus handles POST /api/v1/orders/:id/status.
func (s *Server) AdvanceDriverStatus(c echo.Context) error {
	var req advanceStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return err
	}
	actor := actorFrom(c)

	cmd, err := commands.NewAdvanceDriverStatusCommand(actor, orderID, req.Status)
	if err != nil {
		return err
	}
	return s.respond(c, actor, func() (*order.Order, error) {
		return s.handlers.AdvanceDriverStatus.Handle(c.Request().Context(), cmd)
	})
}

// ConfirmDelivery handles POST /api/v1/orders/:id/confirm-delivery.
func (s *Server) ConfirmDelivery(c echo.Context) error {
	var req OrderPath
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return err
	}
	actor := actorFrom(c)

	cmd, err := commands.NewConfirmDeliveryCommand(actor, orderID)
	if err != nil {
		return err
	}
	return s.respond(c, actor, func() (*order.Order, error) {
		return s.handlers.ConfirmDelivery.Handle(c.Request().Context(), cmd)
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	var req cancelOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return err
	}
	actor := actorFrom(c)

	cmd, err := commands.NewCancelOrderCommand(actor, orderID, req.Reason)
	if err != nil {
		return err
	}
	return s.respond(c, actor, func() (*order.Order, error) {
		return s.handlers.CancelOrder.Handle(c.Request().Context(), cmd)
	})
}

// RateOrder handles POST /api/v1/orders/:id/rating.
func (s *Server) RateOrder(c echo.Context) error {
	var req rateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return err
	}
	actor := actorFrom(c)

	cmd, err := commands.NewRateOrderCommand(actor, orderID,
		ratingInput(req.DriverRating), ratingInput(req.RestaurantRating))
	if err != nil {
		return err
	}
	return s.respond(c, actor, func() (*order.Order, error) {
		return s.handlers.RateOrder.Handle(c.Request().Context(), cmd)
	})
}

// PublishLocation handles POST /api/v1/orders/:id/location.
func (s *Server) PublishLocation(c echo.Context) error {
	var req publishLocationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewPublishLocationCommand(actorFrom(c), orderID,
		*req.Latitude, *req.Longitude)
	if err != nil {
		return err
	}
	if err = s.handlers.PublishLocation.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

// ConfirmPayment handles POST /api/v1/internal/payments, the synchronous variant of the
// payment collaborator's signal.
func (s *Server) ConfirmPayment(c echo.Context) error {
	var req paymentSignalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewConfirmPaymentCommand(orderID, *req.Confirmed)
	if err != nil {
		return err
	}
	return s.respond(c, actorFrom(c), func() (*order.Order, error) {
		return s.handlers.ConfirmPayment.Handle(c.Request().Context(), cmd)
	})
}

func (s *Server) respond(c echo.Context, viewer kernel.Actor, run func() (*order.Order, error)) error {
	o, err := run()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderResponse(o, viewer))
}

func ratingInput(r *ratingRequest) *commands.RatingInput {
	if r == nil {
		return nil
	}
	return &commands.RatingInput{Stars: r.Stars, Comment: r.Comment}
}
