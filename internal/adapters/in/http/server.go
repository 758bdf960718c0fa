// Package http exposes the order lifecycle over REST and a server-sent event stream.
//
// Identity comes from a bearer JWT (subject = user id, role claim). Every rejection of
// the core is rendered as Error with the status chosen by statusOf.
package http

import (
	"net/http"
	"time"

	"courierflow/internal/adapters/out/realtime"
	"courierflow/internal/core/application/usecases/commands"
	"courierflow/internal/core/application/usecases/queries"
	"courierflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

// Handlers are the use cases the server dispatches to.
type Handlers struct {
	// Command handlers
	CreateOrder         commands.CreateOrderCommandHandler
	AssignDriver        commands.AssignDriverCommandHandler
	SetReadyForPickup   commands.SetReadyForPickupCommandHandler
	AdvanceDriverStatus commands.AdvanceDriverStatusCommandHandler
	ConfirmDelivery     commands.ConfirmDeliveryCommandHandler
	CancelOrder         commands.CancelOrderCommandHandler
	RateOrder           commands.RateOrderCommandHandler
	ConfirmPayment      commands.ConfirmPaymentCommandHandler
	PublishLocation     commands.PublishLocationCommandHandler
	CreateCourier       commands.CreateCourierCommandHandler

	// Query handlers
	GetOrder        queries.GetOrderQueryHandler
	GetActiveOrders queries.GetActiveOrdersQueryHandler
	GetAllCouriers  queries.GetAllCouriersQueryHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers  Handlers
	hub       *realtime.Hub
	jwtSecret []byte
	keepAlive time.Duration
	logger    *zap.Logger
}

func NewServer(handlers Handlers, hub *realtime.Hub, jwtSecret []byte, keepAlive time.Duration, logger *zap.Logger) *Server {
	if keepAlive <= 0 {
		keepAlive = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		handlers:  handlers,
		hub:       hub,
		jwtSecret: jwtSecret,
		keepAlive: keepAlive,
		logger:    logger.With(zap.String("component", "http")),
	}
}

// Echo builds the router with every route registered.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.OFF)
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = newErrorHandler(s.logger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	s.RegisterRoutes(e)
	return e
}

func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1", Authenticate(s.jwtSecret))

	customer := RequireRole(kernel.RoleCustomer)
	dispatcher := RequireRole(kernel.RoleDispatcher)
	driver := RequireRole(kernel.RoleCourier)

	api.POST("/orders", s.CreateOrder, customer)
	api.GET("/orders/active", s.GetActiveOrders, dispatcher)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/assign", s.AssignDriver, dispatcher)
	api.POST("/orders/:id/ready", s.SetReadyForPickup, dispatcher)
	api.POST("/orders/:id/status", s.AdvanceDriverStatus, driver)
	api.POST("/orders/:id/confirm-delivery", s.ConfirmDelivery, customer)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/rating", s.RateOrder, customer)
	api.POST("/orders/:id/location", s.PublishLocation, driver)

	api.GET("/couriers", s.GetCouriers, dispatcher)
	api.POST("/couriers", s.CreateCourier)

	api.GET("/events", s.StreamEvents)

	api.POST("/internal/payments", s.ConfirmPayment, RequireRole(kernel.RoleSystem))
}
