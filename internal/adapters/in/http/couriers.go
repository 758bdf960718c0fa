package http

import (
	"net/http"

	"courierflow/internal/core/application/usecases/commands"
	"courierflow/internal/core/application/usecases/queries"
	"courierflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// GetCouriers handles GET /api/v1/couriers.
func (s *Server) GetCouriers(c echo.Context) error {
	couriers, err := s.handlers.GetAllCouriers.Handle(c.Request().Context(), queries.NewGetAllCouriersQuery())
	if err != nil {
		return err
	}

	response := make([]CourierResponse, len(couriers))
	for i, courier := range couriers {
		response[i] = CourierResponse{
			ID:     courier.ID.String(),
			Name:   courier.Name,
			Rating: courier.Rating.StringFixed(1),
		}
	}
	return c.JSON(http.StatusOK, response)
}

// CreateCourier handles POST /api/v1/couriers. Dispatchers register anyone; a courier
// registers itself and may omit the id.
func (s *Server) CreateCourier(c echo.Context) error {
	var req createCourierRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	actor := actorFrom(c)

	courierID := actor.ID
	switch {
	case req.ID != "":
		id, err := kernel.UUIDFromString(req.ID)
		if err != nil {
			return err
		}
		courierID = id
	case actor.Is(kernel.RoleDispatcher):
		courierID = kernel.NewUUID()
	}

	cmd, err := commands.NewCreateCourierCommand(actor, courierID, req.Name)
	if err != nil {
		return err
	}
	created, err := s.handlers.CreateCourier.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newCourierResponse(created))
}
