package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"courierflow/internal/adapters/out/realtime"
	"courierflow/internal/core/application/usecases/queries"
	"courierflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StreamEvents handles GET /api/v1/events as a server-sent event stream.
//
// The connection receives messages addressed to the requester and, for dispatchers, the
// broadcast pool. With ?order_id= it also watches that order's channel, provided the
// requester may see the order.
func (s *Server) StreamEvents(c echo.Context) error {
	var req eventStreamRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	actor := actorFrom(c)
	ctx := c.Request().Context()

	var watch *kernel.UUID
	if req.OrderID != "" {
		orderID, err := kernel.UUIDFromString(req.OrderID)
		if err != nil {
			return err
		}
		query, err := queries.NewGetOrderQuery(actor, orderID)
		if err != nil {
			return err
		}
		if _, err = s.handlers.GetOrder.Handle(ctx, query); err != nil {
			return err
		}
		watch = &orderID
	}

	sub := s.hub.Subscribe(actor)
	defer s.hub.Unsubscribe(sub)
	if watch != nil {
		s.hub.WatchOrder(sub, *watch)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)
	if err := writeComment(res, "connected"); err != nil {
		return nil
	}

	logger := s.logger.With(zap.String("user_id", actor.ID.String()), zap.String("role", actor.Role.String()))
	logger.Debug("event stream opened")
	defer logger.Debug("event stream closed")

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Done():
			return nil
		case <-ticker.C:
			if err := writeComment(res, "keep-alive"); err != nil {
				return nil
			}
		case msg := <-sub.C():
			if err := writeEvent(res, msg); err != nil {
				logger.Debug("event not written", zap.String("event", msg.Event), zap.Error(err))
				return nil
			}
		}
	}
}

func writeEvent(res *echo.Response, msg realtime.Message) error {
	data, err := json.Marshal(msg.Payload)
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintf(res, "event: %s\ndata: %s\n\n", msg.Event, data); err != nil {
		return err
	}
	res.Flush()
	return nil
}

func writeComment(res *echo.Response, text string) error {
	if _, err := fmt.Fprintf(res, ": %s\n\n", text); err != nil {
		return err
	}
	res.Flush()
	return nil
}
