package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courierflow/cmd"
	httpin "courierflow/internal/adapters/in/http"
	"courierflow/internal/adapters/out/postgres/postgrestest"
	"courierflow/internal/adapters/out/realtime"
	"courierflow/internal/core/application/usecases/commands"
	"courierflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const secret = "scenario-secret"

type ScenarioTestSuite struct {
	suite.Suite
	root *cmd.CompositionRoot
	e    *echo.Echo

	customer   kernel.Actor
	dispatcher kernel.Actor
	courierA   kernel.Actor
	courierB   kernel.Actor
	system     kernel.Actor
}

func TestScenarios(t *testing.T) {
	suite.Run(t, new(ScenarioTestSuite))
}

func (s *ScenarioTestSuite) SetupTest() {
	cfg := cmd.Config{
		JWTSecret:       secret,
		DeliveryFee:     decimal.RequireFromString("2.99"),
		PenaltyRate:     decimal.RequireFromString("0.10"),
		UnpaidOrderTTL:  30 * time.Minute,
		ExpiryBatchSize: 50,
	}
	root, err := cmd.NewCompositionRoot(cfg, postgrestest.SQLite(s.T()), nil, zap.NewNop())
	s.Require().NoError(err)
	s.root = root
	s.e = root.CreateHTTPServer().Echo()

	s.customer = kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleCustomer}
	s.dispatcher = kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleDispatcher}
	s.courierA = kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleCourier}
	s.courierB = kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleCourier}
	s.system = kernel.SystemActor()

	s.registerCourier(s.courierA, "Aigerim")
	s.registerCourier(s.courierB, "Bolat")
}

func (s *ScenarioTestSuite) call(actor *kernel.Actor, method, path string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if actor != nil {
		token, err := httpin.IssueToken([]byte(secret), *actor, time.Hour)
		s.Require().NoError(err)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *ScenarioTestSuite) mustCall(actor kernel.Actor, method, path string, body any, status int) httpin.OrderResponse {
	rec := s.call(&actor, method, path, body)
	s.Require().Equal(status, rec.Code, rec.Body.String())

	var resp httpin.OrderResponse
	if rec.Code == http.StatusOK || rec.Code == http.StatusCreated {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return resp
}

func (s *ScenarioTestSuite) registerCourier(actor kernel.Actor, name string) {
	rec := s.call(&s.dispatcher, http.MethodPost, "/api/v1/couriers",
		map[string]any{"id": actor.ID.String(), "name": name})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
}

// placeOrder creates an order totalling 100.00 with the 2.99 delivery fee.
func (s *ScenarioTestSuite) placeOrder() httpin.OrderResponse {
	created := s.mustCall(s.customer, http.MethodPost, "/api/v1/orders", map[string]any{
		"restaurant_id": kernel.NewUUID().String(),
		"items":         []map[string]any{{"name": "Family pizza", "unit_price": "97.01", "quantity": 1}},
	}, http.StatusCreated)
	s.Require().Equal("100.00", created.Total)
	s.Require().Equal("pending", created.Status)
	s.Require().Equal("pending", created.PaymentStatus)
	s.Require().NotEmpty(created.SafetyWord)
	return created
}

func (s *ScenarioTestSuite) pay(orderID string) {
	paid := s.mustCall(s.system, http.MethodPost, "/api/v1/internal/payments",
		map[string]any{"order_id": orderID, "confirmed": true}, http.StatusOK)
	s.Require().Equal("paid", paid.PaymentStatus)
}

func (s *ScenarioTestSuite) assign(orderID string, courier kernel.Actor, reassign bool) httpin.OrderResponse {
	return s.mustCall(s.dispatcher, http.MethodPost, "/api/v1/orders/"+orderID+"/assign",
		map[string]any{"driver_id": courier.ID.String(), "reassign": reassign}, http.StatusOK)
}

func (s *ScenarioTestSuite) advance(courier kernel.Actor, orderID, status string, code int) {
	s.mustCall(courier, http.MethodPost, "/api/v1/orders/"+orderID+"/status", map[string]any{"status": status}, code)
}

func drain(sub *realtime.Subscription) []string {
	var events []string
	for {
		select {
		case msg := <-sub.C():
			events = append(events, msg.Event)
		default:
			return events
		}
	}
}

func historyStatuses(o httpin.OrderResponse) []string {
	statuses := make([]string, len(o.StatusHistory))
	for i, h := range o.StatusHistory {
		statuses[i] = h.Status
	}
	return statuses
}

func (s *ScenarioTestSuite) TestScenarioA_CustomerCancelsUnpaidOrder() {
	created := s.placeOrder()

	cancelled := s.mustCall(s.customer, http.MethodPost, "/api/v1/orders/"+created.ID+"/cancel",
		map[string]any{"reason": "changed my mind"}, http.StatusOK)

	s.Equal("cancelled_by_client", cancelled.Status)
	s.Equal("0.00", cancelled.PenaltyAmount)
	s.Equal("0.00", cancelled.RefundAmount)
	s.Equal("cancelled", cancelled.PaymentStatus)
	s.Equal("changed my mind", cancelled.CancellationReason)
	s.Equal([]string{"cancelled_by_client"}, historyStatuses(cancelled))
}

func (s *ScenarioTestSuite) TestScenarioB_DispatcherCancelsPaidAssignedOrder() {
	created := s.placeOrder()
	s.pay(created.ID)
	s.assign(created.ID, s.courierA, false)
	courierConn := s.root.Hub().Subscribe(s.courierA)

	cancelled := s.mustCall(s.dispatcher, http.MethodPost, "/api/v1/orders/"+created.ID+"/cancel",
		map[string]any{"reason": "restaurant closed"}, http.StatusOK)

	s.Equal("cancelled_by_admin_with_penalty", cancelled.Status)
	s.Equal("10.00", cancelled.PenaltyAmount)
	s.Equal("90.00", cancelled.RefundAmount)
	s.Nil(cancelled.DriverID)
	s.Equal([]string{"order_cancelled"}, drain(courierConn))
}

func (s *ScenarioTestSuite) TestScenarioC_FullDelivery() {
	courierConn := s.root.Hub().Subscribe(s.courierA)
	customerConn := s.root.Hub().Subscribe(s.customer)
	dispatcherConn := s.root.Hub().Subscribe(s.dispatcher)

	created := s.placeOrder()
	id := created.ID

	s.mustCall(s.dispatcher, http.MethodPost, "/api/v1/orders/"+id+"/assign",
		map[string]any{"driver_id": s.courierA.ID.String()}, http.StatusConflict)
	s.pay(id)
	assigned := s.assign(id, s.courierA, false)
	s.Require().NotNil(assigned.DriverID)
	s.Equal(s.courierA.ID.String(), *assigned.DriverID)

	s.advance(s.courierA, id, "on_the_way", http.StatusConflict)
	s.advance(s.courierB, id, "heading_to_restaurant", http.StatusForbidden)
	s.advance(s.courierA, id, "heading_to_restaurant", http.StatusOK)
	s.advance(s.courierA, id, "on_the_way", http.StatusConflict)
	s.mustCall(s.dispatcher, http.MethodPost, "/api/v1/orders/"+id+"/ready", nil, http.StatusOK)
	s.advance(s.courierA, id, "on_the_way", http.StatusConflict)
	s.advance(s.courierA, id, "at_restaurant", http.StatusOK)
	s.advance(s.courierA, id, "on_the_way", http.StatusOK)
	s.advance(s.courierA, id, "delivered", http.StatusOK)
	completed := s.mustCall(s.customer, http.MethodPost, "/api/v1/orders/"+id+"/confirm-delivery", nil, http.StatusOK)

	s.Equal("completed", completed.Status)
	s.Equal([]string{
		"assigned", "heading_to_restaurant", "ready_for_pickup", "at_restaurant",
		"on_the_way", "delivered", "completed",
	}, historyStatuses(completed))
	s.NotNil(completed.DeliveredAt)

	s.Equal([]string{"order_assigned", "order_ready_for_pickup", "order_completed"}, drain(courierConn))
	s.Equal([]string{
		"payment_updated",
		"order_status_changed",
		"order_status_changed",
		"order_status_changed",
		"driver_at_restaurant", "order_status_changed",
		"order_on_the_way", "order_status_changed",
		"order_delivered", "order_status_changed",
		"order_status_changed",
	}, drain(customerConn))
	s.Equal([]string{
		"new_order", "payment_updated", "driver_heading_to_restaurant", "order_on_the_way", "order_completed",
	}, drain(dispatcherConn))

	rated := s.mustCall(s.customer, http.MethodPost, "/api/v1/orders/"+id+"/rating", map[string]any{
		"driver_rating":     map[string]any{"stars": 4, "comment": "quick"},
		"restaurant_rating": map[string]any{"stars": 5},
	}, http.StatusOK)
	s.Require().NotNil(rated.DriverRating)
	s.Equal(4, rated.DriverRating.Stars)
	s.mustCall(s.customer, http.MethodPost, "/api/v1/orders/"+id+"/rating", map[string]any{
		"driver_rating": map[string]any{"stars": 1},
	}, http.StatusConflict)

	rec := s.call(&s.dispatcher, http.MethodGet, "/api/v1/couriers", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var couriers []httpin.CourierResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &couriers))
	s.Require().Len(couriers, 2)
	s.Equal("Aigerim", couriers[0].Name)
	s.Equal("4.0", couriers[0].Rating)
	s.Equal("5.0", couriers[1].Rating)
}

func (s *ScenarioTestSuite) TestScenarioD_Reassignment() {
	courierAConn := s.root.Hub().Subscribe(s.courierA)
	courierBConn := s.root.Hub().Subscribe(s.courierB)

	created := s.placeOrder()
	s.pay(created.ID)
	s.assign(created.ID, s.courierA, false)
	s.advance(s.courierA, created.ID, "heading_to_restaurant", http.StatusOK)

	s.mustCall(s.dispatcher, http.MethodPost, "/api/v1/orders/"+created.ID+"/assign",
		map[string]any{"driver_id": s.courierB.ID.String()}, http.StatusConflict)
	reassigned := s.assign(created.ID, s.courierB, true)

	s.Equal("assigned", reassigned.Status)
	s.Require().NotNil(reassigned.DriverID)
	s.Equal(s.courierB.ID.String(), *reassigned.DriverID)
	s.Equal([]string{"assigned", "heading_to_restaurant", "reassigned", "assigned"}, historyStatuses(reassigned))
	s.Require().NotNil(reassigned.StatusHistory[2].Notes)
	s.Contains(*reassigned.StatusHistory[2].Notes, s.courierB.ID.String())

	s.Equal([]string{"order_assigned", "order_removed"}, drain(courierAConn))
	s.Equal([]string{"order_assigned"}, drain(courierBConn))

	s.advance(s.courierA, created.ID, "heading_to_restaurant", http.StatusForbidden)
	s.advance(s.courierB, created.ID, "heading_to_restaurant", http.StatusOK)
}

func (s *ScenarioTestSuite) TestVisibilityAndBoard() {
	created := s.placeOrder()
	stranger := kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleCustomer}

	s.mustCall(s.customer, http.MethodGet, "/api/v1/orders/"+created.ID, nil, http.StatusOK)
	s.mustCall(stranger, http.MethodGet, "/api/v1/orders/"+created.ID, nil, http.StatusForbidden)
	s.mustCall(s.courierA, http.MethodGet, "/api/v1/orders/"+created.ID, nil, http.StatusForbidden)
	dispatcherView := s.mustCall(s.dispatcher, http.MethodGet, "/api/v1/orders/"+created.ID, nil, http.StatusOK)
	s.Empty(dispatcherView.SafetyWord)
	s.mustCall(s.dispatcher, http.MethodGet, "/api/v1/orders/"+kernel.NewUUID().String(), nil, http.StatusNotFound)

	rec := s.call(&s.customer, http.MethodGet, "/api/v1/orders/active", nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.call(&s.dispatcher, http.MethodGet, "/api/v1/orders/active", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var board []httpin.ActiveOrderResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &board))
	s.Require().Len(board, 1)
	s.Equal(created.ID, board[0].ID)
}

func (s *ScenarioTestSuite) TestRejectedRequests() {
	rec := s.call(nil, http.MethodGet, "/api/v1/orders/active", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/active", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)

	s.mustCall(s.customer, http.MethodPost, "/api/v1/orders", map[string]any{
		"restaurant_id": kernel.NewUUID().String(),
		"items":         []map[string]any{},
	}, http.StatusBadRequest)

	created := s.placeOrder()
	s.mustCall(s.customer, http.MethodPost, "/api/v1/orders/"+created.ID+"/cancel",
		map[string]any{"reason": ""}, http.StatusBadRequest)
	s.mustCall(s.customer, http.MethodPost, "/api/v1/orders/"+created.ID+"/rating",
		map[string]any{"driver_rating": map[string]any{"stars": 9}}, http.StatusBadRequest)
	s.mustCall(s.courierA, http.MethodPost, "/api/v1/orders/"+created.ID+"/cancel",
		map[string]any{"reason": "flat tyre"}, http.StatusForbidden)
	s.mustCall(s.customer, http.MethodPost, "/api/v1/internal/payments",
		map[string]any{"order_id": created.ID, "confirmed": true}, http.StatusForbidden)

	rec = s.call(nil, http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ScenarioTestSuite) TestUnpaidOrdersExpire() {
	stale := s.placeOrder()
	paid := s.placeOrder()
	s.pay(paid.ID)

	s.NotNil(s.root.CreateJobManager())

	handler := s.root.CreateExpireUnpaidOrdersCommandHandler()
	command, err := commands.NewExpireUnpaidOrdersCommand(time.Now().Add(time.Minute), 10)
	s.Require().NoError(err)

	expired, err := handler.Handle(context.Background(), command)
	s.Require().NoError(err)
	s.Require().Len(expired, 1)
	s.Equal(stale.ID, expired[0].String())

	view := s.mustCall(s.customer, http.MethodGet, "/api/v1/orders/"+stale.ID, nil, http.StatusOK)
	s.Equal("cancelled", view.Status)
	s.Equal("system", view.CancelledByRole)
}
