package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"http error":         {echo.NewHTTPError(http.StatusBadRequest, "bad"), http.StatusBadRequest},
		"not found":          {errs.NewObjectNotFoundError("order", "1"), http.StatusNotFound},
		"forbidden":          {errs.NewForbiddenError("cancel order", "no"), http.StatusForbidden},
		"invalid transition": {errs.NewInvalidTransitionError("pending", "delivered"), http.StatusConflict},
		"conflict":           {errs.NewConflictError("order", "payment is not confirmed"), http.StatusConflict},
		"validation":         {errs.NewValueIsRequiredError("reason"), http.StatusUnprocessableEntity},
		"joined validation":  {errors.Join(errs.NewValueIsOutOfRangeError("stars", 7, 1, 5)), http.StatusUnprocessableEntity},
		"store failure":      {errors.New("connection refused"), http.StatusInternalServerError},
		"stale write": {
			errs.NewConflictErrorWithCause("order", "stale", errs.NewVersionIsInvalidError("order", 2)),
			http.StatusConflict,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusOf(tc.err))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	secret := []byte("unit-secret")
	actor := kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleDispatcher}

	e := echo.New()
	e.GET("/who", func(c echo.Context) error {
		return c.String(http.StatusOK, actorFrom(c).ID.String())
	}, Authenticate(secret), RequireRole(kernel.RoleDispatcher))

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	t.Run("bearer header", func(t *testing.T) {
		token, err := IssueToken(secret, actor, time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)

		rec := serve(req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, actor.ID.String(), rec.Body.String())
	})

	t.Run("query token", func(t *testing.T) {
		token, err := IssueToken(secret, actor, time.Minute)
		require.NoError(t, err)

		rec := serve(httptest.NewRequest(http.MethodGet, "/who?access_token="+token, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := serve(httptest.NewRequest(http.MethodGet, "/who", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := IssueToken([]byte("other"), actor, time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, serve(req).Code)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := IssueToken(secret, actor, -time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, serve(req).Code)
	})

	t.Run("role not allowed", func(t *testing.T) {
		courier := kernel.Actor{ID: kernel.NewUUID(), Role: kernel.RoleCourier}
		token, err := IssueToken(secret, courier, time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)

		assert.Equal(t, http.StatusForbidden, serve(req).Code)
	})
}
