package kernel_test

import (
	"testing"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("valid coordinates", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(52.520008, 13.404954)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.InDelta(t, 52.520008, p.Latitude(), 1e-9)
		assert.InDelta(t, 13.404954, p.Longitude(), 1e-9)
		assert.Equal(t, "GeoPoint(52.520008,13.404954)", p.String())
	})

	t.Run("edges are inclusive", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(-90, 180)

		require.NoError(t, err)
	})

	t.Run("out of range coordinates are both reported", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(91, -181)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "latitude")
		assert.Contains(t, err.Error(), "longitude")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var p kernel.GeoPoint

		require.ErrorIs(t, p.Validate(), kernel.ErrGeoPointIsNotConstructed)
	})
}
