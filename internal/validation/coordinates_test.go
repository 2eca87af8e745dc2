package validation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCoordinatePair(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr string
	}{
		{name: "central", lat: 22.28552, lon: 114.15769},
		{name: "poles and antimeridian", lat: -90, lon: 180},
		{name: "latitude too high", lat: 91, lon: 114, wantErr: "latitude"},
		{name: "longitude too low", lat: 22, lon: -181, wantErr: "longitude"},
		{name: "nan latitude", lat: math.NaN(), lon: 114, wantErr: "latitude"},
		{name: "infinite longitude", lat: 22, lon: math.Inf(1), wantErr: "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinatePair(tt.lat, tt.lon, "stop.")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var coordErr *CoordinateError
			require.True(t, errors.As(err, &coordErr))
			assert.Equal(t, "stop."+tt.wantErr, coordErr.Field)
		})
	}
}

func TestValidateHongKongRegion(t *testing.T) {
	assert.NoError(t, ValidateHongKongRegion(22.3, 114.2))
	assert.Error(t, ValidateHongKongRegion(-33.45, -70.66))
	assert.Error(t, ValidateHongKongRegion(22.3, 120.0))
}

func TestIsZeroCoordinate(t *testing.T) {
	assert.True(t, IsZeroCoordinate(0, 0))
	assert.False(t, IsZeroCoordinate(22.3, 0))
}
