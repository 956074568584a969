package geodesy

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridfix/gridfix/internal/coordinate"
)

func TestLatLngToUTM_NewYork(t *testing.T) {
	utm, err := LatLngToUTM(40.7128, -74.0060)
	require.NoError(t, err)

	assert.Equal(t, 18, utm.Zone)
	assert.Equal(t, coordinate.HemisphereNorth, utm.Hemisphere)
	// Reference values cross-checked against an independent Karney/Krüger
	// computation (GeographicLib): 583959.37 E, 4507351.00 N.
	assert.InDelta(t, 583959.37, utm.Easting, 1.0)
	assert.InDelta(t, 4507351.0, utm.Northing, 1.0)
}

func TestLatLngToUTM_ZoneAssignment(t *testing.T) {
	tests := []struct {
		name string
		lng  float64
		zone int
	}{
		{"western edge", -180, 1},
		{"greenwich", 0, 31},
		{"just west of greenwich", -0.0001, 30},
		{"amsterdam", 4.9041, 31},
		{"sydney", 151.2093, 56},
		{"eastern edge wraps to zone 60", 180, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			utm, err := LatLngToUTM(10, tt.lng)
			require.NoError(t, err)
			assert.Equal(t, tt.zone, utm.Zone)
		})
	}
}

func TestLatLngToUTM_SouthernHemisphere(t *testing.T) {
	utm, err := LatLngToUTM(-33.8688, 151.2093) // Sydney
	require.NoError(t, err)

	assert.Equal(t, coordinate.HemisphereSouth, utm.Hemisphere)
	// False northing applied: southern northings sit near 10,000,000.
	assert.Greater(t, utm.Northing, 6000000.0)
	assert.Less(t, utm.Northing, 10000000.0)
}

func TestLatLngToUTM_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
	}{
		{"lat above range", 90.0001, 0},
		{"lat below range", -90.0001, 0},
		{"lng above range", 0, 180.0001},
		{"lng below range", 0, -180.0001},
		{"NaN lat", math.NaN(), 0},
		{"NaN lng", 0, math.NaN()},
		{"inf lat", math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LatLngToUTM(tt.lat, tt.lng)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCoordinate))
		})
	}
}

func TestUTMToLatLng_InvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		zone       int
		hemisphere string
	}{
		{"zone zero", 0, "N"},
		{"zone too large", 61, "N"},
		{"bad hemisphere", 18, "X"},
		{"lowercase hemisphere", 18, "n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UTMToLatLng(tt.zone, tt.hemisphere, 500000, 4000000)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCoordinate))
		})
	}
}

// roundTripPoints covers equatorial, mid-latitude and near-polar cases in
// both hemispheres, away from and near zone boundaries.
var roundTripPoints = []struct {
	name     string
	lat, lng float64
}{
	{"new york", 40.7128, -74.0060},
	{"amsterdam", 52.3676, 4.9041},
	{"sydney", -33.8688, 151.2093},
	{"nairobi near equator", -1.2921, 36.8219},
	{"quito on equator", 0.0, -78.4678},
	{"equator at meridian", 0.0, 0.0},
	{"reykjavik", 64.1466, -21.9426},
	{"near north utm limit", 83.5, 10.0},
	{"near south utm limit", -79.5, -60.0},
	{"ushuaia", -54.8019, -68.3030},
	{"zone boundary east", 40.0, 5.9999},
	{"zone boundary west", 40.0, 6.0001},
	{"date line west", 12.0, -179.5},
	{"date line east", 12.0, 179.5},
}

func TestUTMRoundTrip(t *testing.T) {
	for _, tt := range roundTripPoints {
		t.Run(tt.name, func(t *testing.T) {
			utm, err := LatLngToUTM(tt.lat, tt.lng)
			require.NoError(t, err)

			ll, err := UTMToLatLng(utm.Zone, utm.Hemisphere, utm.Easting, utm.Northing)
			require.NoError(t, err)

			assert.InDelta(t, tt.lat, ll.Lat, 1e-4, "latitude drifted beyond 1e-4 degrees")
			assert.InDelta(t, tt.lng, ll.Lng, 1e-4, "longitude drifted beyond 1e-4 degrees")
		})
	}
}

func TestUTMRoundTrip_Grid(t *testing.T) {
	// Sweep a coarse grid over the UTM domain; sub-centimetre projection
	// error means the recovered angles stay well inside 1e-4 degrees.
	for lat := -80.0; lat <= 80.0; lat += 20.0 {
		for lng := -175.0; lng <= 175.0; lng += 25.0 {
			utm, err := LatLngToUTM(lat, lng)
			require.NoError(t, err)

			ll, err := UTMToLatLng(utm.Zone, utm.Hemisphere, utm.Easting, utm.Northing)
			require.NoError(t, err)

			assert.InDelta(t, lat, ll.Lat, 1e-4, "lat=%g lng=%g", lat, lng)
			assert.InDelta(t, lng, ll.Lng, 1e-4, "lat=%g lng=%g", lat, lng)
		}
	}
}

func TestCentralMeridian(t *testing.T) {
	assert.Equal(t, -75.0, CentralMeridian(18))
	assert.Equal(t, 3.0, CentralMeridian(31))
	assert.Equal(t, 177.0, CentralMeridian(60))
}
