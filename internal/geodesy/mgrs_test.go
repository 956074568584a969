package geodesy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridfix/gridfix/internal/coordinate"
)

func TestUTMToMGRS_NewYork(t *testing.T) {
	// 40.7128, -74.0060 -> 18T WL 83959 07351 (1 m precision), cross-checked
	// against an independent Karney/Krüger computation.
	utm, err := LatLngToUTM(40.7128, -74.0060)
	require.NoError(t, err)

	mgrs, err := UTMToMGRS(utm.Zone, utm.Hemisphere, utm.Easting, utm.Northing, 5)
	require.NoError(t, err)

	assert.Equal(t, "18T", mgrs.GridZone)
	assert.Equal(t, "WL", mgrs.GridSquare)
	assert.Equal(t, 5, mgrs.Precision)
	assert.InDelta(t, 83959, mgrs.Easting, 1)
	assert.InDelta(t, 7351, mgrs.Northing, 1)
}

func TestUTMToMGRS_PrecisionTruncation(t *testing.T) {
	utm, err := LatLngToUTM(40.7128, -74.0060)
	require.NoError(t, err)

	tests := []struct {
		precision int
		easting   int
		northing  int
	}{
		{5, 83959, 7351},
		{4, 8395, 735},
		{3, 839, 73},
		{2, 83, 7},
		{1, 8, 0},
	}

	for _, tt := range tests {
		mgrs, err := UTMToMGRS(utm.Zone, utm.Hemisphere, utm.Easting, utm.Northing, tt.precision)
		require.NoError(t, err)
		assert.Equal(t, tt.easting, mgrs.Easting, "precision %d easting", tt.precision)
		assert.Equal(t, tt.northing, mgrs.Northing, "precision %d northing", tt.precision)
	}
}

func TestUTMToMGRS_InvalidPrecision(t *testing.T) {
	for _, p := range []int{0, 6, -1} {
		_, err := UTMToMGRS(18, "N", 583959, 4507351, p)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidCoordinate))
	}
}

func TestLatitudeBand(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		band byte
	}{
		{"southernmost band", -79.9, 'C'},
		{"equator north side", 0.1, 'N'},
		{"equator south side", -0.1, 'M'},
		{"new york", 40.7, 'T'},
		{"band X regular range", 75.0, 'X'},
		{"band X stretched range", 82.0, 'X'},
		{"band X upper edge", 84.0, 'X'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band, err := latitudeBand(tt.lat)
			require.NoError(t, err)
			assert.Equal(t, tt.band, band)
		})
	}

	t.Run("outside band domain", func(t *testing.T) {
		_, err := latitudeBand(85.0)
		require.Error(t, err)
		_, err = latitudeBand(-81.0)
		require.Error(t, err)
	})
}

func TestMGRSToUTM_InverseSquareLookup(t *testing.T) {
	utm, err := MGRSToUTM("18T", "WL", 83959, 7351, 5)
	require.NoError(t, err)

	assert.Equal(t, 18, utm.Zone)
	assert.Equal(t, coordinate.HemisphereNorth, utm.Hemisphere)
	assert.InDelta(t, 583959, utm.Easting, 1.0)
	assert.InDelta(t, 4507351, utm.Northing, 1.0)
}

func TestMGRSToUTM_InvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		gridZone   string
		gridSquare string
		precision  int
	}{
		{"bad band letter", "18I", "WL", 5},
		{"polar band letter", "18A", "WL", 5},
		{"zone out of range", "61T", "WL", 5},
		{"column not in zone set", "18T", "AL", 5},
		{"row letter excluded", "18T", "WO", 5},
		{"precision out of range", "18T", "WL", 6},
		{"grid square too long", "18T", "WLX", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MGRSToUTM(tt.gridZone, tt.gridSquare, 12345, 12345, tt.precision)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCoordinate))
		})
	}
}

func TestMGRSRoundTrip(t *testing.T) {
	for _, tt := range roundTripPoints {
		t.Run(tt.name, func(t *testing.T) {
			utm, err := LatLngToUTM(tt.lat, tt.lng)
			require.NoError(t, err)

			mgrs, err := UTMToMGRS(utm.Zone, utm.Hemisphere, utm.Easting, utm.Northing, 5)
			require.NoError(t, err)

			back, err := MGRSToUTM(mgrs.GridZone, mgrs.GridSquare, mgrs.Easting, mgrs.Northing, 5)
			require.NoError(t, err)

			assert.Equal(t, utm.Zone, back.Zone)
			assert.Equal(t, utm.Hemisphere, back.Hemisphere)
			// Precision 5 cells are 1 m wide; the centred reconstruction
			// stays within the half-width of the truncated value.
			assert.InDelta(t, utm.Easting, back.Easting, 1.0)
			assert.InDelta(t, utm.Northing, back.Northing, 1.0)
		})
	}
}

func TestColumnOffset_SetCycle(t *testing.T) {
	// Sets 1 and 4 start at A, 2 and 5 at J, 3 and 6 at S.
	assert.Equal(t, byte('A'), coordinate.ColumnLetters[columnOffset(1)])
	assert.Equal(t, byte('J'), coordinate.ColumnLetters[columnOffset(2)])
	assert.Equal(t, byte('S'), coordinate.ColumnLetters[columnOffset(3)])
	assert.Equal(t, byte('A'), coordinate.ColumnLetters[columnOffset(4)])
	assert.Equal(t, byte('J'), coordinate.ColumnLetters[columnOffset(5)])
	assert.Equal(t, byte('S'), coordinate.ColumnLetters[columnOffset(6)])
}
