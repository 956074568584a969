package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridfix/gridfix/internal/coordinate"
)

func TestConvertAll_FromLatLong(t *testing.T) {
	conv, err := convertAll(&coordinate.Coordinate{
		Format:  coordinate.FormatLatLong,
		LatLong: &coordinate.LatLong{Lat: 40.7128, Lng: -74.0060},
	})
	require.NoError(t, err)

	require.NotNil(t, conv.UTM)
	assert.Equal(t, 18, conv.UTM.Zone)
	assert.Equal(t, coordinate.HemisphereNorth, conv.UTM.Hemisphere)
	assert.InDelta(t, 583959.37, conv.UTM.Easting, 1.0)
	assert.InDelta(t, 4507351.0, conv.UTM.Northing, 1.0)

	require.NotNil(t, conv.MGRS)
	assert.Equal(t, "18T", conv.MGRS.GridZone)
	assert.Equal(t, "WL", conv.MGRS.GridSquare)
	assert.InDelta(t, 83959, conv.MGRS.Easting, 1)
	assert.InDelta(t, 7351, conv.MGRS.Northing, 1)
}

func TestConvertAll_FromUTM(t *testing.T) {
	conv, err := convertAll(&coordinate.Coordinate{
		Format: coordinate.FormatUTM,
		UTM: &coordinate.UTM{
			Zone: 18, Hemisphere: coordinate.HemisphereNorth,
			Easting: 583959.37, Northing: 4507351.0,
		},
	})
	require.NoError(t, err)

	require.NotNil(t, conv.LatLong)
	assert.InDelta(t, 40.7128, conv.LatLong.Lat, 1e-4)
	assert.InDelta(t, -74.0060, conv.LatLong.Lng, 1e-4)

	require.NotNil(t, conv.MGRS)
	assert.Equal(t, "18T", conv.MGRS.GridZone)
	assert.Equal(t, "WL", conv.MGRS.GridSquare)
}

func TestConvertAll_FromMGRS(t *testing.T) {
	conv, err := convertAll(&coordinate.Coordinate{
		Format: coordinate.FormatMGRS,
		MGRS: &coordinate.MGRS{
			GridZone: "18T", GridSquare: "WL",
			Easting: 83959, Northing: 7351, Precision: 5,
		},
	})
	require.NoError(t, err)

	require.NotNil(t, conv.UTM)
	assert.Equal(t, 18, conv.UTM.Zone)
	assert.InDelta(t, 583959, conv.UTM.Easting, 1.0)
	assert.InDelta(t, 4507351, conv.UTM.Northing, 1.0)

	require.NotNil(t, conv.LatLong)
	assert.InDelta(t, 40.7128, conv.LatLong.Lat, 1e-4)
}

func TestConvertAll_What3WordsPassesThrough(t *testing.T) {
	conv, err := convertAll(&coordinate.Coordinate{
		Format:     coordinate.FormatWhat3Words,
		What3Words: &coordinate.What3Words{Words: "filled.count.soap"},
	})
	require.NoError(t, err)

	assert.NotNil(t, conv.What3Words)
	assert.Nil(t, conv.LatLong)
	assert.Nil(t, conv.UTM)
	assert.Nil(t, conv.MGRS)
}

func TestConvertAll_MissingVariant(t *testing.T) {
	_, err := convertAll(&coordinate.Coordinate{Format: coordinate.FormatUTM})
	require.Error(t, err)

	_, err = convertAll(&coordinate.Coordinate{Format: coordinate.Format("geohash")})
	require.Error(t, err)
}
