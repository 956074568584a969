package converter

import (
	"fmt"

	"github.com/gridfix/gridfix/internal/coordinate"
	"github.com/gridfix/gridfix/internal/geodesy"
)

// convertAll computes every representation reachable from a parsed coordinate
// using the projection kernel alone. What3words inputs pass through untouched;
// resolving them needs the external service and happens in the facade.
//
// MGRS is best effort: latitudes outside the band range (below 80S or above
// 84N) have UTM and lat/long forms but no grid reference, so the MGRS field
// stays nil rather than failing the whole conversion.
func convertAll(c *coordinate.Coordinate) (*coordinate.Conversions, error) {
	conv := &coordinate.Conversions{}

	switch c.Format {
	case coordinate.FormatLatLong:
		if c.LatLong == nil {
			return nil, fmt.Errorf("latlong coordinate has no point")
		}
		conv.LatLong = c.LatLong
		utm, err := geodesy.LatLngToUTM(c.LatLong.Lat, c.LatLong.Lng)
		if err != nil {
			return nil, err
		}
		conv.UTM = &utm
		if mgrs, err := geodesy.UTMToMGRS(utm.Zone, utm.Hemisphere, utm.Easting, utm.Northing, 5); err == nil {
			conv.MGRS = &mgrs
		}

	case coordinate.FormatUTM:
		if c.UTM == nil {
			return nil, fmt.Errorf("utm coordinate has no point")
		}
		conv.UTM = c.UTM
		point, err := geodesy.UTMToLatLng(c.UTM.Zone, c.UTM.Hemisphere, c.UTM.Easting, c.UTM.Northing)
		if err != nil {
			return nil, err
		}
		conv.LatLong = &point
		if mgrs, err := geodesy.UTMToMGRS(c.UTM.Zone, c.UTM.Hemisphere, c.UTM.Easting, c.UTM.Northing, 5); err == nil {
			conv.MGRS = &mgrs
		}

	case coordinate.FormatMGRS:
		if c.MGRS == nil {
			return nil, fmt.Errorf("mgrs coordinate has no point")
		}
		conv.MGRS = c.MGRS
		utm, err := geodesy.MGRSToUTM(c.MGRS.GridZone, c.MGRS.GridSquare, c.MGRS.Easting, c.MGRS.Northing, c.MGRS.Precision)
		if err != nil {
			return nil, err
		}
		conv.UTM = &utm
		point, err := geodesy.UTMToLatLng(utm.Zone, utm.Hemisphere, utm.Easting, utm.Northing)
		if err != nil {
			return nil, err
		}
		conv.LatLong = &point

	case coordinate.FormatWhat3Words:
		if c.What3Words == nil {
			return nil, fmt.Errorf("what3words coordinate has no words")
		}
		conv.What3Words = c.What3Words

	default:
		return nil, fmt.Errorf("unsupported format %q", c.Format)
	}

	return conv, nil
}
