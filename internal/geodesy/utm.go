// Package geodesy implements the WGS84 coordinate transforms used by the
// conversion engine: forward and inverse Transverse Mercator (UTM) and the
// MGRS grid-letter encoding. All functions are pure and deterministic; angle
// arguments are degrees at the package boundary and radians internally.
package geodesy

import (
	"fmt"
	"math"

	"github.com/gridfix/gridfix/internal/coordinate"
)

// WGS84 ellipsoid parameters.
const (
	equatorialRadius = 6378137.0           // semi-major axis, metres
	eccSquared       = 0.00669437999014133 // first eccentricity squared
	scaleFactor      = 0.9996              // UTM central-meridian scale factor k0

	falseEasting       = 500000.0
	falseNorthingSouth = 10000000.0
)

// ErrInvalidCoordinate indicates input outside the valid domain of a
// transform. Validation runs before any trigonometric evaluation; inputs are
// never silently clamped.
var ErrInvalidCoordinate = fmt.Errorf("invalid coordinate")

// invalidf wraps ErrInvalidCoordinate with a formatted reason.
func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidCoordinate, fmt.Sprintf(format, args...))
}

// ZoneNumber returns the UTM zone for a longitude in degrees.
func ZoneNumber(lng float64) int {
	return int(math.Floor((lng+180)/6)) + 1
}

// CentralMeridian returns the central meridian of a UTM zone in degrees.
func CentralMeridian(zone int) float64 {
	return float64(zone*6 - 183)
}

// LatLngToUTM projects a WGS84 geographic coordinate to UTM using the
// standard forward Transverse Mercator power series. Easting and northing
// are rounded to 0.01 m.
func LatLngToUTM(lat, lng float64) (coordinate.UTM, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return coordinate.UTM{}, invalidf("lat/lng must be finite")
	}
	if lat < -90 || lat > 90 {
		return coordinate.UTM{}, invalidf("latitude %g out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return coordinate.UTM{}, invalidf("longitude %g out of range [-180, 180]", lng)
	}

	// Longitude 180 wraps into zone 60 rather than the nonexistent zone 61.
	zone := ZoneNumber(lng)
	if zone > 60 {
		zone = 60
	}
	lngOrigin := CentralMeridian(zone)

	latRad := lat * math.Pi / 180
	lngRad := lng * math.Pi / 180
	lngOriginRad := lngOrigin * math.Pi / 180

	eccPrime := eccSquared / (1 - eccSquared)

	sinLat := math.Sin(latRad)
	cosLat := math.Cos(latRad)
	tanLat := math.Tan(latRad)

	n := equatorialRadius / math.Sqrt(1-eccSquared*sinLat*sinLat)
	t := tanLat * tanLat
	c := eccPrime * cosLat * cosLat
	a := cosLat * (lngRad - lngOriginRad)

	m := meridionalArc(latRad)

	easting := scaleFactor*n*(a+
		(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*eccPrime)*a*a*a*a*a/120) + falseEasting

	northing := scaleFactor * (m + n*tanLat*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*eccPrime)*a*a*a*a*a*a/720))

	hemisphere := coordinate.HemisphereNorth
	if lat < 0 {
		northing += falseNorthingSouth
		hemisphere = coordinate.HemisphereSouth
	}

	return coordinate.UTM{
		Zone:       zone,
		Hemisphere: hemisphere,
		Easting:    roundCentimetre(easting),
		Northing:   roundCentimetre(northing),
	}, nil
}

// UTMToLatLng inverts the projection via the footpoint latitude, using the
// closed-form truncated Kruger series (no iteration).
func UTMToLatLng(zone int, hemisphere string, easting, northing float64) (coordinate.LatLong, error) {
	if zone < 1 || zone > 60 {
		return coordinate.LatLong{}, invalidf("zone %d out of range [1, 60]", zone)
	}
	if hemisphere != coordinate.HemisphereNorth && hemisphere != coordinate.HemisphereSouth {
		return coordinate.LatLong{}, invalidf("hemisphere %q must be N or S", hemisphere)
	}
	if math.IsNaN(easting) || math.IsNaN(northing) || math.IsInf(easting, 0) || math.IsInf(northing, 0) {
		return coordinate.LatLong{}, invalidf("easting/northing must be finite")
	}

	x := easting - falseEasting
	y := northing
	if hemisphere == coordinate.HemisphereSouth {
		y -= falseNorthingSouth
	}

	eccPrime := eccSquared / (1 - eccSquared)
	e1 := (1 - math.Sqrt(1-eccSquared)) / (1 + math.Sqrt(1-eccSquared))

	m := y / scaleFactor
	mu := m / (equatorialRadius * (1 - eccSquared/4 - 3*eccSquared*eccSquared/64 - 5*eccSquared*eccSquared*eccSquared/256))

	// Footpoint latitude.
	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sinPhi1 := math.Sin(phi1)
	cosPhi1 := math.Cos(phi1)
	tanPhi1 := math.Tan(phi1)

	n1 := equatorialRadius / math.Sqrt(1-eccSquared*sinPhi1*sinPhi1)
	t1 := tanPhi1 * tanPhi1
	c1 := eccPrime * cosPhi1 * cosPhi1
	r1 := equatorialRadius * (1 - eccSquared) / math.Pow(1-eccSquared*sinPhi1*sinPhi1, 1.5)
	d := x / (n1 * scaleFactor)

	lat := phi1 - (n1*tanPhi1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*eccPrime)*d*d*d*d/24+
		(61+90*t1+298*c1+45*t1*t1-252*eccPrime-3*c1*c1)*d*d*d*d*d*d/720)

	lng := (d -
		(1+2*t1+c1)*d*d*d/6 +
		(5-2*c1+28*t1-3*c1*c1+8*eccPrime+24*t1*t1)*d*d*d*d*d/120) / cosPhi1

	return coordinate.LatLong{
		Lat: lat * 180 / math.Pi,
		Lng: lng*180/math.Pi + CentralMeridian(zone),
	}, nil
}

// meridionalArc returns the distance along the meridian from the equator to
// latitude phi (radians).
func meridionalArc(phi float64) float64 {
	e2 := eccSquared
	e4 := e2 * e2
	e6 := e4 * e2
	return equatorialRadius * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

func roundCentimetre(v float64) float64 {
	return math.Round(v*100) / 100
}
