// Package geodist provides great-circle distance and bearing calculations
// between geographic points.
package geodist

import "math"

const earthRadiusMeters = 6371000

// Haversine returns the great-circle distance in meters between two points
// given in decimal degrees.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	sinDPhi := math.Sin(dPhi / 2)
	sinDLambda := math.Sin(dLambda / 2)

	h := sinDPhi*sinDPhi + math.Cos(phi1)*math.Cos(phi2)*sinDLambda*sinDLambda
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Bearing returns the initial bearing in degrees (0..360, clockwise from
// north) from the first point to the second.
func Bearing(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)

	theta := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(theta+360, 360)
}
