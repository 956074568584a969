// Package parser turns coordinate text into structured Coordinate values.
// Each format has a fast path handling the single most common literal shape
// and a general parser accepting the full grammar; the fast path signals
// non-match with ok=false rather than an error so callers can fall through.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gridfix/gridfix/internal/coordinate"
)

// One precompiled pattern per fast-path format.
var (
	// "40.7128, -74.0060"
	fastLatLongRe = regexp.MustCompile(`^(-?\d{1,3}(?:\.\d+)?)\s*,\s*(-?\d{1,3}(?:\.\d+)?)$`)

	// "18T 585628 4511322" (band letter folds into hemisphere)
	fastUTMRe = regexp.MustCompile(`^(\d{1,2})\s*([C-HJ-NP-Xc-hj-np-x])\s+(\d{1,6}(?:\.\d+)?)\s+(\d{1,8}(?:\.\d+)?)$`)

	// "18TWL8562811322" or "18T WL 8562811322"
	fastMGRSRe = regexp.MustCompile(`^(\d{1,2})([C-HJ-NP-Xc-hj-np-x])\s*([A-HJ-NP-Za-hj-np-z]{2})\s*(\d{2,10})$`)
)

// FastParseLatLong parses the plain "lat, lng" decimal-degree shape.
// ok is false when the text does not match or the values are out of range;
// the general parser then produces the detailed error.
func FastParseLatLong(text string) (*coordinate.Coordinate, bool) {
	m := fastLatLongRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, false
	}
	lng, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, false
	}
	if coordinate.ValidateLatLong(lat, lng) != nil {
		return nil, false
	}

	return &coordinate.Coordinate{
		Format:  coordinate.FormatLatLong,
		Raw:     text,
		LatLong: &coordinate.LatLong{Lat: lat, Lng: lng},
	}, true
}

// FastParseUTM parses the spaced "ZONE BAND EASTING NORTHING" shape.
func FastParseUTM(text string) (*coordinate.Coordinate, bool) {
	m := fastUTMRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	zone, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, false
	}
	band := strings.ToUpper(m[2])[0]
	easting, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return nil, false
	}
	northing, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return nil, false
	}

	utm := coordinate.UTM{
		Zone:       zone,
		Hemisphere: hemisphereForBand(band),
		Easting:    easting,
		Northing:   northing,
	}
	if coordinate.ValidateBandLetter(band) != nil || coordinate.ValidateUTM(utm) != nil {
		return nil, false
	}

	return &coordinate.Coordinate{
		Format: coordinate.FormatUTM,
		Raw:    text,
		UTM:    &utm,
	}, true
}

// FastParseMGRS parses the compact "ZONEBAND SQUARE DIGITS" shape.
func FastParseMGRS(text string) (*coordinate.Coordinate, bool) {
	m := fastMGRSRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	zone, err := strconv.Atoi(m[1])
	if err != nil || zone < 1 || zone > 60 {
		return nil, false
	}
	band := strings.ToUpper(m[2])[0]
	square := strings.ToUpper(m[3])
	digits := m[4]
	if len(digits)%2 != 0 {
		return nil, false
	}
	if coordinate.ValidateBandLetter(band) != nil || coordinate.ValidateGridSquare(square) != nil {
		return nil, false
	}

	precision := len(digits) / 2
	easting, err := strconv.Atoi(digits[:precision])
	if err != nil {
		return nil, false
	}
	northing, err := strconv.Atoi(digits[precision:])
	if err != nil {
		return nil, false
	}

	return &coordinate.Coordinate{
		Format: coordinate.FormatMGRS,
		Raw:    text,
		MGRS: &coordinate.MGRS{
			GridZone:   m[1] + string(band),
			GridSquare: square,
			Easting:    easting,
			Northing:   northing,
			Precision:  precision,
		},
	}, true
}

// hemisphereForBand maps a latitude band letter to a hemisphere designator.
// Bands C through M are southern, N through X northern.
func hemisphereForBand(band byte) string {
	if band < 'N' {
		return coordinate.HemisphereSouth
	}
	return coordinate.HemisphereNorth
}
