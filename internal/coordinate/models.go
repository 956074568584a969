// Package coordinate defines the coordinate formats handled by the conversion
// engine and the validation rules shared by the parsers and the math kernel.
package coordinate

import "fmt"

// Format identifies a coordinate representation.
type Format string

const (
	// FormatLatLong is decimal degrees latitude/longitude (WGS84).
	FormatLatLong Format = "latlong"
	// FormatUTM is Universal Transverse Mercator (zone, hemisphere, easting, northing).
	FormatUTM Format = "utm"
	// FormatMGRS is the Military Grid Reference System.
	FormatMGRS Format = "mgrs"
	// FormatWhat3Words is a three-word address resolved by an external geocoder.
	FormatWhat3Words Format = "what3words"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatLatLong, FormatUTM, FormatMGRS, FormatWhat3Words:
		return true
	}
	return false
}

// Hemisphere designators for UTM coordinates.
const (
	HemisphereNorth = "N"
	HemisphereSouth = "S"
)

// LatLong is a geographic point in decimal degrees.
type LatLong struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UTM is a Universal Transverse Mercator coordinate.
// Easting and northing are in metres.
type UTM struct {
	Zone       int     `json:"zone"`       // 1..60
	Hemisphere string  `json:"hemisphere"` // "N" or "S"
	Easting    float64 `json:"easting"`
	Northing   float64 `json:"northing"`
}

// MGRS is a Military Grid Reference System coordinate.
// Easting and northing carry Precision digits each and locate the point
// within the 100 km grid square.
type MGRS struct {
	GridZone   string `json:"gridZone"`   // zone digits + latitude band letter, e.g. "18T"
	GridSquare string `json:"gridSquare"` // two letters, I and O excluded
	Easting    int    `json:"easting"`
	Northing   int    `json:"northing"`
	Precision  int    `json:"precision"` // 1..5, 5 = 1 m resolution
}

// What3Words is a three-word address. Only the shape is validated locally;
// resolution requires the external geocoding service.
type What3Words struct {
	Words string `json:"words"`
}

// Coordinate is a tagged union over the four supported formats. Exactly the
// variant matching Format is non-nil; Raw preserves the original input text.
type Coordinate struct {
	Format     Format      `json:"format"`
	Raw        string      `json:"raw"`
	LatLong    *LatLong    `json:"latLong,omitempty"`
	UTM        *UTM        `json:"utm,omitempty"`
	MGRS       *MGRS       `json:"mgrs,omitempty"`
	What3Words *What3Words `json:"what3words,omitempty"`
}

// Conversions holds a coordinate's representation in each target format.
// A nil field means that representation has not been computed (for example
// what3words without a configured resolver).
type Conversions struct {
	LatLong    *LatLong    `json:"latLong,omitempty"`
	UTM        *UTM        `json:"utm,omitempty"`
	MGRS       *MGRS       `json:"mgrs,omitempty"`
	What3Words *What3Words `json:"what3words,omitempty"`
}

// String renders the MGRS coordinate in its canonical spaced form.
func (m MGRS) String() string {
	return fmt.Sprintf("%s %s %0*d %0*d", m.GridZone, m.GridSquare, m.Precision, m.Easting, m.Precision, m.Northing)
}

// String renders the UTM coordinate as "zone hemisphere easting northing".
func (u UTM) String() string {
	return fmt.Sprintf("%d%s %.2f %.2f", u.Zone, u.Hemisphere, u.Easting, u.Northing)
}
