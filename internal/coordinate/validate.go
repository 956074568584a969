package coordinate

import (
	"fmt"
	"math"
	"strings"
)

// Grid letter alphabets. I and O are excluded everywhere to avoid confusion
// with 1 and 0. A, B, Y and Z denote the polar regions, which UTM does not
// cover, so they are excluded from the latitude bands.
const (
	// BandLetters are the valid UTM latitude band letters, south to north.
	BandLetters = "CDEFGHJKLMNPQRSTUVWX"
	// ColumnLetters are the valid MGRS 100 km grid-square column letters.
	ColumnLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	// RowLetters are the valid MGRS 100 km grid-square row letters.
	RowLetters = "ABCDEFGHJKLMNPQRSTUV"
)

// UTM value bounds. Easting bounds are the conventional in-zone range;
// parse-time validation enforces them, the kernel does not re-clamp.
const (
	MinEasting  = 100000.0
	MaxEasting  = 900000.0
	MinNorthing = 0.0
	MaxNorthing = 10000000.0
)

// ValidateLatLong checks decimal-degree bounds: |lat| <= 90, |lng| <= 180.
// NaN and infinities are rejected.
func ValidateLatLong(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return &ValidationError{Field: "lat", Message: "latitude is not a finite number"}
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) {
		return &ValidationError{Field: "lng", Message: "longitude is not a finite number"}
	}
	if lat < -90 || lat > 90 {
		return &ValidationError{Field: "lat", Message: fmt.Sprintf("latitude %g out of range [-90, 90]", lat)}
	}
	if lng < -180 || lng > 180 {
		return &ValidationError{Field: "lng", Message: fmt.Sprintf("longitude %g out of range [-180, 180]", lng)}
	}
	return nil
}

// ValidateZone checks a UTM zone number.
func ValidateZone(zone int) error {
	if zone < 1 || zone > 60 {
		return &ValidationError{Field: "zone", Message: fmt.Sprintf("zone %d out of range [1, 60]", zone)}
	}
	return nil
}

// ValidateHemisphere checks a UTM hemisphere designator.
func ValidateHemisphere(hemisphere string) error {
	if hemisphere != HemisphereNorth && hemisphere != HemisphereSouth {
		return &ValidationError{Field: "hemisphere", Message: fmt.Sprintf("hemisphere %q must be %q or %q", hemisphere, HemisphereNorth, HemisphereSouth)}
	}
	return nil
}

// ValidateBandLetter checks a UTM latitude band letter.
func ValidateBandLetter(band byte) error {
	if !strings.ContainsRune(BandLetters, rune(band)) {
		return &ValidationError{
			Field:   "band",
			Message: fmt.Sprintf("band letter %q is not a valid latitude band (polar zones A, B, Y, Z are not supported)", string(band)),
		}
	}
	return nil
}

// ValidateUTM checks a full UTM coordinate against the conventional bounds.
func ValidateUTM(u UTM) error {
	if err := ValidateZone(u.Zone); err != nil {
		return err
	}
	if err := ValidateHemisphere(u.Hemisphere); err != nil {
		return err
	}
	if math.IsNaN(u.Easting) || u.Easting < MinEasting || u.Easting > MaxEasting {
		return &ValidationError{Field: "easting", Message: fmt.Sprintf("easting %g out of range [%g, %g]", u.Easting, MinEasting, MaxEasting)}
	}
	if math.IsNaN(u.Northing) || u.Northing < MinNorthing || u.Northing > MaxNorthing {
		return &ValidationError{Field: "northing", Message: fmt.Sprintf("northing %g out of range [%g, %g]", u.Northing, MinNorthing, MaxNorthing)}
	}
	return nil
}

// ValidateGridSquare checks a two-letter MGRS 100 km grid-square identifier.
func ValidateGridSquare(square string) error {
	if len(square) != 2 {
		return &ValidationError{Field: "gridSquare", Message: fmt.Sprintf("grid square %q must be exactly two letters", square)}
	}
	if !strings.ContainsRune(ColumnLetters, rune(square[0])) {
		return &ValidationError{Field: "gridSquare", Message: fmt.Sprintf("grid square column %q is invalid (I and O are excluded)", string(square[0]))}
	}
	if !strings.ContainsRune(RowLetters, rune(square[1])) {
		return &ValidationError{Field: "gridSquare", Message: fmt.Sprintf("grid square row %q is invalid (I and O are excluded)", string(square[1]))}
	}
	return nil
}

// ValidatePrecision checks an MGRS precision (1..5 digit pairs).
func ValidatePrecision(precision int) error {
	if precision < 1 || precision > 5 {
		return &ValidationError{Field: "precision", Message: fmt.Sprintf("precision %d out of range [1, 5]", precision)}
	}
	return nil
}

// ValidateWhat3Words checks the three-word address shape: exactly three
// dot-separated tokens of 1 to 40 characters each. Dictionary membership is
// not checked locally.
func ValidateWhat3Words(words string) error {
	parts := strings.Split(words, ".")
	if len(parts) != 3 {
		return &ValidationError{Field: "words", Message: "address must be exactly three dot-separated words"}
	}
	for i, p := range parts {
		if len(p) < 1 || len(p) > 40 {
			return &ValidationError{Field: "words", Message: fmt.Sprintf("word %d must be 1-40 characters", i+1)}
		}
	}
	return nil
}
