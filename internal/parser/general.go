package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gridfix/gridfix/internal/coordinate"
)

// General-grammar patterns. These accept a superset of the fast-path shapes.
var (
	// Decimal degrees with optional hemisphere letters: "40.7128N 74.0060W",
	// "40.7128, -74.0060", "40.7128 -74.0060".
	decimalPairRe = regexp.MustCompile(`^(-?\d{1,3}(?:\.\d+)?)\s*°?\s*([NSns])?\s*[,;\s]\s*(-?\d{1,3}(?:\.\d+)?)\s*°?\s*([EWew])?$`)

	// Degree-minute-second: 40°42'46.08"N 74°0'21.6"W
	dmsPairRe = regexp.MustCompile(`^(\d{1,3})\s*°\s*(\d{1,2})\s*'\s*(\d{1,2}(?:\.\d+)?)\s*"\s*([NSns])\s*[,;]?\s*(\d{1,3})\s*°\s*(\d{1,2})\s*'\s*(\d{1,2}(?:\.\d+)?)\s*"\s*([EWew])$`)

	// Degree-decimal-minute: 40°42.768'N 74°0.36'W
	ddmPairRe = regexp.MustCompile(`^(\d{1,3})\s*°\s*(\d{1,2}(?:\.\d+)?)\s*'\s*([NSns])\s*[,;]?\s*(\d{1,3})\s*°\s*(\d{1,2}(?:\.\d+)?)\s*'\s*([EWew])$`)

	// Compact UTM: zone+band glued to a 6-digit easting and 7-digit northing.
	compactUTMRe = regexp.MustCompile(`^(\d{1,2})([C-HJ-NP-Xc-hj-np-x])(\d{6})(\d{7})$`)

	// Loose UTM accepts any band letter so validation can explain why the
	// letter is rejected instead of reporting a generic shape mismatch.
	looseUTMRe = regexp.MustCompile(`^(\d{1,2})\s*([A-Za-z])\s+(\d{1,8}(?:\.\d+)?)\s+(\d{1,8}(?:\.\d+)?)$`)

	// Spaced MGRS with separate digit groups: "18T WL 85628 11322".
	spacedMGRSRe = regexp.MustCompile(`^(\d{1,2})\s*([C-HJ-NP-Xc-hj-np-x])\s+([A-HJ-NP-Za-hj-np-z]{2})\s+(\d{1,5})\s+(\d{1,5})$`)

	// What3words: three dot-separated words, optional /// prefix.
	what3wordsRe = regexp.MustCompile(`^(?:///)?([a-zA-Z]{1,40})\.([a-zA-Z]{1,40})\.([a-zA-Z]{1,40})$`)

	// Loose shapes used only to build correction suggestions.
	looseNumbersRe = regexp.MustCompile(`(-?\d{1,3}(?:\.\d+)?)`)
	looseMGRSRe    = regexp.MustCompile(`^(\d{1,2})([A-Za-z])\s*([A-Za-z]{2})\s*(\d+)$`)
)

// Parse parses text as the given format, trying the fast path first.
func Parse(text string, format coordinate.Format) (*coordinate.Coordinate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, coordinate.ErrEmptyInput
	}

	switch format {
	case coordinate.FormatLatLong:
		if c, ok := FastParseLatLong(text); ok {
			return c, nil
		}
		return ParseLatLong(text)
	case coordinate.FormatUTM:
		if c, ok := FastParseUTM(text); ok {
			return c, nil
		}
		return ParseUTM(text)
	case coordinate.FormatMGRS:
		if c, ok := FastParseMGRS(text); ok {
			return c, nil
		}
		return ParseMGRS(text)
	case coordinate.FormatWhat3Words:
		return ParseWhat3Words(text)
	default:
		return nil, &coordinate.ParseError{Format: format, Input: text, Message: fmt.Sprintf("unsupported format %q", format)}
	}
}

// ParseLatLong accepts signed decimal pairs, hemisphere-suffixed decimals,
// DMS and DDM forms.
func ParseLatLong(text string) (*coordinate.Coordinate, error) {
	if m := decimalPairRe.FindStringSubmatch(text); m != nil {
		lat, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, latLongParseError(text)
		}
		lng, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return nil, latLongParseError(text)
		}
		if strings.EqualFold(m[2], "S") {
			lat = -lat
		}
		if strings.EqualFold(m[4], "W") {
			lng = -lng
		}
		if err := validateLatLongWithSuggestion(text, lat, lng); err != nil {
			return nil, err
		}
		return latLongCoordinate(text, lat, lng), nil
	}

	if m := dmsPairRe.FindStringSubmatch(text); m != nil {
		lat, err := dmsValue(m[1], m[2], m[3], m[4])
		if err != nil {
			return nil, err
		}
		lng, err := dmsValue(m[5], m[6], m[7], m[8])
		if err != nil {
			return nil, err
		}
		return latLongCoordinate(text, lat, lng), nil
	}

	if m := ddmPairRe.FindStringSubmatch(text); m != nil {
		lat, err := ddmValue(m[1], m[2], m[3])
		if err != nil {
			return nil, err
		}
		lng, err := ddmValue(m[4], m[5], m[6])
		if err != nil {
			return nil, err
		}
		return latLongCoordinate(text, lat, lng), nil
	}

	return nil, latLongParseError(text)
}

// ParseUTM accepts the spaced form plus compact zone+band+digits.
func ParseUTM(text string) (*coordinate.Coordinate, error) {
	var zone int
	var band byte
	var easting, northing float64

	if m := looseUTMRe.FindStringSubmatch(text); m != nil {
		zone, _ = strconv.Atoi(m[1])
		band = strings.ToUpper(m[2])[0]
		easting, _ = strconv.ParseFloat(m[3], 64)
		northing, _ = strconv.ParseFloat(m[4], 64)
	} else if m := compactUTMRe.FindStringSubmatch(text); m != nil {
		zone, _ = strconv.Atoi(m[1])
		band = strings.ToUpper(m[2])[0]
		easting, _ = strconv.ParseFloat(m[3], 64)
		northing, _ = strconv.ParseFloat(m[4], 64)
	} else {
		return nil, &coordinate.ParseError{
			Format:  coordinate.FormatUTM,
			Input:   text,
			Message: "expected \"ZONE BAND EASTING NORTHING\", e.g. \"18T 585628 4511322\"",
		}
	}

	if err := coordinate.ValidateBandLetter(band); err != nil {
		return nil, err
	}
	utm := coordinate.UTM{
		Zone:       zone,
		Hemisphere: hemisphereForBand(band),
		Easting:    easting,
		Northing:   northing,
	}
	if err := coordinate.ValidateUTM(utm); err != nil {
		return nil, err
	}

	return &coordinate.Coordinate{Format: coordinate.FormatUTM, Raw: text, UTM: &utm}, nil
}

// ParseMGRS accepts the compact form plus spaced digit groups.
func ParseMGRS(text string) (*coordinate.Coordinate, error) {
	if c, ok := FastParseMGRS(text); ok {
		return c, nil
	}

	if m := spacedMGRSRe.FindStringSubmatch(text); m != nil {
		if len(m[4]) != len(m[5]) {
			return nil, &coordinate.ParseError{
				Format:  coordinate.FormatMGRS,
				Input:   text,
				Message: "easting and northing must have the same number of digits",
			}
		}
		return parseMGRSParts(text, m[1], strings.ToUpper(m[2])[0], strings.ToUpper(m[3]), m[4]+m[5])
	}

	// The compact pattern failed; distinguish an odd digit count from an
	// unrecognised shape so the error is actionable.
	if m := looseMGRSRe.FindStringSubmatch(text); m != nil {
		if len(m[4])%2 != 0 {
			return nil, &coordinate.ValidationError{
				Field:       "digits",
				Message:     fmt.Sprintf("MGRS digit count must be even (2-10), got %d", len(m[4])),
				Suggestions: []string{text[:len(text)-1]},
			}
		}
		if len(m[4]) > 10 {
			return nil, &coordinate.ValidationError{Field: "digits", Message: "MGRS references carry at most 10 digits (precision 5)"}
		}
		return parseMGRSParts(text, m[1], strings.ToUpper(m[2])[0], strings.ToUpper(m[3]), m[4])
	}

	return nil, &coordinate.ParseError{
		Format:  coordinate.FormatMGRS,
		Input:   text,
		Message: "expected zone, band, grid square and an even digit group, e.g. \"18TWL8562811322\"",
	}
}

func parseMGRSParts(raw, zoneStr string, band byte, square, digits string) (*coordinate.Coordinate, error) {
	zone, err := strconv.Atoi(zoneStr)
	if err != nil {
		return nil, &coordinate.ParseError{Format: coordinate.FormatMGRS, Input: raw, Message: "invalid zone number"}
	}
	if err := coordinate.ValidateZone(zone); err != nil {
		return nil, err
	}
	if err := coordinate.ValidateBandLetter(band); err != nil {
		return nil, err
	}
	if err := coordinate.ValidateGridSquare(square); err != nil {
		return nil, err
	}
	if len(digits) < 2 || len(digits) > 10 || len(digits)%2 != 0 {
		return nil, &coordinate.ValidationError{Field: "digits", Message: fmt.Sprintf("MGRS digit count must be even (2-10), got %d", len(digits))}
	}

	precision := len(digits) / 2
	easting, err := strconv.Atoi(digits[:precision])
	if err != nil {
		return nil, &coordinate.ParseError{Format: coordinate.FormatMGRS, Input: raw, Message: "invalid easting digits"}
	}
	northing, err := strconv.Atoi(digits[precision:])
	if err != nil {
		return nil, &coordinate.ParseError{Format: coordinate.FormatMGRS, Input: raw, Message: "invalid northing digits"}
	}

	return &coordinate.Coordinate{
		Format: coordinate.FormatMGRS,
		Raw:    raw,
		MGRS: &coordinate.MGRS{
			GridZone:   zoneStr + string(band),
			GridSquare: square,
			Easting:    easting,
			Northing:   northing,
			Precision:  precision,
		},
	}, nil
}

// ParseWhat3Words validates the three-word shape. Dictionary membership is
// the external geocoder's concern.
func ParseWhat3Words(text string) (*coordinate.Coordinate, error) {
	m := what3wordsRe.FindStringSubmatch(text)
	if m == nil {
		if err := coordinate.ValidateWhat3Words(strings.TrimPrefix(text, "///")); err != nil {
			return nil, err
		}
		return nil, &coordinate.ParseError{
			Format:  coordinate.FormatWhat3Words,
			Input:   text,
			Message: "expected three dot-separated words, e.g. \"filled.count.soap\"",
		}
	}

	words := strings.ToLower(m[1] + "." + m[2] + "." + m[3])
	return &coordinate.Coordinate{
		Format:     coordinate.FormatWhat3Words,
		Raw:        text,
		What3Words: &coordinate.What3Words{Words: words},
	}, nil
}

// dmsValue converts degree/minute/second components to signed decimal degrees.
func dmsValue(degStr, minStr, secStr, hemi string) (float64, error) {
	deg, _ := strconv.ParseFloat(degStr, 64)
	min, _ := strconv.ParseFloat(minStr, 64)
	sec, _ := strconv.ParseFloat(secStr, 64)

	if min >= 60 {
		return 0, &coordinate.ValidationError{Field: "minutes", Message: fmt.Sprintf("minutes %g must be below 60", min)}
	}
	if sec >= 60 {
		return 0, &coordinate.ValidationError{Field: "seconds", Message: fmt.Sprintf("seconds %g must be below 60", sec)}
	}

	limit := angularLimit(hemi)
	if deg > limit {
		return 0, &coordinate.ValidationError{Field: "degrees", Message: fmt.Sprintf("degrees %g exceed %g", deg, limit)}
	}
	// 90°00'00" is the pole itself; any excess minutes or seconds overshoot.
	if deg == limit && (min > 0 || sec > 0) {
		return 0, &coordinate.ValidationError{Field: "degrees", Message: fmt.Sprintf("%g° with nonzero minutes or seconds exceeds the valid range", deg)}
	}

	value := deg + min/60 + sec/3600
	if strings.EqualFold(hemi, "S") || strings.EqualFold(hemi, "W") {
		value = -value
	}
	return value, nil
}

// ddmValue converts degree/decimal-minute components to signed decimal degrees.
func ddmValue(degStr, minStr, hemi string) (float64, error) {
	deg, _ := strconv.ParseFloat(degStr, 64)
	min, _ := strconv.ParseFloat(minStr, 64)

	if min >= 60 {
		return 0, &coordinate.ValidationError{Field: "minutes", Message: fmt.Sprintf("minutes %g must be below 60", min)}
	}
	limit := angularLimit(hemi)
	if deg > limit || (deg == limit && min > 0) {
		return 0, &coordinate.ValidationError{Field: "degrees", Message: fmt.Sprintf("degrees exceed %g", limit)}
	}

	value := deg + min/60
	if strings.EqualFold(hemi, "S") || strings.EqualFold(hemi, "W") {
		value = -value
	}
	return value, nil
}

func angularLimit(hemi string) float64 {
	if strings.EqualFold(hemi, "N") || strings.EqualFold(hemi, "S") {
		return 90
	}
	return 180
}

func latLongCoordinate(raw string, lat, lng float64) *coordinate.Coordinate {
	return &coordinate.Coordinate{
		Format:  coordinate.FormatLatLong,
		Raw:     raw,
		LatLong: &coordinate.LatLong{Lat: lat, Lng: lng},
	}
}

// validateLatLongWithSuggestion rejects out-of-range pairs, suggesting the
// swapped order when that alone would make the input valid.
func validateLatLongWithSuggestion(text string, lat, lng float64) error {
	err := coordinate.ValidateLatLong(lat, lng)
	if err == nil {
		return nil
	}
	ve, ok := coordinate.AsValidationError(err)
	if ok && coordinate.ValidateLatLong(lng, lat) == nil {
		ve.Suggestions = append(ve.Suggestions, fmt.Sprintf("%g, %g", lng, lat))
	}
	return err
}

// latLongParseError builds a ParseError, suggesting a comma-separated pair
// when two numbers can be recovered from the input.
func latLongParseError(text string) error {
	pe := &coordinate.ParseError{
		Format:  coordinate.FormatLatLong,
		Input:   text,
		Message: "expected decimal degrees (\"40.7128, -74.0060\"), DMS or DDM",
	}
	if nums := looseNumbersRe.FindAllString(text, -1); len(nums) == 2 {
		pe.Suggestions = append(pe.Suggestions, nums[0]+", "+nums[1])
	}
	return pe
}
