package parser

import (
	"strings"

	"github.com/gridfix/gridfix/internal/coordinate"
)

// detectionOrder lists candidate formats from most to least specific; the
// first structural match wins. LatLong goes last because a bare numeric pair
// is the most general shape.
var detectionOrder = []coordinate.Format{
	coordinate.FormatWhat3Words,
	coordinate.FormatMGRS,
	coordinate.FormatUTM,
	coordinate.FormatLatLong,
}

// Detect classifies free-text input into a coordinate format. ok is false
// when no known grammar matches.
func Detect(text string) (coordinate.Format, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	for _, f := range detectionOrder {
		if matchesFormat(text, f) {
			return f, true
		}
	}
	return "", false
}

// Confidence scores how well text fits a candidate format, independent of
// whether that format would win detection. Scores are advisory: 1.0 for an
// exact fast-path shape, 0.8 for a general-grammar match, 0.3 for a shape
// that resembles the format but fails validation, 0 otherwise.
func Confidence(text string, format coordinate.Format) float64 {
	text = strings.TrimSpace(text)
	if text == "" || !format.Valid() {
		return 0
	}

	switch format {
	case coordinate.FormatLatLong:
		if _, ok := FastParseLatLong(text); ok {
			return 1.0
		}
	case coordinate.FormatUTM:
		if _, ok := FastParseUTM(text); ok {
			return 1.0
		}
	case coordinate.FormatMGRS:
		if _, ok := FastParseMGRS(text); ok {
			return 1.0
		}
	case coordinate.FormatWhat3Words:
		if what3wordsRe.MatchString(text) {
			return 1.0
		}
	}

	if _, err := Parse(text, format); err == nil {
		return 0.8
	}
	if resemblesFormat(text, format) {
		return 0.3
	}
	return 0
}

// matchesFormat reports whether text parses as the given format.
func matchesFormat(text string, format coordinate.Format) bool {
	_, err := Parse(text, format)
	return err == nil
}

// resemblesFormat reports a structural near-miss: the right kind of tokens
// in roughly the right places, but failing full validation.
func resemblesFormat(text string, format coordinate.Format) bool {
	switch format {
	case coordinate.FormatLatLong:
		return len(looseNumbersRe.FindAllString(text, -1)) >= 2
	case coordinate.FormatUTM:
		return fastUTMRe.MatchString(text) || compactUTMRe.MatchString(text)
	case coordinate.FormatMGRS:
		return looseMGRSRe.MatchString(text)
	case coordinate.FormatWhat3Words:
		return strings.Count(text, ".") == 2
	}
	return false
}
