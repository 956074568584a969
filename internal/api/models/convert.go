package models

import "github.com/gridfix/gridfix/internal/coordinate"

// ConvertRequest is the body of POST /v1/convert.
type ConvertRequest struct {
	// Input is the coordinate text in any supported format.
	Input string `json:"input"`
	// Format names the input format. Empty means auto-detect.
	Format string `json:"format,omitempty"`
}

// ConvertResponse is the result of a single conversion.
type ConvertResponse struct {
	Input       string                  `json:"input"`
	Format      coordinate.Format       `json:"format"`
	Parsed      *coordinate.Coordinate  `json:"parsed,omitempty"`
	Conversions *coordinate.Conversions `json:"conversions"`
	Cached      bool                    `json:"cached"`
	HistoryID   string                  `json:"historyId,omitempty"`
}

// BatchConvertRequest is the body of POST /v1/convert:batch.
type BatchConvertRequest struct {
	// Inputs are the coordinate texts to convert, at most 10000.
	Inputs []string `json:"inputs"`
	// Format names the input format for every item. Empty means per-item
	// auto-detect.
	Format string `json:"format,omitempty"`
}

// BatchItemResult is the outcome for one item of a batch. Failed items carry
// an error message and suggestions instead of conversions.
type BatchItemResult struct {
	Input       string                  `json:"input"`
	Format      coordinate.Format       `json:"format,omitempty"`
	Conversions *coordinate.Conversions `json:"conversions,omitempty"`
	Cached      bool                    `json:"cached,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Suggestions []string                `json:"suggestions,omitempty"`
}

// BatchConvertResponse is the result of a batch conversion.
type BatchConvertResponse struct {
	Results   []BatchItemResult `json:"results"`
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Truncated bool              `json:"truncated,omitempty"`
}

// DistanceRequest is the body of POST /v1/distance. Each endpoint is
// coordinate text in any supported format.
type DistanceRequest struct {
	From       string `json:"from"`
	To         string `json:"to"`
	FromFormat string `json:"fromFormat,omitempty"`
	ToFormat   string `json:"toFormat,omitempty"`
}

// DistanceResponse reports the great-circle distance between two points.
type DistanceResponse struct {
	From           *coordinate.LatLong `json:"from"`
	To             *coordinate.LatLong `json:"to"`
	DistanceMeters float64             `json:"distanceMeters"`
	BearingDegrees float64             `json:"bearingDegrees"`
}

// DetectRequest is the body of POST /v1/detect.
type DetectRequest struct {
	Input string `json:"input"`
}

// FormatCandidate is one format's confidence score for an input.
type FormatCandidate struct {
	Format     coordinate.Format `json:"format"`
	Confidence float64           `json:"confidence"`
}

// DetectResponse reports the detected format of an input.
type DetectResponse struct {
	Input      string            `json:"input"`
	Format     coordinate.Format `json:"format,omitempty"`
	Detected   bool              `json:"detected"`
	Candidates []FormatCandidate `json:"candidates"`
}
