// Package handler provides HTTP handlers for the gridfix API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gridfix/gridfix/internal/api/middleware"
	"github.com/gridfix/gridfix/internal/api/models"
	"github.com/gridfix/gridfix/internal/api/response"
	"github.com/gridfix/gridfix/internal/converter"
	"github.com/gridfix/gridfix/internal/coordinate"
	"github.com/gridfix/gridfix/internal/history"
	"github.com/gridfix/gridfix/internal/parser"
	"github.com/gridfix/gridfix/internal/telemetry"
)

// ConvertHandler handles coordinate conversion endpoints.
type ConvertHandler struct {
	converter *converter.Service
	history   *history.Service
	metrics   *telemetry.ConversionMetrics
	logger    zerolog.Logger
}

// NewConvertHandler creates a new ConvertHandler. History and metrics are
// optional.
func NewConvertHandler(svc *converter.Service, hist *history.Service, metrics *telemetry.ConversionMetrics, logger zerolog.Logger) *ConvertHandler {
	return &ConvertHandler{
		converter: svc,
		history:   hist,
		metrics:   metrics,
		logger:    logger,
	}
}

// Convert handles POST /v1/convert - convert one coordinate.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var input models.ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	start := time.Now()
	result := h.converter.Convert(r.Context(), input.Input, coordinate.Format(input.Format))
	h.recordMetrics(r, result, time.Since(start))

	if result.Err != nil {
		h.writeConversionError(w, r, result.Err)
		return
	}

	resp := models.ConvertResponse{
		Input:       result.Input,
		Format:      result.Format,
		Parsed:      result.Coordinate,
		Conversions: result.Conversions,
		Cached:      result.Cached,
	}

	if h.history != nil {
		record, err := h.history.RecordConversion(r.Context(), result)
		if err != nil {
			h.logger.Warn().Err(err).Msg("failed to record conversion history")
		} else {
			resp.HistoryID = record.ID
		}
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// ConvertBatch handles POST /v1/convert:batch - convert many coordinates.
func (h *ConvertHandler) ConvertBatch(w http.ResponseWriter, r *http.Request) {
	var input models.BatchConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if len(input.Inputs) == 0 {
		response.BadRequest(w, r, "inputs must not be empty", []models.FieldError{
			{Field: "inputs", Message: "at least one input is required"},
		})
		return
	}

	results := h.converter.ConvertBatch(r.Context(), input.Inputs, coordinate.Format(input.Format))

	resp := models.BatchConvertResponse{
		Results:   make([]models.BatchItemResult, 0, len(results)),
		Total:     len(results),
		Truncated: len(results) < len(input.Inputs),
	}
	for _, res := range results {
		item := models.BatchItemResult{
			Input:  res.Input,
			Format: res.Format,
			Cached: res.Cached,
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
			item.Suggestions = coordinate.ErrorSuggestions(res.Err)
			resp.Failed++
		} else {
			item.Conversions = res.Conversions
			resp.Succeeded++
		}
		resp.Results = append(resp.Results, item)
	}

	if h.metrics != nil {
		h.metrics.BatchSize.Record(r.Context(), int64(len(results)))
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// Detect handles POST /v1/detect - detect the format of coordinate text.
func (h *ConvertHandler) Detect(w http.ResponseWriter, r *http.Request) {
	var input models.DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.Input == "" {
		response.BadRequest(w, r, "input must not be empty", []models.FieldError{
			{Field: "input", Message: "input is required"},
		})
		return
	}

	format, detected := parser.Detect(input.Input)

	resp := models.DetectResponse{
		Input:    input.Input,
		Detected: detected,
	}
	if detected {
		resp.Format = format
	}
	for _, candidate := range []coordinate.Format{
		coordinate.FormatLatLong,
		coordinate.FormatUTM,
		coordinate.FormatMGRS,
		coordinate.FormatWhat3Words,
	} {
		resp.Candidates = append(resp.Candidates, models.FormatCandidate{
			Format:     candidate,
			Confidence: parser.Confidence(input.Input, candidate),
		})
	}

	response.JSON(w, r, http.StatusOK, resp)
}

func (h *ConvertHandler) recordMetrics(r *http.Request, result converter.Result, elapsed time.Duration) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordConversion(r.Context(), string(result.Format), result.Cached,
		float64(elapsed.Microseconds())/1000.0, result.Err)
	if errors.Is(result.Err, converter.ErrQueueFull) {
		h.metrics.Rejections.Add(r.Context(), 1)
	}
}

// writeConversionError maps conversion errors to Problem responses.
func (h *ConvertHandler) writeConversionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, coordinate.ErrEmptyInput):
		response.BadRequest(w, r, "input must not be empty", []models.FieldError{
			{Field: "input", Message: "input is required"},
		})
	case errors.Is(err, coordinate.ErrUnknownFormat):
		response.ParseError(w, r, "input does not match any supported coordinate format", nil)
	case errors.Is(err, converter.ErrQueueFull):
		response.TooManyRequests(w, r, "conversion queue is full, retry shortly")
	case errors.Is(err, converter.ErrWorkerTimeout):
		response.ConversionTimeout(w, r, "conversion did not complete in time")
	case errors.Is(err, converter.ErrClosed):
		response.ServiceUnavailable(w, r, "conversion service is shutting down")
	default:
		if ve, ok := coordinate.AsValidationError(err); ok {
			problem := models.NewBadRequest(
				middleware.GetRequestID(r.Context()), ve.Message,
				[]models.FieldError{{Field: ve.Field, Message: ve.Message}},
			).WithSuggestions(ve.Suggestions)
			response.Error(w, r, problem)
			return
		}
		if pe, ok := coordinate.AsParseError(err); ok {
			response.ParseError(w, r, pe.Message, pe.Suggestions)
			return
		}
		h.logger.Error().Err(err).Msg("conversion failed")
		response.InternalError(w, r, "conversion failed")
	}
}
