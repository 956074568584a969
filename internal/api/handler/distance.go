package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gridfix/gridfix/internal/api/models"
	"github.com/gridfix/gridfix/internal/api/response"
	"github.com/gridfix/gridfix/internal/converter"
	"github.com/gridfix/gridfix/internal/coordinate"
	"github.com/gridfix/gridfix/pkg/geodist"
)

// DistanceHandler handles the distance-between-coordinates endpoint.
type DistanceHandler struct {
	converter *converter.Service
}

// NewDistanceHandler creates a new DistanceHandler.
func NewDistanceHandler(svc *converter.Service) *DistanceHandler {
	return &DistanceHandler{converter: svc}
}

// Distance handles POST /v1/distance - great-circle distance between two
// coordinates given in any supported format.
func (h *DistanceHandler) Distance(w http.ResponseWriter, r *http.Request) {
	var input models.DistanceRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	from, ok := h.resolvePoint(w, r, "from", input.From, coordinate.Format(input.FromFormat))
	if !ok {
		return
	}
	to, ok := h.resolvePoint(w, r, "to", input.To, coordinate.Format(input.ToFormat))
	if !ok {
		return
	}

	response.JSON(w, r, http.StatusOK, models.DistanceResponse{
		From:           from,
		To:             to,
		DistanceMeters: geodist.Haversine(from.Lat, from.Lng, to.Lat, to.Lng),
		BearingDegrees: geodist.Bearing(from.Lat, from.Lng, to.Lat, to.Lng),
	})
}

// resolvePoint converts one endpoint of the request to a geographic point,
// writing the error response itself on failure.
func (h *DistanceHandler) resolvePoint(w http.ResponseWriter, r *http.Request, field, text string, format coordinate.Format) (*coordinate.LatLong, bool) {
	result := h.converter.Convert(r.Context(), text, format)
	if result.Err != nil {
		response.BadRequest(w, r, field+": "+result.Err.Error(), []models.FieldError{
			{Field: field, Message: result.Err.Error()},
		})
		return nil, false
	}
	if result.Conversions == nil || result.Conversions.LatLong == nil {
		response.BadRequest(w, r, field+" could not be resolved to a geographic point", []models.FieldError{
			{Field: field, Message: "no geographic representation available"},
		})
		return nil, false
	}
	return result.Conversions.LatLong, true
}
