package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gridfix/gridfix/internal/api/response"
	"github.com/gridfix/gridfix/internal/history"
)

// HistoryHandler handles conversion history endpoints.
type HistoryHandler struct {
	history *history.Service
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(svc *history.Service) *HistoryHandler {
	return &HistoryHandler{history: svc}
}

// List handles GET /v1/history - list recent conversions, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 200 {
			response.BadRequest(w, r, "limit must be an integer between 1 and 200", nil)
			return
		}
		limit = parsed
	}

	page, err := h.history.List(r.Context(), history.ListOptions{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	})
	if err != nil {
		response.InternalError(w, r, "failed to list history")
		return
	}

	response.JSON(w, r, http.StatusOK, page)
}

// Get handles GET /v1/history/{recordId} - fetch one conversion record.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordId")
	if recordID == "" {
		response.BadRequest(w, r, "recordId is required", nil)
		return
	}

	record, err := h.history.Get(r.Context(), recordID)
	if err != nil {
		if errors.Is(err, history.ErrRecordNotFound) {
			response.NotFound(w, r, "history record not found")
			return
		}
		response.InternalError(w, r, "failed to load history record")
		return
	}

	response.JSON(w, r, http.StatusOK, record)
}

// Delete handles DELETE /v1/history/{recordId} - remove one conversion record.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordId")
	if recordID == "" {
		response.BadRequest(w, r, "recordId is required", nil)
		return
	}

	if err := h.history.Delete(r.Context(), recordID); err != nil {
		if errors.Is(err, history.ErrRecordNotFound) {
			response.NotFound(w, r, "history record not found")
			return
		}
		response.InternalError(w, r, "failed to delete history record")
		return
	}

	response.NoContent(w, r)
}
