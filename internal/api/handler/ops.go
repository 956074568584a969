package handler

import (
	"net/http"
	"time"

	"github.com/gridfix/gridfix/internal/api/models"
	"github.com/gridfix/gridfix/internal/api/response"
	"github.com/gridfix/gridfix/internal/converter"
)

// ReadyCheck reports whether a dependency is ready to serve.
type ReadyCheck func(r *http.Request) error

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	converter *converter.Service
	checks    map[string]ReadyCheck
}

// NewOpsHandler creates a new OpsHandler. checks maps subsystem names to
// readiness probes; a nil map means always ready.
func NewOpsHandler(version, buildTime string, svc *converter.Service, checks map[string]ReadyCheck) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		converter: svc,
		checks:    checks,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	for name, check := range h.checks {
		if err := check(r); err != nil {
			response.JSON(w, r, http.StatusServiceUnavailable, models.Health{
				Status: models.HealthStatusDown,
				Time:   time.Now().UTC(),
				Details: map[string]interface{}{
					"subsystem": name,
					"error":     err.Error(),
				},
			})
			return
		}
	}

	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
	})
}

// SystemStatus handles GET /v1/ops/status - subsystem and cache status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
	}

	for name, check := range h.checks {
		subsystem := models.SubsystemStatus{Name: name, Status: models.HealthStatusOK}
		if err := check(r); err != nil {
			subsystem.Status = models.HealthStatusDown
			status.Status = models.HealthStatusDegraded
		}
		status.Subsystems = append(status.Subsystems, subsystem)
	}

	if h.converter != nil {
		stats := h.converter.CacheStats()
		status.Cache = map[string]interface{}{
			"entries":   stats.Entries,
			"hits":      stats.Hits,
			"misses":    stats.Misses,
			"evictions": stats.Evictions,
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}
