package models

import "time"

// Health status values.
const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
	HealthStatusDown     = "down"
)

// Health is the liveness/readiness response.
type Health struct {
	Status  string                 `json:"status"`
	Time    time.Time              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SubsystemStatus reports one dependency's health.
type SubsystemStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// SystemStatus is the detailed operational status response.
type SystemStatus struct {
	Status     string                 `json:"status"`
	Time       time.Time              `json:"time"`
	Subsystems []SubsystemStatus      `json:"subsystems,omitempty"`
	Cache      map[string]interface{} `json:"cache,omitempty"`
}
