package model

import "time"

// Health statuses for a single probed service
const (
	StatusHealthy      = "healthy"
	StatusUnhealthy    = "unhealthy"
	StatusUnconfigured = "unconfigured"
	StatusUnknown      = "unknown"
)

// Fleet-wide statuses
const (
	FleetHealthy   = "healthy"
	FleetDegraded  = "degraded"
	FleetUnhealthy = "unhealthy"
)

// ServiceHealth is the transient outcome of one probe. Never persisted;
// recomputed on every check.
type ServiceHealth struct {
	ServiceName    string                 `json:"service_name"`
	Status         string                 `json:"status"`
	ResponseTimeMs *float64               `json:"response_time_ms,omitempty"`
	HTTPStatus     *int                   `json:"http_status,omitempty"`
	ServiceData    map[string]interface{} `json:"service_data,omitempty"`
	Error          string                 `json:"error,omitempty"`
	CheckedAt      time.Time              `json:"last_checked"`
}

// Unavailable reports whether this entry counts against fleet health
func (h ServiceHealth) Unavailable() bool {
	return h.Status == StatusUnhealthy || h.Status == StatusUnconfigured
}

// MLModelHealth is the shaped model-health response. The probe's raw payload
// is regrouped into model and system metric sections; fields the ML service
// did not report come back null rather than being dropped.
type MLModelHealth struct {
	Service        string                 `json:"service"`
	Status         string                 `json:"status"`
	ResponseTimeMs *float64               `json:"response_time_ms,omitempty"`
	ModelMetrics   map[string]interface{} `json:"model_metrics"`
	SystemMetrics  map[string]interface{} `json:"system_metrics"`
	Error          string                 `json:"error,omitempty"`
	CheckedAt      time.Time              `json:"last_checked"`
}

// FleetHealthSnapshot aggregates one probe sweep over the whole registry
type FleetHealthSnapshot struct {
	Services          map[string]ServiceHealth `json:"services"`
	OverallStatus     string                   `json:"overall_status"`
	UnhealthyServices []string                 `json:"unhealthy_services"`
	ComputedAt        time.Time                `json:"timestamp"`
}

// OverallFromUnavailable derives the fleet verdict from the count of
// non-healthy members. The <=2 degraded threshold is a fixed policy,
// not a tunable.
func OverallFromUnavailable(unavailable int) string {
	switch {
	case unavailable == 0:
		return FleetHealthy
	case unavailable <= 2:
		return FleetDegraded
	default:
		return FleetUnhealthy
	}
}
