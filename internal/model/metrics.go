package model

import "time"

// PerformanceMetric is the derived per-service aggregate over a time window.
// Groups with zero requests are never materialized, so SuccessRate and
// ErrorRate always have a defined denominator.
type PerformanceMetric struct {
	Service           string  `json:"service"`
	AvgResponseTimeMs float64 `json:"avg_response_time"`
	TotalRequests     int64   `json:"total_requests"`
	SuccessRate       float64 `json:"success_rate"`
	ErrorRate         float64 `json:"error_rate"`
}

// DailyServiceStat is one calendar-day aggregate for a single service
type DailyServiceStat struct {
	Date              string  `json:"date"`
	TotalRequests     int64   `json:"total_requests"`
	AvgResponseTimeMs float64 `json:"avg_response_time"`
	ErrorCount        int64   `json:"error_count"`
}

// ErrorSummary is the fleet-wide error digest over a window
type ErrorSummary struct {
	PeriodHours    int                    `json:"period_hours"`
	Summary        ErrorSummaryTotals     `json:"summary"`
	ByService      map[string]int64       `json:"by_service"`
	ByStatusCode   map[int]int64          `json:"by_status_code"`
	CriticalErrors []CriticalErrorEntry   `json:"critical_errors"`
}

// ErrorSummaryTotals is the top line of an error summary
type ErrorSummaryTotals struct {
	TotalRequests   int64   `json:"total_requests"`
	ErrorCount      int64   `json:"error_count"`
	ErrorRate       float64 `json:"error_rate"`
	AvgResponseTime float64 `json:"avg_response_time"`
}

// CriticalErrorEntry is one recent server-side failure
type CriticalErrorEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	Service      string    `json:"service"`
	Endpoint     string    `json:"endpoint"`
	StatusCode   int       `json:"status_code"`
	ErrorDetails string    `json:"error_details,omitempty"`
}

// ServiceWindowStats is the in-memory aggregate over one service's raw
// records in a window. HasData is false when the window held no records.
type ServiceWindowStats struct {
	HasData           bool       `json:"-"`
	TotalRequests     int64      `json:"total_requests"`
	AvgResponseTimeMs float64    `json:"avg_response_time"`
	ErrorRate         float64    `json:"error_rate"`
	SuccessRate       float64    `json:"success_rate"`
	LastActivity      *time.Time `json:"last_activity,omitempty"`
}

// Recommendation is one actionable flag derived from a performance metric
type Recommendation struct {
	Type           string `json:"type"`
	Service        string `json:"service"`
	Issue          string `json:"issue"`
	Recommendation string `json:"recommendation"`
}
