package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitops/internal/model"
	"fitops/pkg/logger"
	"fitops/pkg/store/mysql"
	mysqlModel "fitops/pkg/store/mysql/model"
)

// ErrReportExpired marks access to a report past its retention window
var ErrReportExpired = errors.New("report expired")

// DefaultReportExpiryDays is the retention applied when the caller does not
// choose one
const DefaultReportExpiryDays = 90

const defaultAnalyticsWindowDays = 30

// GenerateReportParams are the caller-supplied fields of a report request
type GenerateReportParams struct {
	Name       string
	Type       string
	Parameters mysqlModel.JSONMap
	FileFormat string
	ExpiryDays int
}

// ReportService assembles analytical report payloads and persists them
type ReportService struct {
	metrics    *MetricsService
	health     *HealthService
	apilogs    *mysql.APILogRepository
	reports    *mysql.ReportRepository
	expiryDays int
}

// NewReportService creates a new report service
func NewReportService(metrics *MetricsService, health *HealthService, apilogs *mysql.APILogRepository, reports *mysql.ReportRepository, expiryDays int) *ReportService {
	if expiryDays <= 0 {
		expiryDays = DefaultReportExpiryDays
	}
	return &ReportService{
		metrics:    metrics,
		health:     health,
		apilogs:    apilogs,
		reports:    reports,
		expiryDays: expiryDays,
	}
}

// Generate assembles the payload for a report type and persists it with an
// expiry stamp
func (s *ReportService) Generate(ctx context.Context, actor Actor, params GenerateReportParams) (*mysqlModel.Report, error) {
	data, err := s.Assemble(ctx, params.Type, params.Parameters)
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, actor, params, data)
}

// Save persists an already-assembled report payload with an expiry stamp
func (s *ReportService) Save(ctx context.Context, actor Actor, params GenerateReportParams, data mysqlModel.JSONMap) (*mysqlModel.Report, error) {
	format := params.FileFormat
	if format == "" {
		format = mysqlModel.FormatJSON
	}
	expiryDays := params.ExpiryDays
	if expiryDays <= 0 {
		expiryDays = s.expiryDays
	}

	now := time.Now()
	expiresAt := now.AddDate(0, 0, expiryDays)
	report := &mysqlModel.Report{
		Name:        params.Name,
		Type:        params.Type,
		GeneratedBy: actor.UserID,
		Parameters:  params.Parameters,
		Data:        data,
		FileFormat:  format,
		GeneratedAt: now,
		ExpiresAt:   &expiresAt,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}

	logger.InfoCtx(ctx, "report generated: id=%d type=%s expires=%s", report.ID, report.Type, expiresAt.Format("2006-01-02"))
	return report, nil
}

// Assemble builds the data payload for a report type without persisting it
func (s *ReportService) Assemble(ctx context.Context, reportType string, parameters mysqlModel.JSONMap) (mysqlModel.JSONMap, error) {
	switch reportType {
	case mysqlModel.ReportSystemAnalytics:
		return s.systemAnalyticsData(ctx, windowDays(parameters))
	case mysqlModel.ReportServiceHealth:
		return s.serviceHealthData(ctx)
	case mysqlModel.ReportMLPerformance:
		return mlPerformanceData(), nil
	default:
		// deliberately scope-limited, a named placeholder rather than an error
		return mysqlModel.JSONMap{
			"type":         reportType,
			"generated_at": time.Now(),
			"message":      "Report type not yet implemented",
		}, nil
	}
}

// Get fetches a report, distinguishing absent from expired
func (s *ReportService) Get(ctx context.Context, id int64) (*mysqlModel.Report, error) {
	report, err := s.reports.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.Expired(time.Now()) {
		return nil, ErrReportExpired
	}
	return report, nil
}

// ListByType returns one page of non-expired reports of a type
func (s *ReportService) ListByType(ctx context.Context, reportType string, page int) ([]*mysqlModel.Report, int64, error) {
	return s.reports.ListByType(ctx, reportType, time.Now(), page)
}

// CleanupExpired deletes all expired reports and reports the count
func (s *ReportService) CleanupExpired(ctx context.Context) (int64, error) {
	deleted, err := s.reports.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	logger.InfoCtx(ctx, "expired report cleanup removed %d reports", deleted)
	return deleted, nil
}

func (s *ReportService) systemAnalyticsData(ctx context.Context, days int) (mysqlModel.JSONMap, error) {
	since := time.Now().AddDate(0, 0, -days)

	performance, err := s.metrics.AggregatePerformance(ctx, since, "")
	if err != nil {
		return nil, err
	}
	breakdown, err := s.apilogs.ErrorBreakdown(ctx, since)
	if err != nil {
		return nil, err
	}
	totalRequests, err := s.apilogs.CountSince(ctx, since)
	if err != nil {
		return nil, err
	}
	totalErrors, err := s.apilogs.CountStatusAtLeast(ctx, since, 400)
	if err != nil {
		return nil, err
	}
	avg, err := s.apilogs.AvgResponseTime(ctx, since)
	if err != nil {
		return nil, err
	}
	avgValue := 0.0
	if avg != nil {
		avgValue = round2(*avg)
	}

	return mysqlModel.JSONMap{
		"report_type":     mysqlModel.ReportSystemAnalytics,
		"period_days":     days,
		"generated_at":    time.Now(),
		"api_performance": performance,
		"error_analysis":  breakdown,
		"summary": map[string]interface{}{
			"total_requests":    totalRequests,
			"total_errors":      totalErrors,
			"avg_response_time": avgValue,
		},
	}, nil
}

// serviceHealthData classifies each fleet member from its last hour of
// traffic, alongside a live probe sweep. The log-window policy here is
// deliberately looser than the probe policy and stays a separate code path.
func (s *ReportService) serviceHealthData(ctx context.Context) (mysqlModel.JSONMap, error) {
	since := time.Now().Add(-time.Hour)

	services := make(map[string]interface{}, len(s.health.Registry()))
	unhealthyCount := 0
	for _, entry := range s.health.Registry() {
		stats, err := s.metrics.ServiceWindowStats(ctx, entry.Name, since)
		if err != nil {
			return nil, err
		}

		classification := classifyWindow(stats)
		if classification["status"] == model.StatusUnhealthy {
			unhealthyCount++
		}
		services[entry.Name] = classification
	}

	snapshot := s.health.CheckFleet(ctx, false)

	return mysqlModel.JSONMap{
		"report_type":    mysqlModel.ReportServiceHealth,
		"generated_at":   time.Now(),
		"services":       services,
		"overall_status": model.OverallFromUnavailable(unhealthyCount),
		"live_probe":     snapshot,
	}, nil
}

// classifyWindow applies the log-window health policy: no traffic means
// unknown, not unhealthy; error rate above 10% or mean latency above 5s
// means unhealthy.
func classifyWindow(stats *model.ServiceWindowStats) map[string]interface{} {
	if !stats.HasData {
		return map[string]interface{}{
			"status":  model.StatusUnknown,
			"message": "No recent activity",
		}
	}
	status := model.StatusHealthy
	if stats.ErrorRate > 10 || stats.AvgResponseTimeMs > 5000 {
		status = model.StatusUnhealthy
	}
	return map[string]interface{}{
		"status":            status,
		"error_rate":        stats.ErrorRate,
		"avg_response_time": stats.AvgResponseTimeMs,
	}
}

// mlPerformanceData mirrors the fixed model metrics the original report
// shipped; live numbers come from the analytics endpoints instead
func mlPerformanceData() mysqlModel.JSONMap {
	return mysqlModel.JSONMap{
		"report_type":  mysqlModel.ReportMLPerformance,
		"generated_at": time.Now(),
		"model_metrics": map[string]interface{}{
			"content_based_accuracy": 0.85,
			"collaborative_accuracy": 0.82,
			"hybrid_accuracy":        0.88,
		},
		"recommendation_stats": map[string]interface{}{
			"total_recommendations": 15000,
			"acceptance_rate":       0.65,
			"avg_response_time_ms":  150,
		},
	}
}

func windowDays(parameters mysqlModel.JSONMap) int {
	if parameters != nil {
		if raw, ok := parameters["days"]; ok {
			if days, ok := raw.(float64); ok && days > 0 {
				return int(days)
			}
		}
	}
	return defaultAnalyticsWindowDays
}
