package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"fitops/internal/model"
	"fitops/pkg/logger"
	"fitops/pkg/serviceclient"
	"fitops/pkg/store/mysql"
	mysqlModel "fitops/pkg/store/mysql/model"

	"github.com/montanaflynn/stats"
)

// Peer analytics endpoints consumed as opaque JSON
const (
	authAnalyticsPath       = "/auth/user-analytics"
	trackingAnalyticsPath   = "/tracking/analytics"
	engagementAnalyticsPath = "/engagement/analytics"
	mlEffectivenessPath     = "/api/v1/effectiveness-metrics"
)

// Peers holds capability clients onto the analytics-bearing fleet members.
// Any entry may be unconfigured; its section then degrades to an error note.
type Peers struct {
	Auth       *serviceclient.Client
	Tracking   *serviceclient.Client
	Engagement *serviceclient.Client
	ML         *serviceclient.Client
}

// AnalyticsService combines peer analytics feeds with local log-derived
// metrics into cross-cutting business views
type AnalyticsService struct {
	peers     Peers
	metrics   *MetricsService
	apilogs   *mysql.APILogRepository
	reports   *ReportService
	recommend *RecommendationEngine
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(peers Peers, metrics *MetricsService, apilogs *mysql.APILogRepository, reports *ReportService, recommend *RecommendationEngine) *AnalyticsService {
	return &AnalyticsService{
		peers:     peers,
		metrics:   metrics,
		apilogs:   apilogs,
		reports:   reports,
		recommend: recommend,
	}
}

// BusinessMetrics assembles the cross-service business view over the last N
// days. A failing peer degrades its own section to an error entry; it never
// aborts the whole response.
func (s *AnalyticsService) BusinessMetrics(ctx context.Context, days int) (map[string]interface{}, error) {
	since := time.Now().AddDate(0, 0, -days)

	technical, err := s.technicalMetrics(ctx, since)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"user_metrics":       s.userMetrics(ctx, since),
		"workout_metrics":    s.workoutMetrics(ctx, since),
		"engagement_metrics": s.engagementMetrics(ctx, since),
		"technical_metrics":  technical,
		"ml_effectiveness":   s.mlEffectiveness(ctx, since),
	}, nil
}

// MLPerformance combines the ML service's effectiveness feed with local
// response-time statistics. Upstream failure is returned as an error so the
// handler can answer 503.
func (s *AnalyticsService) MLPerformance(ctx context.Context, days int) (map[string]interface{}, error) {
	since := time.Now().AddDate(0, 0, -days)

	data, err := s.fetchPeer(ctx, s.peers.ML, mlEffectivenessPath, since)
	if err != nil {
		return nil, err
	}

	rtStats, err := s.mlResponseTimeStats(ctx, since)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"recommendation_acceptance_rate": valueOr(data, "acceptance_rate", 0),
		"model_accuracy_trend":           valueOr(data, "accuracy_trend", []interface{}{}),
		"personalization_effectiveness":  valueOr(data, "personalization_score", 0),
		"algorithm_performance": map[string]interface{}{
			"content_based": valueOr(data, "content_based_performance", 0),
			"collaborative": valueOr(data, "collaborative_performance", 0),
			"hybrid":        valueOr(data, "hybrid_performance", 0),
		},
		"response_time_metrics": rtStats,
	}, nil
}

// SystemPerformanceReport assembles the full 30-day performance view,
// persists it as a system_analytics report and returns both
func (s *AnalyticsService) SystemPerformanceReport(ctx context.Context, actor Actor) (*mysqlModel.Report, map[string]interface{}, error) {
	now := time.Now()
	since30d := now.AddDate(0, 0, -30)
	since7d := now.AddDate(0, 0, -7)

	servicePerformance := make(map[string]interface{})
	for _, entry := range s.reports.health.Registry() {
		windowStats, err := s.metrics.ServiceWindowStats(ctx, entry.Name, since7d)
		if err != nil {
			return nil, nil, err
		}
		servicePerformance[entry.Name] = windowStatsPayload(windowStats)
	}

	apiPerformance, err := s.metrics.AggregatePerformance(ctx, since30d, "")
	if err != nil {
		return nil, nil, err
	}

	errorAnalysis, err := s.errorAnalysis(ctx, since30d)
	if err != nil {
		return nil, nil, err
	}

	payload := map[string]interface{}{
		"report_info": map[string]interface{}{
			"type":         "system_performance",
			"generated_at": now,
			"period":       "30_days",
		},
		"service_performance": servicePerformance,
		"api_performance":     apiPerformance,
		"error_analysis":      errorAnalysis,
		"resource_utilization": map[string]interface{}{
			"database_connections": "monitoring_not_implemented",
			"memory_usage":         "monitoring_not_implemented",
			"cpu_usage":            "monitoring_not_implemented",
			"storage_usage":        "monitoring_not_implemented",
		},
		"recommendations": s.recommend.Recommend(apiPerformance),
	}

	report, err := s.reports.Save(ctx, actor, GenerateReportParams{
		Name:       "System Performance Report - " + now.Format("2006-01-02"),
		Type:       mysqlModel.ReportSystemAnalytics,
		Parameters: mysqlModel.JSONMap{"period_days": 30},
		FileFormat: mysqlModel.FormatJSON,
	}, mysqlModel.JSONMap(payload))
	if err != nil {
		return nil, nil, err
	}
	return report, payload, nil
}

// ServiceMetrics returns one service's 7-day window statistics
func (s *AnalyticsService) ServiceMetrics(ctx context.Context, serviceName string) (map[string]interface{}, error) {
	since := time.Now().AddDate(0, 0, -7)
	windowStats, err := s.metrics.ServiceWindowStats(ctx, serviceName, since)
	if err != nil {
		return nil, err
	}
	return windowStatsPayload(windowStats), nil
}

func (s *AnalyticsService) technicalMetrics(ctx context.Context, since time.Time) (map[string]interface{}, error) {
	total, err := s.apilogs.CountSince(ctx, since)
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
	errorRate, err := s.metrics.ErrorRate(ctx, since)
	if err != nil {
		return nil, err
	}
	availability, err := s.metrics.ServiceAvailability(ctx, since)
	if err != nil {
		return nil, err
	}
	byService, err := s.metrics.AggregatePerformance(ctx, since, "")
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_api_requests":     total,
		"average_response_time":  avgValue,
		"error_rate":             errorRate,
		"service_availability":   availability,
		"performance_by_service": byService,
	}, nil
}

func (s *AnalyticsService) userMetrics(ctx context.Context, since time.Time) map[string]interface{} {
	data, err := s.fetchPeer(ctx, s.peers.Auth, authAnalyticsPath, since)
	if err != nil {
		return peerError("user metrics", err)
	}
	return map[string]interface{}{
		"new_registrations": valueOr(data, "new_users", 0),
		"active_users":      valueOr(data, "active_users", 0),
		"retention_rate":    valueOr(data, "retention_rate", 0),
		"user_growth_rate":  valueOr(data, "growth_rate", 0),
	}
}

func (s *AnalyticsService) workoutMetrics(ctx context.Context, since time.Time) map[string]interface{} {
	data, err := s.fetchPeer(ctx, s.peers.Tracking, trackingAnalyticsPath, since)
	if err != nil {
		return peerError("workout metrics", err)
	}
	return map[string]interface{}{
		"total_workouts_completed": valueOr(data, "total_completed", 0),
		"average_workout_duration": valueOr(data, "avg_duration", 0),
		"completion_rate":          valueOr(data, "completion_rate", 0),
		"most_popular_exercises":   valueOr(data, "popular_exercises", []interface{}{}),
	}
}

func (s *AnalyticsService) engagementMetrics(ctx context.Context, since time.Time) map[string]interface{} {
	data, err := s.fetchPeer(ctx, s.peers.Engagement, engagementAnalyticsPath, since)
	if err != nil {
		return peerError("engagement metrics", err)
	}
	return map[string]interface{}{
		"daily_active_users":   valueOr(data, "daily_active_users", 0),
		"session_duration_avg": valueOr(data, "avg_session_duration", 0),
		"achievements_earned":  valueOr(data, "achievements_earned", 0),
		"social_interactions":  valueOr(data, "social_interactions", 0),
	}
}

func (s *AnalyticsService) mlEffectiveness(ctx context.Context, since time.Time) map[string]interface{} {
	data, err := s.fetchPeer(ctx, s.peers.ML, mlEffectivenessPath, since)
	if err != nil {
		return peerError("ML effectiveness metrics", err)
	}
	return map[string]interface{}{
		"recommendation_acceptance_rate": valueOr(data, "acceptance_rate", 0),
		"model_accuracy_trend":           valueOr(data, "accuracy_trend", []interface{}{}),
		"personalization_effectiveness":  valueOr(data, "personalization_score", 0),
		"algorithm_performance": map[string]interface{}{
			"content_based": valueOr(data, "content_based_performance", 0),
			"collaborative": valueOr(data, "collaborative_performance", 0),
			"hybrid":        valueOr(data, "hybrid_performance", 0),
		},
	}
}

func (s *AnalyticsService) fetchPeer(ctx context.Context, client *serviceclient.Client, path string, since time.Time) (map[string]interface{}, error) {
	if client == nil || !client.Configured() {
		return nil, fmt.Errorf("service URL not configured")
	}
	params := url.Values{}
	params.Set("start_date", since.Format("2006-01-02"))
	result, err := client.Get(ctx, path, params)
	if err != nil {
		logger.WarnCtx(ctx, "peer analytics fetch failed (%s%s): %v", client.ServiceName(), path, err)
		return nil, err
	}
	return result.Data, nil
}

func (s *AnalyticsService) mlResponseTimeStats(ctx context.Context, since time.Time) (map[string]interface{}, error) {
	logs, err := s.apilogs.ListByService(ctx, "fitneaseml", since)
	if err != nil {
		return nil, err
	}

	timings := make([]float64, 0, len(logs))
	for _, log := range logs {
		if log.ResponseTimeMs != nil {
			timings = append(timings, float64(*log.ResponseTimeMs))
		}
	}
	if len(timings) == 0 {
		return map[string]interface{}{"no_data": true}, nil
	}

	mean, err := stats.Mean(timings)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(timings)
	if err != nil {
		return nil, err
	}
	min, err := stats.Min(timings)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"avg_response_time": round2(mean),
		"max_response_time": max,
		"min_response_time": min,
		"request_count":     len(logs),
	}, nil
}

func (s *AnalyticsService) errorAnalysis(ctx context.Context, since time.Time) (map[string]interface{}, error) {
	totalErrors, err := s.apilogs.CountStatusAtLeast(ctx, since, 400)
	if err != nil {
		return nil, err
	}
	byService, err := s.apilogs.ErrorsByService(ctx, since)
	if err != nil {
		return nil, err
	}
	serviceCounts := make(map[string]int64, len(byService))
	for _, row := range byService {
		serviceCounts[row.ServiceTo] = row.ErrorCount
	}
	byStatus, err := s.apilogs.ErrorsByStatusCode(ctx, since)
	if err != nil {
		return nil, err
	}
	statusCounts := make(map[int]int64, len(byStatus))
	for _, row := range byStatus {
		statusCounts[row.StatusCode] = row.Count
	}
	critical, err := s.apilogs.CriticalErrors(ctx, since, 5)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_errors":    totalErrors,
		"by_service":      serviceCounts,
		"by_status_code":  statusCounts,
		"critical_errors": criticalEntries(critical),
	}, nil
}

func windowStatsPayload(windowStats *model.ServiceWindowStats) map[string]interface{} {
	if !windowStats.HasData {
		return map[string]interface{}{
			"status":  "no_data",
			"message": "No recent activity",
		}
	}
	return map[string]interface{}{
		"total_requests":    windowStats.TotalRequests,
		"avg_response_time": windowStats.AvgResponseTimeMs,
		"error_rate":        windowStats.ErrorRate,
		"success_rate":      windowStats.SuccessRate,
		"last_activity":     windowStats.LastActivity,
	}
}

func peerError(what string, err error) map[string]interface{} {
	return map[string]interface{}{
		"error": fmt.Sprintf("Unable to fetch %s: %v", what, err),
	}
}

func valueOr(data map[string]interface{}, key string, fallback interface{}) interface{} {
	if data != nil {
		if v, ok := data[key]; ok && v != nil {
			return v
		}
	}
	return fallback
}
