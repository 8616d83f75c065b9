package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"fitops/internal/model"
	"fitops/pkg/store/mysql"
	mysqlModel "fitops/pkg/store/mysql/model"

	"github.com/montanaflynn/stats"
)

// MetricsService turns raw API call records into rolling performance and
// error statistics
type MetricsService struct {
	repo *mysql.APILogRepository
}

// NewMetricsService creates a new metrics service
func NewMetricsService(repo *mysql.APILogRepository) *MetricsService {
	return &MetricsService{repo: repo}
}

// AggregatePerformance computes per-service performance metrics since the
// given time, optionally restricted to one target service. Groups with zero
// requests never appear: the rate denominators are always positive.
func (s *MetricsService) AggregatePerformance(ctx context.Context, since time.Time, service string) ([]model.PerformanceMetric, error) {
	rows, err := s.repo.PerformanceByService(ctx, since, service)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate performance metrics: %w", err)
	}

	metrics := make([]model.PerformanceMetric, 0, len(rows))
	for _, row := range rows {
		if row.RequestCount == 0 {
			continue
		}
		avg := 0.0
		if row.AvgResponseTime != nil {
			avg = round2(*row.AvgResponseTime)
		}
		metrics = append(metrics, model.PerformanceMetric{
			Service:           row.ServiceTo,
			AvgResponseTimeMs: avg,
			TotalRequests:     row.RequestCount,
			SuccessRate:       round2(float64(row.SuccessCount) / float64(row.RequestCount) * 100),
			ErrorRate:         round2(float64(row.ErrorCount) / float64(row.RequestCount) * 100),
		})
	}
	return metrics, nil
}

// ServiceDailyStats computes one service's per-day statistics since the
// given time, newest day first
func (s *MetricsService) ServiceDailyStats(ctx context.Context, service string, since time.Time) ([]model.DailyServiceStat, error) {
	rows, err := s.repo.DailyStats(ctx, service, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily stats for %s: %w", service, err)
	}

	result := make([]model.DailyServiceStat, 0, len(rows))
	for _, row := range rows {
		avg := 0.0
		if row.AvgResponseTime != nil {
			avg = round2(*row.AvgResponseTime)
		}
		result = append(result, model.DailyServiceStat{
			Date:              row.Date,
			TotalRequests:     row.TotalRequests,
			AvgResponseTimeMs: avg,
			ErrorCount:        row.ErrorCount,
		})
	}
	return result, nil
}

// ErrorRate returns the fleet-wide percentage of records with status >= 400
// since the given time; 0 when the window is empty
func (s *MetricsService) ErrorRate(ctx context.Context, since time.Time) (float64, error) {
	total, err := s.repo.CountSince(ctx, since)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	errors, err := s.repo.CountStatusAtLeast(ctx, since, 400)
	if err != nil {
		return 0, err
	}
	return round2(float64(errors) / float64(total) * 100), nil
}

// ServiceAvailability returns the fleet-wide percentage of records with
// status < 500 since the given time; 0 when the window is empty
func (s *MetricsService) ServiceAvailability(ctx context.Context, since time.Time) (float64, error) {
	total, err := s.repo.CountSince(ctx, since)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	successful, err := s.repo.CountStatusBelow(ctx, since, 500)
	if err != nil {
		return 0, err
	}
	return round2(float64(successful) / float64(total) * 100), nil
}

// ErrorSummary builds the fleet-wide error digest over the last N hours
func (s *MetricsService) ErrorSummary(ctx context.Context, hours int) (*model.ErrorSummary, error) {
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	total, err := s.repo.CountSince(ctx, since)
	if err != nil {
		return nil, err
	}
	errors, err := s.repo.CountStatusAtLeast(ctx, since, 400)
	if err != nil {
		return nil, err
	}
	avg, err := s.repo.AvgResponseTime(ctx, since)
	if err != nil {
		return nil, err
	}

	summary := model.ErrorSummaryTotals{
		TotalRequests: total,
		ErrorCount:    errors,
	}
	if total > 0 {
		summary.ErrorRate = round2(float64(errors) / float64(total) * 100)
	}
	if avg != nil {
		summary.AvgResponseTime = round2(*avg)
	}

	byService, err := s.repo.ErrorsByService(ctx, since)
	if err != nil {
		return nil, err
	}
	serviceCounts := make(map[string]int64, len(byService))
	for _, row := range byService {
		serviceCounts[row.ServiceTo] = row.ErrorCount
	}

	byStatus, err := s.repo.ErrorsByStatusCode(ctx, since)
	if err != nil {
		return nil, err
	}
	statusCounts := make(map[int]int64, len(byStatus))
	for _, row := range byStatus {
		statusCounts[row.StatusCode] = row.Count
	}

	critical, err := s.repo.CriticalErrors(ctx, since, 10)
	if err != nil {
		return nil, err
	}

	return &model.ErrorSummary{
		PeriodHours:    hours,
		Summary:        summary,
		ByService:      serviceCounts,
		ByStatusCode:   statusCounts,
		CriticalErrors: criticalEntries(critical),
	}, nil
}

// ServiceWindowStats computes one service's statistics in memory over a
// window of raw records. HasData is false for an empty window so callers
// can classify the service as unknown rather than report zeros.
func (s *MetricsService) ServiceWindowStats(ctx context.Context, service string, since time.Time) (*model.ServiceWindowStats, error) {
	logs, err := s.repo.ListByService(ctx, service, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch window for %s: %w", service, err)
	}
	if len(logs) == 0 {
		return &model.ServiceWindowStats{HasData: false}, nil
	}

	var errorCount int64
	var lastActivity time.Time
	timings := make([]float64, 0, len(logs))
	for _, log := range logs {
		if log.StatusCode >= 400 {
			errorCount++
		}
		if log.ResponseTimeMs != nil {
			timings = append(timings, float64(*log.ResponseTimeMs))
		}
		if log.Timestamp.After(lastActivity) {
			lastActivity = log.Timestamp
		}
	}

	total := int64(len(logs))
	avg := 0.0
	if len(timings) > 0 {
		// records without timing data are excluded from the mean entirely
		mean, statErr := stats.Mean(timings)
		if statErr != nil {
			return nil, fmt.Errorf("failed to compute mean response time: %w", statErr)
		}
		avg = round2(mean)
	}

	return &model.ServiceWindowStats{
		HasData:           true,
		TotalRequests:     total,
		AvgResponseTimeMs: avg,
		ErrorRate:         round2(float64(errorCount) / float64(total) * 100),
		SuccessRate:       round2(float64(total-errorCount) / float64(total) * 100),
		LastActivity:      &lastActivity,
	}, nil
}

func criticalEntries(logs []*mysqlModel.APILog) []model.CriticalErrorEntry {
	entries := make([]model.CriticalErrorEntry, 0, len(logs))
	for _, log := range logs {
		entry := model.CriticalErrorEntry{
			Timestamp:  log.Timestamp,
			Service:    log.ServiceTo,
			Endpoint:   log.Endpoint,
			StatusCode: log.StatusCode,
		}
		if log.ResponseData != nil {
			if msg, ok := log.ResponseData["error"].(string); ok {
				entry.ErrorDetails = msg
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// round2 rounds half away from zero to 2 decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
