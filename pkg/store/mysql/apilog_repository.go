package mysql

import (
	"context"
	"time"

	"fitops/pkg/store/mysql/model"
)

// ErrorLogPageSize is the fixed page size for error-log listings
const ErrorLogPageSize = 50

// ServicePerformanceRow is one SQL-side aggregation row per target service.
// AvgResponseTime is nil when no row in the group carried timing data.
type ServicePerformanceRow struct {
	ServiceTo       string   `gorm:"column:service_to"`
	AvgResponseTime *float64 `gorm:"column:avg_response_time"`
	RequestCount    int64    `gorm:"column:request_count"`
	ErrorCount      int64    `gorm:"column:error_count"`
	SuccessCount    int64    `gorm:"column:success_count"`
}

// DailyStatRow is one per-day aggregation row for a single service
type DailyStatRow struct {
	Date            string   `gorm:"column:date"`
	TotalRequests   int64    `gorm:"column:total_requests"`
	AvgResponseTime *float64 `gorm:"column:avg_response_time"`
	ErrorCount      int64    `gorm:"column:error_count"`
}

// ServiceErrorCountRow counts errors per target service
type ServiceErrorCountRow struct {
	ServiceTo  string `gorm:"column:service_to"`
	ErrorCount int64  `gorm:"column:error_count"`
}

// ErrorBreakdownRow counts errors per target service and status code
type ErrorBreakdownRow struct {
	ServiceTo  string `gorm:"column:service_to" json:"service"`
	StatusCode int    `gorm:"column:status_code" json:"status_code"`
	ErrorCount int64  `gorm:"column:error_count" json:"error_count"`
}

// StatusCodeCountRow counts errors per status code
type StatusCodeCountRow struct {
	StatusCode int   `gorm:"column:status_code"`
	Count      int64 `gorm:"column:count"`
}

// APILogRepository handles api_logs database operations
type APILogRepository struct {
	ds *Datastore
}

// NewAPILogRepository creates a new API log repository
func NewAPILogRepository(ds *Datastore) *APILogRepository {
	return &APILogRepository{ds: ds}
}

// Create appends one API call record
func (r *APILogRepository) Create(ctx context.Context, entry *model.APILog) error {
	return r.ds.DB(ctx).Create(entry).Error
}

// PerformanceByService aggregates request statistics per target service since
// the given time. AVG skips NULL response_time_ms values so records without
// timing data do not drag the average down.
func (r *APILogRepository) PerformanceByService(ctx context.Context, since time.Time, service string) ([]ServicePerformanceRow, error) {
	query := r.ds.DB(ctx).Model(&model.APILog{}).
		Select(`service_to,
			AVG(response_time_ms) as avg_response_time,
			COUNT(*) as request_count,
			SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END) as error_count,
			SUM(CASE WHEN status_code < 400 THEN 1 ELSE 0 END) as success_count`).
		Where("timestamp >= ?", since)

	if service != "" {
		query = query.Where("service_to = ?", service)
	}

	var rows []ServicePerformanceRow
	err := query.Group("service_to").Find(&rows).Error
	return rows, err
}

// DailyStats aggregates request statistics per calendar day for one service
func (r *APILogRepository) DailyStats(ctx context.Context, service string, since time.Time) ([]DailyStatRow, error) {
	var rows []DailyStatRow
	err := r.ds.DB(ctx).Model(&model.APILog{}).
		Select(`DATE(timestamp) as date,
			COUNT(*) as total_requests,
			AVG(response_time_ms) as avg_response_time,
			SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END) as error_count`).
		Where("service_to = ? AND timestamp >= ?", service, since).
		Group("DATE(timestamp)").
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

// CountSince counts all records at or after the given time
func (r *APILogRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.ds.DB(ctx).Model(&model.APILog{}).
		Where("timestamp >= ?", since).Count(&count).Error
	return count, err
}

// CountStatusAtLeast counts records at or after since with status_code >= min
func (r *APILogRepository) CountStatusAtLeast(ctx context.Context, since time.Time, min int) (int64, error) {
	var count int64
	err := r.ds.DB(ctx).Model(&model.APILog{}).
		Where("timestamp >= ? AND status_code >= ?", since, min).Count(&count).Error
	return count, err
}

// CountStatusBelow counts records at or after since with status_code < max
func (r *APILogRepository) CountStatusBelow(ctx context.Context, since time.Time, max int) (int64, error) {
	var count int64
	err := r.ds.DB(ctx).Model(&model.APILog{}).
		Where("timestamp >= ? AND status_code < ?", since, max).Count(&count).Error
	return count, err
}

// AvgResponseTime returns the mean response time over records with timing
// data since the given time; nil when no such record exists
func (r *APILogRepository) AvgResponseTime(ctx context.Context, since time.Time) (*float64, error) {
	var row struct {
		Avg *float64 `gorm:"column:avg_response_time"`
	}
	err := r.ds.DB(ctx).Model(&model.APILog{}).
		Select("AVG(response_time_ms) as avg_response_time").
		Where("timestamp >= ?", since).
		Find(&row).Error
	return row.Avg, err
}

// ErrorsByService counts error records (status >= 400) per target service
func (r *APILogRepository) ErrorsByService(ctx context.Context, since time.Time) ([]ServiceErrorCountRow, error) {
	var rows []ServiceErrorCountRow
	err := r.ds.DB(ctx).Model(&model.APILog{}).
		Select("service_to, COUNT(*) as error_count").
		Where("timestamp >= ? AND status_code >= ?", since, 400).
		Group("service_to").
		Find(&rows).Error
	return rows, err
}

// ErrorsByStatusCode counts error records (status >= 400) per status code
func (r *APILogRepository) ErrorsByStatusCode(ctx context.Context, since time.Time) ([]StatusCodeCountRow, error) {
	var rows []StatusCodeCountRow
	err := r.ds.DB(ctx).Model(&model.APILog{}).
		Select("status_code, COUNT(*) as count").
		Where("timestamp >= ? AND status_code >= ?", since, 400).
		Group("status_code").
		Find(&rows).Error
	return rows, err
}

// ErrorBreakdown counts error records (status >= 400) per service and
// status code pair
func (r *APILogRepository) ErrorBreakdown(ctx context.Context, since time.Time) ([]ErrorBreakdownRow, error) {
	var rows []ErrorBreakdownRow
	err := r.ds.DB(ctx).Model(&model.APILog{}).
		Select("service_to, status_code, COUNT(*) as error_count").
		Where("timestamp >= ? AND status_code >= ?", since, 400).
		Group("service_to").Group("status_code").
		Find(&rows).Error
	return rows, err
}

// CriticalErrors returns the most recent server-side errors (status >= 500)
func (r *APILogRepository) CriticalErrors(ctx context.Context, since time.Time, limit int) ([]*model.APILog, error) {
	var logs []*model.APILog
	err := r.ds.DB(ctx).
		Where("timestamp >= ? AND status_code >= ?", since, 500).
		Order("timestamp DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// ListErrors returns one page of error records (status >= 400), newest first
func (r *APILogRepository) ListErrors(ctx context.Context, since time.Time, page int) ([]*model.APILog, int64, error) {
	base := r.ds.DB(ctx).Model(&model.APILog{}).
		Where("timestamp >= ? AND status_code >= ?", since, 400)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}

	var logs []*model.APILog
	err := base.
		Order("timestamp DESC").
		Offset((page - 1) * ErrorLogPageSize).
		Limit(ErrorLogPageSize).
		Find(&logs).Error
	return logs, total, err
}

// ListByService fetches raw records for one target service since the given
// time, for in-memory window classification
func (r *APILogRepository) ListByService(ctx context.Context, service string, since time.Time) ([]*model.APILog, error) {
	var logs []*model.APILog
	err := r.ds.DB(ctx).
		Where("service_to = ? AND timestamp >= ?", service, since).
		Find(&logs).Error
	return logs, err
}
