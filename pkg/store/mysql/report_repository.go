package mysql

import (
	"context"
	"time"

	"fitops/pkg/store/mysql/model"
)

// ReportPageSize is the fixed page size for report listings
const ReportPageSize = 20

// ReportRepository handles reports database operations
type ReportRepository struct {
	ds *Datastore
}

// NewReportRepository creates a new report repository
func NewReportRepository(ds *Datastore) *ReportRepository {
	return &ReportRepository{ds: ds}
}

// Create persists a newly assembled report
func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.ds.DB(ctx).Create(report).Error
}

// Get fetches a report by id. Returns gorm.ErrRecordNotFound when absent.
func (r *ReportRepository) Get(ctx context.Context, id int64) (*model.Report, error) {
	var report model.Report
	err := r.ds.DB(ctx).First(&report, "report_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListByType returns one page of non-expired reports of a type, newest first
func (r *ReportRepository) ListByType(ctx context.Context, reportType string, now time.Time, page int) ([]*model.Report, int64, error) {
	base := r.ds.DB(ctx).Model(&model.Report{}).
		Where("report_type = ? AND (expires_at IS NULL OR expires_at > ?)", reportType, now)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}

	var reports []*model.Report
	err := base.
		Order("generated_at DESC").
		Offset((page - 1) * ReportPageSize).
		Limit(ReportPageSize).
		Find(&reports).Error
	return reports, total, err
}

// DeleteExpired removes reports past their retention window and reports
// how many were deleted
func (r *ReportRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.ds.DB(ctx).Where("expires_at < ?", now).Delete(&model.Report{})
	return result.RowsAffected, result.Error
}
