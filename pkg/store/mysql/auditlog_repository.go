package mysql

import (
	"context"

	"fitops/pkg/store/mysql/model"
)

// AuditLogPageSize is the fixed page size for audit-log listings
const AuditLogPageSize = 50

// AuditLogRepository handles audit_logs database operations
type AuditLogRepository struct {
	ds *Datastore
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(ds *Datastore) *AuditLogRepository {
	return &AuditLogRepository{ds: ds}
}

// Create appends one audit record
func (r *AuditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.ds.DB(ctx).Create(entry).Error
}

// ListByUser returns one page of a user's audit records, newest first
func (r *AuditLogRepository) ListByUser(ctx context.Context, userID int64, page int) ([]*model.AuditLog, int64, error) {
	return r.listPage(ctx, "user_id = ?", userID, page)
}

// ListByService returns one page of a service's audit records, newest first
func (r *AuditLogRepository) ListByService(ctx context.Context, serviceName string, page int) ([]*model.AuditLog, int64, error) {
	return r.listPage(ctx, "service_name = ?", serviceName, page)
}

// ListByAction returns one page of audit records for an action type, newest first
func (r *AuditLogRepository) ListByAction(ctx context.Context, actionType string, page int) ([]*model.AuditLog, int64, error) {
	return r.listPage(ctx, "action_type = ?", actionType, page)
}

func (r *AuditLogRepository) listPage(ctx context.Context, cond string, arg interface{}, page int) ([]*model.AuditLog, int64, error) {
	base := r.ds.DB(ctx).Model(&model.AuditLog{}).Where(cond, arg)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}

	var logs []*model.AuditLog
	err := base.
		Order("timestamp DESC").
		Offset((page - 1) * AuditLogPageSize).
		Limit(AuditLogPageSize).
		Find(&logs).Error
	return logs, total, err
}
