package service

import (
	"context"
	"time"

	"fitops/pkg/store/mysql"
	mysqlModel "fitops/pkg/store/mysql/model"
)

// CreateAuditLogParams are the caller-supplied fields of one audit record
type CreateAuditLogParams struct {
	ActionType  string
	TableName   string
	RecordID    *int64
	OldValues   mysqlModel.JSONMap
	NewValues   mysqlModel.JSONMap
	ServiceName string
	UserID      *int64
}

// AuditService appends and queries audit records
type AuditService struct {
	repo *mysql.AuditLogRepository
}

// NewAuditService creates a new audit service
func NewAuditService(repo *mysql.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record appends one audit record
func (s *AuditService) Record(ctx context.Context, actor Actor, params CreateAuditLogParams) (*mysqlModel.AuditLog, error) {
	userID := params.UserID
	if userID == nil {
		userID = actor.UserID
	}
	serviceName := params.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	entry := &mysqlModel.AuditLog{
		UserID:      userID,
		ActionType:  params.ActionType,
		TableName_:  params.TableName,
		RecordID:    params.RecordID,
		OldValues:   params.OldValues,
		NewValues:   params.NewValues,
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
		ServiceName: serviceName,
		Timestamp:   time.Now(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListByUser returns one page of a user's audit records
func (s *AuditService) ListByUser(ctx context.Context, userID int64, page int) ([]*mysqlModel.AuditLog, int64, error) {
	return s.repo.ListByUser(ctx, userID, page)
}

// ListByService returns one page of a service's audit records
func (s *AuditService) ListByService(ctx context.Context, serviceName string, page int) ([]*mysqlModel.AuditLog, int64, error) {
	return s.repo.ListByService(ctx, serviceName, page)
}

// ListByAction returns one page of audit records for an action type
func (s *AuditService) ListByAction(ctx context.Context, actionType string, page int) ([]*mysqlModel.AuditLog, int64, error) {
	return s.repo.ListByAction(ctx, actionType, page)
}
