package mysql

import (
	"context"
	"testing"
	"time"

	"fitops/pkg/store/mysql/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func seedAudit(t *testing.T, repo *AuditLogRepository, userID int64, action, serviceName string, at time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &model.AuditLog{
		UserID:      int64Ptr(userID),
		ActionType:  action,
		TableName_:  "system_settings",
		ServiceName: serviceName,
		Timestamp:   at,
	}))
}

func TestAuditLogLists(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	seedAudit(t, repo.AuditLog, 1, model.ActionUpdate, "fitneaseops", now.Add(-time.Hour))
	seedAudit(t, repo.AuditLog, 1, model.ActionCreate, "fitneaseops", now.Add(-2*time.Hour))
	seedAudit(t, repo.AuditLog, 2, model.ActionLogin, "fitneaseauth", now.Add(-time.Minute))

	byUser, total, err := repo.AuditLog.ListByUser(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, byUser, 2)
	// newest first
	assert.Equal(t, model.ActionUpdate, byUser[0].ActionType)

	byService, total, err := repo.AuditLog.ListByService(ctx, "fitneaseauth", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byService, 1)
	assert.Equal(t, model.ActionLogin, byService[0].ActionType)

	byAction, total, err := repo.AuditLog.ListByAction(ctx, model.ActionCreate, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, byAction, 1)
}

func TestAuditLogPagination(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < AuditLogPageSize+3; i++ {
		seedAudit(t, repo.AuditLog, 7, model.ActionUpdate, "fitneaseops", now.Add(-time.Duration(i)*time.Minute))
	}

	page1, total, err := repo.AuditLog.ListByUser(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(AuditLogPageSize+3), total)
	assert.Len(t, page1, AuditLogPageSize)

	page2, _, err := repo.AuditLog.ListByUser(ctx, 7, 2)
	require.NoError(t, err)
	assert.Len(t, page2, 3)
}
