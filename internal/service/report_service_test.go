package service

import (
	"context"
	"testing"
	"time"

	"fitops/internal/model"
	"fitops/pkg/config"
	"fitops/pkg/fleet"
	"fitops/pkg/store/mysql"
	mysqlModel "fitops/pkg/store/mysql/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReportService(t *testing.T) (*ReportService, *mysql.Repository) {
	t.Helper()
	repo := newTestRepository(t)
	metrics := NewMetricsService(repo.APILog)

	// unconfigured URLs keep probe sweeps off the network
	registry := []config.ServiceEntry{
		{Name: "fitneaseauth"},
		{Name: "fitneasetracking"},
	}
	prober := fleet.NewProber(time.Second)
	health := NewHealthService(fleet.NewMonitor(prober), prober, nil, registry, time.Second)

	return NewReportService(metrics, health, repo.APILog, repo.Report, 0), repo
}

func TestReportGenerate_PersistsWithDefaults(t *testing.T) {
	svc, _ := newReportService(t)
	ctx := context.Background()
	actor := Actor{UserID: int64Ptr(4)}

	report, err := svc.Generate(ctx, actor, GenerateReportParams{
		Name: "Monthly Analytics",
		Type: mysqlModel.ReportSystemAnalytics,
	})
	require.NoError(t, err)
	require.NotZero(t, report.ID)

	assert.Equal(t, mysqlModel.FormatJSON, report.FileFormat)
	require.NotNil(t, report.GeneratedBy)
	assert.Equal(t, int64(4), *report.GeneratedBy)

	require.NotNil(t, report.ExpiresAt)
	wantExpiry := time.Now().AddDate(0, 0, DefaultReportExpiryDays)
	assert.WithinDuration(t, wantExpiry, *report.ExpiresAt, time.Minute)

	stored, err := svc.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, mysqlModel.ReportSystemAnalytics, stored.Data["report_type"])
}

func TestReportAssemble_SystemAnalyticsWindow(t *testing.T) {
	svc, _ := newReportService(t)
	ctx := context.Background()

	data, err := svc.Assemble(ctx, mysqlModel.ReportSystemAnalytics, mysqlModel.JSONMap{"days": float64(7)})
	require.NoError(t, err)

	assert.Equal(t, 7, data["period_days"])
	summary, ok := data["summary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(0), summary["total_requests"])
	assert.Equal(t, 0.0, summary["avg_response_time"])
}

func TestReportAssemble_UnimplementedTypePlaceholder(t *testing.T) {
	svc, _ := newReportService(t)

	data, err := svc.Assemble(context.Background(), mysqlModel.ReportUserProgress, nil)
	require.NoError(t, err)

	assert.Equal(t, mysqlModel.ReportUserProgress, data["type"])
	assert.Equal(t, "Report type not yet implemented", data["message"])
}

func TestReportAssemble_ServiceHealthClassifiesWindows(t *testing.T) {
	svc, repo := newReportService(t)
	ctx := context.Background()

	// fitneaseauth has recent clean traffic, fitneasetracking none
	seedCall(t, repo.APILog, "fitneaseauth", 200, intPtr(120), time.Now().Add(-5*time.Minute))

	data, err := svc.Assemble(ctx, mysqlModel.ReportServiceHealth, nil)
	require.NoError(t, err)

	services, ok := data["services"].(map[string]interface{})
	require.True(t, ok)

	auth, ok := services["fitneaseauth"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, model.StatusHealthy, auth["status"])
	assert.Equal(t, 0.0, auth["error_rate"])

	tracking, ok := services["fitneasetracking"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, model.StatusUnknown, tracking["status"])
	assert.Equal(t, "No recent activity", tracking["message"])

	// traffic-quiet services never drag the overall status down
	assert.Equal(t, model.StatusHealthy, data["overall_status"])

	snapshot, ok := data["live_probe"].(*model.FleetHealthSnapshot)
	require.True(t, ok)
	assert.Len(t, snapshot.Services, 2)
}

func TestReportGet_ExpiredAndAbsent(t *testing.T) {
	svc, repo := newReportService(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Minute)
	expired := &mysqlModel.Report{
		Name:        "Short lived",
		Type:        mysqlModel.ReportMLPerformance,
		Data:        mysqlModel.JSONMap{"ok": true},
		FileFormat:  mysqlModel.FormatJSON,
		GeneratedAt: time.Now().Add(-time.Hour),
		ExpiresAt:   &past,
	}
	require.NoError(t, repo.Report.Create(ctx, expired))

	_, err := svc.Get(ctx, expired.ID)
	assert.ErrorIs(t, err, ErrReportExpired)

	_, err = svc.Get(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReportCleanupExpired(t *testing.T) {
	svc, repo := newReportService(t)
	ctx := context.Background()

	live, err := svc.Generate(ctx, Actor{}, GenerateReportParams{
		Name: "Keep me",
		Type: mysqlModel.ReportMLPerformance,
	})
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, repo.Report.Create(ctx, &mysqlModel.Report{
		Name:        "Drop me",
		Type:        mysqlModel.ReportMLPerformance,
		Data:        mysqlModel.JSONMap{"ok": true},
		FileFormat:  mysqlModel.FormatJSON,
		GeneratedAt: past,
		ExpiresAt:   &past,
	}))

	deleted, err := svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = svc.Get(ctx, live.ID)
	assert.NoError(t, err)
}
