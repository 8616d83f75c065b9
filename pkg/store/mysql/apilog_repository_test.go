package mysql

import (
	"context"
	"testing"
	"time"

	"fitops/pkg/store/mysql/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLog(t *testing.T, repo *APILogRepository, serviceTo string, status int, rtMs *int, at time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &model.APILog{
		Endpoint:       "/api/test",
		HTTPMethod:     model.MethodGet,
		StatusCode:     status,
		ResponseTimeMs: rtMs,
		ServiceFrom:    "fitneaseops",
		ServiceTo:      serviceTo,
		Timestamp:      at,
	}))
}

func intPtr(v int) *int { return &v }

func TestPerformanceByService_Aggregation(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	// 8 successes at 100ms, 2 server errors at 350ms
	for i := 0; i < 8; i++ {
		seedLog(t, repo.APILog, "fitneaseml", 200, intPtr(100), now.Add(-time.Hour))
	}
	for i := 0; i < 2; i++ {
		seedLog(t, repo.APILog, "fitneaseml", 500, intPtr(350), now.Add(-time.Hour))
	}

	rows, err := repo.APILog.PerformanceByService(ctx, now.AddDate(0, 0, -1), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "fitneaseml", row.ServiceTo)
	assert.Equal(t, int64(10), row.RequestCount)
	assert.Equal(t, int64(2), row.ErrorCount)
	assert.Equal(t, int64(8), row.SuccessCount)
	require.NotNil(t, row.AvgResponseTime)
	assert.InDelta(t, 150.0, *row.AvgResponseTime, 0.001)
}

func TestPerformanceByService_AvgIgnoresNullTimings(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	seedLog(t, repo.APILog, "fitneaseauth", 200, intPtr(100), now.Add(-time.Hour))
	seedLog(t, repo.APILog, "fitneaseauth", 200, intPtr(200), now.Add(-time.Hour))
	seedLog(t, repo.APILog, "fitneaseauth", 200, nil, now.Add(-time.Hour))

	rows, err := repo.APILog.PerformanceByService(ctx, now.AddDate(0, 0, -1), "fitneaseauth")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// SQL AVG skips NULLs: (100+200)/2, not /3
	require.NotNil(t, rows[0].AvgResponseTime)
	assert.InDelta(t, 150.0, *rows[0].AvgResponseTime, 0.001)
	assert.Equal(t, int64(3), rows[0].RequestCount)
}

func TestPerformanceByService_AvgNilWhenNoTimings(t *testing.T) {
	repo := newTestRepository(t)
	now := time.Now()

	seedLog(t, repo.APILog, "fitneasecomms", 200, nil, now.Add(-time.Hour))

	rows, err := repo.APILog.PerformanceByService(context.Background(), now.AddDate(0, 0, -1), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].AvgResponseTime)
}

func TestPerformanceByService_WindowExcludesOldRecords(t *testing.T) {
	repo := newTestRepository(t)
	now := time.Now()

	seedLog(t, repo.APILog, "fitneasetracking", 200, intPtr(100), now.Add(-time.Hour))
	seedLog(t, repo.APILog, "fitneasetracking", 200, intPtr(900), now.AddDate(0, 0, -10))

	rows, err := repo.APILog.PerformanceByService(context.Background(), now.AddDate(0, 0, -7), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].RequestCount)
}

func TestErrorBreakdowns(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()
	since := now.AddDate(0, 0, -1)

	seedLog(t, repo.APILog, "fitneaseml", 500, nil, now.Add(-time.Hour))
	seedLog(t, repo.APILog, "fitneaseml", 500, nil, now.Add(-time.Hour))
	seedLog(t, repo.APILog, "fitneaseauth", 404, nil, now.Add(-time.Hour))
	seedLog(t, repo.APILog, "fitneaseauth", 200, nil, now.Add(-time.Hour))

	byService, err := repo.APILog.ErrorsByService(ctx, since)
	require.NoError(t, err)
	counts := map[string]int64{}
	for _, row := range byService {
		counts[row.ServiceTo] = row.ErrorCount
	}
	assert.Equal(t, int64(2), counts["fitneaseml"])
	assert.Equal(t, int64(1), counts["fitneaseauth"])

	byStatus, err := repo.APILog.ErrorsByStatusCode(ctx, since)
	require.NoError(t, err)
	statusCounts := map[int]int64{}
	for _, row := range byStatus {
		statusCounts[row.StatusCode] = row.Count
	}
	assert.Equal(t, int64(2), statusCounts[500])
	assert.Equal(t, int64(1), statusCounts[404])

	breakdown, err := repo.APILog.ErrorBreakdown(ctx, since)
	require.NoError(t, err)
	assert.Len(t, breakdown, 2)
}

func TestCriticalErrors_ServerSideOnlyNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	seedLog(t, repo.APILog, "fitneaseml", 404, nil, now.Add(-3*time.Hour))
	seedLog(t, repo.APILog, "fitneaseml", 500, nil, now.Add(-2*time.Hour))
	seedLog(t, repo.APILog, "fitneaseauth", 503, nil, now.Add(-time.Hour))

	critical, err := repo.APILog.CriticalErrors(ctx, now.AddDate(0, 0, -1), 10)
	require.NoError(t, err)
	require.Len(t, critical, 2)
	// client errors excluded, newest first
	assert.Equal(t, 503, critical[0].StatusCode)
	assert.Equal(t, 500, critical[1].StatusCode)
}

func TestListErrors_Pagination(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < ErrorLogPageSize+5; i++ {
		seedLog(t, repo.APILog, "fitneaseml", 500, nil, now.Add(-time.Duration(i)*time.Minute))
	}
	seedLog(t, repo.APILog, "fitneaseml", 200, nil, now)

	page1, total, err := repo.APILog.ListErrors(ctx, now.AddDate(0, 0, -1), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(ErrorLogPageSize+5), total)
	assert.Len(t, page1, ErrorLogPageSize)

	page2, _, err := repo.APILog.ListErrors(ctx, now.AddDate(0, 0, -1), 2)
	require.NoError(t, err)
	assert.Len(t, page2, 5)

	// page defaults to 1 when out of range
	defaulted, _, err := repo.APILog.ListErrors(ctx, now.AddDate(0, 0, -1), 0)
	require.NoError(t, err)
	assert.Len(t, defaulted, ErrorLogPageSize)
}

func TestCountsAndAvg(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()
	since := now.AddDate(0, 0, -1)

	seedLog(t, repo.APILog, "fitneaseml", 200, intPtr(120), now.Add(-time.Hour))
	seedLog(t, repo.APILog, "fitneaseml", 404, intPtr(80), now.Add(-time.Hour))
	seedLog(t, repo.APILog, "fitneaseml", 500, nil, now.Add(-time.Hour))

	total, err := repo.APILog.CountSince(ctx, since)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	errs, err := repo.APILog.CountStatusAtLeast(ctx, since, 400)
	require.NoError(t, err)
	assert.Equal(t, int64(2), errs)

	available, err := repo.APILog.CountStatusBelow(ctx, since, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(2), available)

	avg, err := repo.APILog.AvgResponseTime(ctx, since)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 100.0, *avg, 0.001)
}

func TestAvgResponseTime_NilOnEmptyWindow(t *testing.T) {
	repo := newTestRepository(t)

	avg, err := repo.APILog.AvgResponseTime(context.Background(), time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Nil(t, avg)
}

func TestJSONMapRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	entry := &model.APILog{
		Endpoint:    "/api/workouts",
		HTTPMethod:  model.MethodPost,
		RequestData: model.JSONMap{"workout_id": float64(7), "nested": map[string]interface{}{"a": "b"}},
		StatusCode:  201,
		ServiceTo:   "fitneasetracking",
		Timestamp:   time.Now(),
	}
	require.NoError(t, repo.APILog.Create(ctx, entry))

	loaded, err := repo.APILog.ListByService(ctx, "fitneasetracking", time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, float64(7), loaded[0].RequestData["workout_id"])
	assert.Equal(t, map[string]interface{}{"a": "b"}, loaded[0].RequestData["nested"])
}
