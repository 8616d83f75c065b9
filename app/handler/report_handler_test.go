package handler

import (
	"net/http"
	"testing"
	"time"

	"fitops/internal/service"
	"fitops/pkg/config"
	"fitops/pkg/fleet"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportEngine(t *testing.T) *gin.Engine {
	t.Helper()
	repo := newHandlerRepository(t)
	metrics := service.NewMetricsService(repo.APILog)
	prober := fleet.NewProber(time.Second)
	health := service.NewHealthService(fleet.NewMonitor(prober), prober, nil, []config.ServiceEntry{}, time.Second)
	reports := service.NewReportService(metrics, health, repo.APILog, repo.Report, 0)

	h := NewReportHandler(reports)
	engine := gin.New()
	engine.POST("/ops/generate-report", h.Generate)
	return engine
}

func TestGenerateReport_UsesWireFieldNames(t *testing.T) {
	engine := newReportEngine(t)

	w := performJSON(t, engine, http.MethodPost, "/ops/generate-report",
		`{"report_name":"ML Monthly","report_type":"ml_performance"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Report generated successfully", envelope["message"])

	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ML Monthly", data["report_name"])
	assert.Equal(t, "ml_performance", data["report_type"])
	assert.NotZero(t, data["report_id"])
}

func TestGenerateReport_RejectsBareFieldNames(t *testing.T) {
	engine := newReportEngine(t)

	w := performJSON(t, engine, http.MethodPost, "/ops/generate-report",
		`{"name":"ML Monthly","type":"ml_performance"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, false, envelope["success"])
}

func TestGenerateReport_RejectsUnknownType(t *testing.T) {
	engine := newReportEngine(t)

	w := performJSON(t, engine, http.MethodPost, "/ops/generate-report",
		`{"report_name":"Bad","report_type":"quarterly_board_deck"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid report type", decodeEnvelope(t, w)["message"])
}
