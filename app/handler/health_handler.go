package handler

import (
	"errors"
	"net/http"

	"fitops/internal/model"
	"fitops/internal/service"
	"fitops/pkg/logger"
	mysqlModel "fitops/pkg/store/mysql/model"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles fleet health operations
type HealthHandler struct {
	healthService  *service.HealthService
	metricsService *service.MetricsService
	apilogService  *service.APILogService
}

// NewHealthHandler creates health handler
func NewHealthHandler(healthService *service.HealthService, metricsService *service.MetricsService, apilogService *service.APILogService) *HealthHandler {
	return &HealthHandler{
		healthService:  healthService,
		metricsService: metricsService,
		apilogService:  apilogService,
	}
}

// SystemHealth returns the fleet snapshot
// @Summary Fleet health snapshot
// @Description Probes every registered service, served from the short-lived snapshot cache unless fresh=true
// @Tags health
// @Produce json
// @Param fresh query bool false "Bypass the snapshot cache"
// @Success 200 {object} Envelope
// @Router /ops/system-health [get]
func (h *HealthHandler) SystemHealth(c *gin.Context) {
	useCache := c.Query("fresh") != "true"
	snapshot := h.healthService.CheckFleet(c.Request.Context(), useCache)
	respondOK(c, http.StatusOK, snapshot)
}

// ServiceStatus returns one service's probe result
// @Summary Probe one registered service
// @Tags health
// @Produce json
// @Param service path string true "Service name"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 503 {object} Envelope
// @Router /ops/service-status/{service} [get]
func (h *HealthHandler) ServiceStatus(c *gin.Context) {
	serviceName := c.Param("service")

	health, err := h.healthService.CheckService(c.Request.Context(), serviceName)
	if err != nil {
		if errors.Is(err, service.ErrUnknownService) {
			respondError(c, http.StatusNotFound, "Service not found")
			return
		}
		logger.ErrorCtx(c.Request.Context(), "failed to check service, service: %s, error: %v", serviceName, err)
		respondError(c, http.StatusInternalServerError, "Failed to check service status")
		return
	}

	status := http.StatusOK
	if health.Unavailable() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, Envelope{Success: !health.Unavailable(), Data: health})
}

// TriggerHealthCheck runs a fresh fleet sweep and records it
// @Summary Trigger a fresh fleet health check
// @Tags health
// @Produce json
// @Success 200 {object} Envelope
// @Router /ops/health-check [post]
func (h *HealthHandler) TriggerHealthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	snapshot := h.healthService.CheckFleet(ctx, false)

	// the sweep itself is an API event worth a log row
	rt := 0
	if _, err := h.apilogService.Record(ctx, actorFrom(c), service.CreateAPILogParams{
		Endpoint:   "/ops/health-check",
		HTTPMethod: mysqlModel.MethodPost,
		ResponseData: mysqlModel.JSONMap{
			"overall_status":     snapshot.OverallStatus,
			"unhealthy_services": snapshot.UnhealthyServices,
		},
		StatusCode:     http.StatusOK,
		ResponseTimeMs: &rt,
		ServiceFrom:    service.DefaultServiceName,
		ServiceTo:      service.DefaultServiceName,
	}); err != nil {
		logger.WarnCtx(ctx, "failed to record health check sweep: %v", err)
	}

	respondMessage(c, http.StatusOK, snapshot, "Health check completed")
}

// ErrorSummary returns the windowed error rollup
// @Summary Error summary over the last N hours
// @Tags health
// @Produce json
// @Param hours query int false "Window in hours (default 24)"
// @Success 200 {object} Envelope
// @Router /ops/error-summary [get]
func (h *HealthHandler) ErrorSummary(c *gin.Context) {
	hours := intQuery(c, "hours", 24)

	summary, err := h.metricsService.ErrorSummary(c.Request.Context(), hours)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to build error summary: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to build error summary")
		return
	}

	respondOK(c, http.StatusOK, summary)
}

// MLHealth probes the ML service's model health endpoint
// @Summary ML model health
// @Tags health
// @Produce json
// @Success 200 {object} Envelope
// @Failure 503 {object} Envelope
// @Router /ops/ml-health [get]
func (h *HealthHandler) MLHealth(c *gin.Context) {
	health := h.healthService.ModelHealth(c.Request.Context())
	if health.Status != model.StatusHealthy {
		c.JSON(http.StatusServiceUnavailable, Envelope{Success: false, Data: health, Message: "ML service is unavailable"})
		return
	}
	respondOK(c, http.StatusOK, health)
}
