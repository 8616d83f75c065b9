package handler

import (
	"net/http"

	"fitops/internal/service"
	"fitops/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler handles cross-service analytics operations
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates analytics handler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// MLPerformance returns the ML effectiveness view
// @Summary ML performance metrics
// @Tags analytics
// @Produce json
// @Param days query int false "Window in days (default 30)"
// @Success 200 {object} Envelope
// @Failure 503 {object} Envelope
// @Router /ops/ml-performance [get]
func (h *AnalyticsHandler) MLPerformance(c *gin.Context) {
	days := intQuery(c, "days", 30)

	data, err := h.analyticsService.MLPerformance(c.Request.Context(), days)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to fetch ml performance: %v", err)
		respondError(c, http.StatusServiceUnavailable, "ML service is unavailable")
		return
	}

	respondOK(c, http.StatusOK, data)
}

// BusinessMetrics returns the cross-service business view
// @Summary Cross-service business metrics
// @Tags analytics
// @Produce json
// @Param days query int false "Window in days (default 30)"
// @Success 200 {object} Envelope
// @Router /ops/business-metrics [get]
func (h *AnalyticsHandler) BusinessMetrics(c *gin.Context) {
	days := intQuery(c, "days", 30)

	data, err := h.analyticsService.BusinessMetrics(c.Request.Context(), days)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to assemble business metrics: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to assemble business metrics")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"period_days": days,
		"metrics":     data,
	})
}

// SystemPerformanceReport assembles and persists the 30-day performance view
// @Summary Assemble the system performance report
// @Tags analytics
// @Produce json
// @Success 200 {object} Envelope
// @Router /ops/system-performance-report [get]
func (h *AnalyticsHandler) SystemPerformanceReport(c *gin.Context) {
	report, payload, err := h.analyticsService.SystemPerformanceReport(c.Request.Context(), actorFrom(c))
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to assemble system performance report: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to assemble system performance report")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"report_id": report.ID,
		"report":    payload,
	})
}

// ServiceMetrics returns one service's windowed statistics
// @Summary Windowed metrics for one service
// @Tags analytics
// @Produce json
// @Param service path string true "Service name"
// @Success 200 {object} Envelope
// @Router /ops/service-metrics/{service} [get]
func (h *AnalyticsHandler) ServiceMetrics(c *gin.Context) {
	serviceName := c.Param("service")

	data, err := h.analyticsService.ServiceMetrics(c.Request.Context(), serviceName)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to fetch service metrics, service: %s, error: %v", serviceName, err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch service metrics")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"service": serviceName,
		"metrics": data,
	})
}
