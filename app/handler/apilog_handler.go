package handler

import (
	"net/http"
	"time"

	"fitops/internal/service"
	"fitops/pkg/logger"
	mysqlModel "fitops/pkg/store/mysql/model"

	"github.com/gin-gonic/gin"
)

// APILogHandler handles API call log operations
type APILogHandler struct {
	apilogService  *service.APILogService
	metricsService *service.MetricsService
}

// NewAPILogHandler creates API log handler
func NewAPILogHandler(apilogService *service.APILogService, metricsService *service.MetricsService) *APILogHandler {
	return &APILogHandler{
		apilogService:  apilogService,
		metricsService: metricsService,
	}
}

type createAPILogRequest struct {
	Endpoint       string                 `json:"endpoint" binding:"required,max=255"`
	HTTPMethod     string                 `json:"http_method" binding:"required,oneof=GET POST PUT PATCH DELETE"`
	RequestData    map[string]interface{} `json:"request_data"`
	ResponseData   map[string]interface{} `json:"response_data"`
	StatusCode     int                    `json:"status_code" binding:"required,min=100,max=599"`
	ResponseTimeMs *int                   `json:"response_time_ms"`
	ServiceFrom    string                 `json:"service_from" binding:"required,max=50"`
	ServiceTo      string                 `json:"service_to" binding:"required,max=50"`
	UserID         *int64                 `json:"user_id"`
}

// Create records one API call
// @Summary Record an API call
// @Tags api-logs
// @Accept json
// @Produce json
// @Param request body createAPILogRequest true "API call record"
// @Success 201 {object} Envelope
// @Router /ops/api-log [post]
func (h *APILogHandler) Create(c *gin.Context) {
	var req createAPILogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	entry, err := h.apilogService.Record(c.Request.Context(), actorFrom(c), service.CreateAPILogParams{
		Endpoint:       req.Endpoint,
		HTTPMethod:     req.HTTPMethod,
		RequestData:    mysqlModel.JSONMap(req.RequestData),
		ResponseData:   mysqlModel.JSONMap(req.ResponseData),
		StatusCode:     req.StatusCode,
		ResponseTimeMs: req.ResponseTimeMs,
		ServiceFrom:    req.ServiceFrom,
		ServiceTo:      req.ServiceTo,
		UserID:         req.UserID,
	})
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to record api log: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to log API call")
		return
	}

	respondMessage(c, http.StatusCreated, entry, "API call logged successfully")
}

// Performance returns per-service performance metrics
// @Summary Aggregate per-service performance metrics
// @Tags api-logs
// @Produce json
// @Param days query int false "Window in days (default 30)"
// @Param service query string false "Restrict to one target service"
// @Success 200 {object} Envelope
// @Router /ops/api-performance [get]
func (h *APILogHandler) Performance(c *gin.Context) {
	days := intQuery(c, "days", 30)
	since := time.Now().AddDate(0, 0, -days)

	metrics, err := h.metricsService.AggregatePerformance(c.Request.Context(), since, c.Query("service"))
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to aggregate performance: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to aggregate performance metrics")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"period_days": days,
		"metrics":     metrics,
	})
}

// Errors returns one page of recent error records
// @Summary List recent API errors
// @Tags api-logs
// @Produce json
// @Param hours query int false "Window in hours (default 24)"
// @Param page query int false "Page number"
// @Success 200 {object} Envelope
// @Router /ops/api-errors [get]
func (h *APILogHandler) Errors(c *gin.Context) {
	hours := intQuery(c, "hours", 24)
	page := intQuery(c, "page", 1)

	logs, total, err := h.apilogService.ListErrors(c.Request.Context(), hours, page)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to list api errors: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch error logs")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"period_hours": hours,
		"page":         page,
		"total":        total,
		"errors":       logs,
	})
}

// ServiceStats returns one service's daily breakdown
// @Summary Daily request statistics for one service
// @Tags api-logs
// @Produce json
// @Param service path string true "Target service name"
// @Param days query int false "Window in days (default 7)"
// @Success 200 {object} Envelope
// @Router /ops/api-stats/{service} [get]
func (h *APILogHandler) ServiceStats(c *gin.Context) {
	serviceName := c.Param("service")
	days := intQuery(c, "days", 7)
	since := time.Now().AddDate(0, 0, -days)

	stats, err := h.metricsService.ServiceDailyStats(c.Request.Context(), serviceName, since)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to fetch service stats, service: %s, error: %v", serviceName, err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch service statistics")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"service":     serviceName,
		"period_days": days,
		"daily_stats": stats,
	})
}
