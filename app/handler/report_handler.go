package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fitops/internal/service"
	"fitops/pkg/logger"
	mysqlModel "fitops/pkg/store/mysql/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReportHandler handles report generation and retrieval
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type generateReportRequest struct {
	Name       string                 `json:"report_name" binding:"required,max=255"`
	Type       string                 `json:"report_type" binding:"required"`
	Parameters map[string]interface{} `json:"parameters"`
	FileFormat string                 `json:"file_format"`
	ExpiryDays int                    `json:"expiry_days"`
}

// Generate assembles and persists a report
// @Summary Generate a report
// @Tags reports
// @Accept json
// @Produce json
// @Param request body generateReportRequest true "Report request"
// @Success 201 {object} Envelope
// @Router /ops/generate-report [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	var req generateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	if !mysqlModel.ValidReportType(req.Type) {
		respondError(c, http.StatusBadRequest, "Invalid report type")
		return
	}
	if req.FileFormat != "" && !mysqlModel.ValidFileFormat(req.FileFormat) {
		respondError(c, http.StatusBadRequest, "Invalid file format")
		return
	}

	report, err := h.reportService.Generate(c.Request.Context(), actorFrom(c), service.GenerateReportParams{
		Name:       req.Name,
		Type:       req.Type,
		Parameters: mysqlModel.JSONMap(req.Parameters),
		FileFormat: req.FileFormat,
		ExpiryDays: req.ExpiryDays,
	})
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to generate report, type: %s, error: %v", req.Type, err)
		respondError(c, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	respondMessage(c, http.StatusCreated, report, "Report generated successfully")
}

// ListByType returns one page of non-expired reports of a type
// @Summary List reports by type
// @Tags reports
// @Produce json
// @Param type path string true "Report type"
// @Param page query int false "Page number"
// @Success 200 {object} Envelope
// @Router /ops/reports/{type} [get]
func (h *ReportHandler) ListByType(c *gin.Context) {
	reportType := c.Param("type")
	if !mysqlModel.ValidReportType(reportType) {
		respondError(c, http.StatusBadRequest, "Invalid report type")
		return
	}
	page := intQuery(c, "page", 1)

	reports, total, err := h.reportService.ListByType(c.Request.Context(), reportType, page)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to list reports, type: %s, error: %v", reportType, err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch reports")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"type":    reportType,
		"page":    page,
		"total":   total,
		"reports": reports,
	})
}

// Get returns one report, distinguishing absent from expired
// @Summary Get a report
// @Tags reports
// @Produce json
// @Param report_id path int true "Report ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 410 {object} Envelope
// @Router /ops/report/{report_id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("report_id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid report id")
		return
	}

	report, err := h.reportService.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondError(c, http.StatusNotFound, "Report not found")
		case errors.Is(err, service.ErrReportExpired):
			respondError(c, http.StatusGone, "Report has expired")
		default:
			logger.ErrorCtx(c.Request.Context(), "failed to fetch report, id: %d, error: %v", id, err)
			respondError(c, http.StatusInternalServerError, "Failed to fetch report")
		}
		return
	}

	respondOK(c, http.StatusOK, report)
}

// Cleanup deletes expired reports
// @Summary Delete expired reports
// @Tags reports
// @Produce json
// @Success 200 {object} Envelope
// @Router /ops/reports/cleanup [delete]
func (h *ReportHandler) Cleanup(c *gin.Context) {
	deleted, err := h.reportService.CleanupExpired(c.Request.Context())
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to cleanup reports: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to cleanup expired reports")
		return
	}

	respondMessage(c, http.StatusOK, gin.H{"deleted": deleted}, fmt.Sprintf("Deleted %d expired reports", deleted))
}
