package handler

import (
	"net/http"
	"strconv"

	"fitops/internal/service"
	"fitops/pkg/logger"
	mysqlModel "fitops/pkg/store/mysql/model"

	"github.com/gin-gonic/gin"
)

// AuditLogHandler handles audit trail operations
type AuditLogHandler struct {
	auditService *service.AuditService
}

// NewAuditLogHandler creates audit log handler
func NewAuditLogHandler(auditService *service.AuditService) *AuditLogHandler {
	return &AuditLogHandler{auditService: auditService}
}

type createAuditLogRequest struct {
	ActionType  string                 `json:"action_type" binding:"required,oneof=create read update delete login logout"`
	TableName   string                 `json:"table_name" binding:"required,max=100"`
	RecordID    *int64                 `json:"record_id"`
	OldValues   map[string]interface{} `json:"old_values"`
	NewValues   map[string]interface{} `json:"new_values"`
	ServiceName string                 `json:"service_name" binding:"max=50"`
	UserID      *int64                 `json:"user_id"`
}

// Create records one audit entry
// @Summary Record an audit entry
// @Tags audit-logs
// @Accept json
// @Produce json
// @Param request body createAuditLogRequest true "Audit record"
// @Success 201 {object} Envelope
// @Router /ops/audit-log [post]
func (h *AuditLogHandler) Create(c *gin.Context) {
	var req createAuditLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	entry, err := h.auditService.Record(c.Request.Context(), actorFrom(c), service.CreateAuditLogParams{
		ActionType:  req.ActionType,
		TableName:   req.TableName,
		RecordID:    req.RecordID,
		OldValues:   mysqlModel.JSONMap(req.OldValues),
		NewValues:   mysqlModel.JSONMap(req.NewValues),
		ServiceName: req.ServiceName,
		UserID:      req.UserID,
	})
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to record audit log: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to create audit log")
		return
	}

	respondMessage(c, http.StatusCreated, entry, "Audit log created successfully")
}

// ByUser lists one user's audit records
// @Summary List audit records for a user
// @Tags audit-logs
// @Produce json
// @Param user_id path int true "User ID"
// @Param page query int false "Page number"
// @Success 200 {object} Envelope
// @Router /ops/audit-logs/{user_id} [get]
func (h *AuditLogHandler) ByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}
	page := intQuery(c, "page", 1)

	logs, total, err := h.auditService.ListByUser(c.Request.Context(), userID, page)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to list audit logs, user_id: %d, error: %v", userID, err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch audit logs")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"user_id": userID,
		"page":    page,
		"total":   total,
		"logs":    logs,
	})
}

// ByService lists one service's audit records
// @Summary List audit records for a service
// @Tags audit-logs
// @Produce json
// @Param service path string true "Service name"
// @Param page query int false "Page number"
// @Success 200 {object} Envelope
// @Router /ops/audit-logs/service/{service} [get]
func (h *AuditLogHandler) ByService(c *gin.Context) {
	serviceName := c.Param("service")
	page := intQuery(c, "page", 1)

	logs, total, err := h.auditService.ListByService(c.Request.Context(), serviceName, page)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to list audit logs, service: %s, error: %v", serviceName, err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch audit logs")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"service": serviceName,
		"page":    page,
		"total":   total,
		"logs":    logs,
	})
}

// ByAction lists audit records for one action type
// @Summary List audit records by action type
// @Tags audit-logs
// @Produce json
// @Param action path string true "Action type"
// @Param page query int false "Page number"
// @Success 200 {object} Envelope
// @Router /ops/audit-logs/action/{action} [get]
func (h *AuditLogHandler) ByAction(c *gin.Context) {
	action := c.Param("action")
	if !mysqlModel.ValidActionType(action) {
		respondError(c, http.StatusBadRequest, "Invalid action type")
		return
	}
	page := intQuery(c, "page", 1)

	logs, total, err := h.auditService.ListByAction(c.Request.Context(), action, page)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to list audit logs, action: %s, error: %v", action, err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch audit logs")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"action": action,
		"page":   page,
		"total":  total,
		"logs":   logs,
	})
}
