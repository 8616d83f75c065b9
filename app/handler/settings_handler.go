package handler

import (
	"errors"
	"net/http"

	"fitops/internal/service"
	"fitops/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SettingsHandler handles system configuration operations
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

type updateSettingRequest struct {
	Value           interface{} `json:"value" binding:"required"`
	Description     string      `json:"description" binding:"max=255"`
	Category        string      `json:"category" binding:"max=50"`
	RequiresRestart bool        `json:"requires_restart"`
	IsPublic        *bool       `json:"is_public"`
}

// List returns all settings with decoded values
// @Summary List all settings
// @Tags settings
// @Produce json
// @Success 200 {object} Envelope
// @Router /ops/settings [get]
func (h *SettingsHandler) List(c *gin.Context) {
	settings, err := h.settingsService.List(c.Request.Context())
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to list settings: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch settings")
		return
	}
	respondOK(c, http.StatusOK, settings)
}

// Get returns one decoded setting
// @Summary Get one setting
// @Tags settings
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /ops/settings/{key} [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	key := c.Param("key")

	setting, err := h.settingsService.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Setting not found")
			return
		}
		logger.ErrorCtx(c.Request.Context(), "failed to fetch setting, key: %s, error: %v", key, err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch setting")
		return
	}

	respondOK(c, http.StatusOK, setting)
}

// Update upserts one setting by key
// @Summary Create or update a setting
// @Tags settings
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param request body updateSettingRequest true "Setting value"
// @Success 200 {object} Envelope
// @Router /ops/settings/{key} [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	key := c.Param("key")

	var req updateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	setting, err := h.settingsService.Update(c.Request.Context(), actorFrom(c), key, service.UpdateSettingParams{
		Value:           req.Value,
		Description:     req.Description,
		Category:        req.Category,
		RequiresRestart: req.RequiresRestart,
		IsPublic:        req.IsPublic,
	})
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to update setting, key: %s, error: %v", key, err)
		respondError(c, http.StatusInternalServerError, "Failed to update setting")
		return
	}

	respondMessage(c, http.StatusOK, setting, "Setting updated successfully")
}

// ByCategory returns decoded settings in one category
// @Summary List settings by category
// @Tags settings
// @Produce json
// @Param category path string true "Category"
// @Success 200 {object} Envelope
// @Router /ops/settings/category/{category} [get]
func (h *SettingsHandler) ByCategory(c *gin.Context) {
	category := c.Param("category")

	settings, err := h.settingsService.ByCategory(c.Request.Context(), category)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to fetch settings, category: %s, error: %v", category, err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch settings")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"category": category,
		"settings": settings,
	})
}

// Public returns publicly visible settings
// @Summary List public settings
// @Tags settings
// @Produce json
// @Success 200 {object} Envelope
// @Router /ops/settings-public [get]
func (h *SettingsHandler) Public(c *gin.Context) {
	settings, err := h.settingsService.Public(c.Request.Context())
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to fetch public settings: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch settings")
		return
	}
	respondOK(c, http.StatusOK, settings)
}

// Backup returns a point-in-time settings snapshot
// @Summary Back up all settings
// @Tags settings
// @Produce json
// @Success 200 {object} Envelope
// @Router /ops/settings/backup [post]
func (h *SettingsHandler) Backup(c *gin.Context) {
	backup, err := h.settingsService.Backup(c.Request.Context(), actorFrom(c))
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to back up settings: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to back up settings")
		return
	}

	respondMessage(c, http.StatusOK, backup, "Settings backup created")
}
