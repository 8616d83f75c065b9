package service

import (
	"context"
	"fmt"
	"time"

	"fitops/pkg/store/mysql"
	mysqlModel "fitops/pkg/store/mysql/model"
)

// SettingView is a decoded setting as returned to callers
type SettingView struct {
	Key             string      `json:"key"`
	Value           interface{} `json:"value"`
	Type            string      `json:"type"`
	Description     string      `json:"description"`
	Category        string      `json:"category"`
	IsPublic        bool        `json:"is_public"`
	RequiresRestart bool        `json:"requires_restart"`
}

// UpdateSettingParams are the caller-supplied fields of a setting upsert.
// Value is the decoded JSON value; its storage tag is detected from it.
type UpdateSettingParams struct {
	Value           interface{}
	Description     string
	Category        string
	RequiresRestart bool
	IsPublic        *bool
}

// SettingsService manages mutable system configuration with typed,
// upsert-by-key storage
type SettingsService struct {
	repo  *mysql.SettingRepository
	audit *AuditService
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo *mysql.SettingRepository, audit *AuditService) *SettingsService {
	return &SettingsService{repo: repo, audit: audit}
}

// List returns all settings with decoded values, keyed by setting key
func (s *SettingsService) List(ctx context.Context) (map[string]SettingView, error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make(map[string]SettingView, len(settings))
	for _, setting := range settings {
		views[setting.Key] = viewOf(setting)
	}
	return views, nil
}

// Get returns one decoded setting. Passes through gorm.ErrRecordNotFound.
func (s *SettingsService) Get(ctx context.Context, key string) (*SettingView, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	view := viewOf(setting)
	return &view, nil
}

// Update upserts a setting by key. The value type is auto-detected and
// stored alongside the encoded value; an audit record captures the old and
// new values. Reading the old value and writing the new one are separate
// statements, so two concurrent updates may audit the same predecessor
// (last-writer-wins on the row itself).
func (s *SettingsService) Update(ctx context.Context, actor Actor, key string, params UpdateSettingParams) (*mysqlModel.SystemSetting, error) {
	var oldValue interface{}
	if existing, err := s.repo.Get(ctx, key); err == nil {
		oldValue = existing.Value
	}

	settingType := mysqlModel.DetectSettingType(params.Value)
	encoded, err := mysqlModel.EncodeSettingValue(params.Value, settingType)
	if err != nil {
		return nil, fmt.Errorf("failed to encode setting value: %w", err)
	}

	setting := &mysqlModel.SystemSetting{
		Key:             key,
		Value:           encoded,
		Type:            settingType,
		Description:     params.Description,
		Category:        params.Category,
		RequiresRestart: params.RequiresRestart,
		UpdatedBy:       actor.UserID,
		UpdatedAt:       time.Now(),
	}
	if params.IsPublic != nil {
		setting.IsPublic = *params.IsPublic
	}

	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}

	if _, err := s.audit.Record(ctx, actor, CreateAuditLogParams{
		ActionType: mysqlModel.ActionUpdate,
		TableName:  "system_settings",
		RecordID:   &setting.ID,
		OldValues:  mysqlModel.JSONMap{key: oldValue},
		NewValues:  mysqlModel.JSONMap{key: params.Value},
	}); err != nil {
		return nil, fmt.Errorf("setting saved but audit write failed: %w", err)
	}

	return setting, nil
}

// ByCategory returns decoded values for all settings in a category
func (s *SettingsService) ByCategory(ctx context.Context, category string) (map[string]interface{}, error) {
	settings, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return valueMap(settings), nil
}

// Public returns decoded values for all public settings
func (s *SettingsService) Public(ctx context.Context) (map[string]interface{}, error) {
	settings, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	return valueMap(settings), nil
}

// Backup captures all settings in raw (string-encoded) form for export,
// and audits the export
func (s *SettingsService) Backup(ctx context.Context, actor Actor) (map[string]interface{}, error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]interface{}, len(settings))
	for _, setting := range settings {
		entries[setting.Key] = map[string]interface{}{
			"value":            setting.Value,
			"type":             setting.Type,
			"description":      setting.Description,
			"category":         setting.Category,
			"is_public":        setting.IsPublic,
			"requires_restart": setting.RequiresRestart,
		}
	}

	backup := map[string]interface{}{
		"backup_timestamp": time.Now(),
		"settings_count":   len(settings),
		"settings":         entries,
	}

	if _, err := s.audit.Record(ctx, actor, CreateAuditLogParams{
		ActionType: mysqlModel.ActionCreate,
		TableName:  "system_settings_backup",
		NewValues:  mysqlModel.JSONMap{"backup_count": len(settings)},
	}); err != nil {
		return nil, fmt.Errorf("backup assembled but audit write failed: %w", err)
	}

	return backup, nil
}

func viewOf(setting *mysqlModel.SystemSetting) SettingView {
	return SettingView{
		Key:             setting.Key,
		Value:           setting.TypedValue(),
		Type:            setting.Type,
		Description:     setting.Description,
		Category:        setting.Category,
		IsPublic:        setting.IsPublic,
		RequiresRestart: setting.RequiresRestart,
	}
}

func valueMap(settings []*mysqlModel.SystemSetting) map[string]interface{} {
	values := make(map[string]interface{}, len(settings))
	for _, setting := range settings {
		values[setting.Key] = setting.TypedValue()
	}
	return values
}
