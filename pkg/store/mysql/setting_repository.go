package mysql

import (
	"context"

	"fitops/pkg/store/mysql/model"

	"gorm.io/gorm/clause"
)

// SettingRepository handles system_settings database operations
type SettingRepository struct {
	ds *Datastore
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(ds *Datastore) *SettingRepository {
	return &SettingRepository{ds: ds}
}

// Upsert inserts or replaces the setting row for its key in one statement.
// Concurrent writers to the same key resolve last-writer-wins; a partial
// interleave of columns is not possible.
func (r *SettingRepository) Upsert(ctx context.Context, setting *model.SystemSetting) error {
	return r.ds.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"setting_value", "setting_type", "description", "category",
			"is_public", "requires_restart", "updated_by", "updated_at",
		}),
	}).Create(setting).Error
}

// Get fetches a setting by key. Returns gorm.ErrRecordNotFound when absent.
func (r *SettingRepository) Get(ctx context.Context, key string) (*model.SystemSetting, error) {
	var setting model.SystemSetting
	err := r.ds.DB(ctx).First(&setting, "setting_key = ?", key).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// List returns all settings
func (r *SettingRepository) List(ctx context.Context) ([]*model.SystemSetting, error) {
	var settings []*model.SystemSetting
	err := r.ds.DB(ctx).Order("setting_key ASC").Find(&settings).Error
	return settings, err
}

// ListByCategory returns all settings in a category
func (r *SettingRepository) ListByCategory(ctx context.Context, category string) ([]*model.SystemSetting, error) {
	var settings []*model.SystemSetting
	err := r.ds.DB(ctx).Where("category = ?", category).Order("setting_key ASC").Find(&settings).Error
	return settings, err
}

// ListPublic returns all public settings
func (r *SettingRepository) ListPublic(ctx context.Context) ([]*model.SystemSetting, error) {
	var settings []*model.SystemSetting
	err := r.ds.DB(ctx).Where("is_public = ?", true).Order("setting_key ASC").Find(&settings).Error
	return settings, err
}
