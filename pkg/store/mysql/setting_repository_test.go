package mysql

import (
	"context"
	"testing"
	"time"

	"fitops/pkg/store/mysql/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSettingUpsert_InsertThenUpdate(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Setting.Upsert(ctx, &model.SystemSetting{
		Key:       "max_retries",
		Value:     "3",
		Type:      model.SettingInteger,
		Category:  "resilience",
		UpdatedAt: time.Now(),
	}))

	// same key again replaces the row instead of inserting a second one
	require.NoError(t, repo.Setting.Upsert(ctx, &model.SystemSetting{
		Key:       "max_retries",
		Value:     "5",
		Type:      model.SettingInteger,
		Category:  "resilience",
		IsPublic:  true,
		UpdatedAt: time.Now(),
	}))

	setting, err := repo.Setting.Get(ctx, "max_retries")
	require.NoError(t, err)
	assert.Equal(t, "5", setting.Value)
	assert.True(t, setting.IsPublic)
	assert.Equal(t, 5, setting.TypedValue())

	all, err := repo.Setting.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSettingGet_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Setting.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSettingListByCategoryAndPublic(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seed := []*model.SystemSetting{
		{Key: "maintenance_mode", Value: "false", Type: model.SettingBoolean, Category: "system", IsPublic: true, UpdatedAt: time.Now()},
		{Key: "probe_interval", Value: "60", Type: model.SettingInteger, Category: "system", UpdatedAt: time.Now()},
		{Key: "welcome_text", Value: "hi", Type: model.SettingString, Category: "content", IsPublic: true, UpdatedAt: time.Now()},
	}
	for _, s := range seed {
		require.NoError(t, repo.Setting.Upsert(ctx, s))
	}

	system, err := repo.Setting.ListByCategory(ctx, "system")
	require.NoError(t, err)
	assert.Len(t, system, 2)

	public, err := repo.Setting.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 2)
	for _, s := range public {
		assert.True(t, s.IsPublic)
	}
}
