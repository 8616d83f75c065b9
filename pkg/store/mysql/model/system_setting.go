package model

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

// Setting value types. The tag is detected at write time and stored with
// the row; reads decode by tag instead of relying on implicit coercion.
const (
	SettingBoolean = "boolean"
	SettingInteger = "integer"
	SettingJSON    = "json"
	SettingString  = "string"
)

// SystemSetting MySQL model for system_settings table. One live row per key.
type SystemSetting struct {
	ID              int64     `gorm:"column:setting_id;primaryKey;autoIncrement" json:"setting_id"`
	Key             string    `gorm:"column:setting_key;type:varchar(100);not null;uniqueIndex:idx_setting_key" json:"setting_key"`
	Value           string    `gorm:"column:setting_value;type:text;not null" json:"setting_value"`
	Type            string    `gorm:"column:setting_type;type:varchar(10);not null" json:"setting_type"`
	Description     string    `gorm:"column:description;type:text" json:"description"`
	Category        string    `gorm:"column:category;type:varchar(50);index:idx_category" json:"category"`
	IsPublic        bool      `gorm:"column:is_public;not null;default:false" json:"is_public"`
	RequiresRestart bool      `gorm:"column:requires_restart;not null;default:false" json:"requires_restart"`
	UpdatedBy       *int64    `gorm:"column:updated_by" json:"updated_by"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for SystemSetting
func (SystemSetting) TableName() string {
	return "system_settings"
}

// DetectSettingType infers the stored tag from a decoded JSON value.
// Numeric strings count as integers, matching how the settings were
// classified before this service took the table over.
func DetectSettingType(value interface{}) string {
	switch v := value.(type) {
	case bool:
		return SettingBoolean
	case float64:
		return SettingInteger
	case int, int64:
		return SettingInteger
	case map[string]interface{}, []interface{}:
		return SettingJSON
	case json.Number:
		return SettingInteger
	case string:
		if numericString(v) {
			return SettingInteger
		}
		return SettingString
	default:
		return SettingString
	}
}

func numericString(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// EncodeSettingValue renders a decoded JSON value into its string-encoded form
func EncodeSettingValue(value interface{}, settingType string) (string, error) {
	if settingType == SettingJSON {
		raw, err := json.Marshal(value)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return cast.ToStringE(value)
}

// CastValue decodes a string-encoded setting back to its typed form by tag
func CastValue(value, settingType string) interface{} {
	switch settingType {
	case SettingBoolean:
		return cast.ToBool(value)
	case SettingInteger:
		// truncate through float so stored fractional values come back as
		// their integer part instead of zero
		return int(cast.ToFloat64(value))
	case SettingJSON:
		var decoded interface{}
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			return value
		}
		return decoded
	default:
		return value
	}
}

// TypedValue decodes this setting's value by its stored tag
func (s *SystemSetting) TypedValue() interface{} {
	return CastValue(s.Value, s.Type)
}
