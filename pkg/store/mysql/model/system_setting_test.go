package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSettingType_Strings(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"42", SettingInteger},
		{"-7", SettingInteger},
		{"2.5", SettingInteger},
		{"1e3", SettingInteger},
		{"abc", SettingString},
		{"", SettingString},
		{"42nd street", SettingString},
		{"NaN", SettingString},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSettingType(tt.value))
		})
	}
}

func TestCastValue_IntegerTruncatesFractions(t *testing.T) {
	assert.Equal(t, 42, CastValue("42", SettingInteger))
	assert.Equal(t, -7, CastValue("-7", SettingInteger))
	// fractional stored values keep their integer part, they do not zero out
	assert.Equal(t, 2, CastValue("2.5", SettingInteger))
	assert.Equal(t, -3, CastValue("-3.9", SettingInteger))
}
