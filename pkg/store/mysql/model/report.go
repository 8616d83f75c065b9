package model

import "time"

// Report types
const (
	ReportUserProgress       = "user_progress"
	ReportSystemAnalytics    = "system_analytics"
	ReportWorkoutPerformance = "workout_performance"
	ReportGroupActivity      = "group_activity"
	ReportMLPerformance      = "ml_performance"
	ReportServiceHealth      = "service_health"
)

// Report file formats
const (
	FormatPDF   = "pdf"
	FormatExcel = "excel"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// ValidReportType reports whether t is a known report type
func ValidReportType(t string) bool {
	switch t {
	case ReportUserProgress, ReportSystemAnalytics, ReportWorkoutPerformance,
		ReportGroupActivity, ReportMLPerformance, ReportServiceHealth:
		return true
	}
	return false
}

// ValidFileFormat reports whether f is a known file format
func ValidFileFormat(f string) bool {
	switch f {
	case FormatPDF, FormatExcel, FormatCSV, FormatJSON:
		return true
	}
	return false
}

// Report MySQL model for reports table.
// Created once by the assembler, read-only afterward, deletable once expired.
type Report struct {
	ID          int64      `gorm:"column:report_id;primaryKey;autoIncrement" json:"report_id"`
	Name        string     `gorm:"column:report_name;type:varchar(255);not null" json:"report_name"`
	Type        string     `gorm:"column:report_type;type:varchar(50);not null;index:idx_type_generated,priority:1" json:"report_type"`
	GeneratedBy *int64     `gorm:"column:generated_by" json:"generated_by"`
	Parameters  JSONMap    `gorm:"column:report_parameters;type:json" json:"report_parameters"`
	Data        JSONMap    `gorm:"column:report_data;type:json" json:"report_data"`
	FilePath    string     `gorm:"column:file_path;type:varchar(500)" json:"file_path"`
	FileFormat  string     `gorm:"column:file_format;type:varchar(10);not null;default:json" json:"file_format"`
	GeneratedAt time.Time  `gorm:"column:generated_at;not null;index:idx_type_generated,priority:2" json:"generated_at"`
	ExpiresAt   *time.Time `gorm:"column:expires_at;index:idx_expires_at" json:"expires_at"`
}

// TableName specifies the table name for Report
func (Report) TableName() string {
	return "reports"
}

// Expired reports whether the report is past its retention window
func (r *Report) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}
