package model

import "time"

// HTTP methods accepted for API call records
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
	MethodPatch  = "PATCH"
)

// ValidHTTPMethod reports whether m is one of the accepted methods
func ValidHTTPMethod(m string) bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch:
		return true
	}
	return false
}

// APILog MySQL model for api_logs table.
// Rows are append-only: written once per logged call, never updated.
type APILog struct {
	ID             int64     `gorm:"column:api_log_id;primaryKey;autoIncrement" json:"api_log_id"`
	UserID         *int64    `gorm:"column:user_id" json:"user_id"`
	Endpoint       string    `gorm:"column:endpoint;type:varchar(255);not null" json:"endpoint"`
	HTTPMethod     string    `gorm:"column:http_method;type:varchar(10);not null" json:"http_method"`
	RequestData    JSONMap   `gorm:"column:request_data;type:json" json:"request_data"`
	ResponseData   JSONMap   `gorm:"column:response_data;type:json" json:"response_data"`
	StatusCode     int       `gorm:"column:status_code;not null;index:idx_status_timestamp,priority:1" json:"status_code"`
	ResponseTimeMs *int      `gorm:"column:response_time_ms" json:"response_time_ms"`
	IPAddress      string    `gorm:"column:ip_address;type:varchar(45)" json:"ip_address"`
	UserAgent      string    `gorm:"column:user_agent;type:text" json:"user_agent"`
	ServiceFrom    string    `gorm:"column:service_from;type:varchar(50)" json:"service_from"`
	ServiceTo      string    `gorm:"column:service_to;type:varchar(50);index:idx_timestamp_service,priority:2" json:"service_to"`
	Timestamp      time.Time `gorm:"column:timestamp;not null;index:idx_timestamp_service,priority:1;index:idx_status_timestamp,priority:2" json:"timestamp"`
}

// TableName specifies the table name for APILog
func (APILog) TableName() string {
	return "api_logs"
}
