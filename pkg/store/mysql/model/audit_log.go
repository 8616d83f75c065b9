package model

import "time"

// Audit action types
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
	ActionLogout = "logout"
)

// ValidActionType reports whether t is a known audit action
func ValidActionType(t string) bool {
	switch t {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionLogin, ActionLogout:
		return true
	}
	return false
}

// AuditLog MySQL model for audit_logs table. Append-only.
type AuditLog struct {
	ID          int64     `gorm:"column:log_id;primaryKey;autoIncrement" json:"log_id"`
	UserID      *int64    `gorm:"column:user_id;index:idx_user_timestamp,priority:1" json:"user_id"`
	ActionType  string    `gorm:"column:action_type;type:varchar(10);not null;index:idx_service_action,priority:2" json:"action_type"`
	TableName_  string    `gorm:"column:table_name;type:varchar(50);not null" json:"table_name"`
	RecordID    *int64    `gorm:"column:record_id" json:"record_id"`
	OldValues   JSONMap   `gorm:"column:old_values;type:json" json:"old_values"`
	NewValues   JSONMap   `gorm:"column:new_values;type:json" json:"new_values"`
	IPAddress   string    `gorm:"column:ip_address;type:varchar(45)" json:"ip_address"`
	UserAgent   string    `gorm:"column:user_agent;type:text" json:"user_agent"`
	ServiceName string    `gorm:"column:service_name;type:varchar(50);index:idx_service_action,priority:1" json:"service_name"`
	Timestamp   time.Time `gorm:"column:timestamp;not null;index:idx_user_timestamp,priority:2" json:"timestamp"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
