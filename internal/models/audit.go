package models

import "time"

// AuditLog represents the audit_logs table
// Every clinical record change and task transition is written here
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StaffID   *uint     `gorm:"index" json:"staff_id"`
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `json:"created_at"`
	Staff     *Staff    `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

// TableName specifies the table name for AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
