package models

import (
	"time"
)

// AuditLog records a write workflow step for operational traceability.
// Partial workflow failures are significant (the multi-step workflows are not
// transactional), so each completed step leaves a row behind.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"index" json:"owner_id"`
	Action    string    `gorm:"not null" json:"action"`
	Entity    string    `gorm:"not null;index" json:"entity"`
	EntityID  uint      `gorm:"index" json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
