package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog represents the database model for audit trail entries. Rows are
// append-only; no code path issues an UPDATE or DELETE against this table.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_logs_entity"`
	EntityType string    `gorm:"not null;size:50;index:idx_audit_logs_entity"`
	Action     string    `gorm:"not null;size:50"`
	OldVal     JSONB     `gorm:"type:jsonb"`
	NewVal     JSONB     `gorm:"type:jsonb"`
	Actor      string    `gorm:"not null;size:100"`
	Timestamp  time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
