package dto

import (
	"time"

	"github.com/anchorpay/settlement-processor/internal/domain/entity"
)

// AuditLogResponse represents one audit trail entry in API responses
type AuditLogResponse struct {
	ID         string        `json:"id"`
	EntityID   string        `json:"entityId"`
	EntityType string        `json:"entityType"`
	Action     string        `json:"action"`
	OldVal     *entity.Value `json:"oldVal,omitempty"`
	NewVal     *entity.Value `json:"newVal,omitempty"`
	Actor      string        `json:"actor"`
	Timestamp  time.Time     `json:"timestamp"`
}

// AuditListResponse wraps an entity's audit trail page with its total count
type AuditListResponse struct {
	Logs   []AuditLogResponse `json:"logs"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// ToAuditLogResponse maps an audit entry into its API shape
func ToAuditLogResponse(log *entity.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         log.ID.String(),
		EntityID:   log.EntityID.String(),
		EntityType: log.EntityType,
		Action:     log.Action,
		OldVal:     log.OldVal,
		NewVal:     log.NewVal,
		Actor:      log.Actor,
		Timestamp:  log.Timestamp,
	}
}
