package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
	"github.com/anchorpay/settlement-processor/internal/domain/usecase/audit"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/api/dto"
)

// AuditHandler handles audit trail HTTP requests
type AuditHandler struct {
	query  *audit.Query
	logger coreport.Logger
}

// NewAuditHandler creates a new audit handler instance
func NewAuditHandler(query *audit.Query, logger coreport.Logger) *AuditHandler {
	return &AuditHandler{
		query:  query,
		logger: logger,
	}
}

// GetAuditLogs handles the GET /audit/:entityId endpoint
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	entityID, ok := parseUUIDParam(c, "entityId")
	if !ok {
		return
	}

	limit, offset := parsePagination(c)

	logs, total, err := h.query.GetAuditLogs(c.Request.Context(), entityID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.AuditLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, dto.ToAuditLogResponse(log))
	}

	c.JSON(http.StatusOK, dto.AuditListResponse{
		Logs:   responses,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}
