package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
	"github.com/anchorpay/settlement-processor/internal/domain/usecase/processor"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/api/dto"
)

// DlqHandler handles dead letter queue HTTP requests
type DlqHandler struct {
	service *processor.Service
	logger  coreport.Logger
}

// NewDlqHandler creates a new DLQ handler instance
func NewDlqHandler(service *processor.Service, logger coreport.Logger) *DlqHandler {
	return &DlqHandler{
		service: service,
		logger:  logger,
	}
}

// ListDlq handles the GET /dlq endpoint
func (h *DlqHandler) ListDlq(c *gin.Context) {
	limit, offset := parsePagination(c)

	entries, total, err := h.service.ListDlq(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.DlqEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.ToDlqEntryResponse(entry))
	}

	c.JSON(http.StatusOK, dto.DlqListResponse{
		DlqEntries: responses,
		Count:      total,
		Limit:      limit,
		Offset:     offset,
	})
}

// RequeueDlq handles the POST /dlq/:id/requeue endpoint
func (h *DlqHandler) RequeueDlq(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.RequeueDlq(c.Request.Context(), id, actorFromHeader(c, "operator"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RequeueResponse{
		Message:       "transaction requeued",
		DlqID:         result.DlqEntryID.String(),
		TransactionID: result.TransactionID.String(),
	})
}
