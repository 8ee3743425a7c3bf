package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerr "github.com/anchorpay/settlement-processor/internal/domain/error"
	coreport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
	"github.com/anchorpay/settlement-processor/internal/domain/usecase/processor"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/api/dto"
)

// TransactionHandler handles settlement transaction HTTP requests
type TransactionHandler struct {
	service *processor.Service
	logger  coreport.Logger
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(service *processor.Service, logger coreport.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		logger:  logger,
	}
}

// CreateTransaction handles the POST /transactions endpoint
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid transaction request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	input := processor.CreateTransactionInput{
		StellarAccount:      req.StellarAccount,
		Amount:              req.Amount,
		AssetCode:           req.AssetCode,
		AnchorTransactionID: req.AnchorTransactionID,
	}

	tx, err := h.service.CreateTransaction(c.Request.Context(), input, actorFromHeader(c, "api"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(tx))
}

// GetTransaction handles the GET /transactions/:id endpoint
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	tx, err := h.service.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(tx))
}

// ListTransactions handles the GET /transactions endpoint
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	limit, offset := parsePagination(c)

	transactions, err := h.service.ListTransactions(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		responses = append(responses, dto.ToTransactionResponse(tx))
	}

	c.JSON(http.StatusOK, dto.TransactionListResponse{
		Transactions: responses,
		Limit:        limit,
		Offset:       offset,
	})
}

// ProcessTransaction handles the POST /transactions/:id/process endpoint
func (h *TransactionHandler) ProcessTransaction(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.ProcessTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProcessResponse(result))
}

// AssignSettlement handles the POST /transactions/:id/settlement endpoint
func (h *TransactionHandler) AssignSettlement(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AssignSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	settlementID, err := uuid.Parse(req.SettlementID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid settlement ID format",
		})
		return
	}

	tx, err := h.service.AssignSettlement(c.Request.Context(), id, settlementID, actorFromHeader(c, "api"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(tx))
}

// parseUUIDParam extracts and validates a UUID path parameter, writing the
// error response itself when the value is malformed
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid " + name + " format, expected UUID",
		})
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads limit and offset query parameters, deferring range
// clamping to the use case layer
func parsePagination(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
