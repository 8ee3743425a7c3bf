package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/anchorpay/settlement-processor/internal/domain/error"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/api/dto"
)

// httpStatus maps domain errors onto HTTP status codes
func httpStatus(err error) int {
	switch {
	case domainerr.IsNotFoundError(err):
		return http.StatusNotFound
	case domainerr.IsBusyError(err):
		return http.StatusConflict
	case errors.Is(err, domainerr.ErrDuplicateTransaction):
		return http.StatusConflict
	case errors.Is(err, domainerr.ErrInvalidStatusTransition):
		return http.StatusConflict
	case errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrInvalidStellarAccount),
		errors.Is(err, domainerr.ErrInvalidAssetCode),
		errors.Is(err, domainerr.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the standardized error body for a domain error
func respondError(c *gin.Context, err error) {
	c.JSON(httpStatus(err), dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: err.Error(),
	})
}

// actorFromHeader resolves the acting principal from the X-Actor header
func actorFromHeader(c *gin.Context, fallback string) string {
	if actor := c.GetHeader("X-Actor"); actor != "" {
		return actor
	}
	return fallback
}
