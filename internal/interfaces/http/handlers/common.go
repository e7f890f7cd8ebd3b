package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
)

// respondError maps domain errors to HTTP responses. Unknown errors
// become opaque 500s; their details only go to the log.
func respondError(c *gin.Context, err error) {
	var insufficientStock *apperrors.InsufficientStockError
	var invalidTransition *apperrors.InvalidTransitionError
	var validation *apperrors.ValidationError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperrors.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "cart is empty",
			"code":  "empty_cart",
		})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "operation not permitted"})
	case errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.As(err, &insufficientStock):
		c.JSON(http.StatusConflict, gin.H{
			"error":        insufficientStock.Error(),
			"code":         "insufficient_stock",
			"product_id":   insufficientStock.ProductID,
			"product_name": insufficientStock.ProductName,
			"requested":    insufficientStock.Requested,
			"available":    insufficientStock.Available,
		})
	case errors.As(err, &invalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": invalidTransition.Error(),
			"code":  "invalid_transition",
			"from":  invalidTransition.From,
			"to":    invalidTransition.To,
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validation.Error(),
			"code":  "validation_failed",
			"field": validation.Field,
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
