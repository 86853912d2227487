package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-shift-api/internal/models"
	"github.com/franciscosanchezn/gin-shift-api/internal/services"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status. Domain errors carry
// their own message. Conflicts and unclassified errors use the fallback
// message with the raw error attached for diagnostics.
func respondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	var status int
	var code string
	switch {
	case errors.Is(err, services.ErrValidation):
		status, code = http.StatusBadRequest, models.ErrValidationFailed
	case errors.Is(err, services.ErrConflict):
		// Duplicate keys are reported as bad requests, not 409
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrConflict, fallback, err.Error()))
		return
	case errors.Is(err, services.ErrNotFound):
		status, code = http.StatusNotFound, models.ErrNotFound
	case errors.Is(err, services.ErrUnauthorized):
		status, code = http.StatusUnauthorized, models.ErrUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status, code = http.StatusForbidden, models.ErrForbidden
	default:
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, fallback, err.Error()))
		return
	}
	c.JSON(status, models.NewAPIError(code, err.Error()))
}

// badRequest reports a request body that could not be decoded
func badRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, message, err.Error()))
}
