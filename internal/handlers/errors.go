package handlers

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/gearbook/gearbook-api/internal/services"
)

// respondError maps service-layer errors onto HTTP statuses:
// validation 400, not found 404, conflict 409, invalid state 422,
// collaborator failure 502 (flagged retryable), anything else 500.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "record was modified concurrently, retry with fresh data"})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		var cerr *services.CollaboratorError
		if errors.As(err, &cerr) {
			sentry.CaptureException(err)
			c.JSON(http.StatusBadGateway, gin.H{
				"error":     cerr.Error(),
				"step":      cerr.Step,
				"retryable": true,
			})
			return
		}
		sentry.CaptureException(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
