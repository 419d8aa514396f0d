package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gearbook/gearbook-api/internal/middleware"
	"github.com/gearbook/gearbook-api/internal/models"
	"github.com/gearbook/gearbook-api/internal/services"
)

type ObligationHandler struct {
	obligationService *services.ObligationService
}

func NewObligationHandler(obligationService *services.ObligationService) *ObligationHandler {
	return &ObligationHandler{obligationService: obligationService}
}

// @Summary List Obligations
// @Description Get a vehicle's obligations with due-state classification
// @Tags Obligations
// @Produce json
// @Param id path int true "Vehicle ID"
// @Param status query string false "Filter by status (pending, completed)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /vehicles/{id}/obligations [get]
func (h *ObligationHandler) Index(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	vehicleID, ok := paramID(c, "id")
	if !ok {
		return
	}

	obligations, err := h.obligationService.List(c.Request.Context(), ownerID, vehicleID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"obligations": obligations})
}

// @Summary Create Obligation
// @Description Add an owner-defined maintenance obligation
// @Tags Obligations
// @Accept json
// @Produce json
// @Param obligation body models.MaintenanceObligation true "Obligation"
// @Success 201 {object} models.ObligationResponse
// @Security BearerAuth
// @Router /obligations [post]
func (h *ObligationHandler) Create(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	var obligation models.MaintenanceObligation
	if err := BindNestedOrFlat(c, "obligation", &obligation); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.obligationService.Create(c.Request.Context(), ownerID, &obligation); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, obligation.ToResponse(""))
}

// @Summary Get Obligation
// @Tags Obligations
// @Produce json
// @Param id path int true "Obligation ID"
// @Success 200 {object} models.ObligationResponse
// @Security BearerAuth
// @Router /obligations/{id} [get]
func (h *ObligationHandler) Show(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	obligation, err := h.obligationService.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, obligation.ToResponse(""))
}

// @Summary Complete Obligation
// @Description Fulfill an obligation: record cost, bump odometer, schedule the recurrence
// @Tags Obligations
// @Accept json
// @Produce json
// @Param id path int true "Obligation ID"
// @Param completion body services.CompletionDetails true "Completion details"
// @Success 200 {object} services.CompletionResult
// @Security BearerAuth
// @Router /obligations/{id}/complete [post]
func (h *ObligationHandler) Complete(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var details services.CompletionDetails
	if err := BindNestedOrFlat(c, "completion", &details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if key := c.GetHeader("Idempotency-Key"); key != "" {
		details.IdempotencyKey = key
	}

	result, err := h.obligationService.Complete(c.Request.Context(), ownerID, id, details)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Dismiss Obligation
// @Description Delete an obligation without recording anything
// @Tags Obligations
// @Produce json
// @Param id path int true "Obligation ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /obligations/{id} [delete]
func (h *ObligationHandler) Destroy(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.obligationService.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "obligation dismissed"})
}
