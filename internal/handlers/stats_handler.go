package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gearbook/gearbook-api/internal/middleware"
	"github.com/gearbook/gearbook-api/internal/services"
)

type StatsHandler struct {
	statsService *services.StatsService
	riskService  *services.RiskService
}

func NewStatsHandler(statsService *services.StatsService, riskService *services.RiskService) *StatsHandler {
	return &StatsHandler{statsService: statsService, riskService: riskService}
}

// @Summary Vehicle Stats
// @Description Ownership-cost summary: totals, trend, breakdown, health score
// @Tags Stats
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} models.VehicleStats
// @Security BearerAuth
// @Router /vehicles/{id}/stats [get]
func (h *StatsHandler) Stats(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	vehicleID, ok := paramID(c, "id")
	if !ok {
		return
	}

	stats, err := h.statsService.GetVehicleStats(c.Request.Context(), ownerID, vehicleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Vehicle Risks
// @Description Prioritized alert feed, critical first
// @Tags Stats
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /vehicles/{id}/risks [get]
func (h *StatsHandler) Risks(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	vehicleID, ok := paramID(c, "id")
	if !ok {
		return
	}

	risks, err := h.riskService.GetVehicleRisks(c.Request.Context(), ownerID, vehicleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"risks": risks})
}
