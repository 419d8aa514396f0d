package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gearbook/gearbook-api/internal/middleware"
	"github.com/gearbook/gearbook-api/internal/services"
)

type VehicleHandler struct {
	vehicleService *services.VehicleService
}

func NewVehicleHandler(vehicleService *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// @Summary List Vehicles
// @Description Get the owner's vehicles, active one flagged
// @Tags Vehicles
// @Produce json
// @Param include_archived query bool false "Include archived vehicles"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /vehicles [get]
func (h *VehicleHandler) Index(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	includeArchived := c.Query("include_archived") == "true"

	vehicles, err := h.vehicleService.List(c.Request.Context(), ownerID, includeArchived)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

// @Summary Create Vehicle
// @Description Register a vehicle; starter obligations are seeded from the template catalogue
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param vehicle body services.CreateVehicleInput true "Vehicle"
// @Success 201 {object} models.VehicleResponse
// @Security BearerAuth
// @Router /vehicles [post]
func (h *VehicleHandler) Create(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	var input services.CreateVehicleInput
	if err := BindNestedOrFlat(c, "vehicle", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle, err := h.vehicleService.Create(c.Request.Context(), ownerID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	active, _ := h.vehicleService.ActiveVehicleID(c.Request.Context(), ownerID)
	c.JSON(http.StatusCreated, vehicle.ToResponse(active != nil && *active == vehicle.ID))
}

// @Summary Get Vehicle
// @Tags Vehicles
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} models.VehicleResponse
// @Security BearerAuth
// @Router /vehicles/{id} [get]
func (h *VehicleHandler) Show(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	vehicle, err := h.vehicleService.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	active, _ := h.vehicleService.ActiveVehicleID(c.Request.Context(), ownerID)
	c.JSON(http.StatusOK, vehicle.ToResponse(active != nil && *active == vehicle.ID))
}

// @Summary Update Vehicle
// @Description Update vehicle fields; the odometer only moves forward
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param id path int true "Vehicle ID"
// @Param vehicle body services.UpdateVehicleInput true "Fields to update"
// @Success 200 {object} models.VehicleResponse
// @Security BearerAuth
// @Router /vehicles/{id} [put]
func (h *VehicleHandler) Update(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input services.UpdateVehicleInput
	if err := BindNestedOrFlat(c, "vehicle", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle, err := h.vehicleService.Update(c.Request.Context(), ownerID, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	active, _ := h.vehicleService.ActiveVehicleID(c.Request.Context(), ownerID)
	c.JSON(http.StatusOK, vehicle.ToResponse(active != nil && *active == vehicle.ID))
}

// @Summary Activate Vehicle
// @Description Make this the owner's active vehicle
// @Tags Vehicles
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /vehicles/{id}/activate [post]
func (h *VehicleHandler) Activate(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.vehicleService.Activate(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle activated"})
}

// @Summary Archive Vehicle
// @Description Archive a vehicle; its history is kept but it leaves default views
// @Tags Vehicles
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /vehicles/{id}/archive [post]
func (h *VehicleHandler) Archive(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.vehicleService.Archive(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle archived"})
}

// @Summary Delete Vehicle
// @Tags Vehicles
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /vehicles/{id} [delete]
func (h *VehicleHandler) Destroy(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.vehicleService.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}
