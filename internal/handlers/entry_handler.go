package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gearbook/gearbook-api/internal/middleware"
	"github.com/gearbook/gearbook-api/internal/models"
	"github.com/gearbook/gearbook-api/internal/repository"
	"github.com/gearbook/gearbook-api/internal/services"
)

type EntryHandler struct {
	entryService *services.EntryService
}

func NewEntryHandler(entryService *services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// @Summary List Entries
// @Description Get a paginated, filterable page of a vehicle's expense ledger
// @Tags Entries
// @Produce json
// @Param id path int true "Vehicle ID"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param category query string false "Filter by category"
// @Param start_date query string false "Entries on or after (YYYY-MM-DD)"
// @Param end_date query string false "Entries before (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /vehicles/{id}/entries [get]
func (h *EntryHandler) Index(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	vehicleID, ok := paramID(c, "id")
	if !ok {
		return
	}

	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["category"] = c.Query("category")
	query.Filters["start_date"] = c.Query("start_date")
	query.Filters["end_date"] = c.Query("end_date")

	entries, total, err := h.entryService.List(c.Request.Context(), ownerID, vehicleID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, e.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Latest Entry
// @Description Get the most recent entry of a category for a vehicle
// @Tags Entries
// @Produce json
// @Param id path int true "Vehicle ID"
// @Param category query string true "Entry category"
// @Success 200 {object} models.LedgerEntryResponse
// @Security BearerAuth
// @Router /vehicles/{id}/entries/latest [get]
func (h *EntryHandler) Latest(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	vehicleID, ok := paramID(c, "id")
	if !ok {
		return
	}

	entry, err := h.entryService.Latest(c.Request.Context(), ownerID, vehicleID, c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no entries for category"})
		return
	}
	c.JSON(http.StatusOK, entry.ToResponse())
}

// @Summary Create Entry
// @Description Record an ad-hoc expense; optionally posts to the finance ledger
// @Tags Entries
// @Accept json
// @Produce json
// @Param entry body services.CreateEntryInput true "Entry"
// @Success 201 {object} models.LedgerEntryResponse
// @Security BearerAuth
// @Router /entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	var input services.CreateEntryInput
	if err := BindNestedOrFlat(c, "entry", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if key := c.GetHeader("Idempotency-Key"); key != "" {
		input.IdempotencyKey = key
	}

	entry, err := h.entryService.Create(c.Request.Context(), ownerID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry.ToResponse())
}

// @Summary Delete Entry
// @Description Remove a ledger entry; linked finance transactions are not reversed
// @Tags Entries
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /entries/{id} [delete]
func (h *EntryHandler) Destroy(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.entryService.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "entry deleted"})
}
