package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gearbook/gearbook-api/internal/middleware"
	"github.com/gearbook/gearbook-api/internal/models"
	"github.com/gearbook/gearbook-api/internal/services"
)

type LoanHandler struct {
	loanService *services.LoanService
}

func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// @Summary List Loans
// @Description Get the loans recorded against a vehicle
// @Tags Loans
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /vehicles/{id}/loans [get]
func (h *LoanHandler) Index(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	vehicleID, ok := paramID(c, "id")
	if !ok {
		return
	}

	loans, err := h.loanService.ListByVehicle(c.Request.Context(), ownerID, vehicleID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.LoanResponse, 0, len(loans))
	for i := range loans {
		responses = append(responses, loans[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"loans": responses})
}

// @Summary Create Loan
// @Description Originate a loan; EMI and totals are derived server-side
// @Tags Loans
// @Accept json
// @Produce json
// @Param loan body services.CreateLoanInput true "Loan"
// @Success 201 {object} models.LoanResponse
// @Security BearerAuth
// @Router /loans [post]
func (h *LoanHandler) Create(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	var input services.CreateLoanInput
	if err := BindNestedOrFlat(c, "loan", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loan, err := h.loanService.Create(c.Request.Context(), ownerID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loan.ToResponse())
}

// @Summary Get Loan
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} models.LoanResponse
// @Security BearerAuth
// @Router /loans/{id} [get]
func (h *LoanHandler) Show(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	loan, err := h.loanService.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loan.ToResponse())
}

// @Summary Loan Status
// @Description Resolve the loan's live position from its payment history
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} amortization.LoanStatus
// @Security BearerAuth
// @Router /loans/{id}/status [get]
func (h *LoanHandler) Status(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	status, err := h.loanService.DetailedStatus(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// @Summary Loan Schedule
// @Description Month-by-month amortization table for the loan
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /loans/{id}/schedule [get]
func (h *LoanHandler) Schedule(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	schedule, err := h.loanService.Schedule(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

// @Summary Record Loan Payment
// @Description Post an EMI, prepayment or penalty and update the balance
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path int true "Loan ID"
// @Param payment body services.RecordPaymentInput true "Payment"
// @Success 201 {object} models.LoanPayment
// @Security BearerAuth
// @Router /loans/{id}/payments [post]
func (h *LoanHandler) RecordPayment(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input services.RecordPaymentInput
	if err := BindNestedOrFlat(c, "payment", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if key := c.GetHeader("Idempotency-Key"); key != "" {
		input.IdempotencyKey = key
	}

	payment, err := h.loanService.RecordPayment(c.Request.Context(), ownerID, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

type simulatePrepaymentInput struct {
	Amount float64 `json:"amount" binding:"required"`
}

// @Summary Simulate Prepayment
// @Description What-if: interest and months saved by paying extra now
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path int true "Loan ID"
// @Param simulation body simulatePrepaymentInput true "Extra amount"
// @Success 200 {object} amortization.PrepaymentResult
// @Security BearerAuth
// @Router /loans/{id}/simulate_prepayment [post]
func (h *LoanHandler) SimulatePrepayment(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input simulatePrepaymentInput
	if err := BindNestedOrFlat(c, "simulation", &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.loanService.SimulatePrepayment(c.Request.Context(), ownerID, id, input.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Delete Loan
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /loans/{id} [delete]
func (h *LoanHandler) Destroy(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.loanService.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "loan deleted"})
}
