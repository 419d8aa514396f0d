package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gearbook/gearbook-api/internal/jobs"
	"github.com/gearbook/gearbook-api/internal/services"
)

type JobHandler struct {
	jobService *services.JobService
	worker     *jobs.Worker
}

func NewJobHandler(jobService *services.JobService, worker *jobs.Worker) *JobHandler {
	return &JobHandler{jobService: jobService, worker: worker}
}

// @Summary Worker Stats
// @Description Get background worker statistics
// @Tags Jobs
// @Produce json
// @Success 200 {object} jobs.WorkerStats
// @Security BearerAuth
// @Router /jobs/stats [get]
func (h *JobHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.worker.GetStats())
}

// @Summary Trigger Overdue Scan
// @Description Run the overdue obligation scan now instead of waiting for the schedule
// @Tags Jobs
// @Produce json
// @Success 202 {object} map[string]interface{}
// @Security BearerAuth
// @Router /jobs/scan_obligations [post]
func (h *JobHandler) ScanObligations(c *gin.Context) {
	h.worker.EnqueueAsync(jobs.Task{
		Name: "overdue_obligation_scan",
		Run: func(ctx context.Context) error {
			_, err := h.jobService.ScanOverdueObligations(ctx)
			return err
		},
	})
	c.JSON(http.StatusAccepted, gin.H{"message": "scan enqueued"})
}

// @Summary Trigger Delinquency Scan
// @Description Run the loan delinquency scan now instead of waiting for the schedule
// @Tags Jobs
// @Produce json
// @Success 202 {object} map[string]interface{}
// @Security BearerAuth
// @Router /jobs/scan_loans [post]
func (h *JobHandler) ScanLoans(c *gin.Context) {
	h.worker.EnqueueAsync(jobs.Task{
		Name: "loan_delinquency_scan",
		Run: func(ctx context.Context) error {
			_, err := h.jobService.ScanDelinquentLoans(ctx)
			return err
		},
	})
	c.JSON(http.StatusAccepted, gin.H{"message": "scan enqueued"})
}
