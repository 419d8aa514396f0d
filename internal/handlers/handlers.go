package handlers

import (
	"github.com/gearbook/gearbook-api/internal/jobs"
	"github.com/gearbook/gearbook-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health     *HealthHandler
	Vehicle    *VehicleHandler
	Obligation *ObligationHandler
	Entry      *EntryHandler
	Loan       *LoanHandler
	Stats      *StatsHandler
	Audit      *AuditHandler
	Job        *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, worker *jobs.Worker) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(),
		Vehicle:    NewVehicleHandler(svcs.Vehicle),
		Obligation: NewObligationHandler(svcs.Obligation),
		Entry:      NewEntryHandler(svcs.Entry),
		Loan:       NewLoanHandler(svcs.Loan),
		Stats:      NewStatsHandler(svcs.Stats, svcs.Risk),
		Audit:      NewAuditHandler(svcs.Audit),
		Job:        NewJobHandler(svcs.Job, worker),
	}
}
