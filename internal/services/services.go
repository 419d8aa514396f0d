package services

import (
	"gorm.io/gorm"

	"github.com/gearbook/gearbook-api/internal/config"
	"github.com/gearbook/gearbook-api/internal/finance"
	"github.com/gearbook/gearbook-api/internal/maintenance"
	"github.com/gearbook/gearbook-api/internal/repository"
	"github.com/gearbook/gearbook-api/internal/watch"
)

// Services holds all service instances
type Services struct {
	Audit      *AuditService
	Vehicle    *VehicleService
	Obligation *ObligationService
	Entry      *EntryService
	Loan       *LoanService
	Stats      *StatsService
	Risk       *RiskService
	Job        *JobService
}

// NewServices wires the service layer on top of the repositories, the
// finance ledger writer and the in-process watch hub.
func NewServices(repos *repository.Repositories, db *gorm.DB, cfg *config.Config, hub *watch.Hub) *Services {
	writer := finance.NewLedgerWriter(db)
	thresholds := maintenance.Thresholds{
		DueSoonDays: cfg.DueSoonDays,
		DueSoonKm:   int64(cfg.DueSoonKm),
	}

	audit := NewAuditService(db)
	vehicle := NewVehicleService(repos.Vehicle, repos.Obligation, audit, hub)
	obligation := NewObligationService(repos.Obligation, repos.Entry, vehicle, writer, audit, hub, thresholds)
	entry := NewEntryService(repos.Entry, vehicle, writer, audit, hub)
	loan := NewLoanService(repos.Loan, repos.Entry, vehicle, writer, audit, hub)
	stats := NewStatsService(repos.Stats, repos.Obligation, vehicle, thresholds)
	risk := NewRiskService(repos.Obligation, repos.Loan, repos.Stats, vehicle, thresholds, cfg.RisingCostFactor, cfg.RisingCostFloor)
	job := NewJobService(repos.Obligation, repos.Loan, repos.Vehicle, hub, thresholds)

	return &Services{
		Audit:      audit,
		Vehicle:    vehicle,
		Obligation: obligation,
		Entry:      entry,
		Loan:       loan,
		Stats:      stats,
		Risk:       risk,
		Job:        job,
	}
}
