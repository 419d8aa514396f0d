package services

import (
	"context"
	"time"

	"github.com/gearbook/gearbook-api/internal/amortization"
	"github.com/gearbook/gearbook-api/internal/maintenance"
	"github.com/gearbook/gearbook-api/internal/models"
	"github.com/gearbook/gearbook-api/internal/repository"
	"github.com/gearbook/gearbook-api/internal/watch"
	"github.com/gearbook/gearbook-api/pkg/logger"
)

// JobService hosts the scheduled background scans. Scans only observe and
// publish; the state they report on is re-derived by readers, so a missed
// run never leaves anything stale.
type JobService struct {
	obligationRepo repository.ObligationRepository
	loanRepo       repository.LoanRepository
	vehicleRepo    repository.VehicleRepository
	hub            *watch.Hub
	thresholds     maintenance.Thresholds
}

func NewJobService(
	obligationRepo repository.ObligationRepository,
	loanRepo repository.LoanRepository,
	vehicleRepo repository.VehicleRepository,
	hub *watch.Hub,
	thresholds maintenance.Thresholds,
) *JobService {
	return &JobService{
		obligationRepo: obligationRepo,
		loanRepo:       loanRepo,
		vehicleRepo:    vehicleRepo,
		hub:            hub,
		thresholds:     thresholds,
	}
}

// ScanOverdueObligations walks every pending obligation and reports the ones
// past their date or odometer trigger. Returns the overdue count.
func (s *JobService) ScanOverdueObligations(ctx context.Context) (int, error) {
	obligations, err := s.obligationRepo.FindPendingAll(ctx)
	if err != nil {
		return 0, NewCollaboratorError("list_obligations", err)
	}

	now := time.Now()
	odometers := map[uint]int64{}
	overdue := 0
	for _, o := range obligations {
		reading, ok := odometers[o.VehicleID]
		if !ok {
			vehicle, err := s.vehicleRepo.FindByID(ctx, o.VehicleID)
			if err != nil {
				logger.Error("Overdue scan skipping obligation, vehicle lookup failed",
					"obligation_id", o.ID, "vehicle_id", o.VehicleID, "error", err)
				continue
			}
			reading = vehicle.Odometer
			odometers[o.VehicleID] = reading
		}
		if maintenance.Classify(o, now, reading, s.thresholds) != maintenance.StateOverdue {
			continue
		}
		overdue++
		logger.Warn("Obligation overdue", "obligation_id", o.ID, "vehicle_id", o.VehicleID, "name", o.Name)
		s.hub.Publish(watch.Event{Collection: watch.CollectionObligations, Op: watch.OpUpdate, RecordID: o.ID, VehicleID: o.VehicleID})
	}

	logger.Info("Overdue obligation scan finished", "pending", len(obligations), "overdue", overdue)
	return overdue, nil
}

// ScanDelinquentLoans resolves every active loan against its payment history
// and reports the delinquent ones. Returns the delinquent count.
func (s *JobService) ScanDelinquentLoans(ctx context.Context) (int, error) {
	loans, err := s.loanRepo.FindActiveAll(ctx)
	if err != nil {
		return 0, NewCollaboratorError("list_loans", err)
	}

	now := time.Now()
	delinquent := 0
	for _, loan := range loans {
		payments, err := s.loanRepo.FindPayments(ctx, loan.ID)
		if err != nil {
			logger.Error("Delinquency scan skipping loan, payment lookup failed",
				"loan_id", loan.ID, "error", err)
			continue
		}
		st := amortization.Resolve(loan, payments, now)
		if !st.IsOverdue || st.Status == models.LoanStatusClosed {
			continue
		}
		delinquent++
		logger.Warn("Loan delinquent",
			"loan_id", loan.ID, "vehicle_id", loan.VehicleID, "lender", loan.Lender,
			"missed", st.ExpectedInstallments-st.InstallmentsPaid, "days_late", st.DaysLate)
		s.hub.Publish(watch.Event{Collection: watch.CollectionLoans, Op: watch.OpUpdate, RecordID: loan.ID, VehicleID: loan.VehicleID})
	}

	logger.Info("Loan delinquency scan finished", "active", len(loans), "delinquent", delinquent)
	return delinquent, nil
}
