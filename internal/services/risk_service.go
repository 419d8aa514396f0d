package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gearbook/gearbook-api/internal/amortization"
	"github.com/gearbook/gearbook-api/internal/maintenance"
	"github.com/gearbook/gearbook-api/internal/models"
	"github.com/gearbook/gearbook-api/internal/repository"
)

// RiskService derives the prioritized alert feed for a vehicle. Risks are
// recomputed from current state on every call and ordered critical first.
type RiskService struct {
	obligationRepo repository.ObligationRepository
	loanRepo       repository.LoanRepository
	statsRepo      repository.StatsRepository
	vehicleSvc     *VehicleService
	thresholds     maintenance.Thresholds
	risingFactor   float64
	risingFloor    float64
}

func NewRiskService(
	obligationRepo repository.ObligationRepository,
	loanRepo repository.LoanRepository,
	statsRepo repository.StatsRepository,
	vehicleSvc *VehicleService,
	thresholds maintenance.Thresholds,
	risingFactor, risingFloor float64,
) *RiskService {
	return &RiskService{
		obligationRepo: obligationRepo,
		loanRepo:       loanRepo,
		statsRepo:      statsRepo,
		vehicleSvc:     vehicleSvc,
		thresholds:     thresholds,
		risingFactor:   risingFactor,
		risingFloor:    risingFloor,
	}
}

var severityRank = map[string]int{
	models.RiskSeverityCritical: 0,
	models.RiskSeverityWarning:  1,
	models.RiskSeverityInfo:     2,
}

// GetVehicleRisks assembles the alert feed for one vehicle
func (s *RiskService) GetVehicleRisks(ctx context.Context, ownerID, vehicleID uint) ([]models.Risk, error) {
	vehicle, err := s.vehicleSvc.Get(ctx, ownerID, vehicleID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	risks := []models.Risk{}

	loanRisks, err := s.loanRisks(ctx, vehicleID, now)
	if err != nil {
		return nil, err
	}
	risks = append(risks, loanRisks...)

	obligationRisks, err := s.obligationRisks(ctx, vehicle, now)
	if err != nil {
		return nil, err
	}
	risks = append(risks, obligationRisks...)

	costRisks, err := s.costRisks(ctx, vehicle, now)
	if err != nil {
		return nil, err
	}
	risks = append(risks, costRisks...)

	sort.SliceStable(risks, func(i, j int) bool {
		return severityRank[risks[i].Severity] < severityRank[risks[j].Severity]
	})
	return risks, nil
}

func (s *RiskService) loanRisks(ctx context.Context, vehicleID uint, now time.Time) ([]models.Risk, error) {
	loan, err := s.loanRepo.FindActiveByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, NewCollaboratorError("find_loan", err)
	}
	if loan == nil {
		return nil, nil
	}
	payments, err := s.loanRepo.FindPayments(ctx, loan.ID)
	if err != nil {
		return nil, NewCollaboratorError("find_payments", err)
	}
	st := amortization.Resolve(*loan, payments, now)

	var risks []models.Risk
	if st.IsOverdue {
		missed := st.ExpectedInstallments - st.InstallmentsPaid
		risks = append(risks, models.Risk{
			Severity: models.RiskSeverityCritical,
			Code:     "loan_overdue",
			Title:    "Loan installment overdue",
			Detail:   fmt.Sprintf("%d installment(s) of %s loan unpaid, %d days late", missed, loan.Lender, st.DaysLate),
			Amount:   float64(missed) * loan.EMI,
		})
	}
	if st.Status != models.LoanStatusClosed {
		risks = append(risks, models.Risk{
			Severity: models.RiskSeverityInfo,
			Code:     "loan_interest",
			Title:    "Interest remaining on loan",
			Detail:   fmt.Sprintf("%s loan has %.2f interest left over the remaining term", loan.Lender, st.RemainingInterest),
			Amount:   st.RemainingInterest,
		})
	}
	return risks, nil
}

const insuranceWarningDays = 15

func (s *RiskService) obligationRisks(ctx context.Context, vehicle *models.Vehicle, now time.Time) ([]models.Risk, error) {
	obligations, err := s.obligationRepo.FindByVehicle(ctx, vehicle.ID, models.ObligationStatusPending)
	if err != nil {
		return nil, NewCollaboratorError("list_obligations", err)
	}

	var risks []models.Risk
	for _, o := range obligations {
		switch o.EntryCategory() {
		case models.EntryCategoryInsurance:
			if o.DueDate == nil {
				continue
			}
			days := int(o.DueDate.Sub(now).Hours() / 24)
			if days < 0 {
				risks = append(risks, models.Risk{
					Severity: models.RiskSeverityCritical,
					Code:     "insurance_expired",
					Title:    "Insurance expired",
					Detail:   fmt.Sprintf("%s lapsed on %s", o.Name, o.DueDate.Format("2006-01-02")),
				})
			} else if days <= insuranceWarningDays {
				risks = append(risks, models.Risk{
					Severity: models.RiskSeverityWarning,
					Code:     "insurance_expiring",
					Title:    "Insurance expiring soon",
					Detail:   fmt.Sprintf("%s expires in %d days", o.Name, days),
				})
			}
		default:
			if o.DueOdometer != nil && vehicle.Odometer > *o.DueOdometer {
				risks = append(risks, models.Risk{
					Severity: models.RiskSeverityWarning,
					Code:     "maintenance_overdue_km",
					Title:    "Maintenance overdue by distance",
					Detail:   fmt.Sprintf("%s was due at %d km, vehicle is at %d km", o.Name, *o.DueOdometer, vehicle.Odometer),
				})
			}
		}
	}
	return risks, nil
}

func (s *RiskService) costRisks(ctx context.Context, vehicle *models.Vehicle, now time.Time) ([]models.Risk, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthSpend, err := s.statsRepo.SpendBetween(ctx, vehicle.ID, monthStart, now)
	if err != nil {
		return nil, NewCollaboratorError("month_spend", err)
	}
	average, err := s.statsRepo.HistoricalMonthlyAverage(ctx, vehicle.ID, monthStart)
	if err != nil {
		return nil, NewCollaboratorError("monthly_average", err)
	}

	var risks []models.Risk
	if average > 0 && monthSpend > average*s.risingFactor && monthSpend > s.risingFloor {
		risks = append(risks, models.Risk{
			Severity: models.RiskSeverityWarning,
			Code:     "rising_costs",
			Title:    "Spending well above normal",
			Detail:   fmt.Sprintf("This month's spend %.2f is %.1fx the monthly average of %.2f", monthSpend, monthSpend/average, average),
			Amount:   monthSpend,
		})
	}
	if monthSpend > 0 {
		risks = append(risks, models.Risk{
			Severity: models.RiskSeverityInfo,
			Code:     "monthly_cost",
			Title:    "Running cost this month",
			Detail:   fmt.Sprintf("%s has cost %.2f so far this month", vehicle.Name, monthSpend),
			Amount:   monthSpend,
		})
	}
	return risks, nil
}
