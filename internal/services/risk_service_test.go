package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearbook/gearbook-api/internal/maintenance"
	"github.com/gearbook/gearbook-api/internal/models"
	"github.com/gearbook/gearbook-api/internal/watch"
)

func newRiskService(vehicle *models.Vehicle, obligationRepo *mockObligationRepository, loanRepo *mockLoanRepository, statsRepo *mockStatsRepository) *RiskService {
	vehicleRepo := &mockVehicleRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Vehicle, error) {
			return vehicle, nil
		},
	}
	vehicleSvc := NewVehicleService(vehicleRepo, obligationRepo, NewAuditService(nil), watch.NewHub())
	return NewRiskService(obligationRepo, loanRepo, statsRepo, vehicleSvc, maintenance.DefaultThresholds, 1.5, 500)
}

func riskCodes(risks []models.Risk) []string {
	codes := make([]string, 0, len(risks))
	for _, r := range risks {
		codes = append(codes, r.Code)
	}
	return codes
}

func TestGetVehicleRisksOrdersBySeverity(t *testing.T) {
	vehicle := ownedVehicle()

	// A year-old loan with no payments is well behind schedule
	loan := activeCarLoan()
	loan.StartDate = time.Now().AddDate(-1, 0, 0)
	loanRepo := &mockLoanRepository{
		mockFindActiveByVehicle: func(ctx context.Context, vehicleID uint) (*models.Loan, error) {
			return loan, nil
		},
	}

	inFiveDays := time.Now().AddDate(0, 0, 5)
	obligationRepo := &mockObligationRepository{
		mockFindByVehicle: func(ctx context.Context, vehicleID uint, status string) ([]models.MaintenanceObligation, error) {
			return []models.MaintenanceObligation{
				{Name: "Insurance Renewal", TriggerKind: models.TriggerKindDate, DueDate: &inFiveDays, Status: models.ObligationStatusPending},
			}, nil
		},
	}

	statsRepo := &mockStatsRepository{
		mockSpendBetween: func(ctx context.Context, vehicleID uint, from, to time.Time) (float64, error) {
			return 3000, nil
		},
		mockHistoricalMonthlyAverage: func(ctx context.Context, vehicleID uint, before time.Time) (float64, error) {
			return 1000, nil
		},
	}

	svc := newRiskService(vehicle, obligationRepo, loanRepo, statsRepo)
	risks, err := svc.GetVehicleRisks(context.Background(), 1, 4)

	require.NoError(t, err)
	assert.Equal(t,
		[]string{"loan_overdue", "insurance_expiring", "rising_costs", "loan_interest", "monthly_cost"},
		riskCodes(risks))

	for i := 1; i < len(risks); i++ {
		assert.LessOrEqual(t, severityRank[risks[i-1].Severity], severityRank[risks[i].Severity],
			"risk %d out of severity order", i)
	}
	assert.Equal(t, models.RiskSeverityCritical, risks[0].Severity)
	assert.Positive(t, risks[0].Amount, "overdue loan risk carries the missed amount")
}

func TestGetVehicleRisksExpiredInsurance(t *testing.T) {
	lastMonth := time.Now().AddDate(0, -1, 0)
	obligationRepo := &mockObligationRepository{
		mockFindByVehicle: func(ctx context.Context, vehicleID uint, status string) ([]models.MaintenanceObligation, error) {
			return []models.MaintenanceObligation{
				{Name: "Insurance Renewal", TriggerKind: models.TriggerKindDate, DueDate: &lastMonth, Status: models.ObligationStatusPending},
			}, nil
		},
	}
	svc := newRiskService(ownedVehicle(), obligationRepo, &mockLoanRepository{}, &mockStatsRepository{})

	risks, err := svc.GetVehicleRisks(context.Background(), 1, 4)

	require.NoError(t, err)
	require.Len(t, risks, 1)
	assert.Equal(t, "insurance_expired", risks[0].Code)
	assert.Equal(t, models.RiskSeverityCritical, risks[0].Severity)
}

func TestGetVehicleRisksOverdueByDistance(t *testing.T) {
	dueOdo := int64(20000)
	obligationRepo := &mockObligationRepository{
		mockFindByVehicle: func(ctx context.Context, vehicleID uint, status string) ([]models.MaintenanceObligation, error) {
			return []models.MaintenanceObligation{
				{Name: "Oil Change", TriggerKind: models.TriggerKindOdometer, DueOdometer: &dueOdo, Status: models.ObligationStatusPending},
			}, nil
		},
	}
	svc := newRiskService(ownedVehicle(), obligationRepo, &mockLoanRepository{}, &mockStatsRepository{})

	risks, err := svc.GetVehicleRisks(context.Background(), 1, 4)

	require.NoError(t, err)
	require.Len(t, risks, 1)
	assert.Equal(t, "maintenance_overdue_km", risks[0].Code)
	assert.Equal(t, models.RiskSeverityWarning, risks[0].Severity)
}

func TestGetVehicleRisksNormalSpendStaysQuiet(t *testing.T) {
	statsRepo := &mockStatsRepository{
		mockSpendBetween: func(ctx context.Context, vehicleID uint, from, to time.Time) (float64, error) {
			return 1200, nil
		},
		mockHistoricalMonthlyAverage: func(ctx context.Context, vehicleID uint, before time.Time) (float64, error) {
			return 1000, nil
		},
	}
	svc := newRiskService(ownedVehicle(), &mockObligationRepository{}, &mockLoanRepository{}, statsRepo)

	risks, err := svc.GetVehicleRisks(context.Background(), 1, 4)

	require.NoError(t, err)
	assert.Equal(t, []string{"monthly_cost"}, riskCodes(risks), "1.2x the average is not a rising-cost alert")
}

func TestGetVehicleRisksQuietVehicle(t *testing.T) {
	svc := newRiskService(ownedVehicle(), &mockObligationRepository{}, &mockLoanRepository{}, &mockStatsRepository{})

	risks, err := svc.GetVehicleRisks(context.Background(), 1, 4)

	require.NoError(t, err)
	assert.Empty(t, risks)
}
